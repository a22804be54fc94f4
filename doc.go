// Package dashtmpl renders HTML templates into dashboard component trees.
//
// A template is an html/template file whose markup uses ordinary HTML tags.
// After the template engine substitutes the context, the markup is parsed
// and every tag is resolved to a typed component: <div class="card"> becomes
// an html.Div with className "card", an inline style string becomes an
// ordered style mapping, and so on.
//
// Components built in code can be passed in the context and embedded with
// the plotly filter:
//
//	{{ .graph | plotly }}
//
// The filter serializes the component into a <plotly> block which the
// parser decodes back into an equal component.
//
// # Usage
//
//	a := app.New(app.WithLoader(os.DirFS("templates")))
//	r, err := dashtmpl.New(a)
//	if err != nil {
//	    return err
//	}
//	layout, diags, err := r.Render(ctx, dashtmpl.Context{"graph": graph}, "layout.html")
//
// Diagnostics lists non-fatal problems (extra root tags, skipped script or
// style blocks). They are also logged at Warn level.
package dashtmpl
