// Package htmlrender renders component trees back to HTML.
//
// It is the inverse of the template translator for the built-in HTML
// catalog: a Div renders as <div>, className as class, htmlFor as for, and
// a style mapping as an inline kebab-case declaration list. Components
// outside the HTML catalog (dropdowns, graphs, ...) render as placeholder
// <div> elements carrying their type and props as data attributes.
//
// # Basic Usage
//
//	r := htmlrender.New(htmlrender.Config{Pretty: true})
//	out, err := r.RenderToString(layout)
//
// # Full Page Rendering
//
//	err := r.RenderPage(w, htmlrender.PageData{
//	    Title:   "Dashboard",
//	    Body:    layout,
//	    Scripts: []template.HTML{reload.ClientScript("/_reload")},
//	})
//
// # Security
//
// All text and attribute values are escaped. Scripts given in PageData are
// written verbatim and must be trusted.
package htmlrender
