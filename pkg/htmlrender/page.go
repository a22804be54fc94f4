package htmlrender

import (
	"fmt"
	"html/template"
	"io"

	nethtml "golang.org/x/net/html"

	"github.com/dashtmpl/dashtmpl/pkg/component"
)

// PageData contains everything needed to render a preview page.
type PageData struct {
	// Body is the root component of the page.
	Body *component.Component

	// Title is the page title.
	Title string

	// Lang is the html lang attribute. Defaults to "en".
	Lang string

	// StyleSheets are paths to external stylesheets.
	StyleSheets []string

	// Scripts are trusted snippets written at the end of the body.
	Scripts []template.HTML
}

// RenderPage renders a complete HTML document.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "<html lang=\"%s\">\n<head>\n", escapeAttr(lang)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "  <meta charset=\"utf-8\">\n"+
		"  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n"); err != nil {
		return err
	}
	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", nethtml.EscapeString(page.Title)); err != nil {
			return err
		}
	}
	for _, href := range page.StyleSheets {
		if _, err := fmt.Fprintf(w, "  <link rel=\"stylesheet\" href=\"%s\">\n", escapeAttr(href)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "</head>\n<body>\n"); err != nil {
		return err
	}

	if err := r.RenderToWriter(w, page.Body); err != nil {
		return err
	}
	if !r.config.Pretty && page.Body != nil {
		io.WriteString(w, "\n")
	}

	for _, script := range page.Scripts {
		if _, err := io.WriteString(w, string(script)+"\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}
