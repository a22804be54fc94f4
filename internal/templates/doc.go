// Package templates provides project scaffolding for dashtmpl.
//
// # Available Templates
//
//   - minimal: a config file and one layout template
//   - full: layout with partials, a context file and an embedded graph
//
// # Usage
//
//	tmpl, err := templates.Get("full")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := tmpl.Create(projectDir, templates.Config{ProjectName: "sales"}); err != nil {
//	    log.Fatal(err)
//	}
//
// # Template Variables
//
// Scaffold files use [[ ]] delimiters so the generated html/template files
// can keep their own {{ }} actions:
//
//	[[.ProjectName]]   - Name of the project
//	[[.Description]]   - Project description
//	[[.Port]]          - Preview server port
package templates
