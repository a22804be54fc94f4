// Package config loads dashtmpl.yaml project configuration.
//
// # Configuration File Structure
//
//	name: sales
//	layout: layout.html
//	context: context.yaml
//	templates:
//	  dir: templates
//	  partials: "partials/*.html"
//	s3:
//	  bucket: dashboards
//	  prefix: sales/templates
//	  region: eu-central-1
//	server:
//	  host: localhost
//	  port: 8050
//	  watch: true
//	aliases:
//	  dash_html_components: dash.html
//	log:
//	  level: info
//
// When s3 is set, templates are loaded from the bucket instead of
// templates.dir.
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Address:", cfg.Address())
package config
