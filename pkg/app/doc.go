// Package app is the host dashboard application handle.
//
// An App owns the current layout (the root component tree), the template
// Environment templates are loaded from, and the ambient services a render
// call reports to: a logger, Prometheus metrics, an OpenTelemetry tracer and
// the live reload hub used by the preview server.
//
// Templates are loaded through an fs.FS, either a directory, an embedded
// filesystem or an S3 bucket (see S3Loader):
//
//	a := app.New(
//	    app.WithName("sales"),
//	    app.WithLoader(os.DirFS("templates")),
//	)
//	http.ListenAndServe(":8050", a.Handler())
//
// The preview server exposes:
//
//	GET /               layout rendered as static HTML
//	GET /_dash-layout   layout as component JSON
//	GET /_reload        live reload websocket
//	GET /metrics        Prometheus metrics
package app
