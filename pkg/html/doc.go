// Package html is the catalog of built-in HTML element components.
//
// Every element type (Div, P, A, Button, ...) is a component.Descriptor in
// the "dash_html_components" namespace. All of them declare children, the
// global HTML properties under their camel-cased names (className, tabIndex,
// accessKey, ...), the click-tracking properties and accept any data-* or
// aria-* property.
//
// Descriptors are plain constructors and can be used to build layouts in
// code:
//
//	layout := html.Div.MustNew(component.Props{
//	    "className": "row",
//	    "children":  []any{html.H1.MustNew(component.Props{"children": "Title"})},
//	})
package html
