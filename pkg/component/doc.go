// Package component is the dashboard's native component model.
//
// A Descriptor is the constructor for one component type: it knows the
// namespace the type belongs to, its type name and the properties it
// declares. A Component is a live instance built by a Descriptor, holding
// typed props and, for types that declare them, ordered children.
//
// Instances serialize to the framework's wire shape:
//
//	{"props": {...}, "type": "Div", "namespace": "dash_html_components"}
//
// where children that are themselves components nest recursively.
package component
