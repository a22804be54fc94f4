// Package dcc is the catalog of core interactive components (dropdowns,
// graphs, inputs, ...).
//
// These components have no HTML tag of their own. They reach a template
// through the plotly filter as serialized records and are rebuilt by the
// decoder.
package dcc

import "github.com/dashtmpl/dashtmpl/pkg/component"

// Namespace is the namespace written into serialized core components.
const Namespace = "dash_core_components"

// Module is the registry module key the catalog is registered under.
const Module = "dash.dcc"

func prop(name string, kind component.PropKind) component.Prop {
	return component.Prop{Name: name, Kind: kind}
}

var common = []component.Prop{
	prop("id", component.KindAny),
	prop("className", component.KindString),
	prop("style", component.KindStyle),
	prop("loading_state", component.KindObject),
	prop("persistence", component.KindAny),
	prop("persisted_props", component.KindList),
	prop("persistence_type", component.KindString),
}

func define(typeName string, props ...component.Prop) *component.Descriptor {
	all := make([]component.Prop, 0, len(common)+len(props))
	all = append(all, props...)
	all = append(all, common...)
	return component.NewDescriptor(Namespace, typeName, all)
}

var (
	Dropdown = define("Dropdown",
		prop("options", component.KindAny),
		prop("value", component.KindAny),
		prop("multi", component.KindBool),
		prop("clearable", component.KindBool),
		prop("searchable", component.KindBool),
		prop("search_value", component.KindString),
		prop("placeholder", component.KindString),
		prop("disabled", component.KindBool),
		prop("optionHeight", component.KindNumber),
		prop("maxHeight", component.KindNumber),
	)

	Graph = define("Graph",
		prop("figure", component.KindObject),
		prop("config", component.KindObject),
		prop("responsive", component.KindAny),
		prop("animate", component.KindBool),
		prop("clickData", component.KindAny),
		prop("hoverData", component.KindAny),
		prop("selectedData", component.KindAny),
		prop("relayoutData", component.KindAny),
	)

	Input = define("Input",
		prop("value", component.KindAny),
		prop("type", component.KindString),
		prop("debounce", component.KindAny),
		prop("placeholder", component.KindAny),
		prop("disabled", component.KindBool),
		prop("min", component.KindNumber),
		prop("max", component.KindNumber),
		prop("step", component.KindNumber),
		prop("n_submit", component.KindNumber),
		prop("n_blur", component.KindNumber),
	)

	Slider = define("Slider",
		prop("min", component.KindNumber),
		prop("max", component.KindNumber),
		prop("step", component.KindNumber),
		prop("value", component.KindNumber),
		prop("marks", component.KindAny),
		prop("vertical", component.KindBool),
		prop("disabled", component.KindBool),
		prop("tooltip", component.KindObject),
	)

	Checklist = define("Checklist",
		prop("options", component.KindAny),
		prop("value", component.KindList),
		prop("inline", component.KindBool),
		prop("inputClassName", component.KindString),
		prop("labelClassName", component.KindString),
	)

	Markdown = define("Markdown",
		prop("children", component.KindNode),
		prop("dangerously_allow_html", component.KindBool),
		prop("link_target", component.KindString),
		prop("mathjax", component.KindBool),
		prop("highlight_config", component.KindObject),
	)

	Store = define("Store",
		prop("data", component.KindAny),
		prop("storage_type", component.KindString),
		prop("clear_data", component.KindBool),
		prop("modified_timestamp", component.KindNumber),
	)

	Interval = define("Interval",
		prop("interval", component.KindNumber),
		prop("disabled", component.KindBool),
		prop("n_intervals", component.KindNumber),
		prop("max_intervals", component.KindNumber),
	)

	Loading = define("Loading",
		prop("children", component.KindNode),
		prop("type", component.KindString),
		prop("color", component.KindString),
		prop("fullscreen", component.KindBool),
		prop("delay_show", component.KindNumber),
	)
)

// Descriptors returns every descriptor of the catalog.
func Descriptors() []*component.Descriptor {
	return []*component.Descriptor{
		Dropdown, Graph, Input, Slider, Checklist, Markdown, Store, Interval, Loading,
	}
}
