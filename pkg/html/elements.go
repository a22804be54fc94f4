package html

import "github.com/dashtmpl/dashtmpl/pkg/component"

// Namespace is the namespace written into serialized HTML components.
const Namespace = "dash_html_components"

// Module is the registry module key the catalog is registered under.
const Module = "dash.html"

// globalProps are declared by every element, in this order.
var globalProps = []string{
	"children", "id", "n_clicks", "n_clicks_timestamp", "disable_n_clicks",
	"key", "accessKey", "className", "contentEditable", "contextMenu", "dir",
	"draggable", "hidden", "lang", "role", "spellCheck", "style", "tabIndex",
	"title", "loading_state",
}

// kinds overrides the default KindString of a property name.
var kinds = map[string]component.PropKind{
	"children":           component.KindNode,
	"id":                 component.KindAny,
	"n_clicks":           component.KindNumber,
	"n_clicks_timestamp": component.KindNumber,
	"disable_n_clicks":   component.KindBool,
	"contentEditable":    component.KindBool,
	"draggable":          component.KindBool,
	"hidden":             component.KindBool,
	"spellCheck":         component.KindBool,
	"style":              component.KindStyle,
	"tabIndex":           component.KindNumber,
	"loading_state":      component.KindObject,

	"async":          component.KindBool,
	"autoFocus":      component.KindBool,
	"autoPlay":       component.KindBool,
	"checked":        component.KindBool,
	"controls":       component.KindBool,
	"default":        component.KindBool,
	"defer":          component.KindBool,
	"disabled":       component.KindBool,
	"formNoValidate": component.KindBool,
	"loop":           component.KindBool,
	"multiple":       component.KindBool,
	"muted":          component.KindBool,
	"noValidate":     component.KindBool,
	"open":           component.KindBool,
	"readOnly":       component.KindBool,
	"required":       component.KindBool,
	"reversed":       component.KindBool,
	"selected":       component.KindBool,

	"cols":      component.KindNumber,
	"colSpan":   component.KindNumber,
	"height":    component.KindNumber,
	"high":      component.KindNumber,
	"low":       component.KindNumber,
	"max":       component.KindNumber,
	"maxLength": component.KindNumber,
	"min":       component.KindNumber,
	"minLength": component.KindNumber,
	"optimum":   component.KindNumber,
	"rows":      component.KindNumber,
	"rowSpan":   component.KindNumber,
	"size":      component.KindNumber,
	"span":      component.KindNumber,
	"start":     component.KindNumber,
	"width":     component.KindNumber,
}

// element builds the descriptor of an HTML element with the global
// properties followed by the element's own.
func element(typeName string, extra ...string) *component.Descriptor {
	names := make([]string, 0, len(globalProps)+len(extra))
	names = append(names, globalProps...)
	names = append(names, extra...)

	props := make([]component.Prop, len(names))
	for i, name := range names {
		kind, ok := kinds[name]
		if !ok {
			kind = component.KindString
		}
		props[i] = component.Prop{Name: name, Kind: kind}
	}
	return component.NewDescriptor(Namespace, typeName, props,
		component.WithWildcards("data-", "aria-"))
}

var (
	A          = element("A", "download", "href", "hrefLang", "media", "referrerPolicy", "rel", "shape", "target")
	Abbr       = element("Abbr")
	Address    = element("Address")
	Area       = element("Area", "alt", "coords", "download", "href", "media", "referrerPolicy", "rel", "shape", "target")
	Article    = element("Article")
	Aside      = element("Aside")
	Audio      = element("Audio", "autoPlay", "controls", "crossOrigin", "loop", "muted", "preload", "src")
	B          = element("B")
	Bdi        = element("Bdi")
	Bdo        = element("Bdo")
	Blockquote = element("Blockquote", "cite")
	Br         = element("Br")
	Button     = element("Button", "autoFocus", "disabled", "form", "formAction", "formEncType", "formMethod", "formNoValidate", "formTarget", "name", "type", "value")
	Canvas     = element("Canvas", "height", "width")
	Caption    = element("Caption")
	Cite       = element("Cite")
	Code       = element("Code")
	Col        = element("Col", "span", "width")
	Colgroup   = element("Colgroup", "span")
	Data       = element("Data", "value")
	Datalist   = element("Datalist")
	Dd         = element("Dd")
	Del        = element("Del", "cite", "dateTime")
	Details    = element("Details", "open")
	Dfn        = element("Dfn")
	Dialog     = element("Dialog", "open")
	Div        = element("Div")
	Dl         = element("Dl")
	Dt         = element("Dt")
	Em         = element("Em")
	Embed      = element("Embed", "height", "src", "type", "width")
	Fieldset   = element("Fieldset", "disabled", "form", "name")
	Figcaption = element("Figcaption")
	Figure     = element("Figure")
	Footer     = element("Footer")
	Form       = element("Form", "accept", "acceptCharset", "action", "autoComplete", "encType", "method", "name", "noValidate", "target")
	H1         = element("H1")
	H2         = element("H2")
	H3         = element("H3")
	H4         = element("H4")
	H5         = element("H5")
	H6         = element("H6")
	Header     = element("Header")
	Hgroup     = element("Hgroup")
	Hr         = element("Hr")
	I          = element("I")
	Iframe     = element("Iframe", "allow", "height", "name", "referrerPolicy", "sandbox", "src", "srcDoc", "width")
	Img        = element("Img", "alt", "crossOrigin", "height", "referrerPolicy", "sizes", "src", "srcSet", "useMap", "width")
	Ins        = element("Ins", "cite", "dateTime")
	Kbd        = element("Kbd")
	Label      = element("Label", "form", "htmlFor")
	Legend     = element("Legend")
	Li         = element("Li", "value")
	Main       = element("Main")
	Mark       = element("Mark")
	Meter      = element("Meter", "form", "high", "low", "max", "min", "optimum", "value")
	Nav        = element("Nav")
	Ol         = element("Ol", "reversed", "start", "type")
	Optgroup   = element("Optgroup", "disabled", "label")
	Option     = element("Option", "disabled", "label", "selected", "value")
	Output     = element("Output", "form", "htmlFor", "name")
	P          = element("P")
	Picture    = element("Picture")
	Pre        = element("Pre")
	Progress   = element("Progress", "form", "max", "value")
	Q          = element("Q", "cite")
	Rp         = element("Rp")
	Rt         = element("Rt")
	Ruby       = element("Ruby")
	S          = element("S")
	Samp       = element("Samp")
	Section    = element("Section")
	Select     = element("Select", "autoComplete", "autoFocus", "disabled", "form", "multiple", "name", "required", "size")
	Small      = element("Small")
	Source     = element("Source", "media", "sizes", "src", "srcSet", "type")
	Span       = element("Span")
	Strong     = element("Strong")
	Sub        = element("Sub")
	Summary    = element("Summary")
	Sup        = element("Sup")
	Table      = element("Table")
	Tbody      = element("Tbody")
	Td         = element("Td", "colSpan", "headers", "rowSpan")
	Textarea   = element("Textarea", "autoComplete", "autoFocus", "cols", "disabled", "form", "inputMode", "maxLength", "minLength", "name", "placeholder", "readOnly", "required", "rows", "wrap")
	Tfoot      = element("Tfoot")
	Th         = element("Th", "colSpan", "headers", "rowSpan", "scope")
	Thead      = element("Thead")
	Time       = element("Time", "dateTime")
	Tr         = element("Tr")
	Track      = element("Track", "default", "kind", "label", "src", "srcLang")
	U          = element("U")
	Ul         = element("Ul")
	Var        = element("Var")
	Video      = element("Video", "autoPlay", "controls", "crossOrigin", "height", "loop", "muted", "poster", "preload", "src", "width")
	Wbr        = element("Wbr")
)

// Descriptors returns every element descriptor of the catalog.
func Descriptors() []*component.Descriptor {
	return []*component.Descriptor{
		A, Abbr, Address, Area, Article, Aside, Audio, B, Bdi, Bdo,
		Blockquote, Br, Button, Canvas, Caption, Cite, Code, Col, Colgroup,
		Data, Datalist, Dd, Del, Details, Dfn, Dialog, Div, Dl, Dt, Em,
		Embed, Fieldset, Figcaption, Figure, Footer, Form, H1, H2, H3, H4,
		H5, H6, Header, Hgroup, Hr, I, Iframe, Img, Ins, Kbd, Label, Legend,
		Li, Main, Mark, Meter, Nav, Ol, Optgroup, Option, Output, P, Picture,
		Pre, Progress, Q, Rp, Rt, Ruby, S, Samp, Section, Select, Small,
		Source, Span, Strong, Sub, Summary, Sup, Table, Tbody, Td, Textarea,
		Tfoot, Th, Thead, Time, Tr, Track, U, Ul, Var, Video, Wbr,
	}
}
