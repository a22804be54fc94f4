package htmlrender

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// inlineElements do not get newlines in pretty output.
var inlineElements = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdi": true, "bdo": true,
	"br": true, "cite": true, "code": true, "data": true, "dfn": true,
	"em": true, "i": true, "kbd": true, "mark": true, "q": true,
	"rb": true, "rp": true, "rt": true, "rtc": true, "ruby": true,
	"s": true, "samp": true, "small": true, "span": true, "strong": true,
	"sub": true, "sup": true, "time": true, "u": true, "var": true,
	"wbr": true, "label": true, "button": true,
}

// booleanAttrs render as a bare name when true.
var booleanAttrs = map[string]bool{
	"allowfullscreen": true, "async": true, "autofocus": true,
	"autoplay": true, "checked": true, "controls": true, "default": true,
	"defer": true, "disabled": true, "formnovalidate": true, "hidden": true,
	"ismap": true, "loop": true, "multiple": true, "muted": true,
	"novalidate": true, "open": true, "readonly": true, "required": true,
	"reversed": true, "selected": true,
}

// frameworkProps are component properties with no HTML attribute.
var frameworkProps = map[string]bool{
	"children":           true,
	"key":                true,
	"n_clicks":           true,
	"n_clicks_timestamp": true,
	"disable_n_clicks":   true,
	"loading_state":      true,
	"persistence":        true,
	"persisted_props":    true,
	"persistence_type":   true,
}

// attrNames maps property names whose attribute is not the lower-cased
// property name.
var attrNames = map[string]string{
	"className":     "class",
	"class_name":    "class",
	"htmlFor":       "for",
	"httpEquiv":     "http-equiv",
	"acceptCharset": "accept-charset",
}
