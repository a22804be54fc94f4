// Package decode rebuilds live components from serialized component
// records, the JSON payload of a <plotly> block.
package decode

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dashtmpl/dashtmpl/internal/errors"
	"github.com/dashtmpl/dashtmpl/internal/validation"
	"github.com/dashtmpl/dashtmpl/pkg/component"
	"github.com/dashtmpl/dashtmpl/pkg/registry"
)

// Record is a serialized component: {"namespace", "type", "props"}.
type Record struct {
	Namespace string                     `json:"namespace" validate:"required"`
	Type      string                     `json:"type" validate:"required"`
	Props     map[string]json.RawMessage `json:"props"`
}

// Decode parses data as a Record and decodes it.
func Decode(reg *registry.Registry, data []byte) (*component.Component, error) {
	var rec Record
	if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
		return nil, errors.New(errors.CodeInvalidRecord).
			WithDetail(err.Error()).
			Wrap(err)
	}
	return DecodeRecord(reg, rec)
}

// DecodeRecord resolves the record's type through reg and constructs it.
//
// Props are passed verbatim except style, which keeps its key order, and
// children: a record becomes a one-element list, list items that are
// records are decoded recursively, strings and numbers are kept.
func DecodeRecord(reg *registry.Registry, rec Record) (*component.Component, error) {
	if err := validation.Struct(rec); err != nil {
		return nil, errors.New(errors.CodeInvalidRecord).
			WithDetail(err.Error()).
			Wrap(err)
	}

	desc, err := reg.Resolve(rec.Namespace, rec.Type)
	if err != nil {
		return nil, err
	}

	props := make(component.Props, len(rec.Props))
	for name, raw := range rec.Props {
		var (
			value any
			err   error
		)
		switch name {
		case "children":
			value, err = decodeChildren(reg, raw)
		case "style":
			value, err = decodeStyle(raw)
		default:
			err = json.Unmarshal(raw, &value)
		}
		if err != nil {
			return nil, wrapProp(rec, name, err)
		}
		props[name] = value
	}

	c, err := desc.New(props)
	if err != nil {
		return nil, errors.New(errors.CodeInvalidRecord).
			WithMessage(fmt.Sprintf("Invalid serialized component %s.%s", rec.Namespace, rec.Type)).
			WithDetail(err.Error()).
			Wrap(err)
	}
	return c, nil
}

func wrapProp(rec Record, name string, err error) error {
	if errors.Code(err) != "" {
		return err
	}
	return errors.New(errors.CodeInvalidRecord).
		WithDetail(fmt.Sprintf("%s.%s: property %q: %v", rec.Namespace, rec.Type, name, err)).
		Wrap(err)
}

func decodeStyle(raw json.RawMessage) (any, error) {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return nil, nil
	}
	if raw[0] != '{' {
		var v any
		err := json.Unmarshal(raw, &v)
		return v, err
	}
	s := component.NewStyle()
	if err := s.UnmarshalJSON(raw); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeChildren(reg *registry.Registry, raw json.RawMessage) (any, error) {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return nil, nil
	}
	switch raw[0] {
	case '{':
		child, err := Decode(reg, raw)
		if err != nil {
			return nil, err
		}
		return []any{child}, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		out := make([]any, 0, len(items))
		for _, item := range items {
			item = bytes.TrimSpace(item)
			if isNull(item) {
				continue
			}
			if item[0] == '{' {
				child, err := Decode(reg, item)
				if err != nil {
					return nil, err
				}
				out = append(out, child)
				continue
			}
			var v any
			if err := json.Unmarshal(item, &v); err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		var v any
		err := json.Unmarshal(raw, &v)
		return v, err
	}
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
