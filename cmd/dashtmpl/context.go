package main

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dashtmpl/dashtmpl"
	"github.com/dashtmpl/dashtmpl/internal/errors"
	"github.com/dashtmpl/dashtmpl/pkg/decode"
	"github.com/dashtmpl/dashtmpl/pkg/registry"
)

// loadContext reads a YAML mapping of template data. Top-level values
// shaped like serialized components ({namespace, type, props}) are decoded
// into components so templates can pipe them through plotly.
func loadContext(path string, reg *registry.Registry) (dashtmpl.Context, error) {
	data := dashtmpl.Context{}
	if path == "" {
		return data, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read context: %w", err)
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, errors.New(errors.CodeConfigInvalid).
			WithMessage("Invalid context file").
			WithDetail(err.Error()).
			WithLocation(path, 0, 0).
			Wrap(err)
	}

	for key, value := range data {
		m, ok := value.(map[string]any)
		if !ok || !isRecord(m) {
			continue
		}
		encoded, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("context %q: %w", key, err)
		}
		c, err := decode.Decode(reg, encoded)
		if err != nil {
			return nil, err
		}
		data[key] = c
	}
	return data, nil
}

func isRecord(m map[string]any) bool {
	_, hasNS := m["namespace"].(string)
	_, hasType := m["type"].(string)
	return hasNS && hasType
}
