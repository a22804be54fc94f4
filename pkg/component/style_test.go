package component

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStyle_Order(t *testing.T) {
	s := NewStyle()
	s.Set("marginBottom", "50px")
	s.Set("marginTop", "25px")
	s.Set("marginBottom", "10px")

	if diff := cmp.Diff([]string{"marginBottom", "marginTop"}, s.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if v, _ := s.Get("marginBottom"); v != "10px" {
		t.Errorf("marginBottom = %v, want 10px", v)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d", s.Len())
	}
}

func TestStyle_ZeroValue(t *testing.T) {
	var s Style
	s.Set("color", "blue")
	if v, ok := s.Get("color"); !ok || v != "blue" {
		t.Errorf("Get(color) = %v, %v", v, ok)
	}

	var nilStyle *Style
	if nilStyle.Len() != 0 || nilStyle.Keys() != nil {
		t.Error("nil style should be empty")
	}
}

func TestStyle_JSONRoundTrip(t *testing.T) {
	in := `{"fontSize":"14px","color":"blue","zIndex":3}`

	var s Style
	if err := json.Unmarshal([]byte(in), &s); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"fontSize", "color", "zIndex"}, s.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if v, _ := s.Get("zIndex"); v != float64(3) {
		t.Errorf("zIndex = %v (%T)", v, v)
	}

	out, err := json.Marshal(&s)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != in {
		t.Errorf("MarshalJSON() = %s, want %s", out, in)
	}
}

func TestStyle_UnmarshalRejectsNonObject(t *testing.T) {
	var s Style
	if err := json.Unmarshal([]byte(`["a"]`), &s); err == nil {
		t.Error("expected error for array input")
	}
}

func TestStyleFromMap(t *testing.T) {
	s := StyleFromMap(map[string]any{"b": 1, "a": 2})
	if diff := cmp.Diff([]string{"a", "b"}, s.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"a": 2, "b": 1}, s.Map()); diff != "" {
		t.Errorf("Map() mismatch (-want +got):\n%s", diff)
	}
}
