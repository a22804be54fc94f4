package parser

import (
	"fmt"
	"strings"

	"github.com/dashtmpl/dashtmpl/internal/errors"
)

// Diagnostic is a recoverable issue found while translating a template.
type Diagnostic struct {
	Code    string // W200, W201
	Message string
	Node    string // node kind or tag the diagnostic is about
}

func (d Diagnostic) String() string {
	if d.Node == "" {
		return fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", d.Code, d.Message, d.Node)
}

// Diagnostics is the ordered list of diagnostics of one parse.
type Diagnostics []Diagnostic

// Codes returns the code of each diagnostic, in order.
func (ds Diagnostics) Codes() []string {
	codes := make([]string, len(ds))
	for i, d := range ds {
		codes[i] = d.Code
	}
	return codes
}

// Has reports whether a diagnostic with code is present.
func (ds Diagnostics) Has(code string) bool {
	for _, d := range ds {
		if d.Code == code {
			return true
		}
	}
	return false
}

func (ds Diagnostics) String() string {
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

func newDiagnostic(code, node string) Diagnostic {
	msg := ""
	if tmpl, ok := errors.GetTemplate(code); ok {
		msg = tmpl.Message
	}
	if code == errors.CodeUnsupportedNodeKind && node != "" {
		msg = fmt.Sprintf("Node type %s is not supported in templates yet. Node will be skipped.", node)
	}
	return Diagnostic{Code: code, Message: msg, Node: node}
}
