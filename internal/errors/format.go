package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	warnLabel  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	headline   = lipgloss.NewStyle().Bold(true)
	locStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var plain atomic.Bool

// DisableColors turns off terminal styling in Format and PrintError.
func DisableColors() { plain.Store(true) }

// EnableColors turns terminal styling back on.
func EnableColors() { plain.Store(false) }

func paint(s lipgloss.Style, text string) string {
	if plain.Load() {
		return text
	}
	return s.Render(text)
}

// Format returns the error laid out for a terminal:
//
//	ERROR E101: No corresponding dash component found for html tag "blink".
//
//	  layout.html:3:1
//
//	  Hint: Register the component type or fix the tag name
func (e *Error) Format() string {
	var b strings.Builder

	label := paint(errorLabel, "ERROR")
	if e.Category == CategoryWarning {
		label = paint(warnLabel, "WARNING")
	}
	head := ":"
	if e.Code != "" {
		head = " " + e.Code + ":"
	}

	// Construction failures carry the offending tag on following lines.
	first, rest, _ := strings.Cut(e.Message, "\n")
	fmt.Fprintf(&b, "\n%s%s %s\n", label, paint(headline, head), paint(headline, first))
	if rest != "" {
		for _, line := range strings.Split(rest, "\n") {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}
	b.WriteString("\n")

	if e.Location != nil {
		fmt.Fprintf(&b, "  %s\n\n", paint(locStyle, e.Location.String()))
	}
	if e.Detail != "" {
		for _, line := range wrapText(e.Detail, 70) {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteString("\n")
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  %s%s\n\n", paint(dimStyle, "Cause: "), e.Wrapped.Error())
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s%s\n\n", paint(locStyle, "Hint: "), e.Suggestion)
	}
	return b.String()
}

// FormatCompact returns "file:line:col: CODE: message" on one line.
func (e *Error) FormatCompact() string {
	parts := make([]string, 0, 3)
	if e.Location != nil {
		parts = append(parts, e.Location.String())
	}
	if e.Code != "" {
		parts = append(parts, e.Code)
	}
	parts = append(parts, strings.ReplaceAll(e.Message, "\n", " "))
	return strings.Join(parts, ": ")
}

type jsonLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

type jsonError struct {
	Code       string        `json:"code,omitempty"`
	Category   Category      `json:"category"`
	Message    string        `json:"message"`
	Detail     string        `json:"detail,omitempty"`
	Location   *jsonLocation `json:"location,omitempty"`
	Suggestion string        `json:"suggestion,omitempty"`
}

// FormatJSON returns the error as a JSON object for editor integrations.
func (e *Error) FormatJSON() string {
	out := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Suggestion: e.Suggestion,
	}
	if e.Location != nil {
		out.Location = &jsonLocation{File: e.Location.File, Line: e.Location.Line, Column: e.Location.Column}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Error())
	}
	return string(data)
}

// wrapText breaks text into lines of at most width bytes, splitting on
// whitespace. A single word longer than width gets a line of its own.
func wrapText(text string, width int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) > width:
			lines = append(lines, line)
			line = word
		default:
			line += " " + word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// PrintError writes err to stderr, using Format for coded errors.
func PrintError(err error) {
	fprintError(os.Stderr, err)
}

func fprintError(w io.Writer, err error) {
	var e *Error
	if stderrors.As(err, &e) {
		fmt.Fprint(w, e.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", paint(errorLabel, "ERROR:"), err.Error())
}
