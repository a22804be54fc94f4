package errors

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryTemplate  Category = "template"
	CategoryComponent Category = "component"
	CategoryRuntime   Category = "runtime"
	CategoryConfig    Category = "config"
	CategoryCLI       Category = "cli"
	CategoryWarning   Category = "warning"
)

// Registered codes.
const (
	CodeEmptyTemplate        = "E100"
	CodeUnresolvedTag        = "E101"
	CodeConstructionFailure  = "E102"
	CodeUnknownComponentType = "E103"
	CodeInvalidRecord        = "E104"
	CodeAlreadyInitialized   = "E105"
	CodeTemplateNotFound     = "E106"
	CodeTemplateExecution    = "E107"
	CodeMarkupParse          = "E108"
	CodeNotInitialized       = "E109"
	CodeTextRoot             = "E110"

	CodeConfigRead       = "E120"
	CodeConfigInvalid    = "E121"
	CodeConfigValidation = "E122"

	CodeMultipleRootTags    = "W200"
	CodeUnsupportedNodeKind = "W201"
)

// Location represents a position inside a template.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Line == 0 {
		return l.File
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Error is a structured error with a code, a category and optional hints.
type Error struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type (template, component, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the template position where the error occurred, if known.
	Location *Location

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithMessage replaces the registered message.
func (e *Error) WithMessage(msg string) *Error {
	e.Message = msg
	return e
}

// WithLocation adds a template location to the error.
func (e *Error) WithLocation(file string, line, column int) *Error {
	e.Location = &Location{File: file, Line: line, Column: column}
	return e
}

// WithLocationFromError extracts a location from an html/template error.
//
// Template errors look like "template: name:line:col: message"; errors in
// any other shape leave the location untouched.
func (e *Error) WithLocationFromError(err error) *Error {
	if err == nil {
		return e
	}
	msg := strings.TrimPrefix(err.Error(), "template: ")
	parts := strings.SplitN(msg, ":", 4)
	if len(parts) < 3 {
		return e
	}
	line, lerr := strconv.Atoi(parts[1])
	if lerr != nil || line <= 0 {
		return e
	}
	col, _ := strconv.Atoi(parts[2])
	e.Location = &Location{File: parts[0], Line: line, Column: col}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an Error.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return New(code).Wrap(err)
}

// Code returns the code of the first *Error in err's chain, or "".
func Code(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err's chain holds an *Error with the given code.
func IsCode(err error, code string) bool {
	return stderrors.Is(err, &Error{Code: code})
}
