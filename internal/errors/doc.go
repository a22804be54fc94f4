// Package errors provides structured, coded errors for dashtmpl.
//
// Every failure the template translator can raise carries a stable code so
// callers and tests can branch on it without matching message text:
//
//	E100  empty template
//	E101  tag with no corresponding component
//	E102  component construction failed
//	E103  serialized component type cannot be resolved
//	E104  serialized component record is malformed
//	E105-E110  renderer and template environment failures
//	E120-E122  configuration failures
//
// Non-fatal conditions found while walking a template are reported as
// diagnostics with W-prefixed codes (W200, W201); they share this registry
// for their messages but are never returned as errors.
//
// # Usage
//
//	err := errors.New(errors.CodeUnresolvedTag).
//	    WithMessage(`No corresponding dash component found for html tag "x".`).
//	    WithSuggestion("Check the tag name or register the component")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E101: No corresponding dash component found for html tag "x".
//	//
//	//   Hint: Check the tag name or register the component
package errors
