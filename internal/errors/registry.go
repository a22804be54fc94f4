package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Template Errors (E100-E119)
	// ============================================

	CodeEmptyTemplate: {
		Category: CategoryTemplate,
		Message:  "Empty template in use. Please remove.",
		Detail:   "The rendered template produced no element. A template must contain exactly one top-level tag.",
	},
	CodeUnresolvedTag: {
		Category: CategoryTemplate,
		Message:  "Generating dash component from html tag failed.",
		Detail:   "The tag is neither a serialized component block nor a registered component type.",
	},
	CodeConstructionFailure: {
		Category: CategoryComponent,
		Message:  "Generating dash component from html tag failed.",
		Detail:   "The component rejected the attributes or children mapped from the tag.",
	},
	CodeUnknownComponentType: {
		Category: CategoryComponent,
		Message:  "Serialized component type cannot be resolved",
		Detail:   "The namespace or type of an embedded component record is not registered.",
	},
	CodeInvalidRecord: {
		Category: CategoryComponent,
		Message:  "Invalid serialized component",
		Detail:   "An embedded component record is not valid JSON of the form {namespace, type, props}.",
	},
	CodeAlreadyInitialized: {
		Category: CategoryRuntime,
		Message:  "Renderer already initialized",
		Detail:   "A renderer is bound to exactly one application and cannot be initialized twice.",
	},
	CodeTemplateNotFound: {
		Category: CategoryTemplate,
		Message:  "Template not found",
		Detail:   "None of the requested template names exist in the template environment.",
	},
	CodeTemplateExecution: {
		Category: CategoryTemplate,
		Message:  "Template execution failed",
		Detail:   "The template engine could not parse or execute the template with the given context.",
	},
	CodeMarkupParse: {
		Category: CategoryTemplate,
		Message:  "Rendered markup could not be parsed",
	},
	CodeNotInitialized: {
		Category: CategoryRuntime,
		Message:  "Renderer is not bound to an application",
		Detail:   "Call Init with an application before rendering templates.",
	},
	CodeTextRoot: {
		Category: CategoryTemplate,
		Message:  "Template root is plain text",
		Detail:   "The first top-level node of the template is text. Wrap it in an element.",
	},

	// ============================================
	// Config Errors (E120-E139)
	// ============================================

	CodeConfigRead: {
		Category: CategoryConfig,
		Message:  "Cannot read config file",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "The config file is not valid YAML.",
	},
	CodeConfigValidation: {
		Category: CategoryConfig,
		Message:  "Config validation failed",
	},

	// ============================================
	// Diagnostics (W200-W299)
	// ============================================

	CodeMultipleRootTags: {
		Category: CategoryWarning,
		Message:  "Template Tag has more than one main tag, which is not supported. Only the first tag is used.",
	},
	CodeUnsupportedNodeKind: {
		Category: CategoryWarning,
		Message:  "Node type is not supported in templates yet. Node will be skipped.",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
