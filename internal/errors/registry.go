package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Contract violations (F001-F009)
	// ============================================

	"F001": {
		Category:   CategoryContract,
		Message:    "Unknown field",
		Suggestion: "Only names of rendered fields can be set; check the field is mounted and named",
	},
	"F002": {
		Category:   CategoryContract,
		Message:    "Duplicate field name",
		Suggestion: "Give every named field in a form a unique name, or disable strict names",
	},
	"F003": {
		Category:   CategoryContract,
		Message:    "Field slot out of range",
		Suggestion: "Attach fields only at positions declared by the latest render",
	},
	"F004": {
		Category: CategoryContract,
		Message:  "Field controller has no value",
	},
	"F005": {
		Category: CategoryContract,
		Message:  "Nil field controller",
	},

	// ============================================
	// Configuration (F010-F019)
	// ============================================

	"F010": {
		Category:   CategoryConfig,
		Message:    "Failed to load configuration",
		Suggestion: "Check that the file exists and is valid JSON or YAML",
	},
	"F011": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	"F012": {
		Category:   CategoryConfig,
		Message:    "Failed to load form definition",
		Suggestion: "A definition needs a fields list; see formkit validate --help",
	},
	"F013": {
		Category: CategoryConfig,
		Message:  "Invalid form definition",
	},

	// ============================================
	// Schema (F020-F029)
	// ============================================

	"F020": {
		Category: CategorySchema,
		Message:  "Failed to load OpenAPI document",
	},
	"F021": {
		Category:   CategorySchema,
		Message:    "Schema component not found",
		Suggestion: "Reference a schema listed under components.schemas",
	},

	// ============================================
	// Protocol (F030-F039)
	// ============================================

	"F030": {
		Category: CategoryProtocol,
		Message:  "Invalid frame",
	},
	"F031": {
		Category: CategoryProtocol,
		Message:  "Invalid event",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
