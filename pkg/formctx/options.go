package formctx

// LabelAlign positions field labels relative to their inputs.
type LabelAlign string

const (
	LabelLeft  LabelAlign = "left"
	LabelRight LabelAlign = "right"
	LabelTop   LabelAlign = "top"
)

// Layout arranges fields in the form.
type Layout string

const (
	LayoutVertical Layout = "vertical"
	LayoutInline   Layout = "inline"
)

// Size is the control size fields should render with.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// ScrollBehavior controls scrolling to the first failing field after a
// submit. The zero value disables scrolling.
type ScrollBehavior string

const (
	ScrollOff     ScrollBehavior = ""
	ScrollSmooth  ScrollBehavior = "smooth"
	ScrollInstant ScrollBehavior = "instant"
	// ScrollAuto leaves the behavior to the client.
	ScrollAuto ScrollBehavior = "auto"
)

// Enabled reports whether scrolling to the first error is on.
func (b ScrollBehavior) Enabled() bool {
	return b != ScrollOff
}

// ResetType selects what a field returns to when the form is reset.
type ResetType string

const (
	// ResetEmpty clears the field to the zero value of its type.
	ResetEmpty ResetType = "empty"
	// ResetInitial restores the value the field was created with.
	ResetInitial ResetType = "initial"
)

// Options are the display and behavior settings of a form. Zero values are
// replaced by defaults when published, except for the booleans that default
// to true, which use pointers so an explicit false survives.
type Options struct {
	LabelWidth         string         `json:"labelWidth,omitempty" yaml:"labelWidth,omitempty"`
	StatusIcon         bool           `json:"statusIcon,omitempty" yaml:"statusIcon,omitempty"`
	LabelAlign         LabelAlign     `json:"labelAlign,omitempty" yaml:"labelAlign,omitempty"`
	Layout             Layout         `json:"layout,omitempty" yaml:"layout,omitempty"`
	Size               Size           `json:"size,omitempty" yaml:"size,omitempty"`
	Colon              bool           `json:"colon,omitempty" yaml:"colon,omitempty"`
	RequiredMark       *bool          `json:"requiredMark,omitempty" yaml:"requiredMark,omitempty"`
	ScrollToFirstError ScrollBehavior `json:"scrollToFirstError,omitempty" yaml:"scrollToFirstError,omitempty"`
	ShowErrorMessage   *bool          `json:"showErrorMessage,omitempty" yaml:"showErrorMessage,omitempty"`
	ResetType          ResetType      `json:"resetType,omitempty" yaml:"resetType,omitempty"`
	// Rules maps a field name to a rule-hint tag such as "required,max=64".
	// Fields without rules of their own validate against these.
	Rules map[string]string `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// Bool returns a pointer to b, for the pointer-typed options.
func Bool(b bool) *bool {
	return &b
}

// Validate reports the first option holding an unrecognized value.
func (o Options) Validate() error {
	switch o.LabelAlign {
	case "", LabelLeft, LabelRight, LabelTop:
	default:
		return &InvalidOptionError{Option: "labelAlign", Value: string(o.LabelAlign)}
	}
	switch o.Layout {
	case "", LayoutVertical, LayoutInline:
	default:
		return &InvalidOptionError{Option: "layout", Value: string(o.Layout)}
	}
	switch o.Size {
	case "", SizeSmall, SizeMedium, SizeLarge:
	default:
		return &InvalidOptionError{Option: "size", Value: string(o.Size)}
	}
	switch o.ScrollToFirstError {
	case ScrollOff, ScrollSmooth, ScrollInstant, ScrollAuto:
	default:
		return &InvalidOptionError{Option: "scrollToFirstError", Value: string(o.ScrollToFirstError)}
	}
	switch o.ResetType {
	case "", ResetEmpty, ResetInitial:
	default:
		return &InvalidOptionError{Option: "resetType", Value: string(o.ResetType)}
	}
	return nil
}

// InvalidOptionError is returned by Options.Validate.
type InvalidOptionError struct {
	Option string
	Value  string
}

func (e *InvalidOptionError) Error() string {
	return "formctx: invalid " + e.Option + " " + `"` + e.Value + `"`
}
