package field

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Rule checks a single constraint on a field value.
//
// Check returns nil when the value satisfies the rule, a ValidationError
// when it does not, and any other error when the check itself could not be
// carried out.
type Rule interface {
	Check(ctx context.Context, value any) error
}

// RuleFunc is a function that implements Rule.
type RuleFunc func(ctx context.Context, value any) error

func (f RuleFunc) Check(ctx context.Context, value any) error {
	return f(ctx, value)
}

// ValidationError represents a rule the value did not satisfy.
type ValidationError struct {
	Rule     string
	Message  string
	Severity Severity
}

func (e ValidationError) Error() string {
	return e.Message
}

// Descriptor converts the error to the form it is reported in.
func (e ValidationError) Descriptor() ErrorDescriptor {
	sev := e.Severity
	if sev == "" {
		sev = SeverityError
	}
	return ErrorDescriptor{Message: e.Message, Type: sev, Rule: e.Rule}
}

func fail(rule, msg string) error {
	return ValidationError{Rule: rule, Message: msg}
}

// ----------------------------------------------------------------------------
// String Rules
// ----------------------------------------------------------------------------

// Required validates that the value is non-empty.
func Required(msg string) Rule {
	if msg == "" {
		msg = "This field is required"
	}
	return RuleFunc(func(_ context.Context, value any) error {
		if isEmpty(value) {
			return fail("required", msg)
		}
		return nil
	})
}

// MinLength validates that a string has at least n characters.
func MinLength(n int, msg string) Rule {
	if msg == "" {
		msg = fmt.Sprintf("Must be at least %d characters", n)
	}
	return RuleFunc(func(_ context.Context, value any) error {
		s := toString(value)
		if s == "" {
			return nil // Required handles empty values
		}
		if len([]rune(s)) < n {
			return fail("minlength", msg)
		}
		return nil
	})
}

// MaxLength validates that a string has at most n characters.
func MaxLength(n int, msg string) Rule {
	if msg == "" {
		msg = fmt.Sprintf("Must be at most %d characters", n)
	}
	return RuleFunc(func(_ context.Context, value any) error {
		if len([]rune(toString(value))) > n {
			return fail("maxlength", msg)
		}
		return nil
	})
}

// Pattern validates that a string matches re.
func Pattern(re *regexp.Regexp, msg string) Rule {
	if msg == "" {
		msg = "Invalid format"
	}
	return RuleFunc(func(_ context.Context, value any) error {
		s := toString(value)
		if s == "" {
			return nil
		}
		if !re.MatchString(s) {
			return fail("pattern", msg)
		}
		return nil
	})
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email validates that the value is a valid email address.
func Email(msg string) Rule {
	if msg == "" {
		msg = "Invalid email address"
	}
	return RuleFunc(func(_ context.Context, value any) error {
		s := toString(value)
		if s == "" {
			return nil
		}
		if !emailPattern.MatchString(s) {
			return fail("email", msg)
		}
		return nil
	})
}

// URL validates that the value is an absolute URL.
func URL(msg string) Rule {
	if msg == "" {
		msg = "Invalid URL"
	}
	return RuleFunc(func(_ context.Context, value any) error {
		s := toString(value)
		if s == "" {
			return nil
		}
		u, err := url.Parse(s)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fail("url", msg)
		}
		return nil
	})
}

// ----------------------------------------------------------------------------
// Numeric Rules
// ----------------------------------------------------------------------------

// Min validates that a numeric value is >= n.
func Min(n float64, msg string) Rule {
	if msg == "" {
		msg = fmt.Sprintf("Must be at least %v", n)
	}
	return RuleFunc(func(_ context.Context, value any) error {
		if isEmpty(value) {
			return nil
		}
		f, ok := toFloat64(value)
		if !ok || f < n {
			return fail("min", msg)
		}
		return nil
	})
}

// Max validates that a numeric value is <= n.
func Max(n float64, msg string) Rule {
	if msg == "" {
		msg = fmt.Sprintf("Must be at most %v", n)
	}
	return RuleFunc(func(_ context.Context, value any) error {
		if isEmpty(value) {
			return nil
		}
		f, ok := toFloat64(value)
		if !ok || f > n {
			return fail("max", msg)
		}
		return nil
	})
}

// Between validates that a numeric value is within [min, max].
func Between(min, max float64, msg string) Rule {
	if msg == "" {
		msg = fmt.Sprintf("Must be between %v and %v", min, max)
	}
	return RuleFunc(func(_ context.Context, value any) error {
		if isEmpty(value) {
			return nil
		}
		f, ok := toFloat64(value)
		if !ok || f < min || f > max {
			return fail("between", msg)
		}
		return nil
	})
}

// ----------------------------------------------------------------------------
// Custom Rules
// ----------------------------------------------------------------------------

// Custom creates a rule from a synchronous check returning the failure
// message, or "" when the value is valid.
func Custom(name string, fn func(value any) string) Rule {
	return RuleFunc(func(_ context.Context, value any) error {
		if msg := fn(value); msg != "" {
			return fail(name, msg)
		}
		return nil
	})
}

// Warn downgrades failures of r to warnings.
func Warn(r Rule) Rule {
	return RuleFunc(func(ctx context.Context, value any) error {
		err := r.Check(ctx, value)
		if ve, ok := err.(ValidationError); ok {
			ve.Severity = SeverityWarning
			return ve
		}
		return err
	})
}

// ----------------------------------------------------------------------------
// Rule Hints
// ----------------------------------------------------------------------------

// ParseRules parses a rule-hint tag such as "required,minlength=2,email"
// into rules. Recognized names: required, min, max, minlength (minlen),
// maxlength (maxlen), email, url, pattern (regex). The tag is split on
// commas, so patterns cannot contain one.
func ParseRules(tag string) ([]Rule, error) {
	if strings.TrimSpace(tag) == "" {
		return nil, nil
	}

	parts := strings.Split(tag, ",")
	rules := make([]Rule, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, arg, _ := strings.Cut(part, "=")
		r, err := ruleFromHint(name, arg)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func ruleFromHint(name, arg string) (Rule, error) {
	switch name {
	case "required":
		return Required(""), nil
	case "email":
		return Email(""), nil
	case "url":
		return URL(""), nil
	case "min", "max":
		n, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("field: rule %q: %w", name, err)
		}
		if name == "min" {
			return Min(n, ""), nil
		}
		return Max(n, ""), nil
	case "minlen", "minlength", "maxlen", "maxlength":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("field: rule %q: %w", name, err)
		}
		if strings.HasPrefix(name, "min") {
			return MinLength(n, ""), nil
		}
		return MaxLength(n, ""), nil
	case "pattern", "regex":
		re, err := regexp.Compile(arg)
		if err != nil {
			return nil, fmt.Errorf("field: rule %q: %w", name, err)
		}
		return Pattern(re, ""), nil
	default:
		return nil, fmt.Errorf("field: unknown rule %q", name)
	}
}

// ----------------------------------------------------------------------------
// Helper Functions
// ----------------------------------------------------------------------------

// isEmpty checks if a value is considered empty.
func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// toString converts a value to string.
func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// toFloat64 converts a numeric or numeric-string value to float64.
func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
