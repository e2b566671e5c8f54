// Package field defines what a form can ask of its field controllers, and
// provides a rule library and a reference controller built on it.
//
// # Capabilities
//
// A field controller is any value. The form discovers what it can do by
// type assertion when the controller is attached:
//
//   - Named: Name() string, makes the field addressable by name
//   - Valuer: Value() any and SetValue(any), gives access to its value
//   - Validator: Validate(ctx) (Report, error), takes part in validation
//   - Resetter: ResetField(), takes part in reset
//
// A controller implementing none of these is still attached; it is simply
// skipped by every operation.
//
// # Reports
//
// A Validator resolves to a Report naming itself. A Report without errors
// is the per-field success marker. A returned error means the validation
// logic itself failed and is propagated by the form unchanged; it is never
// the way to report invalid input.
//
// # Item
//
// Item is a ready-made controller holding one value and a list of rules:
//
//	email := field.NewItem("email", "",
//	    field.WithRules(field.Required(""), field.Email("")),
//	    field.WithScope(form.Scope()),
//	)
//
// An Item without rules of its own validates against the rule hint the
// form publishes for its name (see formctx.Options.Rules):
//
//	formctx.Options{Rules: map[string]string{"age": "required,min=18"}}
package field
