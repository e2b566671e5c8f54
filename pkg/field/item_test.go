package field

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/formkit/pkg/formctx"
)

func TestItemCapabilities(t *testing.T) {
	var c any = NewItem("name", "")
	if _, ok := c.(Named); !ok {
		t.Error("Item should implement Named")
	}
	if _, ok := c.(Valuer); !ok {
		t.Error("Item should implement Valuer")
	}
	if _, ok := c.(Validator); !ok {
		t.Error("Item should implement Validator")
	}
	if _, ok := c.(Resetter); !ok {
		t.Error("Item should implement Resetter")
	}
}

func TestItemValidateReportsAllFailures(t *testing.T) {
	item := NewItem("email", "x", WithRules(MinLength(3, "too short"), Email("not an email")))

	report, err := item.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	want := Report{
		Name: "email",
		Errors: []ErrorDescriptor{
			{Message: "too short", Type: SeverityError, Rule: "minlength"},
			{Message: "not an email", Type: SeverityError, Rule: "email"},
		},
	}
	if diff := cmp.Diff(want, report); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
	if len(item.Errors()) != 2 {
		t.Errorf("Errors() = %v, want the stored failures", item.Errors())
	}

	item.SetValue("alice@example.com")
	report, err = item.Validate(context.Background())
	if err != nil || !report.Passed() {
		t.Errorf("Validate after fix = %+v, %v", report, err)
	}
	if len(item.Errors()) != 0 {
		t.Error("passing validation should clear stored errors")
	}
}

func TestItemUsesPublishedRuleHint(t *testing.T) {
	scope := formctx.NewScope()
	scope.Publish(formctx.Options{Rules: map[string]string{"age": "required,min=18"}})
	item := NewItem("age", 16, WithScope(scope))

	report, err := item.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if report.Passed() || report.Errors[0].Rule != "min" {
		t.Errorf("report = %+v, want min failure", report)
	}

	scope.Publish(formctx.Options{Rules: map[string]string{"age": "max=20"}})
	report, err = item.Validate(context.Background())
	if err != nil || !report.Passed() {
		t.Errorf("re-published hint should apply: %+v, %v", report, err)
	}
}

func TestItemOwnRulesOverrideHint(t *testing.T) {
	scope := formctx.NewScope()
	scope.Publish(formctx.Options{Rules: map[string]string{"nick": "required"}})
	item := NewItem("nick", "", WithScope(scope), WithRules(MaxLength(5, "")))

	report, err := item.Validate(context.Background())
	if err != nil || !report.Passed() {
		t.Errorf("own rules should replace the hint, got %+v, %v", report, err)
	}
}

func TestItemBadHintIsAFault(t *testing.T) {
	scope := formctx.NewScope()
	scope.Publish(formctx.Options{Rules: map[string]string{"x": "bogus"}})

	_, err := NewItem("x", "", WithScope(scope)).Validate(context.Background())
	if err == nil {
		t.Error("expected an error for an unparseable hint")
	}
}

func TestItemRuleFaultPropagates(t *testing.T) {
	boom := errors.New("lookup service down")
	item := NewItem("user", "bob", WithRules(RuleFunc(func(context.Context, any) error {
		return boom
	})))

	_, err := item.Validate(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Validate error = %v, want %v", err, boom)
	}
}

func TestItemResetField(t *testing.T) {
	tests := []struct {
		name      string
		resetType formctx.ResetType
		initial   any
		want      any
	}{
		{"empty string", formctx.ResetEmpty, "hello", ""},
		{"empty int", formctx.ResetEmpty, 42, 0},
		{"empty nil", formctx.ResetEmpty, nil, nil},
		{"initial", formctx.ResetInitial, "hello", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope := formctx.NewScope()
			scope.Publish(formctx.Options{ResetType: tt.resetType})

			var changed []any
			item := NewItem("f", tt.initial, WithScope(scope), WithRules(Required("")),
				WithOnChange(func(v any) { changed = append(changed, v) }))
			item.SetValue("modified")
			_, _ = item.Validate(context.Background())

			item.ResetField()

			if got := item.Value(); got != tt.want {
				t.Errorf("Value() after reset = %v, want %v", got, tt.want)
			}
			if len(item.Errors()) != 0 {
				t.Error("reset should clear errors")
			}
			if len(changed) != 2 || changed[1] != tt.want {
				t.Errorf("onChange calls = %v", changed)
			}
		})
	}
}

func TestItemWithoutScopeResetsToEmpty(t *testing.T) {
	item := NewItem("f", "seed")
	item.ResetField()
	if item.Value() != "" {
		t.Errorf("Value() = %v, want empty string", item.Value())
	}
}
