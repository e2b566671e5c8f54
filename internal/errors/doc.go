// Package errors provides coded, actionable errors for formkit.
//
// Contract violations (an unknown field name passed to SetFieldsValue, a
// duplicate field name in strict mode, an attach outside the rendered slot
// range) and configuration problems are reported as *Error values carrying a
// stable code. Expected validation failures are never errors; they travel as
// data in a form.Result.
//
// # Error Codes
//
//   - F001-F009: registry and orchestrator contract violations
//   - F010-F019: configuration and definition files
//   - F020-F029: schema loading
//   - F030-F039: wire protocol
//
// # Usage
//
//	err := errors.New("F001").
//	    WithDetail(`no live field named "email"`).
//	    WithSuggestion("Check the field is rendered before calling SetFieldsValue")
//
//	if errors.Is(err, errors.New("F001")) {
//	    fmt.Println(err.Format())
//	}
package errors
