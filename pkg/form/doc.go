// Package form coordinates the field controllers of one form: it validates
// them together, resets them together, reads and writes their values by
// name, and drives the submit and reset lifecycle.
//
// # Overview
//
// A Form owns a registry of field controllers and a scope of shared options.
// On every render the host declares how many children the form has and the
// options in effect; each child attaches its controller at its position:
//
//	f := form.New(
//	    form.WithOnSubmit(func(sc form.SubmitContext) {
//	        if sc.Result.Valid() {
//	            save(sc)
//	        }
//	    }),
//	)
//
//	f.Render(3, formctx.Options{ScrollToFirstError: formctx.ScrollSmooth})
//	f.Attach(0, field.NewItem("name", "", field.WithRules(field.Required(""))))
//	f.Attach(1, field.NewItem("email", "", field.WithScope(f.Scope())))
//	f.Attach(2, field.NewItem("age", 0))
//
// # Validation
//
// Validate runs every controller that can validate concurrently, waits for
// all of them, and merges their reports in position order. A failed
// validation is a normal Result, never an error: the returned error is only
// set when a controller's validation logic itself failed.
//
//	r, err := f.Validate(ctx)
//	if err != nil {
//	    return err // a controller is broken
//	}
//	if m, ok := r.(*form.ErrorMap); ok {
//	    name, errs := m.First()
//	    ...
//	}
//
// # External Handle
//
// Handle returns a stable object exposing GetFieldValue, SetFieldsValue and
// Validate to code outside the component tree. It always acts on the
// current registry.
package form
