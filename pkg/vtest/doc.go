// Package vtest provides test doubles for form field controllers.
//
// The fakes implement the field capability interfaces so tests can drive a
// form without building real inputs:
//
//	name := vtest.NewField("name").Fails("Name is required")
//	age := vtest.NewField("age").Delay(5 * time.Millisecond)
//	f := form.New()
//	if err := f.Mount(formctx.Options{}, name, age); err != nil {
//	    t.Fatal(err)
//	}
//
// # Capabilities
//
// Field implements every capability. Bare implements none, and Value only
// exposes a name and value:
//
//	f.Mount(formctx.Options{}, vtest.Bare{}, vtest.NewValue("x", 1))
//
// # Scrolling
//
// Scroller records the targets a form asks it to bring into view:
//
//	rec := &vtest.Scroller{}
//	f := form.New(form.WithScroller(rec))
//	...
//	vtest.ExpectScrolledTo(t, rec, "email")
package vtest
