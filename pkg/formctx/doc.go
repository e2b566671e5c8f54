// Package formctx carries the shared, per-render configuration a form
// publishes to every field beneath it.
//
// A Scope is owned by one mounted form. Each render calls Publish with the
// form's Options; descendants hold the Scope and call Current to read the
// latest Snapshot. Snapshots are immutable, so a field that captured one
// keeps a consistent view for the duration of a single operation, but it
// should call Current again on the next operation rather than cache it.
//
//	scope := formctx.NewScope()
//	scope.Publish(formctx.Options{ResetType: formctx.ResetInitial})
//
//	// in a field controller
//	if scope.Current().ResetType == formctx.ResetInitial { ... }
package formctx
