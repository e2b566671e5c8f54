// Package schema derives form fields and rule hints from an OpenAPI
// component schema.
//
//	fields, err := schema.Load(ctx, data, "SignupRequest")
//	opts := formctx.Options{Rules: schema.Rules(fields)}
//
// Each top-level property becomes a field. Required properties, string
// formats (email, uri) and length or range constraints become rule-hint
// tags understood by field.ParseRules. Fields are ordered by their
// x-order extension, then by name.
package schema
