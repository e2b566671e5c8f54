// Package server serves forms over HTTP and WebSocket.
//
// Every WebSocket connection gets its own form, created by a Builder, and a
// Session that turns client events into form operations:
//
//	Input  -> SetFieldsValue
//	Submit -> Submit, answered with FieldErrors/ClearErrors, Result and,
//	          when enabled, ScrollIntoView patches
//	Reset  -> Reset, answered with ClearErrors and SetValue patches
//
// Validation messages are sanitized before they are sent, so controllers
// may build messages from user input.
//
// The HTTP side offers a stateless endpoint for one-shot validation:
//
//	POST /validate {"values": {"email": "x"}}
//	-> {"valid": false, "result": {"email": [{"message": "...", ...}]}}
//
// # Usage
//
//	srv := server.New(func(ctx context.Context, opts ...form.Option) (*form.Form, error) {
//	    f, _, err := def.Build(opts...)
//	    return f, err
//	}, nil)
//	srv.Mount("/metrics", promhttp.Handler())
//	log.Fatal(srv.Run(ctx))
package server
