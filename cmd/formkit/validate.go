package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/formkit/internal/config"
	"github.com/vango-dev/formkit/pkg/form"
)

func validateCmd() *cobra.Command {
	var (
		src     source
		values  string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate values against a form",
		Long: `Validate a JSON or YAML object of values against a form.

The command exits non-zero when any field fails.

Examples:
  formkit validate --definition signup.yaml --values input.json
  formkit validate --openapi api.yaml --schema Signup --values input.yaml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runValidate(ctx, cmd.OutOrStdout(), &src, values, jsonOut)
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&values, "values", "v", "", "File of field values (JSON or YAML)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the result as JSON")

	return cmd
}

// errInvalid is returned when the values do not pass validation.
var errInvalid = errors.New("form is invalid")

func runValidate(ctx context.Context, w io.Writer, src *source, valuesPath string, jsonOut bool) error {
	cfg, def, err := src.load(ctx)
	if err != nil {
		return err
	}

	f, _, err := build(cfg, def)
	if err != nil {
		return err
	}

	if valuesPath != "" {
		values, err := loadValues(valuesPath)
		if err != nil {
			return err
		}
		if err := f.SetFieldsValue(ctx, values); err != nil {
			return err
		}
	}

	result, err := f.Validate(ctx)
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{"valid": result.Valid(), "result": result}); err != nil {
			return err
		}
	} else {
		report(w, def.Fields, result)
	}

	if !result.Valid() {
		return errInvalid
	}
	return nil
}

// report prints one line per field, in declaration order.
func report(w io.Writer, fields []config.FieldDef, result form.Result) {
	em, _ := result.(*form.ErrorMap)
	for _, fd := range fields {
		name := fd.Name
		var errs []string
		if em != nil {
			for _, d := range em.Errors(name) {
				errs = append(errs, d.Message)
			}
		}
		if len(errs) == 0 {
			fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", name)
			continue
		}
		for _, msg := range errs {
			fmt.Fprintf(w, "\033[31m✗\033[0m %s: %s\n", name, msg)
		}
	}
}
