package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/formkit/pkg/tui"
)

func fillCmd() *cobra.Command {
	var (
		src      source
		attempts int
	)

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill a form interactively",
		Long: `Ask for every field of a form in the terminal.

Fields that fail validation are asked again with their error. The
submitted values are printed as JSON.

Examples:
  formkit fill --definition signup.yaml
  formkit fill --openapi api.yaml --schema Signup --attempts 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runFill(ctx, cmd.OutOrStdout(), &src, tui.NewSurveyDriver(), attempts)
		},
	}

	src.register(cmd)
	cmd.Flags().IntVar(&attempts, "attempts", 3, "Times a failing field is asked")

	return cmd
}

func runFill(ctx context.Context, w io.Writer, src *source, driver tui.PromptDriver, attempts int) error {
	cfg, def, err := src.load(ctx)
	if err != nil {
		return err
	}
	f, _, err := build(cfg, def)
	if err != nil {
		return err
	}

	filler := tui.NewFiller(driver, tui.WithMaxAttempts(attempts))
	sc, err := filler.Fill(ctx, f, prompts(def))
	if errors.Is(err, tui.ErrAborted) {
		warn("Aborted")
		return nil
	}
	if err != nil {
		return err
	}

	if !sc.Result.Valid() {
		errorMsg("%s", sc.FirstError)
		report(w, def.Fields, sc.Result)
		return errInvalid
	}

	values := make(map[string]any, len(def.Fields))
	for _, fd := range def.Fields {
		values[fd.Name] = f.GetFieldValue(fd.Name)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(values); err != nil {
		return fmt.Errorf("encode values: %w", err)
	}
	return nil
}
