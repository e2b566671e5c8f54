// Package tui fills a form from the terminal.
//
// Each Prompt asks for one field's value through a PromptDriver. After
// every round the form is validated; fields that failed are shown their
// first error and asked again, up to a configurable number of attempts.
// The form is then submitted.
//
//	filler := tui.NewFiller(tui.NewSurveyDriver(), tui.WithMaxAttempts(3))
//	sc, err := filler.Fill(ctx, f, []tui.Prompt{
//	    {Name: "name", Label: "Your name"},
//	    {Name: "age", Label: "Age", Type: tui.TypeInteger},
//	})
package tui
