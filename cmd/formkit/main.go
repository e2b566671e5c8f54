package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/formkit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌─┐┬─┐┌┬┐┬┌─┬┌┬┐
  ├┤ │ │├┬┘│││├┴┐│ │
  └  └─┘┴└─┴ ┴┴ ┴┴ ┴
`

func main() {
	if err := rootCmd().Execute(); err != nil {
		var coded *errors.Error
		if stderrors.As(err, &coded) {
			fmt.Fprintln(os.Stderr, coded.Format())
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "formkit",
		Short: "Serve, validate and fill forms",
		Long: `formkit runs forms described by definition files or OpenAPI schemas.

  • Serve forms to browsers over WebSocket
  • Validate values from files or scripts
  • Fill forms interactively in the terminal
  • Prometheus metrics and OpenTelemetry spans`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		serveCmd(),
		validateCmd(),
		fillCmd(),
		versionCmd(),
	)
	return root
}

// printBanner prints the formkit ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
