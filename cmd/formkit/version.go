package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/formkit/internal/config"
	"github.com/vango-dev/formkit/pkg/protocol"
)

// fieldTypes lists the field types a definition file may declare.
var fieldTypes = []string{
	config.TypeString,
	config.TypePassword,
	config.TypeInteger,
	config.TypeNumber,
	config.TypeBoolean,
	config.TypeUpload,
}

type buildInfo struct {
	Version    string   `json:"version"`
	Commit     string   `json:"commit"`
	Built      string   `json:"built"`
	Protocol   int      `json:"protocol"`
	FieldTypes []string `json:"fieldTypes"`
	Go         string   `json:"go"`
	Platform   string   `json:"platform"`
}

func currentBuild() buildInfo {
	return buildInfo{
		Version:    version,
		Commit:     commit,
		Built:      date,
		Protocol:   protocol.Version,
		FieldTypes: fieldTypes,
		Go:         runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func versionCmd() *cobra.Command {
	var short, jsonOut bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the formkit version, the wire protocol version browsers must
speak, and the field types definition files may use.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !short && !jsonOut {
				printBanner()
			}
			return writeVersion(cmd.OutOrStdout(), currentBuild(), short, jsonOut)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print build information as JSON")

	return cmd
}

func writeVersion(w io.Writer, b buildInfo, short, jsonOut bool) error {
	switch {
	case short:
		_, err := fmt.Fprintln(w, b.Version)
		return err
	case jsonOut:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Version:     %s\n", b.Version)
	fmt.Fprintf(w, "  Commit:      %s\n", b.Commit)
	fmt.Fprintf(w, "  Built:       %s\n", b.Built)
	fmt.Fprintf(w, "  Protocol:    v%d\n", b.Protocol)
	fmt.Fprintf(w, "  Field types: %s\n", strings.Join(b.FieldTypes, ", "))
	fmt.Fprintf(w, "  Go version:  %s\n", b.Go)
	fmt.Fprintf(w, "  OS/Arch:     %s\n", b.Platform)
	fmt.Fprintln(w)
	return nil
}
