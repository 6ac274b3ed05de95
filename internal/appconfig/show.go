package appconfig

import (
	"fmt"
	"io"

	"github.com/k0kubun/pp"
)

// ShowConfig prints the resolved configuration.
func ShowConfig(out io.Writer, file string, cfg Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	_, _ = pp.Fprintln(out, cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(out, "\nNote: annotate would reject this configuration: %v\n", err)
	}
}
