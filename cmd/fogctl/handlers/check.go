package handlers

import (
	"fmt"
	"io"
	"strings"

	"github.com/metalfog/fogctl/internal/platform/fog"
)

// Check reports whether the provisioner is usable with the given
// configuration. A disabled configuration is an error so scripts can gate on
// the exit code.
func Check(configPath string, out io.Writer) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if !cfg.Enabled() {
		fmt.Fprintf(out, "provisioner disabled; missing settings: %s\n",
			strings.Join(cfg.MissingKeys(), ", "))
		return fog.ErrNotConfigured
	}

	fmt.Fprintf(out, "endpoint:      %s\n", cfg.Endpoint)
	fmt.Fprintf(out, "machine types: %s\n", strings.Join(cfg.MachineTypeList(), ", "))
	if cfg.SentinelFile != "" {
		fmt.Fprintf(out, "sentinel file: %s\n", cfg.SentinelFile)
	}
	fmt.Fprintln(out, "configuration OK")
	return nil
}
