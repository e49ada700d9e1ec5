package handlers

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/go-logr/logr"

	"github.com/metalfog/fogctl/internal/config"
	"github.com/metalfog/fogctl/internal/platform/fog"
)

// imageSuggester is the slice of the service client the images handler needs.
type imageSuggester interface {
	SuggestImageNames(ctx context.Context, machineType string) ([]string, error)
}

var newSuggester = func(cfg *config.Config, log logr.Logger) imageSuggester {
	return fog.NewClient(cfg, fog.WithLogger(log))
}

// Images lists the deployable image names for a machine type, one per line.
func Images(ctx context.Context, configPath, machineType string, out io.Writer) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if !cfg.Enabled() {
		return fmt.Errorf("%w (missing: %v)", fog.ErrNotConfigured, cfg.MissingKeys())
	}

	client := newSuggester(cfg, newLogger(false))
	names, err := client.SuggestImageNames(ctx, machineType)
	if err != nil {
		return fmt.Errorf("failed to list images: %w", err)
	}
	if len(names) == 0 {
		fmt.Fprintf(out, "no images found for machine type %s\n", machineType)
		return nil
	}

	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}
