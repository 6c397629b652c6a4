package environment

import (
	"context"

	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/arthur-debert/envboot/pkg/manifest"
	"github.com/rs/zerolog"
)

// DryRun wraps a backend so that only Exists reaches it. Every mutating
// operation is logged and reported as successful.
type DryRun struct {
	Backend
	logger zerolog.Logger
}

// WithDryRun wraps b in a DryRun
func WithDryRun(b Backend) *DryRun {
	return &DryRun{Backend: b, logger: logging.GetLogger("environment.dryrun")}
}

func (d *DryRun) Create(ctx context.Context, root string) error {
	d.logger.Info().Str("backend", d.Name()).Str("root", root).Msg("Dry run - environment would be created")
	return nil
}

func (d *DryRun) Activate(root string) error {
	d.logger.Info().Str("backend", d.Name()).Str("root", root).Msg("Dry run - environment would be activated")
	return nil
}

func (d *DryRun) Install(ctx context.Context, root string, m *manifest.Manifest) error {
	d.logger.Info().
		Str("backend", d.Name()).
		Str("manifest", m.Identity()).
		Int("requirements", len(m.Requirements)).
		Msg("Dry run - manifest would be installed")
	return nil
}
