package datastore

import (
	"context"
	"time"

	"github.com/arthur-debert/envboot/pkg/manifest"
)

// StampFileName is the stamp's name inside the environment root
const StampFileName = ".envboot-stamp.toml"

// DataStore records and queries provisioning state
type DataStore interface {
	// RecordProvisioning writes the stamp for the manifests just installed
	RecordProvisioning(ctx context.Context, manifests []*manifest.Manifest) error

	// Stamp returns the current stamp, or nil when none was written
	Stamp() (*Stamp, error)

	// Stale names the manifests whose checksum differs from the stamp
	Stale(manifests []*manifest.Manifest) ([]string, error)
}

// Stamp is the persisted provisioning record
type Stamp struct {
	ProvisionedAt time.Time        `toml:"provisioned_at" json:"provisionedAt"`
	Backend       string           `toml:"backend" json:"backend"`
	RunID         string           `toml:"run_id,omitempty" json:"runId,omitempty"`
	Manifests     []ManifestRecord `toml:"manifests" json:"manifests"`
}

// ManifestRecord is one installed manifest
type ManifestRecord struct {
	Name     string `toml:"name" json:"name"`
	Path     string `toml:"path,omitempty" json:"path,omitempty"`
	Checksum string `toml:"checksum" json:"checksum"`
}

// Checksum returns the recorded checksum for a manifest name
func (s *Stamp) Checksum(name string) (string, bool) {
	for _, m := range s.Manifests {
		if m.Name == name {
			return m.Checksum, true
		}
	}
	return "", false
}
