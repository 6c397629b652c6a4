package datastore

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/arthur-debert/envboot/pkg/manifest"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Options configures a filesystem datastore
type Options struct {
	// Backend is recorded in the stamp
	Backend string
	// RunID is recorded in the stamp
	RunID string
	// DryRun logs the stamp instead of writing it
	DryRun bool
	// Writer is the filesystem stamps are written through. Defaults to the
	// OS filesystem with absolute paths.
	Writer filesystem.FullFileSystem
}

type filesystemDataStore struct {
	logger  zerolog.Logger
	fs      afero.Fs
	writer  filesystem.FullFileSystem
	root    string
	backend string
	runID   string
	dryRun  bool
	now     func() time.Time
}

// New creates a DataStore for the environment at root. Reads go through fs.
func New(fs afero.Fs, root string, opts Options) DataStore {
	writer := opts.Writer
	if writer == nil {
		writer = synthfs.NewPathAwareFileSystem(filesystem.NewOSFileSystem("/"), "/").WithAbsolutePaths()
	}
	return &filesystemDataStore{
		logger:  logging.GetLogger("datastore"),
		fs:      fs,
		writer:  writer,
		root:    root,
		backend: opts.Backend,
		runID:   opts.RunID,
		dryRun:  opts.DryRun,
		now:     time.Now,
	}
}

// StampPath is where the stamp for root lives
func StampPath(root string) string {
	return filepath.Join(root, StampFileName)
}

func (s *filesystemDataStore) RecordProvisioning(ctx context.Context, manifests []*manifest.Manifest) error {
	stamp := Stamp{
		ProvisionedAt: s.now().UTC().Truncate(time.Second),
		Backend:       s.backend,
		RunID:         s.runID,
		Manifests:     make([]ManifestRecord, 0, len(manifests)),
	}
	for _, m := range manifests {
		stamp.Manifests = append(stamp.Manifests, ManifestRecord{Name: m.Name, Path: m.Path, Checksum: m.Checksum})
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(stamp); err != nil {
		return errors.Wrap(err, errors.ErrStampWrite, "failed to encode provisioning stamp")
	}

	path := StampPath(s.root)
	if s.dryRun {
		s.logger.Info().Str("path", path).Int("manifests", len(manifests)).Msg("Dry run - stamp would be written")
		return nil
	}

	content := buf.Bytes()
	sfs := synthfs.New()
	id := fmt.Sprintf("envboot_stamp_%d", s.now().UnixNano())
	op := sfs.CustomOperationWithID(id, func(ctx context.Context, fs filesystem.FileSystem) error {
		if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := fs.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return fs.WriteFile(path, content, 0644)
	})

	if _, err := synthfs.RunWithOptions(ctx, s.writer, synthfs.DefaultPipelineOptions(), op); err != nil {
		return errors.Wrapf(err, errors.ErrStampWrite, "failed to write provisioning stamp %s", path).
			WithDetail("path", path)
	}

	s.logger.Debug().Str("path", path).Int("manifests", len(manifests)).Msg("Provisioning stamp written")
	return nil
}

func (s *filesystemDataStore) Stamp() (*Stamp, error) {
	path := StampPath(s.root)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrStampRead, "failed to read provisioning stamp %s", path)
	}

	var stamp Stamp
	if err := toml.Unmarshal(data, &stamp); err != nil {
		return nil, errors.Wrapf(err, errors.ErrStampRead, "failed to parse provisioning stamp %s", path).
			WithDetail("path", path)
	}
	return &stamp, nil
}

// Stale reports manifests whose checksum changed or that the stamp lacks.
// Without a stamp there is nothing to compare and nothing is stale.
func (s *filesystemDataStore) Stale(manifests []*manifest.Manifest) ([]string, error) {
	stamp, err := s.Stamp()
	if err != nil || stamp == nil {
		return nil, err
	}

	var stale []string
	for _, m := range manifests {
		if recorded, ok := stamp.Checksum(m.Name); !ok || recorded != m.Checksum {
			stale = append(stale, m.Name)
		}
	}
	return stale, nil
}
