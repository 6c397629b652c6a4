package cli

import (
	"github.com/arthur-debert/envboot/pkg/datastore"
	"github.com/arthur-debert/envboot/pkg/environment"
	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/executor"
	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/arthur-debert/envboot/pkg/manifest"
	"github.com/arthur-debert/envboot/pkg/ui"
	"github.com/spf13/cobra"
)

func newStatusCmd(g *globals) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		Example: MsgStatusExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ui.ParseFormat(format)
			if err != nil {
				return errors.Wrapf(err, errors.ErrInvalidInput, MsgErrFormatFlag, format)
			}

			pr, err := g.loadProject(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			report, err := buildStatus(pr)
			if err != nil {
				return err
			}
			return ui.RenderStatus(cmd.OutOrStdout(), f, report)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "auto", MsgFlagFormat)
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(ui.Formats, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// buildStatus inspects the project without changing anything
func buildStatus(pr *project) (*ui.StatusReport, error) {
	logger := logging.GetLogger("cli.status")

	// status never runs setup commands
	backend, err := environment.New(pr.cfg.Environment, pr.fs, executor.New(executor.Options{DryRun: true}))
	if err != nil {
		return nil, err
	}

	root := pr.envRoot()
	exists, err := backend.Exists(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrEnvironmentProbe, "failed to check environment at %s", root)
	}

	report := &ui.StatusReport{
		ProjectRoot: pr.paths.Root(),
		RootSource:  string(pr.paths.Source()),
		ConfigFile:  pr.cfg.SourceFile,
		Environment: ui.EnvironmentStatus{
			Root:    root,
			Backend: backend.Name(),
			Marker:  backend.Marker(root),
			Exists:  exists,
		},
		Runner: pr.runnerSpec().Argv(nil),
	}

	store := datastore.New(pr.fs, root, datastore.Options{Backend: backend.Name()})
	loader := manifest.NewLoader(pr.fs, pr.paths.Root())

	var loaded []*manifest.Manifest
	for _, src := range pr.sources() {
		m, err := loader.Load(src)
		if err != nil {
			report.Manifests = append(report.Manifests, ui.ManifestStatus{
				Name:  src.Name,
				Path:  src.Path,
				Error: string(errors.GetErrorCode(err)),
			})
			continue
		}
		loaded = append(loaded, m)
		report.Manifests = append(report.Manifests, ui.ManifestStatus{
			Name:         m.Name,
			Path:         m.Path,
			Format:       string(m.Format),
			Requirements: len(m.Requirements),
			Checksum:     m.Checksum,
		})
	}

	if !exists {
		return report, nil
	}

	stamp, err := store.Stamp()
	if err != nil {
		logger.Warn().Msgf(MsgErrStampUnreadable, err)
		return report, nil
	}
	if stamp == nil {
		return report, nil
	}
	report.Environment.ProvisionedAt = &stamp.ProvisionedAt

	stale, err := store.Stale(loaded)
	if err != nil {
		return nil, err
	}
	staleSet := make(map[string]bool, len(stale))
	for _, name := range stale {
		staleSet[name] = true
	}
	for i := range report.Manifests {
		report.Manifests[i].Stale = staleSet[report.Manifests[i].Name]
	}

	return report, nil
}
