package cli

import (
	"fmt"

	"github.com/arthur-debert/envboot/pkg/bootstrap"
	"github.com/arthur-debert/envboot/pkg/datastore"
	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/arthur-debert/envboot/pkg/manifest"
	"github.com/arthur-debert/envboot/pkg/runner"
	"github.com/arthur-debert/envboot/pkg/ui"
	"github.com/spf13/cobra"
)

func newRunCmd(g *globals, status *exitStatus) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run [-- runner-args...]",
		Short:   MsgRunShort,
		Long:    MsgRunLong,
		Example: MsgRunExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			pr, err := g.loadProject(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			runID := logging.WithRunID()
			logger := logging.GetLogger("cli.run")

			logger.Info().
				Str("root", pr.paths.Root()).
				Str("rootSource", string(pr.paths.Source())).
				Bool("dryRun", g.dryRun).
				Bool("force", g.force).
				Strs("args", args).
				Msg("Starting bootstrap")

			backend, err := pr.backend(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			store := datastore.New(pr.fs, pr.envRoot(), datastore.Options{
				Backend: backend.Name(),
				RunID:   runID,
				DryRun:  g.dryRun,
			})
			invoker := runner.New(pr.paths.Root(), runner.Options{
				Stdin:  cmd.InOrStdin(),
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			})

			b := bootstrap.New(
				pr.bootstrapConfig(g),
				backend,
				manifest.NewLoader(pr.fs, pr.paths.Root()),
				invoker,
				bootstrap.Options{
					Store:    store,
					Observer: ui.NewProgress(cmd.ErrOrStderr(), ui.FormatAuto),
				},
			)

			code, err := b.Run(cmd.Context(), args)
			if err != nil {
				return err
			}

			if g.dryRun {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), MsgDryRunNotice)
			}
			status.code = code
			return nil
		},
	}

	// everything after the first positional argument belongs to the runner
	cmd.Flags().SetInterspersed(false)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return errors.Wrap(err, errors.ErrInvalidInput, MsgErrRunnerFlag)
	})

	return cmd
}
