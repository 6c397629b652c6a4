package cli

import (
	"io"

	"github.com/arthur-debert/envboot/pkg/config"
	"github.com/spf13/cobra"
)

func newGenConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), config.DefaultContent())
			return err
		},
	}
}
