package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newInitStorageCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "init-storage",
		Short: "Create the storage schema for the configured backend",
		Long: `Prepare the configured backend: create the data directory, the SQLite
slots table or the Azure table, or check that Redis answers. Safe to run
more than once.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newSession(cmd, v)
			if err != nil {
				return err
			}
			defer func() { _ = rt.close(nil) }()

			if err := rt.initBackend(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "storage ready (backend=%s)\n", rt.cfg.Storage.Backend)
			return nil
		},
	}
}
