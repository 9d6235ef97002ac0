package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newClearCmd(v *viper.Viper) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every todo and the persisted matrix",
		Long: `Empty all four quadrants and remove the persisted snapshot.

The language setting is kept. This cannot be undone, so --yes is required.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to clear all data without --yes")
			}
			rt, err := newSession(cmd, v)
			if err != nil {
				return err
			}
			store, err := rt.openStore(cmd.Context())
			if err != nil {
				_ = rt.backend.Close()
				return err
			}
			removed := store.Snapshot().Len()
			store.Clear()
			if err := rt.close(store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d todos\n", removed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting all data")
	return cmd
}
