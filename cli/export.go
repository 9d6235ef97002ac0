package cli

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newExportCmd(v *viper.Viper) *cobra.Command {
	var compact bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the persisted matrix as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newSession(cmd, v)
			if err != nil {
				return err
			}
			defer func() { _ = rt.close(nil) }()

			snap, err := rt.adapter().Load(cmd.Context())
			if err != nil {
				return err
			}
			var out []byte
			if compact {
				out, err = sonic.ConfigStd.Marshal(snap)
			} else {
				out, err = sonic.ConfigStd.MarshalIndent(snap, "", "  ")
			}
			if err != nil {
				return fmt.Errorf("encode snapshot: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print on a single line")
	return cmd
}
