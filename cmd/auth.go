package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxsaver/internal/config"
)

func newAuthCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "auth [config-file]",
		Short: "Authorize access to the mailbox",
		Long: `Run the OAuth consent flow for the account in the configuration file and
store the resulting token in the configured token file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath(cfgFile, args))
			if err != nil {
				return err
			}
			if err := authorize(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("authorization failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", fmt.Sprintf("Configuration file (default %q)", config.DefaultFile))
	return cmd
}
