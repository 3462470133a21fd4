package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxsaver/internal/config"
	"github.com/teemow/inboxsaver/internal/gmail"
)

func newLabelsCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "labels [config-file]",
		Short: "List the labels of the mailbox",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath(cfgFile, args))
			if err != nil {
				return err
			}

			auth := gmail.NewAuthorizer(newConnector(cfg, nil), nil)
			client, err := auth.Authorize(cmd.Context())
			if err != nil {
				return err
			}
			labels, err := client.ListLabels(cmd.Context())
			if err != nil {
				return err
			}
			printLabels(cmd.OutOrStdout(), labels, cfg.Label)
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", fmt.Sprintf("Configuration file (default %q)", config.DefaultFile))
	return cmd
}

// printLabels writes one label per line sorted by name and marks the target.
func printLabels(w io.Writer, labels []gmail.Label, target string) {
	if len(labels) == 0 {
		fmt.Fprintln(w, "No labels found.")
		return
	}
	sorted := slices.Clone(labels)
	slices.SortFunc(sorted, func(a, b gmail.Label) int {
		return strings.Compare(a.Name, b.Name)
	})
	fmt.Fprintln(w, "Labels:")
	for _, l := range sorted {
		marker := " "
		if l.Name == target {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s (%s)\n", marker, l.Name, l.ID)
	}
}
