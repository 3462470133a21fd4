package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the inboxsaver application
var rootCmd = &cobra.Command{
	Use:   "inboxsaver",
	Short: "Saves attachments of labeled Gmail messages to a local directory",
	Long: `inboxsaver scans a Gmail mailbox for unread messages with a label,
saves the attachments whose content type matches a prefix and then marks the
message read, moves it to the trash or removes the label.

It can run once or keep polling at a configured interval.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "inboxsaver version %s\n" .Version}}`)

	// If no subcommand is provided, run the run command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "run")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newLabelsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
