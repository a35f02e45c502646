// ABOUTME: Root cobra command, the --config flag and shared command helpers
// ABOUTME: Opens the app around each command and asks yes/no confirmations

package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "habits",
		Short: "Track daily habits from the terminal",
		Long: `habits keeps a list of habits in a local SQLite database.

Run without a command to open the interactive home screen. The other
commands change or print the same list and are safe to run while the
home screen is open in another terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $HABITS_CONFIG or ~/.config/habits/config.yaml)")

	root.AddCommand(
		newListCmd(opts),
		newAddCmd(opts),
		newEditCmd(opts),
		newToggleCmd(opts),
		newDeleteCmd(opts),
		newClearCmd(opts),
		newShareCmd(opts),
		newStatsCmd(opts),
		newWatchCmd(opts),
		newTUICmd(opts),
		newInitCmd(opts),
		newVersionCmd(),
	)
	return root
}

// withApp loads the configuration, opens the app for the duration of fn and
// closes it afterwards.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(a *app) error) error {
	cfg, _, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	a, err := openApp(cfg, cmd.ErrOrStderr(), nil)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// confirm asks a yes/no question on the command's input. Anything but y or
// yes is a no.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "habits %s\n", version)
		},
	}
}
