package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorText(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	s := &session{}

	rootCmd := &cobra.Command{
		Use:   "shiftlog",
		Short: "Operational journal and shift handover client",
		Long: `shiftlog talks to a shift-log server: record journal entries, hand
shifts over, and export filtered reports.

The server URL is taken from --server or SHIFTLOG_SERVER. Log in once with
"shiftlog login"; the token is kept in ~/.shiftlog/token.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&s.server, "server", defaultServer(), "shift-log server URL")
	rootCmd.PersistentFlags().BoolVar(&s.verbose, "verbose", false, "log API calls")

	rootCmd.AddCommand(loginCmd(s))
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(signupCmd(s))
	rootCmd.AddCommand(whoamiCmd(s))
	rootCmd.AddCommand(entriesCmd(s))
	rootCmd.AddCommand(handoversCmd(s))
	rootCmd.AddCommand(categoriesCmd(s))
	rootCmd.AddCommand(reportCmd(s))

	return rootCmd
}
