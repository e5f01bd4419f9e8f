// Package cli implements the aurum command-line interface.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "aurum",
	Short: "Aurum ledger daemon and client",
	Long: `Aurum is a token ledger with staking, governance, managed wallets and
scheduled transfers. The serve command runs the daemon; the remaining
commands talk to a running daemon over its HTTP API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default ~/.aurum/config.toml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
