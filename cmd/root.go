package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "chainarb",
	Short: "Cross-chain arbitrage engine",
	Long: `Cross-chain arbitrage engine that watches token prices across two
chains, scores the spread against bridge and gas costs, and executes the
buy-bridge-sell route when the net profit clears the configured floor.

Price discovery reads V2-style swap routers over JSON-RPC; bridge
transfers go through a guardian attestation network and are polled to a
terminal state before any sell leg runs.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
