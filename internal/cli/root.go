package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "phasegate",
	Short: "phasegate — phase-gated workflow checks",
	Long: `phasegate enforces per-phase quality gates in a spec-driven workflow:
required security artifacts, blocking-finding resolution against the plan
and decision ledger, and per-ecosystem validator chains.

Configuration is read from ./gate.yaml or ~/.phasegate/config.yaml; both
are optional. The exit code encodes the most severe failure found.`,

	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(phasesCmd)
	rootCmd.AddCommand(doctorCmd)
}
