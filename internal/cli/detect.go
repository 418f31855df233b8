package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spectools/phasegate/internal/workspace"
	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Show which ecosystems the workspace contains",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		format, _ := cmd.Flags().GetString("format")
		ws := workspace.Detect(dir)

		if format == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(ws)
		}

		ecosystems := ws.Ecosystems()
		if len(ecosystems) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no ecosystems detected")
			return nil
		}
		for _, eco := range ecosystems {
			fmt.Fprintln(cmd.OutOrStdout(), eco)
		}
		return nil
	},
}

func init() {
	detectCmd.Flags().String("dir", ".", "workspace root to inspect")
	detectCmd.Flags().String("format", "text", "output format: text or json")
}
