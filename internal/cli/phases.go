package cli

import (
	"fmt"

	"github.com/spectools/phasegate/internal/phase"
	"github.com/spf13/cobra"
)

var phasesCmd = &cobra.Command{
	Use:   "phases",
	Short: "List lifecycle phases and their artifact requirements",
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		for _, p := range phase.All() {
			fmt.Fprintf(w, "%d. %s\n", p.Ordinal()+1, p)
			for _, req := range phase.RequirementsFor(p) {
				if req.Condition != nil {
					fmt.Fprintf(w, "   requires %s (%s)\n", req.Path, req.Reason)
				} else {
					fmt.Fprintf(w, "   requires %s\n", req.Path)
				}
			}
			if phase.ValidatesCode(p) {
				fmt.Fprintln(w, "   runs validator chains")
			}
		}
	},
}
