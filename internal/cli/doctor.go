package cli

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/spectools/phasegate/internal/validator"
	"github.com/spectools/phasegate/internal/workspace"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the validator tools for this workspace are installed",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		ws := workspace.Detect(dir)
		w := cmd.OutOrStdout()

		ecosystems := ws.Ecosystems()
		if len(ecosystems) == 0 {
			fmt.Fprintln(w, "no ecosystems detected; nothing to check")
			return nil
		}

		missing := 0
		for _, chain := range validator.DefaultChains() {
			if !ws.Has(chain.Ecosystem) {
				continue
			}
			for _, step := range chain.Steps {
				program := strings.Fields(step.Command)[0]
				if _, err := exec.LookPath(program); err != nil {
					fmt.Fprintf(w, "[MISS] %s/%s — %q not on PATH\n", chain.Ecosystem, step.Tool, program)
					missing++
				} else {
					fmt.Fprintf(w, "[OK]   %s/%s\n", chain.Ecosystem, step.Tool)
				}
			}
		}

		if missing > 0 {
			return fmt.Errorf("%d validator tools missing", missing)
		}
		return nil
	},
}

func init() {
	doctorCmd.Flags().String("dir", ".", "workspace root to inspect")
}
