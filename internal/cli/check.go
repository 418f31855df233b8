package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spectools/phasegate/internal/config"
	"github.com/spectools/phasegate/internal/orchestrator"
	"github.com/spectools/phasegate/internal/phase"
	"github.com/spectools/phasegate/internal/validator"
	"github.com/spf13/cobra"
)

// GateError carries a failed run's exit code out of the command so main
// can translate it into the process exit status.
type GateError struct {
	Code    int
	Outcome *orchestrator.Outcome
}

func (e *GateError) Error() string {
	return fmt.Sprintf("gate failed with exit code %d", e.Code)
}

// ExitCode maps a command error to the process exit status: the gate's
// own code for gate failures, 64 for everything else (usage errors,
// unknown phases, broken config).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ge *GateError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return 64
}

var checkCmd = &cobra.Command{
	Use:   "check [phase]",
	Short: "Run the quality gate for a lifecycle phase",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		format, _ := cmd.Flags().GetString("format")

		p, err := phase.Parse(args[0])
		if err != nil {
			return err
		}

		cfg, err := loadConfig(dir)
		if err != nil {
			return err
		}
		if verrs := config.Validate(cfg); len(verrs) > 0 {
			for _, ve := range verrs {
				fmt.Fprintf(cmd.ErrOrStderr(), "config: %s\n", ve.Error())
			}
			return fmt.Errorf("invalid gate configuration (%d errors)", len(verrs))
		}

		o, err := orchestrator.New(dir, cfg.Gate, &validator.ExecRunner{}, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		out, err := o.Run(cmd.Context(), p)
		if err != nil {
			return err
		}

		if format == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return err
			}
		} else {
			renderText(cmd.OutOrStdout(), out)
		}

		if code := out.ExitCode(); code != 0 {
			return &GateError{Code: code, Outcome: out}
		}
		return nil
	},
}

// loadConfig honors --dir: a gate.yaml inside the checked workspace wins
// over the standard search locations.
func loadConfig(dir string) (*config.Config, error) {
	local := filepath.Join(dir, "gate.yaml")
	if _, err := os.Stat(local); err == nil {
		return config.Load(local)
	}
	return config.LoadDefault()
}

func renderText(w io.Writer, out *orchestrator.Outcome) {
	fmt.Fprintf(w, "phase %s (%s mode)\n", out.Phase, out.Mode)

	for _, path := range out.Artifacts.Present {
		fmt.Fprintf(w, "[OK]   artifact %s\n", path)
	}
	for _, path := range out.Artifacts.Skipped {
		fmt.Fprintf(w, "[SKIP] artifact %s (not applicable)\n", path)
	}
	for _, path := range out.Artifacts.Missing {
		fmt.Fprintf(w, "[MISS] artifact %s\n", path)
	}

	for _, chain := range out.Chains {
		for _, step := range chain.Steps {
			icon := "PASS"
			if step.Status != validator.StepPassed {
				icon = "FAIL"
			}
			fmt.Fprintf(w, "[%s] %s/%s — %s (%dms)\n", icon, chain.Ecosystem, step.Tool, step.Summary, step.DurationMs)
		}
	}

	for _, f := range out.Advisories {
		fmt.Fprintf(w, "[ADVISORY] %s in %s\n", f.Severity, f.Source)
	}
	for _, f := range out.Failures {
		fmt.Fprintf(w, "[BLOCK] %s\n", f.Detail)
	}

	if out.Passed() {
		fmt.Fprintln(w, "\nGate PASSED")
	} else {
		fmt.Fprintf(w, "\nGate FAILED (exit %d)\n", out.ExitCode())
	}
}

func init() {
	checkCmd.Flags().String("dir", ".", "workspace root to check")
	checkCmd.Flags().String("format", "text", "output format: text or json")
}
