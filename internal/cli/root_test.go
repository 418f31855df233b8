package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spectools/phasegate/internal/config"
)

func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	SetVersion("test-version")
	out, err := executeCommand("version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "test-version") {
		t.Errorf("expected version output to contain 'test-version', got: %s", out)
	}
}

func TestRootHelp(t *testing.T) {
	out, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, sub := range []string{"check", "detect", "phases", "doctor", "version"} {
		if !strings.Contains(out, sub) {
			t.Errorf("help output missing subcommand %q", sub)
		}
	}
}

func TestPhasesCommand(t *testing.T) {
	out, err := executeCommand("phases")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"spec", "deploy", "reports/security/plan-scan.md", "validator chains"} {
		if !strings.Contains(out, want) {
			t.Errorf("phases output missing %q:\n%s", want, out)
		}
	}
}

func TestDetectCommand(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte("[package]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand("detect", "--dir", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "rust") {
		t.Errorf("expected rust in detect output, got: %s", out)
	}
	if strings.Contains(out, "node") {
		t.Errorf("unexpected node in detect output: %s", out)
	}
}

func TestCheckCommand_UnknownPhase(t *testing.T) {
	_, err := executeCommand("check", "ship-it")
	if err == nil {
		t.Fatal("expected error for unknown phase")
	}
	if ExitCode(err) != 64 {
		t.Errorf("unknown phase should map to exit 64, got %d", ExitCode(err))
	}
}

func TestCheckCommand_MissingArtifact(t *testing.T) {
	t.Setenv(config.PluginModeEnv, "")
	dir := t.TempDir()

	out, err := executeCommand("check", "plan", "--dir", dir)
	if err == nil {
		t.Fatal("expected gate failure")
	}
	var ge *GateError
	if !errors.As(err, &ge) || ge.Code != 1 {
		t.Fatalf("expected GateError with code 1, got %v", err)
	}
	if !strings.Contains(out, "reports/security/plan-scan.md") {
		t.Errorf("report should name the missing artifact:\n%s", out)
	}
	if !strings.Contains(out, "Gate FAILED") {
		t.Errorf("expected failure banner:\n%s", out)
	}
}

func TestCheckCommand_PassesWithArtifact(t *testing.T) {
	t.Setenv(config.PluginModeEnv, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "reports", "security", "plan-scan.md")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("clean\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand("check", "plan", "--dir", dir)
	if err != nil {
		t.Fatalf("expected pass, got %v:\n%s", err, out)
	}
	if !strings.Contains(out, "Gate PASSED") {
		t.Errorf("expected pass banner:\n%s", out)
	}
}

func TestCheckCommand_JSONFormat(t *testing.T) {
	t.Setenv(config.PluginModeEnv, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "reports", "security", "plan-scan.md")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("clean\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand("check", "plan", "--dir", dir, "--format", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"phase": "plan"`) {
		t.Errorf("expected JSON outcome:\n%s", out)
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Errorf("nil error: got %d", got)
	}
	if got := ExitCode(&GateError{Code: 2}); got != 2 {
		t.Errorf("gate error: got %d", got)
	}
	if got := ExitCode(errors.New("boom")); got != 64 {
		t.Errorf("plain error: got %d", got)
	}
}

func TestUnknownCommand(t *testing.T) {
	_, err := executeCommand("nonexistent")
	if err == nil {
		t.Error("expected error for unknown command, got nil")
	}
}
