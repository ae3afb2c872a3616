package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
)

// ExecuteCommand runs cmd with args under ctx and returns what it wrote to
// its output and error streams
func ExecuteCommand(t *testing.T, ctx context.Context, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	SetupCobraCommand(cmd, args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

// ParseJSON parses JSON output from CLI commands
func ParseJSON(t *testing.T, output string) map[string]any {
	t.Helper()

	var result map[string]any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, output)
	}

	return result
}

// SetupCobraCommand sets up a cobra command with args for testing
func SetupCobraCommand(cmd *cobra.Command, args []string) {
	cmd.SetArgs(args)
	// Disable usage output on error for cleaner test output
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
}
