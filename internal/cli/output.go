package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool

	Out io.Writer // defaults to os.Stdout
	Err io.Writer // defaults to os.Stderr
}

// Human is implemented by results with their own human-readable form
type Human interface {
	Human() string
}

// NewFormatter reads the --json and --quiet flags of cmd and writes to its streams
func NewFormatter(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return &OutputFormatter{
		JSON:  jsonOutput,
		Quiet: quietMode,
		Out:   cmd.OutOrStdout(),
		Err:   cmd.ErrOrStderr(),
	}
}

// AddOutputFlags registers the agent-friendly output flags
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")
}

func (f *OutputFormatter) out() io.Writer {
	if f.Out == nil {
		return os.Stdout
	}
	return f.Out
}

func (f *OutputFormatter) errOut() io.Writer {
	if f.Err == nil {
		return os.Stderr
	}
	return f.Err
}

// Success outputs successful operation result
func (f *OutputFormatter) Success(data any) error {
	if f.Quiet {
		// Extract ID if possible
		if idGetter, ok := data.(interface{ GetID() int }); ok {
			_, err := fmt.Fprintf(f.out(), "%d\n", idGetter.GetID())
			return err
		}
	}

	if f.JSON {
		return json.NewEncoder(f.out()).Encode(map[string]any{
			"success": true,
			"data":    data,
		})
	}

	return f.prettyPrint(data)
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]any{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return json.NewEncoder(f.out()).Encode(map[string]any{
			"success": false,
			"error":   errData,
		})
	}

	fmt.Fprintf(f.errOut(), "Error: %s\n", message)
	if suggestion != "" {
		fmt.Fprintf(f.errOut(), "Suggestion: %s\n", suggestion)
	}
	return nil
}

// Fail reports err in the current mode and returns it marked as reported
func (f *OutputFormatter) Fail(err error) error {
	return f.FailWithSuggestion(err, Suggestion(err))
}

// FailWithSuggestion is Fail with a caller-supplied suggestion
func (f *OutputFormatter) FailWithSuggestion(err error, suggestion string) error {
	if fmtErr := f.ErrorWithSuggestion(ErrorCode(err), err.Error(), suggestion); fmtErr != nil {
		return fmt.Errorf("%w (and failed to report it: %v)", err, fmtErr)
	}
	return reportedError{err}
}

type reportedError struct {
	error
}

func (e reportedError) Unwrap() error { return e.error }

// Reported reports whether err was already printed by a formatter
func Reported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

func (f *OutputFormatter) prettyPrint(data any) error {
	if h, ok := data.(Human); ok {
		_, err := fmt.Fprintln(f.out(), h.Human())
		return err
	}
	_, err := fmt.Fprintf(f.out(), "%+v\n", data)
	return err
}
