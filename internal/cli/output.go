package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Process exit codes.
const (
	ExitSuccess = 0
	// ExitFailure means a job started and stopped part way, such as a store
	// error mid-run or a strict ingest meeting an invalid row.
	ExitFailure = 1
	// ExitCommandError means the job never started: bad flags, an unusable
	// dataset file or an unreachable store.
	ExitCommandError = 2
)

// Problem codes reported in CLI output.
const (
	ErrCodeStore          = "STORE_ERROR"
	ErrCodeFileNotFound   = "FILE_NOT_FOUND"
	ErrCodeParse          = "PARSE_ERROR"
	ErrCodeMissingColumns = "MISSING_COLUMNS"
	ErrCodeInvalidRow     = "INVALID_ROW"
	ErrCodePrompt         = "PROMPT_ERROR"
)

// ExitError is a command failure carrying the process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// exitf builds an ExitError. format follows fmt.Errorf, so %w keeps the cause.
func exitf(code int, format string, args ...interface{}) *ExitError {
	return &ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}

// GetExitCode maps err to an exit code. Errors without one count as job
// failures.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Envelope is the shape of every --format json document.
type Envelope struct {
	Status string      `json:"status"` // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`
	Error  *Problem    `json:"error,omitempty"`
}

// Problem describes why a command failed.
type Problem struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Output writes results to Writer, as text or a JSON Envelope, and
// prompts and --verbose notes to ErrWriter.
type Output struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// Report writes data. In text mode text renders it instead.
func (o *Output) Report(data interface{}, text func(w io.Writer) error) error {
	if o.Format == "json" {
		return o.encode(Envelope{Status: "ok", Data: data})
	}
	return text(o.Writer)
}

// WriteProblem reports p. Text output shows the details only with --verbose.
func (o *Output) WriteProblem(p Problem) error {
	if o.Format == "json" {
		return o.encode(Envelope{Status: "error", Error: &p})
	}

	if _, err := fmt.Fprintf(o.Writer, "Error [%s]: %s\n", p.Code, p.Message); err != nil {
		return err
	}
	if o.Verbose && p.Details != nil {
		_, err := fmt.Fprintf(o.Writer, "Details: %v\n", p.Details)
		return err
	}
	return nil
}

// Fail reports p and returns an ExitError with exitCode wrapping cause.
func (o *Output) Fail(exitCode int, p Problem, cause error) error {
	_ = o.WriteProblem(p)

	switch {
	case cause == nil:
		return exitf(exitCode, "%s", p.Message)
	case cause.Error() == p.Message:
		return exitf(exitCode, "%w", cause)
	default:
		return exitf(exitCode, "%s: %w", p.Message, cause)
	}
}

// storeFailure reports a store error that stopped a running job.
func (o *Output) storeFailure(err error) error {
	return o.Fail(ExitFailure, Problem{Code: ErrCodeStore, Message: err.Error()}, err)
}

// Verbosef writes a note to the diagnostics writer under --verbose.
func (o *Output) Verbosef(format string, args ...interface{}) {
	if o.Verbose {
		fmt.Fprintf(o.Diagnostics(), format+"\n", args...)
	}
}

// Diagnostics is where prompts and notes go: ErrWriter, or Writer when unset.
func (o *Output) Diagnostics() io.Writer {
	if o.ErrWriter == nil {
		return o.Writer
	}
	return o.ErrWriter
}

func (o *Output) encode(v interface{}) error {
	enc := json.NewEncoder(o.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
