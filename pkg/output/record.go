// Package output provides JSONL output for processing, routing and analysis
// results.
//
// Each line is a self-contained record envelope with a typed payload, so
// output can be piped into jq or collected by a print-room dashboard.
package output

import (
	"encoding/json"
	"errors"
	"time"
)

// Record types follow the pattern gohotfolder.<type>.v<version>.
const (
	// TypeProcess identifies a processed job: hotfolder and art copy results.
	TypeProcess = "gohotfolder.process.v1"

	// TypeRouting identifies a routing dry run.
	TypeRouting = "gohotfolder.routing.v1"

	// TypeAnalysis identifies a routing setup analysis for one printer.
	TypeAnalysis = "gohotfolder.analysis.v1"

	// TypeMatch identifies a client to art folder match.
	TypeMatch = "gohotfolder.match.v1"

	// TypeError identifies error records.
	TypeError = "gohotfolder.error.v1"

	// TypeSummary identifies final summary records.
	TypeSummary = "gohotfolder.summary.v1"
)

// Record is the envelope for all JSONL output.
type Record struct {
	Type string    `json:"type"`
	TS   time.Time `json:"ts"`

	// RunID correlates every record written by one command invocation.
	RunID string `json:"run_id"`

	// Source names the surface that produced the record ("cli" or "http").
	Source string `json:"source"`

	Data json.RawMessage `json:"data"`
}

// MatchRecord is the data payload for a client art folder match.
type MatchRecord struct {
	Client   string  `json:"client"`
	Folder   string  `json:"folder"`
	Ratio    float64 `json:"ratio"`
	FullPath string  `json:"full_path"`

	// Applied is true when the match was stored in settings.
	Applied bool `json:"applied"`
}

// ErrorRecord is the data payload for errors.
//
// Errors are emitted as records rather than aborting a batch, so the
// remaining items are still reported.
type ErrorRecord struct {
	// Code is a machine-readable error code.
	Code    string `json:"code"`
	Message string `json:"message"`

	// Path is the file or folder related to this error, if any.
	Path string `json:"path,omitempty"`

	Details any `json:"details,omitempty"`
}

// Error codes for ErrorRecord.
const (
	ErrCodeAccessDenied        = "ACCESS_DENIED"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeTimeout             = "TIMEOUT"
	ErrCodeProviderUnavailable = "PROVIDER_UNAVAILABLE"

	// ErrCodeSourceChanged indicates the source file changed while copying.
	ErrCodeSourceChanged = "SOURCE_CHANGED"

	// ErrCodeInvalidJob indicates job validation failed before any I/O.
	ErrCodeInvalidJob = "INVALID_JOB"

	// ErrCodeBusy indicates another processing run was in flight.
	ErrCodeBusy = "BUSY"

	ErrCodeInternal = "INTERNAL"
)

// SummaryRecord is the data payload for final summaries.
type SummaryRecord struct {
	Command   string `json:"command"`
	Total     int64  `json:"total"`
	Succeeded int64  `json:"succeeded"`
	Failed    int64  `json:"failed"`

	Duration      time.Duration `json:"duration_ns"`
	DurationHuman string        `json:"duration"`
}

// ErrWriterClosed is returned when writing to a closed writer.
var ErrWriterClosed = errors.New("writer is closed")

// WriteError wraps errors that occur during write operations.
type WriteError struct {
	Op  string // Operation that failed (e.g., "marshal_data", "write")
	Err error
}

func (e *WriteError) Error() string {
	return "output: " + e.Op + ": " + e.Err.Error()
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
