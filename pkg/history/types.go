package history

import (
	"time"

	"github.com/3leaps/gohotfolder/pkg/job"
	"github.com/3leaps/gohotfolder/pkg/routing"
)

// RunState is the outcome of a processing run.
//
// NOTE: These values are persisted in run.json.
type RunState string

const (
	RunStateSuccess RunState = "success"
	RunStatePartial RunState = "partial"
	RunStateFailed  RunState = "failed"
)

// StateOf derives the run state from a processing result. A run is partial
// when one destination succeeded and the other failed.
func StateOf(res routing.ProcessResult) RunState {
	switch {
	case !res.Success:
		return RunStateFailed
	case !res.Hotfolder.Success, res.ArtCopy.Applied() && !res.ArtCopy.Succeeded():
		return RunStatePartial
	default:
		return RunStateSuccess
	}
}

// RunRecord is the persistent record written to run.json.
//
// The schema is designed for backward-compatible extension (additive fields).
type RunRecord struct {
	RunID      string                `json:"run_id"`
	State      RunState              `json:"state"`
	Filename   string                `json:"filename"`
	SourcePath string                `json:"source_path"`
	Printer    string                `json:"printer"`
	Client     string                `json:"client,omitempty"`
	Job        *job.Job              `json:"job"`
	Result     routing.ProcessResult `json:"result"`
	StartedAt  time.Time             `json:"started_at"`
	EndedAt    time.Time             `json:"ended_at"`
}

// NewRecord builds a record for a finished run.
func NewRecord(runID, sourcePath string, j *job.Job, res routing.ProcessResult, started, ended time.Time) *RunRecord {
	return &RunRecord{
		RunID:      runID,
		State:      StateOf(res),
		Filename:   res.Filename,
		SourcePath: sourcePath,
		Printer:    j.Printer,
		Client:     j.Client,
		Job:        j,
		Result:     res,
		StartedAt:  started.UTC(),
		EndedAt:    ended.UTC(),
	}
}
