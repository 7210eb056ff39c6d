package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/3leaps/gohotfolder/internal/errors"
	"github.com/3leaps/gohotfolder/pkg/filename"
	"github.com/3leaps/gohotfolder/pkg/history"
	"github.com/3leaps/gohotfolder/pkg/job"
	"github.com/3leaps/gohotfolder/pkg/routing"
)

const maxBodyBytes = 1 << 20

// JobRequest carries job fields keyed by snake_case name, plus an optional
// preset applied on top of them.
type JobRequest struct {
	Job    map[string]any `json:"job"`
	Preset string         `json:"preset,omitempty"`
}

// ProcessRequest submits a file. Filename is generated from the job when
// empty.
type ProcessRequest struct {
	JobRequest
	SourcePath string `json:"source_path"`
	Filename   string `json:"filename,omitempty"`
}

type FilenameResponse struct {
	Filename string   `json:"filename"`
	Valid    bool     `json:"valid"`
	Issues   []string `json:"issues"`
}

type ProcessResponse struct {
	RunID  string                `json:"run_id"`
	Result routing.ProcessResult `json:"result"`
}

// API serves the /v1 endpoints.
type API struct {
	engine    *routing.Engine
	generator *filename.Generator
	history   *history.Store
	logger    *zap.Logger
}

// NewAPI wires the endpoints to engine. A nil store disables history.
func NewAPI(engine *routing.Engine, store *history.Store, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		engine:    engine,
		generator: filename.New(),
		history:   store,
		logger:    logger,
	}
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.BadRequest("request body is empty", err)
		}
		return apperrors.BadRequest("invalid JSON body", err)
	}
	return nil
}

func (a *API) buildJob(req JobRequest) (*job.Job, error) {
	j := job.FromMap(req.Job)
	if req.Preset != "" {
		if err := j.ApplyPreset(req.Preset); err != nil {
			return nil, apperrors.BadRequest("invalid preset", err)
		}
	}
	return j, nil
}

func (a *API) generate(j *job.Job) string {
	order, include, _ := a.engine.Settings().FilenameComponents()
	return a.generator.Generate(j.FilenameData(), order, include)
}

// Filename generates and validates the filename for a job.
func (a *API) Filename(w http.ResponseWriter, r *http.Request) {
	var req JobRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}
	j, err := a.buildJob(req)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	name := a.generate(j)
	ok, issues := filename.Validate(name)
	if issues == nil {
		issues = []string{}
	}
	writeJSON(w, http.StatusOK, FilenameResponse{Filename: name, Valid: ok, Issues: issues})
}

// Route reports where a job would be routed without copying anything.
func (a *API) Route(w http.ResponseWriter, r *http.Request) {
	var req JobRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}
	j, err := a.buildJob(req)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a.engine.TestJobRouting(j))
}

// Process validates and processes one file. Only one file is processed at a
// time; concurrent submissions get 409.
func (a *API) Process(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}
	j, err := a.buildJob(req.JobRequest)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	if req.SourcePath != "" {
		j.FilePath = req.SourcePath
	}

	name := req.Filename
	if name == "" {
		name = a.generate(j)
	}
	if issues := routing.ValidateSubmission(j, name); len(issues) > 0 {
		respondWithError(w, r, apperrors.InvalidJob(issues))
		return
	}

	busy := apperrors.Conflict(apperrors.CodeBusy, routing.ErrBusy.Error())
	if a.engine.Busy() {
		respondWithError(w, r, busy)
		return
	}

	runID := uuid.NewString()
	started := time.Now()
	res := a.engine.ProcessFile(r.Context(), j.FilePath, name, j)
	if res.Error == routing.ErrBusy.Error() {
		respondWithError(w, r, busy)
		return
	}

	if a.history != nil {
		if err := a.history.Write(history.NewRecord(runID, j.FilePath, j, res, started, time.Now())); err != nil {
			a.logger.Warn("Failed to record history", zap.String("run_id", runID), zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, ProcessResponse{RunID: runID, Result: res})
}
