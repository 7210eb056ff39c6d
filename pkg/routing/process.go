package routing

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/3leaps/gohotfolder/pkg/filename"
	"github.com/3leaps/gohotfolder/pkg/job"
	"github.com/3leaps/gohotfolder/pkg/pdfinfo"
	"github.com/3leaps/gohotfolder/pkg/provider"
	"github.com/3leaps/gohotfolder/pkg/provider/file"
	"github.com/3leaps/gohotfolder/pkg/transfer"
)

// ErrBusy is reported when ProcessFile is called while another call is in
// flight on the same engine.
var ErrBusy = errors.New("another file is already being processed")

// HotfolderResult is the outcome of the hotfolder copy.
type HotfolderResult struct {
	Success bool   `json:"success"`
	Path    string `json:"path,omitempty"`
	Error   string `json:"error,omitempty"`

	// Code classifies a failed copy, e.g. ACCESS_DENIED or SOURCE_CHANGED.
	Code string `json:"code,omitempty"`

	// TargetFolder is the resolved subfolder, DefaultFolder when no rule matched.
	TargetFolder string `json:"target_folder,omitempty"`
}

// ArtCopyResult is the outcome of the client art folder copy. A nil Success
// means the step did not apply: art copy disabled, no client, or no mapping.
type ArtCopyResult struct {
	Success *bool  `json:"success"`
	Path    string `json:"path,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Applied reports whether the step ran.
func (a ArtCopyResult) Applied() bool { return a.Success != nil }

// Succeeded reports whether the step ran and succeeded.
func (a ArtCopyResult) Succeeded() bool { return a.Success != nil && *a.Success }

// ProcessResult is the outcome of ProcessFile. Both sub-results must be
// inspected: either destination can fail while the other succeeds.
type ProcessResult struct {
	// Success is true when the file reached at least one destination.
	Success   bool            `json:"success"`
	Filename  string          `json:"filename"`
	Hotfolder HotfolderResult `json:"hotfolder"`
	ArtCopy   ArtCopyResult   `json:"art_copy"`

	// PageCount and PageSize are filled for readable PDFs. PageSize is the
	// first page in inches, e.g. "24x36".
	PageCount int    `json:"page_count,omitempty"`
	PageSize  string `json:"page_size,omitempty"`

	// Error is set when processing did not start, e.g. ErrBusy.
	Error string `json:"error,omitempty"`
}

// ValidateSubmission runs job and filename validation. A non-empty result
// must block processing before any file I/O.
func ValidateSubmission(j *job.Job, name string) []string {
	var issues []string
	if ok, errs := j.Validate(); !ok {
		issues = append(issues, errs...)
	}
	if ok, errs := filename.Validate(name); !ok {
		issues = append(issues, errs...)
	}
	return issues
}

// Busy reports whether a ProcessFile call is in flight.
func (e *Engine) Busy() bool {
	return e.busy.Load()
}

// ProcessFile copies sourcePath to the printer hotfolder and, when enabled,
// to the client art folder, both under name. It never panics or returns an
// error: every failure is reported in the result.
func (e *Engine) ProcessFile(ctx context.Context, sourcePath, name string, j *job.Job) (res ProcessResult) {
	res = ProcessResult{Filename: name}

	if !e.busy.CompareAndSwap(false, true) {
		res.Error = ErrBusy.Error()
		res.Hotfolder.Error = ErrBusy.Error()
		return res
	}
	defer e.busy.Store(false)

	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("processing failed: %v", r)
			e.logger.Error("Processing panicked", zap.String("filename", name), zap.Any("panic", r))
			res.Success = false
			res.Error = msg
		}
	}()

	e.logger.Info("Processing file", zap.String("filename", name), zap.String("source", sourcePath))

	res.Hotfolder = e.routeToHotfolder(ctx, sourcePath, name, j)
	if e.settings.ArtCopyEnabled() {
		res.ArtCopy = e.copyToArtFolder(ctx, sourcePath, name, j)
	}
	res.Success = res.Hotfolder.Success || res.ArtCopy.Succeeded()

	if info, err := pdfinfo.Inspect(sourcePath); err == nil {
		res.PageCount = info.Pages
		res.PageSize = info.SizeString()
	}

	e.logger.Info("Processing complete",
		zap.String("filename", name),
		zap.Bool("success", res.Success),
		zap.Bool("hotfolder", res.Hotfolder.Success),
		zap.String("art_copy", artCopyState(res.ArtCopy)),
	)
	return res
}

func artCopyState(a ArtCopyResult) string {
	switch {
	case !a.Applied():
		return "skipped"
	case *a.Success:
		return "ok"
	default:
		return "failed"
	}
}

func (e *Engine) routeToHotfolder(ctx context.Context, sourcePath, name string, j *job.Job) HotfolderResult {
	fail := func(msg string) HotfolderResult {
		e.logger.Warn("Hotfolder routing failed", zap.String("filename", name), zap.String("error", msg))
		return HotfolderResult{Error: msg}
	}

	root := strings.TrimSpace(e.settings.HotfolderRoot)
	if root == "" {
		return fail("Hotfolder root not set or doesn't exist")
	}
	hot, err := file.New(file.Config{BaseDir: root})
	if err != nil {
		return fail("Hotfolder root not set or doesn't exist")
	}
	if ok, err := hot.DirExists(ctx, ""); err != nil || !ok {
		return fail("Hotfolder root not set or doesn't exist")
	}

	printerFolder := e.settings.PrinterFolderName(j.Printer)
	if ok, err := hot.DirExists(ctx, printerFolder); err != nil || !ok {
		return fail(fmt.Sprintf("Printer folder doesn't exist: %s", filepath.Join(root, printerFolder)))
	}

	target, ok := e.DetermineTargetFolder(j)
	if !ok {
		target = DefaultFolder
		e.logger.Info("No routing rule matched; using default folder",
			zap.String("printer", j.Printer),
			zap.String("folder", DefaultFolder),
		)
	}

	// The printer folder must already exist; only the target subfolder is
	// created on demand.
	dirKey := path.Join(filepath.ToSlash(printerFolder), filepath.ToSlash(target))
	if err := hot.MakeDir(ctx, dirKey); err != nil {
		return fail("Hotfolder routing failed: " + err.Error())
	}

	if err := ctx.Err(); err != nil {
		return fail("Hotfolder routing failed: " + err.Error())
	}
	targetPath := filepath.Join(root, printerFolder, target)
	if _, err := transfer.CopyFile(ctx, sourcePath, targetPath, name); err != nil {
		res := fail("Hotfolder routing failed: " + err.Error())
		res.Code = transfer.ClassifyError(err)
		return res
	}

	e.logger.Info("Routed to hotfolder", zap.String("path", targetPath))
	return HotfolderResult{Success: true, Path: targetPath, TargetFolder: target}
}

func (e *Engine) copyToArtFolder(ctx context.Context, sourcePath, name string, j *job.Job) ArtCopyResult {
	client := strings.TrimSpace(j.Client)
	if client == "" {
		e.logger.Debug("No client selected; skipping art copy")
		return ArtCopyResult{}
	}
	artFolder, ok := e.settings.ClientArtFolders[j.Client]
	if !ok {
		e.logger.Debug("No art folder mapping for client", zap.String("client", j.Client))
		return ArtCopyResult{}
	}

	failed := false
	fail := func(msg string) ArtCopyResult {
		e.logger.Warn("Art folder copy failed", zap.String("client", j.Client), zap.String("error", msg))
		return ArtCopyResult{Success: &failed, Error: msg}
	}
	classify := func(err error) ArtCopyResult {
		var res ArtCopyResult
		if provider.IsAccessDenied(err) {
			res = fail("Permission denied accessing art folder: " + err.Error())
		} else {
			res = fail("Art folder copy failed: " + err.Error())
		}
		res.Code = transfer.ClassifyError(err)
		return res
	}

	art, err := file.New(file.Config{BaseDir: artFolder})
	if err != nil {
		return fail(fmt.Sprintf("Client art folder doesn't exist: %s", artFolder))
	}
	exists, err := art.DirExists(ctx, "")
	if err != nil {
		return classify(err)
	}
	if !exists {
		return fail(fmt.Sprintf("Client art folder doesn't exist: %s", artFolder))
	}

	if _, err := transfer.CopyFile(ctx, sourcePath, artFolder, name); err != nil {
		return classify(err)
	}

	succeeded := true
	e.logger.Info("Copied to client art folder", zap.String("path", artFolder))
	return ArtCopyResult{Success: &succeeded, Path: artFolder}
}
