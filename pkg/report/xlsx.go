// Package report exports routing analyses as spreadsheets.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/3leaps/gohotfolder/pkg/routing"
	"github.com/3leaps/gohotfolder/pkg/rule"
)

// Sheet names.
const (
	SheetSummary = "Summary"
	SheetFolders = "Folders"
	SheetRules   = "Rules"
	SheetGaps    = "Coverage Gaps"
)

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
}

func (s *sheetWriter) writeRow(values ...any) {
	s.row++
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, s.row)
		_ = s.f.SetCellValue(s.sheet, cell, v)
	}
}

func newSheet(f *excelize.File, name string, headers ...string) (*sheetWriter, error) {
	if idx, _ := f.GetSheetIndex(name); idx == -1 {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}
	s := &sheetWriter{f: f, sheet: name}
	if len(headers) > 0 {
		vals := make([]any, len(headers))
		for i, h := range headers {
			vals[i] = h
		}
		s.writeRow(vals...)
	}
	return s, nil
}

func formatAttrs(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+attrs[k])
	}
	return strings.Join(parts, ", ")
}

// BuildAnalysisWorkbook lays out a as four sheets: summary counts, per-folder
// status, the printer's rules and the coverage gaps.
func BuildAnalysisWorkbook(a routing.Analysis, rules []rule.Rule) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}

	summary, err := newSheet(f, SheetSummary, "Metric", "Value")
	if err != nil {
		return nil, err
	}
	summary.writeRow("Printer", a.Printer)
	summary.writeRow("Folders", a.TotalFolders)
	summary.writeRow("Rules", a.TotalRules)
	summary.writeRow("Mapped folders", len(a.MappedFolders))
	summary.writeRow("Auto-detected folders", len(a.AutoDetectedFolders))
	summary.writeRow("Unmapped folders", len(a.UnmappedFolders))
	summary.writeRow("Conflicting folders", len(a.ConflictingRules))
	summary.writeRow("Good rules (3+ criteria)", a.RuleQuality.Good)
	summary.writeRow("Fair rules (1-2 criteria)", a.RuleQuality.Fair)
	summary.writeRow("Poor rules (no criteria)", a.RuleQuality.Poor)
	_ = f.SetColWidth(SheetSummary, "A", "A", 28)

	folders, err := newSheet(f, SheetFolders, "Folder", "Status", "Rules", "Detected Attributes")
	if err != nil {
		return nil, err
	}
	for _, fi := range a.MappedFolders {
		folders.writeRow(fi.Folder, "mapped", fi.Rules, formatAttrs(fi.Detected))
	}
	for _, fi := range a.AutoDetectedFolders {
		folders.writeRow(fi.Folder, "auto-detected", 0, formatAttrs(fi.Detected))
	}
	for _, name := range a.UnmappedFolders {
		folders.writeRow(name, "unmapped", 0, "")
	}
	_ = f.SetColWidth(SheetFolders, "A", "A", 30)
	_ = f.SetColWidth(SheetFolders, "D", "D", 60)

	rs, err := newSheet(f, SheetRules, "#", "Target Folder", "Priority", "Criteria", "Auto Generated", "Created")
	if err != nil {
		return nil, err
	}
	for i, r := range rules {
		rs.writeRow(i+1, r.TargetFolder, r.Priority, r.CriteriaText(), r.AutoGenerated, r.Created)
	}
	_ = f.SetColWidth(SheetRules, "B", "B", 30)
	_ = f.SetColWidth(SheetRules, "D", "D", 60)

	gaps, err := newSheet(f, SheetGaps, "Type", "Value", "Description")
	if err != nil {
		return nil, err
	}
	for _, g := range a.CoverageGaps {
		gaps.writeRow(g.Type, g.Value, g.Description)
	}
	_ = f.SetColWidth(SheetGaps, "C", "C", 50)

	f.SetActiveSheet(0)
	return f, nil
}

// WriteAnalysisXLSX writes the workbook for a to w.
func WriteAnalysisXLSX(w io.Writer, a routing.Analysis, rules []rule.Rule) error {
	f, err := BuildAnalysisWorkbook(a, rules)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

// SaveAnalysisXLSX writes the workbook for a to path.
func SaveAnalysisXLSX(path string, a routing.Analysis, rules []rule.Rule) error {
	f, err := BuildAnalysisWorkbook(a, rules)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx save %s: %w", path, err)
	}
	return nil
}
