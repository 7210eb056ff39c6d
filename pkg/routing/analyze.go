package routing

import (
	"fmt"

	"github.com/3leaps/gohotfolder/pkg/job"
	"github.com/3leaps/gohotfolder/pkg/rule"
	"github.com/3leaps/gohotfolder/pkg/settings"
)

// FolderInfo describes one existing folder in an analysis.
type FolderInfo struct {
	Folder   string            `json:"folder"`
	Rules    int               `json:"rules"`
	Detected map[string]string `json:"detected"`
}

// Conflict flags a folder targeted by more than one rule.
type Conflict struct {
	Folder    string `json:"folder"`
	RuleCount int    `json:"rule_count"`
}

// CoverageGap is a media group or job type no rule references.
type CoverageGap struct {
	Type        string `json:"type"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// RuleQuality buckets rules by criteria count: 3 or more is good, 1 or 2
// fair, none poor.
type RuleQuality struct {
	Good int `json:"good"`
	Fair int `json:"fair"`
	Poor int `json:"poor"`
}

// Analysis summarizes how well a printer's rules cover its folders.
type Analysis struct {
	Printer             string        `json:"printer"`
	TotalFolders        int           `json:"total_folders"`
	TotalRules          int           `json:"total_rules"`
	MappedFolders       []FolderInfo  `json:"mapped_folders"`
	UnmappedFolders     []string      `json:"unmapped_folders"`
	AutoDetectedFolders []FolderInfo  `json:"auto_detected_folders"`
	ConflictingRules    []Conflict    `json:"conflicting_rules"`
	CoverageGaps        []CoverageGap `json:"coverage_gaps"`
	RuleQuality         RuleQuality   `json:"rule_quality"`
}

// AnalyzeRules classifies each folder as mapped (at least one rule targets
// it), auto-detected (no rule, but DetectFolderAttributes finds something)
// or unmapped.
func AnalyzeRules(printer string, rules []rule.Rule, folders []string, media settings.MediaConfig) Analysis {
	a := Analysis{
		Printer:             printer,
		TotalFolders:        len(folders),
		TotalRules:          len(rules),
		MappedFolders:       []FolderInfo{},
		UnmappedFolders:     []string{},
		AutoDetectedFolders: []FolderInfo{},
		ConflictingRules:    []Conflict{},
	}

	for _, folder := range folders {
		count := 0
		for _, r := range rules {
			if r.TargetFolder == folder {
				count++
			}
		}
		info := FolderInfo{Folder: folder, Rules: count, Detected: DetectFolderAttributes(folder)}

		switch {
		case count > 0:
			a.MappedFolders = append(a.MappedFolders, info)
			if count > 1 {
				a.ConflictingRules = append(a.ConflictingRules, Conflict{Folder: folder, RuleCount: count})
			}
		case len(info.Detected) > 0:
			a.AutoDetectedFolders = append(a.AutoDetectedFolders, info)
		default:
			a.UnmappedFolders = append(a.UnmappedFolders, folder)
		}
	}

	for _, r := range rules {
		switch n := r.CriteriaCount(); {
		case n >= 3:
			a.RuleQuality.Good++
		case n >= 1:
			a.RuleQuality.Fair++
		default:
			a.RuleQuality.Poor++
		}
	}

	a.CoverageGaps = CoverageGaps(rules, media)
	return a
}

// CoverageGaps lists each media group in media, then each job type, that no
// rule references.
func CoverageGaps(rules []rule.Rule, media settings.MediaConfig) []CoverageGap {
	gaps := []CoverageGap{}

	covered := func(key, value string) bool {
		for _, r := range rules {
			if r.Criteria[key] == value {
				return true
			}
		}
		return false
	}

	for _, group := range media.Groups() {
		if !covered(job.CriterionMediaGroup, group) {
			gaps = append(gaps, CoverageGap{
				Type:        job.CriterionMediaGroup,
				Value:       group,
				Description: fmt.Sprintf("No routing rules for media group '%s'", group),
			})
		}
	}
	for _, jt := range job.JobTypes {
		if !covered(job.CriterionJobType, jt) {
			gaps = append(gaps, CoverageGap{
				Type:        job.CriterionJobType,
				Value:       jt,
				Description: fmt.Sprintf("No routing rules for job type '%s'", jt),
			})
		}
	}
	return gaps
}

// AnalyzeRoutingSetup analyzes printer's stored rules against the folders
// found in its hotfolder.
func (e *Engine) AnalyzeRoutingSetup(printer string, folders []string) Analysis {
	return AnalyzeRules(printer, e.settings.RoutingRulesFor(printer), folders, e.settings.MediaConfigFor(printer))
}

// FindCoverageGaps reports gaps in rules against printer's media config.
func (e *Engine) FindCoverageGaps(rules []rule.Rule, printer string) []CoverageGap {
	return CoverageGaps(rules, e.settings.MediaConfigFor(printer))
}
