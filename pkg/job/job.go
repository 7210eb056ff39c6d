// Package job defines the print job snapshot that drives filename generation
// and hotfolder routing.
//
// A Job is created per submission and never persisted on its own; the
// processing history stores a copy of it alongside the run result.
package job

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Print modes.
const (
	PrintModeRoll    = "Roll"
	PrintModeFlatbed = "Flatbed"
)

// Job types.
const (
	TypeStandard = "Standard"
	TypeRush     = "Rush"
	TypeReprint  = "Reprint"
)

// JobTypes lists the fixed job types in display order.
var JobTypes = []string{TypeStandard, TypeRush, TypeReprint}

// Routing criteria keys. These are the keys routing rules are written against.
const (
	CriterionPrintMode    = "Print Mode"
	CriterionMediaGroup   = "Media Group"
	CriterionJobType      = "Job Type"
	CriterionBleed        = "Bleed"
	CriterionRegistration = "Registration"
	CriterionRotation     = "Rotation"
	CriterionFinish       = "Finish"
	CriterionGrommets     = "Grommets"
	CriterionPolePockets  = "Pole Pockets"
	CriterionMirror       = "Mirror"
	CriterionSSDSMode     = "SSDS Mode"
)

// Job is a snapshot of one print job's attributes.
type Job struct {
	JobPrefix string `json:"job_prefix"`
	JobSuffix string `json:"job_suffix"`
	Client    string `json:"client"`
	FilePath  string `json:"file_path"`

	SizeW    string `json:"size_w"`
	SizeH    string `json:"size_h"`
	Quantity string `json:"quantity"`

	Printer   string `json:"printer"`
	PrintMode string `json:"print_mode"`
	// SSDSMode is single/double sided; only meaningful for flatbed jobs.
	SSDSMode string `json:"ssds_mode"`

	MediaGroup string `json:"media_group"`
	Media      string `json:"media"`
	JobType    string `json:"job_type"`

	Bleed        string `json:"bleed"`
	Registration string `json:"registration"`
	Rotation     string `json:"rotation"`
	Finish       string `json:"finish"`

	Grommets    string `json:"grommets"`
	PolePockets string `json:"pole_pockets"`
	Mirror      string `json:"mirror"`

	CustomText string `json:"custom_text"`

	InjectMetadata   bool   `json:"inject_metadata"`
	QuicksetOverride bool   `json:"quickset_override"`
	Quickset         string `json:"quickset"`

	CreatedAt time.Time `json:"created_date"`
}

// New returns a Job populated with the form defaults.
func New() *Job {
	return &Job{
		JobPrefix:      "TIT",
		SizeW:          "24",
		SizeH:          "36",
		Quantity:       "1",
		PrintMode:      PrintModeRoll,
		SSDSMode:       "SS",
		MediaGroup:     "Vinyl",
		Media:          "Glossy",
		JobType:        TypeStandard,
		Bleed:          "None",
		Registration:   "None",
		Rotation:       "None",
		Finish:         "Glossy",
		Grommets:       "None",
		PolePockets:    "None",
		Mirror:         "No",
		InjectMetadata: true,
		Quickset:       "QuickSet1",
		CreatedAt:      time.Now().UTC(),
	}
}

// stringFields maps snake_case keys to the string fields of j.
func (j *Job) stringFields() map[string]*string {
	return map[string]*string{
		"job_prefix":   &j.JobPrefix,
		"job_suffix":   &j.JobSuffix,
		"client":       &j.Client,
		"file_path":    &j.FilePath,
		"size_w":       &j.SizeW,
		"size_h":       &j.SizeH,
		"quantity":     &j.Quantity,
		"printer":      &j.Printer,
		"print_mode":   &j.PrintMode,
		"ssds_mode":    &j.SSDSMode,
		"media_group":  &j.MediaGroup,
		"media":        &j.Media,
		"job_type":     &j.JobType,
		"bleed":        &j.Bleed,
		"registration": &j.Registration,
		"rotation":     &j.Rotation,
		"finish":       &j.Finish,
		"grommets":     &j.Grommets,
		"pole_pockets": &j.PolePockets,
		"mirror":       &j.Mirror,
		"custom_text":  &j.CustomText,
		"quickset":     &j.Quickset,
	}
}

// FromMap builds a Job from defaults overlaid with the known keys of data.
// Unknown keys are ignored.
func FromMap(data map[string]any) *Job {
	j := New()
	j.Apply(data)
	return j
}

// Apply overlays the known keys of data onto j.
func (j *Job) Apply(data map[string]any) {
	fields := j.stringFields()
	for k, v := range data {
		if dst, ok := fields[k]; ok {
			*dst = fmt.Sprint(v)
			continue
		}
		switch k {
		case "inject_metadata":
			j.InjectMetadata = asBool(v)
		case "quickset_override":
			j.QuicksetOverride = asBool(v)
		}
	}
}

// ToMap returns the job keyed by snake_case field names.
func (j *Job) ToMap() map[string]any {
	out := make(map[string]any, 26)
	for k, v := range j.stringFields() {
		out[k] = *v
	}
	out["inject_metadata"] = j.InjectMetadata
	out["quickset_override"] = j.QuicksetOverride
	out["created_date"] = j.CreatedAt.Format(time.RFC3339)
	return out
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(t)
		return b
	default:
		return false
	}
}

// JobNumber returns prefix + suffix.
func (j *Job) JobNumber() string {
	return j.JobPrefix + j.JobSuffix
}

// SizeString returns the size as WxH.
func (j *Job) SizeString() string {
	return j.SizeW + "x" + j.SizeH
}

// IsUnset reports whether v is one of the sentinel "not set" values.
func IsUnset(v string) bool {
	return v == "" || v == "None" || v == "No"
}

// RoutingCriteria derives the canonical criteria map used to match routing
// rules. Unset values are dropped.
func (j *Job) RoutingCriteria() map[string]string {
	criteria := map[string]string{
		CriterionPrintMode:    j.PrintMode,
		CriterionMediaGroup:   j.MediaGroup,
		CriterionJobType:      j.JobType,
		CriterionBleed:        j.Bleed,
		CriterionRegistration: j.Registration,
		CriterionRotation:     j.Rotation,
		CriterionFinish:       j.Finish,
		CriterionGrommets:     j.Grommets,
		CriterionPolePockets:  j.PolePockets,
		CriterionMirror:       j.Mirror,
	}
	if j.PrintMode == PrintModeFlatbed {
		criteria[CriterionSSDSMode] = j.SSDSMode
	}

	for k, v := range criteria {
		if IsUnset(v) {
			delete(criteria, k)
		}
	}
	return criteria
}

// FilenameData returns the raw values the filename generator reads.
func (j *Job) FilenameData() map[string]string {
	return map[string]string{
		"job_prefix":   j.JobPrefix,
		"job_suffix":   j.JobSuffix,
		"client":       j.Client,
		"size_w":       j.SizeW,
		"size_h":       j.SizeH,
		"quantity":     j.Quantity,
		"finish":       j.Finish,
		"bleed":        j.Bleed,
		"rotation":     j.Rotation,
		"registration": j.Registration,
		"grommets":     j.Grommets,
		"pole_pockets": j.PolePockets,
		"mirror":       j.Mirror,
		"custom_text":  j.CustomText,
	}
}

// Validate checks the job for processing and returns every issue found.
func (j *Job) Validate() (bool, []string) {
	var errs []string

	if j.FilePath == "" {
		errs = append(errs, "No file selected")
	}
	if strings.TrimSpace(j.Client) == "" {
		errs = append(errs, "Client name is required")
	}
	if j.Printer == "" {
		errs = append(errs, "Printer must be selected")
	}

	_, errW := strconv.ParseFloat(strings.TrimSpace(j.SizeW), 64)
	_, errH := strconv.ParseFloat(strings.TrimSpace(j.SizeH), 64)
	if errW != nil || errH != nil {
		errs = append(errs, "Size dimensions must be numeric")
	}

	if _, err := strconv.Atoi(strings.TrimSpace(j.Quantity)); err != nil {
		errs = append(errs, "Quantity must be a number")
	}

	return len(errs) == 0, errs
}

func (j *Job) String() string {
	return fmt.Sprintf("Job(%s, %s, %s)", j.JobNumber(), j.Client, j.SizeString())
}
