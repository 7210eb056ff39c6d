// Package rule defines routing rules: a target hotfolder subfolder plus the
// job attributes a job must carry to be routed there.
package rule

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/3leaps/gohotfolder/pkg/job"
)

// Priority values.
const (
	PriorityHigh   = "High"
	PriorityNormal = "Normal"
	PriorityLow    = "Low"
)

var priorityWeights = map[string]int{
	PriorityHigh:   3,
	PriorityNormal: 2,
	PriorityLow:    1,
}

// Rule routes matching jobs to TargetFolder.
type Rule struct {
	TargetFolder  string            `json:"target_folder" yaml:"target_folder"`
	Priority      string            `json:"priority" yaml:"priority"`
	Criteria      map[string]string `json:"criteria" yaml:"criteria"`
	AutoGenerated bool              `json:"auto_generated" yaml:"auto_generated"`
	Created       string            `json:"created" yaml:"created"`
	Modified      string            `json:"modified,omitempty" yaml:"modified,omitempty"`
}

// New returns a Normal priority rule stamped with the current time.
func New(target string, criteria map[string]string) Rule {
	if criteria == nil {
		criteria = map[string]string{}
	}
	return Rule{
		TargetFolder: target,
		Priority:     PriorityNormal,
		Criteria:     criteria,
		Created:      now(),
	}
}

func now() string {
	return time.Now().Format("2006-01-02T15:04:05.000000")
}

// FromMap decodes a rule from its stored document form, filling defaults for
// missing fields.
func FromMap(data map[string]any) Rule {
	r := Rule{
		Priority: PriorityNormal,
		Criteria: map[string]string{},
	}
	if v, ok := data["target_folder"].(string); ok {
		r.TargetFolder = v
	}
	if v, ok := data["priority"].(string); ok && v != "" {
		r.Priority = v
	}
	switch c := data["criteria"].(type) {
	case map[string]any:
		for k, v := range c {
			r.Criteria[k] = fmt.Sprint(v)
		}
	case map[string]string:
		for k, v := range c {
			r.Criteria[k] = v
		}
	}
	if v, ok := data["auto_generated"].(bool); ok {
		r.AutoGenerated = v
	}
	if v, ok := data["created"].(string); ok && v != "" {
		r.Created = v
	} else {
		r.Created = now()
	}
	if v, ok := data["modified"].(string); ok {
		r.Modified = v
	}
	return r
}

// Normalize fills defaults left empty by a decoder.
func (r *Rule) Normalize() {
	if r.Priority == "" {
		r.Priority = PriorityNormal
	}
	if r.Criteria == nil {
		r.Criteria = map[string]string{}
	}
}

// Matches reports whether every rule criterion is present with an identical
// value in criteria. A rule with no criteria never matches.
func (r Rule) Matches(criteria map[string]string) bool {
	if len(r.Criteria) == 0 {
		return false
	}
	for k, want := range r.Criteria {
		got, ok := criteria[k]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// MatchesJob matches the rule against the job's derived routing criteria.
func (r Rule) MatchesJob(j *job.Job) bool {
	return r.Matches(j.RoutingCriteria())
}

// PriorityWeight returns the numeric weight of the rule's priority; higher
// wins. Unknown priorities weigh as Normal.
func (r Rule) PriorityWeight() int {
	if w, ok := priorityWeights[r.Priority]; ok {
		return w
	}
	return priorityWeights[PriorityNormal]
}

func (r Rule) CriteriaCount() int {
	return len(r.Criteria)
}

// CriteriaText renders the criteria as "k: v" pairs in key order.
func (r Rule) CriteriaText() string {
	if len(r.Criteria) == 0 {
		return "No criteria"
	}
	keys := make([]string, 0, len(r.Criteria))
	for k := range r.Criteria {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+r.Criteria[k])
	}
	return strings.Join(parts, ", ")
}

// IsSpecific reports whether the rule has three or more criteria.
func (r Rule) IsSpecific() bool {
	return len(r.Criteria) >= 3
}

// ConflictsWith reports whether other routes to a different folder while
// agreeing on every criterion the two rules share.
func (r Rule) ConflictsWith(other Rule) bool {
	if r.TargetFolder == other.TargetFolder {
		return false
	}

	common := 0
	for k, v := range r.Criteria {
		ov, ok := other.Criteria[k]
		if !ok {
			continue
		}
		common++
		if ov != v {
			return false
		}
	}
	return common > 0
}

// UpdateCriteria replaces the criteria and stamps Modified.
func (r *Rule) UpdateCriteria(criteria map[string]string) {
	cp := make(map[string]string, len(criteria))
	for k, v := range criteria {
		cp[k] = v
	}
	r.Criteria = cp
	r.Modified = now()
}

// UpdateTarget replaces the target folder and stamps Modified.
func (r *Rule) UpdateTarget(target string) {
	r.TargetFolder = target
	r.Modified = now()
}

// Validate returns every problem that makes the rule unusable.
func (r Rule) Validate() (bool, []string) {
	var errs []string

	if strings.TrimSpace(r.TargetFolder) == "" {
		errs = append(errs, "Target folder is required")
	}
	if len(r.Criteria) == 0 {
		errs = append(errs, "At least one criteria is required")
	}
	if _, ok := priorityWeights[r.Priority]; !ok {
		errs = append(errs, "Priority must be High, Normal, or Low")
	}

	keys := make([]string, 0, len(r.Criteria))
	for k := range r.Criteria {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.TrimSpace(r.Criteria[k]) == "" {
			errs = append(errs, fmt.Sprintf("Criteria '%s' has empty value", k))
		}
	}

	return len(errs) == 0, errs
}

func (r Rule) String() string {
	return fmt.Sprintf("RoutingRule(%s, %s, %s)", r.TargetFolder, r.Priority, r.CriteriaText())
}
