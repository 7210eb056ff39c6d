// Package routing decides which hotfolder subfolder a print job lands in and
// performs the copies: one to the printer hotfolder and, optionally, one to
// the client's art archive.
//
// Rule selection is a pure function over rule data (SelectRule). The Engine
// wraps it with the settings document it was constructed with.
package routing

import (
	"sort"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/3leaps/gohotfolder/pkg/job"
	"github.com/3leaps/gohotfolder/pkg/rule"
	"github.com/3leaps/gohotfolder/pkg/settings"
)

// DefaultFolder receives jobs that no rule matches.
const DefaultFolder = "Default"

// Engine routes jobs using an explicitly owned settings document.
type Engine struct {
	settings *settings.Settings
	logger   *zap.Logger
	busy     atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New returns an engine reading st. A nil st uses settings.Defaults().
func New(st *settings.Settings, opts ...Option) *Engine {
	if st == nil {
		st = settings.Defaults()
	}
	e := &Engine{settings: st, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Settings returns the document the engine reads and, for CreateAutoRoutingRule
// and the scan operations, writes.
func (e *Engine) Settings() *settings.Settings {
	return e.settings
}

// SelectRule picks the winning rule for criteria.
//
// Matching rules are collected in list order and stable-sorted by priority
// weight, highest first, so equal priorities keep their original order.
// Criteria count plays no part. The index refers to rules.
func SelectRule(rules []rule.Rule, criteria map[string]string) (rule.Rule, int, bool) {
	matches := matchingIndexes(rules, criteria)
	if len(matches) == 0 {
		return rule.Rule{}, -1, false
	}
	if len(matches) > 1 {
		sort.SliceStable(matches, func(a, b int) bool {
			return rules[matches[a]].PriorityWeight() > rules[matches[b]].PriorityWeight()
		})
	}
	idx := matches[0]
	return rules[idx], idx, true
}

func matchingIndexes(rules []rule.Rule, criteria map[string]string) []int {
	var out []int
	for i, r := range rules {
		if r.Matches(criteria) {
			out = append(out, i)
		}
	}
	return out
}

// DetermineTargetFolder returns the target folder of the winning rule for
// the job's printer. ok is false when the printer has no rules or none match.
func (e *Engine) DetermineTargetFolder(j *job.Job) (folder string, ok bool) {
	rules := e.settings.RoutingRulesFor(j.Printer)
	if len(rules) == 0 {
		e.logger.Debug("No routing rules for printer", zap.String("printer", j.Printer))
		return "", false
	}

	criteria := j.RoutingCriteria()
	r, idx, ok := SelectRule(rules, criteria)
	if !ok {
		e.logger.Debug("No routing rule matched",
			zap.String("printer", j.Printer),
			zap.Any("criteria", criteria),
		)
		return "", false
	}

	e.logger.Debug("Routing rule selected",
		zap.String("printer", j.Printer),
		zap.Int("rule", idx+1),
		zap.String("target", r.TargetFolder),
		zap.String("priority", r.Priority),
	)
	return r.TargetFolder, true
}

// RuleMatch is one rule that matched during a dry run.
type RuleMatch struct {
	Index        int               `json:"index"`
	TargetFolder string            `json:"target_folder"`
	Criteria     map[string]string `json:"criteria"`
	Priority     string            `json:"priority"`
}

// RoutingTest is the result of a routing dry run.
type RoutingTest struct {
	JobCriteria   map[string]string `json:"job_criteria"`
	TargetFolder  string            `json:"target_folder"`
	MatchingRules []RuleMatch       `json:"matching_rules"`
	Printer       string            `json:"printer"`
	Success       bool              `json:"success"`
}

// TestJobRouting reports where j would route and every rule that matched,
// not just the winner. It performs no file I/O.
func (e *Engine) TestJobRouting(j *job.Job) RoutingTest {
	criteria := j.RoutingCriteria()
	rules := e.settings.RoutingRulesFor(j.Printer)

	res := RoutingTest{
		JobCriteria:   criteria,
		MatchingRules: []RuleMatch{},
		Printer:       j.Printer,
	}
	for _, i := range matchingIndexes(rules, criteria) {
		r := rules[i]
		res.MatchingRules = append(res.MatchingRules, RuleMatch{
			Index:        i,
			TargetFolder: r.TargetFolder,
			Criteria:     r.Criteria,
			Priority:     r.Priority,
		})
	}

	if r, _, ok := SelectRule(rules, criteria); ok {
		res.TargetFolder = r.TargetFolder
		res.Success = true
	}
	return res
}
