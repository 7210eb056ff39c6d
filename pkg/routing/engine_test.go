package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3leaps/gohotfolder/pkg/job"
	"github.com/3leaps/gohotfolder/pkg/rule"
	"github.com/3leaps/gohotfolder/pkg/settings"
)

func ruleWith(target, priority string, criteria map[string]string) rule.Rule {
	r := rule.New(target, criteria)
	r.Priority = priority
	return r
}

func TestSelectRule_HigherPriorityWins(t *testing.T) {
	rules := []rule.Rule{
		ruleWith("A", rule.PriorityNormal, map[string]string{job.CriterionFinish: "Matte"}),
		ruleWith("B", rule.PriorityHigh, map[string]string{job.CriterionFinish: "Matte"}),
	}

	r, idx, ok := SelectRule(rules, map[string]string{job.CriterionFinish: "Matte", job.CriterionBleed: "Bleed"})
	require.True(t, ok)
	assert.Equal(t, "B", r.TargetFolder)
	assert.Equal(t, 1, idx)
}

func TestSelectRule_TieKeepsListOrder(t *testing.T) {
	rules := []rule.Rule{
		ruleWith("first", rule.PriorityNormal, map[string]string{job.CriterionFinish: "Matte"}),
		ruleWith("second", rule.PriorityNormal, map[string]string{
			job.CriterionFinish: "Matte",
			job.CriterionBleed:  "Bleed",
		}),
	}

	r, idx, ok := SelectRule(rules, map[string]string{job.CriterionFinish: "Matte", job.CriterionBleed: "Bleed"})
	require.True(t, ok)
	assert.Equal(t, "first", r.TargetFolder, "criteria count must not break ties")
	assert.Equal(t, 0, idx)
}

func TestSelectRule_NoMatch(t *testing.T) {
	rules := []rule.Rule{
		ruleWith("A", rule.PriorityHigh, map[string]string{job.CriterionFinish: "Glossy"}),
		ruleWith("empty", rule.PriorityHigh, map[string]string{}),
	}

	_, idx, ok := SelectRule(rules, map[string]string{job.CriterionFinish: "Matte"})
	assert.False(t, ok)
	assert.Equal(t, -1, idx)

	_, _, ok = SelectRule(nil, map[string]string{job.CriterionFinish: "Matte"})
	assert.False(t, ok)
}

func TestSelectRule_EmptyCriteriaNeverMatches(t *testing.T) {
	rules := []rule.Rule{ruleWith("catchall", rule.PriorityHigh, nil)}

	_, _, ok := SelectRule(rules, map[string]string{})
	assert.False(t, ok)
}

func testSettings() *settings.Settings {
	st := settings.Defaults()
	st.RoutingRules["S60"] = []rule.Rule{
		ruleWith("Matte", rule.PriorityNormal, map[string]string{job.CriterionFinish: "Matte"}),
		ruleWith("MatteBleed", rule.PriorityHigh, map[string]string{
			job.CriterionFinish: "Matte",
			job.CriterionBleed:  "Bleed",
		}),
	}
	return st
}

func TestDetermineTargetFolder(t *testing.T) {
	e := New(testSettings())

	j := job.New()
	j.Printer = "S60"
	j.Finish = "Matte"
	folder, ok := e.DetermineTargetFolder(j)
	require.True(t, ok)
	assert.Equal(t, "Matte", folder)

	j.Bleed = "Bleed"
	folder, ok = e.DetermineTargetFolder(j)
	require.True(t, ok)
	assert.Equal(t, "MatteBleed", folder)

	j.Printer = "Canon"
	_, ok = e.DetermineTargetFolder(j)
	assert.False(t, ok)
}

func TestTestJobRouting(t *testing.T) {
	e := New(testSettings())

	j := job.New()
	j.Printer = "S60"
	j.Finish = "Matte"
	j.Bleed = "Bleed"

	res := e.TestJobRouting(j)
	assert.True(t, res.Success)
	assert.Equal(t, "MatteBleed", res.TargetFolder)
	assert.Equal(t, "S60", res.Printer)
	require.Len(t, res.MatchingRules, 2)
	assert.Equal(t, 0, res.MatchingRules[0].Index)
	assert.Equal(t, 1, res.MatchingRules[1].Index)
	assert.Equal(t, "Matte", res.JobCriteria[job.CriterionFinish])
}

func TestTestJobRouting_NoRules(t *testing.T) {
	e := New(nil)

	j := job.New()
	j.Printer = "Nowhere"
	res := e.TestJobRouting(j)
	assert.False(t, res.Success)
	assert.Empty(t, res.TargetFolder)
	assert.NotNil(t, res.MatchingRules)
	assert.Empty(t, res.MatchingRules)
}
