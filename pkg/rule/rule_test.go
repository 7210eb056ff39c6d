package rule

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3leaps/gohotfolder/pkg/job"
)

func TestMatches(t *testing.T) {
	jobCriteria := map[string]string{
		"Print Mode":  "Roll",
		"Media Group": "Vinyl",
		"Finish":      "Matte",
	}

	tests := []struct {
		name     string
		criteria map[string]string
		want     bool
	}{
		{name: "empty criteria never matches", criteria: map[string]string{}, want: false},
		{name: "nil criteria never matches", criteria: nil, want: false},
		{name: "single equal criterion", criteria: map[string]string{"Finish": "Matte"}, want: true},
		{name: "subset of job criteria", criteria: map[string]string{"Finish": "Matte", "Print Mode": "Roll"}, want: true},
		{name: "value differs", criteria: map[string]string{"Finish": "Glossy"}, want: false},
		{name: "key absent from job", criteria: map[string]string{"Bleed": "Bleed"}, want: false},
		{name: "one of two differs", criteria: map[string]string{"Finish": "Matte", "Media Group": "Banner"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Rule{TargetFolder: "X", Priority: PriorityNormal, Criteria: tt.criteria}
			assert.Equal(t, tt.want, r.Matches(jobCriteria))
		})
	}
}

func TestMatchesJob_UnsetJobValuesNeverMatch(t *testing.T) {
	j := job.New()
	j.Bleed = "None"

	r := New("NoBleed", map[string]string{"Bleed": "None"})
	assert.False(t, r.MatchesJob(j), "sentinel values are dropped from job criteria")
}

func TestPriorityWeight(t *testing.T) {
	assert.Equal(t, 3, Rule{Priority: PriorityHigh}.PriorityWeight())
	assert.Equal(t, 2, Rule{Priority: PriorityNormal}.PriorityWeight())
	assert.Equal(t, 1, Rule{Priority: PriorityLow}.PriorityWeight())
	assert.Equal(t, 2, Rule{Priority: "Urgent"}.PriorityWeight())
}

func TestCriteriaText(t *testing.T) {
	assert.Equal(t, "No criteria", Rule{}.CriteriaText())

	r := Rule{Criteria: map[string]string{"Finish": "Matte", "Bleed": "Bleed"}}
	assert.Equal(t, "Bleed: Bleed, Finish: Matte", r.CriteriaText())
}

func TestConflictsWith(t *testing.T) {
	a := Rule{TargetFolder: "A", Criteria: map[string]string{"Finish": "Matte", "Bleed": "Bleed"}}

	tests := []struct {
		name  string
		other Rule
		want  bool
	}{
		{name: "same target", other: Rule{TargetFolder: "A", Criteria: map[string]string{"Finish": "Matte"}}, want: false},
		{name: "no common keys", other: Rule{TargetFolder: "B", Criteria: map[string]string{"Mirror": "Yes"}}, want: false},
		{name: "common key differs", other: Rule{TargetFolder: "B", Criteria: map[string]string{"Finish": "Glossy"}}, want: false},
		{name: "common keys agree", other: Rule{TargetFolder: "B", Criteria: map[string]string{"Finish": "Matte", "Mirror": "Yes"}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.ConflictsWith(tt.other))
		})
	}
}

func TestValidate(t *testing.T) {
	ok, errs := New("Matte", map[string]string{"Finish": "Matte"}).Validate()
	assert.True(t, ok)
	assert.Empty(t, errs)

	ok, errs = Rule{TargetFolder: " ", Priority: "Urgent", Criteria: map[string]string{}}.Validate()
	assert.False(t, ok)
	assert.Equal(t, []string{
		"Target folder is required",
		"At least one criteria is required",
		"Priority must be High, Normal, or Low",
	}, errs)

	ok, errs = Rule{TargetFolder: "X", Priority: PriorityLow, Criteria: map[string]string{"Finish": ""}}.Validate()
	assert.False(t, ok)
	assert.Equal(t, []string{"Criteria 'Finish' has empty value"}, errs)
}

func TestFromMap_Defaults(t *testing.T) {
	r := FromMap(map[string]any{"target_folder": "Banner"})

	assert.Equal(t, "Banner", r.TargetFolder)
	assert.Equal(t, PriorityNormal, r.Priority)
	assert.NotNil(t, r.Criteria)
	assert.Empty(t, r.Criteria)
	assert.NotEmpty(t, r.Created)
	assert.False(t, r.AutoGenerated)
}

func TestJSON_OmitsEmptyModified(t *testing.T) {
	r := Rule{TargetFolder: "A", Priority: PriorityHigh, Criteria: map[string]string{"Finish": "Matte"}, Created: "2026-01-01T00:00:00"}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "modified")

	r.UpdateTarget("B")
	data, err = json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"modified"`)
	assert.Contains(t, string(data), `"target_folder":"B"`)
}

func TestUpdateCriteria_Copies(t *testing.T) {
	src := map[string]string{"Finish": "Matte"}
	var r Rule
	r.UpdateCriteria(src)
	src["Finish"] = "Glossy"

	assert.Equal(t, "Matte", r.Criteria["Finish"])
	assert.NotEmpty(t, r.Modified)
}
