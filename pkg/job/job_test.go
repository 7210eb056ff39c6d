package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	j := New()

	assert.Equal(t, "TIT", j.JobPrefix)
	assert.Equal(t, "24x36", j.SizeString())
	assert.Equal(t, "1", j.Quantity)
	assert.Equal(t, PrintModeRoll, j.PrintMode)
	assert.Equal(t, "QuickSet1", j.Quickset)
	assert.True(t, j.InjectMetadata)
}

func TestRoutingCriteria_DropsUnsetValues(t *testing.T) {
	j := New()

	got := j.RoutingCriteria()
	assert.Equal(t, map[string]string{
		CriterionPrintMode:  "Roll",
		CriterionMediaGroup: "Vinyl",
		CriterionJobType:    "Standard",
		CriterionFinish:     "Glossy",
	}, got)
}

func TestRoutingCriteria_SSDSOnlyForFlatbed(t *testing.T) {
	tests := []struct {
		name   string
		mode   string
		wantOK bool
	}{
		{name: "roll omits ssds", mode: PrintModeRoll, wantOK: false},
		{name: "flatbed includes ssds", mode: PrintModeFlatbed, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := New()
			j.PrintMode = tt.mode
			j.SSDSMode = "DS"

			v, ok := j.RoutingCriteria()[CriterionSSDSMode]
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, "DS", v)
			}
		})
	}
}

func TestRoutingCriteria_IncludesSetFinishing(t *testing.T) {
	j := New()
	j.Bleed = "Bleed"
	j.Mirror = "Yes"
	j.PolePockets = "Top & Bottom"
	j.Rotation = "90 CW"

	got := j.RoutingCriteria()
	assert.Equal(t, "Bleed", got[CriterionBleed])
	assert.Equal(t, "Yes", got[CriterionMirror])
	assert.Equal(t, "Top & Bottom", got[CriterionPolePockets])
	assert.Equal(t, "90 CW", got[CriterionRotation])
	assert.NotContains(t, got, CriterionGrommets)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(j *Job)
		wantOK  bool
		wantErr string
	}{
		{
			name:   "valid job",
			mutate: func(j *Job) {},
			wantOK: true,
		},
		{
			name:    "missing file",
			mutate:  func(j *Job) { j.FilePath = "" },
			wantErr: "No file selected",
		},
		{
			name:    "blank client",
			mutate:  func(j *Job) { j.Client = "   " },
			wantErr: "Client name is required",
		},
		{
			name:    "missing printer",
			mutate:  func(j *Job) { j.Printer = "" },
			wantErr: "Printer must be selected",
		},
		{
			name:    "non numeric width",
			mutate:  func(j *Job) { j.SizeW = "wide" },
			wantErr: "Size dimensions must be numeric",
		},
		{
			name:    "fractional quantity",
			mutate:  func(j *Job) { j.Quantity = "1.5" },
			wantErr: "Quantity must be a number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := New()
			j.FilePath = "/tmp/art.pdf"
			j.Client = "Acme"
			j.Printer = "Canon"
			tt.mutate(j)

			ok, errs := j.Validate()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantErr != "" {
				assert.Contains(t, errs, tt.wantErr)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestValidate_ReportsAllIssues(t *testing.T) {
	j := New()
	j.SizeH = "tall"
	j.Quantity = "many"

	ok, errs := j.Validate()
	assert.False(t, ok)
	assert.Len(t, errs, 5)
}

func TestFromMap_IgnoresUnknownKeys(t *testing.T) {
	j := FromMap(map[string]any{
		"client":            "Acme",
		"size_w":            12,
		"quickset_override": true,
		"not_a_field":       "x",
	})

	assert.Equal(t, "Acme", j.Client)
	assert.Equal(t, "12", j.SizeW)
	assert.True(t, j.QuicksetOverride)
	assert.Equal(t, "TIT", j.JobPrefix)

	m := j.ToMap()
	assert.Equal(t, "Acme", m["client"])
	assert.NotContains(t, m, "not_a_field")
}

func TestApplyPreset(t *testing.T) {
	j := New()
	require.NoError(t, j.ApplyPreset("Banner Standard"))

	assert.Equal(t, "Banner", j.MediaGroup)
	assert.Equal(t, "48x96", j.SizeString())
	assert.Equal(t, "Corners", j.Grommets)
	assert.Equal(t, "Matte", j.Finish)

	require.Error(t, j.ApplyPreset("nope"))
	assert.Len(t, PresetNames(), 2)
}

func TestString(t *testing.T) {
	j := New()
	j.JobSuffix = "1234"
	j.Client = "Acme"
	assert.Equal(t, "Job(TIT1234, Acme, 24x36)", j.String())
}
