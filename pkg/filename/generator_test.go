package filename

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2026, 3, 7, 14, 5, 9, 0, time.UTC)

func newTestGenerator() *Generator {
	return New(WithClock(func() time.Time { return fixedNow }))
}

func baseJobData() map[string]string {
	return map[string]string{
		"job_prefix":   "TIT",
		"job_suffix":   "1001",
		"client":       "Acme Corp",
		"size_w":       "24",
		"size_h":       "36",
		"quantity":     "5",
		"finish":       "None",
		"bleed":        "None",
		"rotation":     "None",
		"registration": "None",
		"grommets":     "None",
		"pole_pockets": "None",
		"mirror":       "No",
		"custom_text":  "",
	}
}

func TestGenerate_NoFinishingOptions(t *testing.T) {
	g := newTestGenerator()

	got := g.Generate(baseJobData(), Components, map[string]bool{})
	assert.Equal(t, "TIT1001_Acme_Corp_24x36_QTY5_03-07-26.pdf", got)
	assert.NotContains(t, got, "__")
}

func TestGenerate_ExcludedComponents(t *testing.T) {
	g := newTestGenerator()

	got := g.Generate(baseJobData(), Components, map[string]bool{Date: false, Client: false})
	assert.Equal(t, "TIT1001_24x36_QTY5.pdf", got)
}

func TestGenerate_OrderIsRespected(t *testing.T) {
	g := newTestGenerator()

	got := g.Generate(baseJobData(), []string{Quantity, Size, JobNumber}, nil)
	assert.Equal(t, "QTY5_24x36_TIT1001.pdf", got)
}

func TestGenerate_ReplacesSpacesAndAmpersand(t *testing.T) {
	g := newTestGenerator()
	data := baseJobData()
	data["pole_pockets"] = "Top & Bottom"
	data["rotation"] = "90 CW"

	got := g.Generate(data, []string{PolePockets, Rotation}, nil)
	assert.Equal(t, "Top_and_Bottom_90_CW.pdf", got)
}

func TestGenerate_SkipsNoneCaseInsensitive(t *testing.T) {
	g := newTestGenerator()
	data := baseJobData()
	data["finish"] = "NONE"
	data["mirror"] = "no"
	data["custom_text"] = "  "

	got := g.Generate(data, []string{Finish, Mirror, CustomText, JobNumber}, nil)
	assert.Equal(t, "TIT1001.pdf", got)
}

func TestGenerate_EmptySizeOmittedEvenWhenIncluded(t *testing.T) {
	g := newTestGenerator()
	data := baseJobData()
	data["size_w"] = ""
	data["size_h"] = ""

	got := g.Generate(data, []string{JobNumber, Size}, map[string]bool{Size: true})
	assert.Equal(t, "TIT1001.pdf", got)
}

func TestGenerate_Defaults(t *testing.T) {
	g := newTestGenerator()

	got := g.Generate(map[string]string{}, []string{JobNumber, Quantity}, nil)
	assert.Equal(t, "TIT_QTY1.pdf", got)
}

func TestGenerate_Untitled(t *testing.T) {
	g := newTestGenerator()

	assert.Equal(t, "untitled.pdf", g.Generate(baseJobData(), []string{Finish, Mirror}, nil))
	assert.Equal(t, "untitled.pdf", g.Generate(baseJobData(), nil, nil))
	assert.Equal(t, "untitled.pdf", g.Generate(baseJobData(), []string{"unknown_key"}, nil))
}

func TestGenerate_NoDoubleUnderscoreWhenValuesPresent(t *testing.T) {
	g := newTestGenerator()
	data := map[string]string{
		"job_prefix":   "J",
		"job_suffix":   "7",
		"client":       "Big & Tall",
		"size_w":       "10",
		"size_h":       "20",
		"quantity":     "3",
		"finish":       "Matte",
		"bleed":        "Bleed",
		"rotation":     "90 CW",
		"registration": "iCut",
		"grommets":     "Corners",
		"pole_pockets": "Top & Bottom",
		"mirror":       "Yes",
		"custom_text":  "rush order",
	}

	got := g.Generate(data, Components, nil)
	assert.NotContains(t, got, "__")
	assert.True(t, strings.HasSuffix(got, Extension))
	assert.Equal(t, "J7_Big_and_Tall_10x20_QTY3_Matte_Bleed_90_CW_iCut_Corners_Top_and_Bottom_Yes_03-07-26_rush_order.pdf", got)
}

func TestGenerate_FallbackOnPanic(t *testing.T) {
	g := New(WithClock(func() time.Time { return fixedNow }))
	// Swap the client resolver for one that panics.
	orig := resolvers[Client]
	resolvers[Client] = func(map[string]string, time.Time) string { panic("boom") }
	defer func() { resolvers[Client] = orig }()

	got := g.Generate(baseJobData(), Components, nil)
	assert.Equal(t, "error_20260307_140509.pdf", got)
}

func TestPreview_MatchesGenerate(t *testing.T) {
	g := newTestGenerator()
	assert.Equal(t, g.Generate(baseJobData(), Components, nil), g.Preview(baseJobData(), Components, nil))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Size (WxH)", DisplayName(Size))
	assert.Equal(t, "Date (MM-DD-YY)", DisplayName(Date))
	assert.Equal(t, "Print Profile", DisplayName("print_profile"))
	assert.True(t, IsComponent(PolePockets))
	assert.False(t, IsComponent("print_profile"))
}
