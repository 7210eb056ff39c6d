package filename

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		wantValid bool
		wantIssue string
	}{
		{name: "valid", filename: "TIT1001_Acme_24x36_QTY1.pdf", wantValid: true},
		{name: "empty", filename: "", wantIssue: "Filename is empty"},
		{name: "extension only", filename: ".pdf", wantIssue: "Filename contains only extension"},
		{name: "invalid char", filename: "a<b.pdf", wantIssue: "Contains invalid character: '<'"},
		{name: "too long", filename: strings.Repeat("a", 250) + ".pdf", wantIssue: "Filename is too long (>200 characters)"},
		{name: "reserved", filename: "CON.pdf", wantIssue: "'CON' is a reserved filename"},
		{name: "reserved lowercase", filename: "lpt3.pdf", wantIssue: "'LPT3' is a reserved filename"},
		{name: "double underscore", filename: "TIT1__24x36.pdf", wantIssue: "Contains double underscores (possible missing data)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, issues := Validate(tt.filename)
			assert.Equal(t, tt.wantValid, ok)
			if tt.wantIssue == "" {
				assert.Empty(t, issues)
				return
			}
			assert.Contains(t, issues, tt.wantIssue)
		})
	}
}

func TestValidate_ReturnsEveryIssue(t *testing.T) {
	ok, issues := Validate(`a:b|c__d.pdf`)
	assert.False(t, ok)
	assert.Equal(t, []string{
		"Contains invalid character: ':'",
		"Contains invalid character: '|'",
		"Contains double underscores (possible missing data)",
	}, issues)
}

func TestValidate_LengthCountsCharacters(t *testing.T) {
	ok, issues := Validate(strings.Repeat("é", 120) + ".pdf")
	assert.True(t, ok)
	assert.Empty(t, issues)

	ok, issues = Validate(strings.Repeat("é", 197) + ".pdf")
	assert.False(t, ok)
	assert.Equal(t, []string{"Filename is too long (>200 characters)"}, issues)
}

func TestValidate_COM10IsNotReserved(t *testing.T) {
	ok, _ := Validate("COM10.pdf")
	assert.True(t, ok)
}

func TestSanitizeComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "   ", want: ""},
		{in: "Acme Corp", want: "Acme_Corp"},
		{in: "Top & Bottom", want: "Top_and_Bottom"},
		{in: `a/b\c:d`, want: "a-b-c-d"},
		{in: `what?*"<>`, want: "what"},
		{in: "a|b", want: "a-b"},
		{in: "  lots   of   space  ", want: "lots_of_space"},
		{in: "_edge_", want: "edge"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeComponent(tt.in))
		})
	}
}

func TestAnalyze(t *testing.T) {
	a := Analyze("TIT1001_Acme_24x36_QTY5_Matte_03-07-26.pdf")

	assert.True(t, a.IsValid)
	assert.Equal(t, []string{"TIT1001", "Acme", "24x36", "QTY5", "Matte", "03-07-26"}, a.EstimatedParts)

	types := make([]string, 0, len(a.Components))
	for _, c := range a.Components {
		types = append(types, c.Type)
	}
	assert.Equal(t, []string{JobNumber, "unknown", Size, Quantity, Finish, Date}, types)
}

func TestAnalyze_Empty(t *testing.T) {
	a := Analyze("")
	assert.False(t, a.IsValid)
	assert.Empty(t, a.Components)
}
