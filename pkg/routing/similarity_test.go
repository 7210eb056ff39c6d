package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1.0},
		{"abc", "", 0.0},
		{"abc", "abc", 1.0},
		{"abc", "xyz", 0.0},
		{"acme corp", "acme_corp_art", 16.0 / 22.0},
		{"abcd", "bcde", 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestMatchClients(t *testing.T) {
	clients := []string{"Acme Corp", "Zzz", "Mapped"}
	folders := []string{"Acme_Corp_Art", "Other", "Mapped Client"}
	existing := map[string]string{"Mapped": "/art/Mapped Client"}

	got := MatchClients(clients, folders, existing, "/art")

	assert.Len(t, got, 1)
	m, ok := got["Acme Corp"]
	assert.True(t, ok)
	assert.Equal(t, "Acme_Corp_Art", m.Folder)
	assert.InDelta(t, 0.727, m.Ratio, 0.001)
	assert.Equal(t, "/art/Acme_Corp_Art", m.FullPath)

	_, ok = got["Zzz"]
	assert.False(t, ok)
	_, ok = got["Mapped"]
	assert.False(t, ok, "existing mappings are skipped")
}

func TestMatchClients_FirstFolderWinsOnEqualRatio(t *testing.T) {
	got := MatchClients([]string{"acme"}, []string{"acme1", "acme2"}, nil, "/art")
	assert.Equal(t, "acme1", got["acme"].Folder)
}
