package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "Canon/**", want: "Canon/**"},
		{in: `Canon\**`, want: `Canon\**`},
		{in: `Canon\Matte\**`, want: `Canon/Matte/**`},
		{in: `Rush\*`, want: `Rush\*`},
		{in: `Odd\[1\]`, want: `Odd\[1\]`},
		{in: `trailing\`, want: "trailing/"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePattern(tt.in))
		})
	}
}

func TestIsHidden(t *testing.T) {
	assert.False(t, IsHidden("Vinyl"))
	assert.False(t, IsHidden("Vinyl."))
	assert.True(t, IsHidden(".Trash"))
	assert.True(t, IsHidden("Canon/.cache"))
	assert.False(t, IsHidden(""))
}
