package cnpj

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "11222333000181", Clean("11.222.333/0001-81"))
	assert.Equal(t, "11222333000181", Clean("11222333000181"))
	assert.Equal(t, "", Clean("abc/.-"))
}

func TestValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"formatted valid", "11.222.333/0001-81", true},
		{"bare valid", "11222333000181", true},
		{"wrong check digit", "11.222.333/0001-82", false},
		{"mutated body digit", "11.222.334/0001-81", false},
		{"all identical digits", "11111111111111", false},
		{"too short", "1122233300018", false},
		{"too long", "112223330001810", false},
		{"empty", "", false},
		{"letters only", "not-a-cnpj", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Valid(tt.in))
		})
	}
}
