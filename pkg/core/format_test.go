package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatQuery(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "single line",
			in:   "SELECT 1",
			want: "SELECT 1",
		},
		{
			name: "strips source indentation",
			in:   "\n\t\t\tSELECT *\n\t\t\tFROM users\n\t\t\t\tWHERE id = 1\n\t\t",
			want: "SELECT *\nFROM users\n\tWHERE id = 1",
		},
		{
			name: "unbalanced tabs clamp at zero",
			in:   "\t\tSELECT a\n\t\t\tFROM t\nWHERE 1",
			want: "SELECT a\n\tFROM t\nWHERE 1",
		},
		{
			name: "first line without tabs",
			in:   "SELECT a,\n\tb\n\tFROM t",
			want: "SELECT a,\n\tb\n\tFROM t",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatQuery(tt.in))
		})
	}
}
