package sidra

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTable(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		label   bool
		want    [][]string
		wantErr bool
	}{
		{
			name:  "aligns later rows by key",
			input: `[{"b":"1","a":"2"},{"a":"4","b":"3","extra":"x"},{"b":"5"}]`,
			want:  [][]string{{"b", "a"}, {"1", "2"}, {"3", "4"}, {"5", ""}},
		},
		{
			name:  "numbers nulls and booleans",
			input: `[{"V":12.50,"N":null,"B":true}]`,
			want:  [][]string{{"V", "N", "B"}, {"12.50", "", "true"}},
		},
		{
			name:  "label row becomes header",
			input: `[{"V":"Valor"}]`,
			label: true,
			want:  [][]string{{"Valor"}},
		},
		{
			name:  "empty array",
			input: `[]`,
			want:  nil,
		},
		{
			name:    "nested value",
			input:   `[{"V":{"x":1}}]`,
			wantErr: true,
		},
		{
			name:    "not an array",
			input:   `"oops"`,
			wantErr: true,
		},
		{
			name:    "truncated",
			input:   `[{"V":"1"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeTable(strings.NewReader(tt.input), tt.label)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
