package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTagCode(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		assetID  int
		expected string
	}{
		{
			name:     "Basic Case",
			prefix:   "LT",
			assetID:  123,
			expected: "AST-LT123",
		},
		{
			name:     "Different Category",
			prefix:   "MR",
			assetID:  456,
			expected: "AST-MR456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tagCode := NewTagCode(tt.prefix, tt.assetID)
			actual := tagCode.GenerateTagCode()
			assert.Equal(t, tt.expected, actual)
		})
	}
}
