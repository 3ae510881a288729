package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Amō  ", "amo"},
		{"λόγος", "λογος"},
		{"ἄνθρωπος", "ανθρωπος"},
		{"to   LOVE\tdearly", "to love dearly"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("ROSA", "rosa"))
	assert.True(t, Equal("λόγου", "λογου"))
	assert.False(t, Equal("", ""))
	assert.False(t, Equal("rosa", "rosam"))
}
