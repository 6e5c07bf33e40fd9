package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidBase36(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"abc123", true},
		{"1", true},
		{"", false},
		{"ABC", false},
		{"abc_123", false},
		{"t1_abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidBase36(tt.input))
		})
	}
}

func TestIsValidFullname(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"t1_abc123", true},
		{"t3_xyz", true},
		{"t7_abc", false},
		{"abc123", false},
		{"t1_", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidFullname(tt.input))
		})
	}
}

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("some_user-1"))
	assert.False(t, IsValidUsername("ab"))
	assert.False(t, IsValidUsername("[deleted]"))
}

func TestIsValidPermalink(t *testing.T) {
	assert.True(t, IsValidPermalink("/r/golang/comments/abc123/some_title/"))
	assert.True(t, IsValidPermalink("/r/golang/comments/abc123/some_title/def456/"))
	assert.False(t, IsValidPermalink("https://reddit.com/r/golang"))
	assert.False(t, IsValidPermalink(""))
}
