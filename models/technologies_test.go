package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTechnologies(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"simple", "Go,React", []string{"Go", "React"}},
		{"spaces and empties", " Go , , React ,", []string{"Go", "React"}},
		{"duplicates keep first", "Go, React, Go", []string{"Go", "React"}},
		{"empty", "", []string{}},
		{"only commas", ",,,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTechnologies(tt.input)
			assert.NotNil(t, got)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatTechnologies(t *testing.T) {
	assert.Equal(t, "Go, React", FormatTechnologies([]string{"Go", " React", ""}))
	assert.Equal(t, "", FormatTechnologies(nil))
	assert.Equal(t, []string{"Go", "React"}, ParseTechnologies(FormatTechnologies([]string{"Go", "React"})))
}

func TestProjectApplyLeavesAbsentFields(t *testing.T) {
	p := Project{
		ID:           3,
		Title:        "Site",
		Description:  StringPtr("desc"),
		Technologies: []string{"Go"},
	}

	techs := []string{"Go", " Go", "Rust"}
	out := p.Apply(ProjectPatch{Featured: boolPtr(true), Technologies: &techs})
	assert.Equal(t, 3, out.ID)
	assert.Equal(t, "Site", out.Title)
	assert.Equal(t, "desc", *out.Description)
	assert.Equal(t, []string{"Go", "Rust"}, out.Technologies)
	assert.True(t, out.Featured)

	*out.Description = "changed"
	assert.Equal(t, "desc", *p.Description)
}

func boolPtr(b bool) *bool {
	return &b
}
