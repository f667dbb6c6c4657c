package models

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SkillCategory groups skills on the site. It is a closed set.
type SkillCategory string

const (
	CategoryFrontend SkillCategory = "frontend"
	CategoryBackend  SkillCategory = "backend"
	CategoryTools    SkillCategory = "tools"
	CategoryDatabase SkillCategory = "database"
	CategoryOther    SkillCategory = "other"
)

// SkillCategories lists every category in display order
var SkillCategories = []SkillCategory{
	CategoryFrontend,
	CategoryBackend,
	CategoryTools,
	CategoryDatabase,
	CategoryOther,
}

// Valid reports whether c is one of the known categories
func (c SkillCategory) Valid() bool {
	switch c {
	case CategoryFrontend, CategoryBackend, CategoryTools, CategoryDatabase, CategoryOther:
		return true
	}
	return false
}

// Label returns the heading used when skills are grouped for display
func (c SkillCategory) Label() string {
	switch c {
	case CategoryFrontend:
		return "Frontend"
	case CategoryBackend:
		return "Backend"
	case CategoryTools:
		return "Tools"
	case CategoryDatabase:
		return "Database"
	case CategoryOther:
		return "Other"
	}
	return ""
}

const (
	MinSkillLevel = 0
	MaxSkillLevel = 100
)

// Skill is a single entry of the skills section
type Skill struct {
	Name     string        `json:"name" yaml:"name"`
	Level    int           `json:"level" yaml:"level"`
	Category SkillCategory `json:"category" yaml:"category"`
}

var errUnknownCategory = errors.New("must be one of frontend, backend, tools, database, other")

// Validate implements validation.Validatable
func (s Skill) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Level, validation.Min(MinSkillLevel), validation.Max(MaxSkillLevel)),
		validation.Field(&s.Category, validation.By(func(value interface{}) error {
			if c, ok := value.(SkillCategory); ok && c.Valid() {
				return nil
			}
			return errUnknownCategory
		})),
	)
}

// CountByCategory returns the number of skills per category, every category present
func CountByCategory(skills []Skill) map[SkillCategory]int {
	counts := make(map[SkillCategory]int, len(SkillCategories))
	for _, c := range SkillCategories {
		counts[c] = 0
	}
	for _, s := range skills {
		if s.Category.Valid() {
			counts[s.Category]++
		}
	}
	return counts
}
