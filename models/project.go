package models

// Project represents a portfolio project shown on the site
type Project struct {
	ID           int      `json:"id" yaml:"id" db:"id" gorm:"primaryKey;autoIncrement:false;not null"`
	Title        string   `json:"title" yaml:"title" db:"title" gorm:"type:text;not null"`
	Description  *string  `json:"description" yaml:"description" db:"description" gorm:"type:text"`
	Technologies []string `json:"technologies" yaml:"technologies" db:"technologies" gorm:"type:jsonb;serializer:json;not null"`
	DemoURL      *string  `json:"demoUrl,omitempty" yaml:"demoUrl" db:"demo_url" gorm:"type:text"`
	SourceURL    *string  `json:"sourceUrl,omitempty" yaml:"sourceUrl" db:"source_url" gorm:"type:text;index:idx_project_source_url"`
	Featured     bool     `json:"featured" yaml:"featured" db:"featured" gorm:"not null"`
}

// ProjectPatch carries the fields of a partial project update. Nil fields are left untouched.
type ProjectPatch struct {
	Title        *string
	Description  *string
	Technologies *[]string
	DemoURL      *string
	SourceURL    *string
	Featured     *bool
}

// Clone returns a deep copy so callers never share slices or pointers with the store
func (p Project) Clone() Project {
	out := p
	out.Description = cloneString(p.Description)
	out.DemoURL = cloneString(p.DemoURL)
	out.SourceURL = cloneString(p.SourceURL)
	out.Technologies = append(make([]string, 0, len(p.Technologies)), p.Technologies...)
	return out
}

// Apply merges the supplied fields of patch into a copy of p. The id is never changed.
func (p Project) Apply(patch ProjectPatch) Project {
	out := p.Clone()
	if patch.Title != nil {
		out.Title = *patch.Title
	}
	if patch.Description != nil {
		out.Description = cloneString(patch.Description)
	}
	if patch.Technologies != nil {
		out.Technologies = NormalizeTechnologies(*patch.Technologies)
	}
	if patch.DemoURL != nil {
		out.DemoURL = cloneString(patch.DemoURL)
	}
	if patch.SourceURL != nil {
		out.SourceURL = cloneString(patch.SourceURL)
	}
	if patch.Featured != nil {
		out.Featured = *patch.Featured
	}
	return out
}

// SourceKey returns the provenance key used to match imported repositories, or "" if unset
func (p Project) SourceKey() string {
	if p.SourceURL == nil {
		return ""
	}
	return *p.SourceURL
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StringPtr is a small helper for optional string fields
func StringPtr(s string) *string {
	return &s
}
