package models

// Catalog is a read-only view of everything the site renders
type Catalog struct {
	Projects          []Project `json:"projects" yaml:"projects"`
	Skills            []Skill   `json:"skills" yaml:"skills"`
	CurrentlyLearning []string  `json:"currentlyLearning" yaml:"currentlyLearning"`
	TechnologyTags    []string  `json:"technologyTags" yaml:"technologyTags"`
}

// Clone returns a deep copy with non-nil slices
func (c Catalog) Clone() Catalog {
	out := Catalog{
		Projects:          make([]Project, 0, len(c.Projects)),
		Skills:            append(make([]Skill, 0, len(c.Skills)), c.Skills...),
		CurrentlyLearning: append(make([]string, 0, len(c.CurrentlyLearning)), c.CurrentlyLearning...),
		TechnologyTags:    append(make([]string, 0, len(c.TechnologyTags)), c.TechnologyTags...),
	}
	for _, p := range c.Projects {
		out.Projects = append(out.Projects, p.Clone())
	}
	return out
}

// FeaturedCount returns how many projects are flagged as featured
func (c Catalog) FeaturedCount() int {
	n := 0
	for _, p := range c.Projects {
		if p.Featured {
			n++
		}
	}
	return n
}
