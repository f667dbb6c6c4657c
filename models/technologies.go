package models

import "strings"

// AllTechnologiesTag is the sentinel first entry of the technology tag index
const AllTechnologiesTag = "all"

// NormalizeTechnologies trims every entry, drops empties and removes duplicates while keeping
// the first occurrence. The result is never nil.
func NormalizeTechnologies(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ParseTechnologies converts the comma separated form used by edit forms into the canonical list
func ParseTechnologies(s string) []string {
	return NormalizeTechnologies(strings.Split(s, ","))
}

// FormatTechnologies renders the canonical list as a comma separated string
func FormatTechnologies(techs []string) string {
	return strings.Join(NormalizeTechnologies(techs), ", ")
}
