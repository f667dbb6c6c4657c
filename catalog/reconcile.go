package catalog

import (
	"context"
	"slices"

	"github.com/rpupo63/portfolio-backend/models"
)

// ImportResult summarizes one merge of imported projects
type ImportResult struct {
	Projects  []models.Project `json:"projects"`
	Added     int              `json:"added"`
	Updated   int              `json:"updated"`
	Unchanged int              `json:"unchanged"`
}

// MergeImported folds freshly imported projects into the catalog.
//
// Projects are matched on source URL. A match only takes the fields that come from the
// repository host (description, technologies, source URL); id, title, featured and demo URL
// keep whatever the admin set. Unmatched imports are added with new ids. Existing projects
// missing from the import are left alone.
func (s *Store) MergeImported(ctx context.Context, imported []models.Project) (ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	plan := reconcile(next.Projects, imported, s.nextID)
	next.Projects = plan.projects

	var techs []string
	for _, p := range imported {
		techs = append(techs, models.NormalizeTechnologies(p.Technologies)...)
	}
	var tagsChanged bool
	next.TechnologyTags, tagsChanged = extendTags(next.TechnologyTags, techs)

	result := ImportResult{
		Added:     plan.added,
		Updated:   plan.updated,
		Unchanged: plan.unchanged,
	}

	if len(plan.changed) > 0 || tagsChanged {
		if err := s.commitLocked(ctx, next, Commit{
			Operation:      "merge imported projects",
			UpsertProjects: plan.changed,
			TechnologyTags: tagsChanged,
		}); err != nil {
			return ImportResult{}, err
		}
		s.nextID = plan.nextID
	}

	result.Projects = s.state.Clone().Projects

	s.logger.Info().
		Int("added", result.Added).
		Int("updated", result.Updated).
		Int("unchanged", result.Unchanged).
		Msg("Imported projects merged")

	return result, nil
}

type mergePlan struct {
	projects  []models.Project
	changed   []models.Project
	nextID    int
	added     int
	updated   int
	unchanged int
}

// reconcile computes the merged project list without touching the store.
// existing is modified in place; callers pass a copy.
func reconcile(existing []models.Project, imported []models.Project, nextID int) mergePlan {
	plan := mergePlan{projects: existing, nextID: nextID}

	bySource := make(map[string]int, len(existing))
	for i, p := range existing {
		if key := p.SourceKey(); key != "" {
			if _, dup := bySource[key]; !dup {
				bySource[key] = i
			}
		}
	}
	touched := make(map[string]bool, len(imported))

	for _, in := range imported {
		in = in.Clone()
		in.Technologies = models.NormalizeTechnologies(in.Technologies)
		key := in.SourceKey()

		if key != "" && touched[key] {
			continue
		}

		if idx, ok := bySource[key]; ok && key != "" {
			touched[key] = true
			current := plan.projects[idx]
			merged := current.Apply(models.ProjectPatch{
				Description:  in.Description,
				Technologies: &in.Technologies,
				SourceURL:    in.SourceURL,
			})
			if in.Description == nil {
				merged.Description = nil
			}
			if sameImportedFields(current, merged) {
				plan.unchanged++
				continue
			}
			plan.projects[idx] = merged
			plan.changed = append(plan.changed, merged)
			plan.updated++
			continue
		}

		in.ID = plan.nextID
		plan.nextID++
		plan.projects = append(plan.projects, in)
		plan.changed = append(plan.changed, in)
		plan.added++
		if key != "" {
			touched[key] = true
			bySource[key] = len(plan.projects) - 1
		}
	}

	return plan
}

func sameImportedFields(a, b models.Project) bool {
	return equalStringPtr(a.Description, b.Description) &&
		equalStringPtr(a.SourceURL, b.SourceURL) &&
		slices.Equal(a.Technologies, b.Technologies)
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
