package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rpupo63/portfolio-backend/models"
)

// LoadSeedFile reads an initial catalog from a YAML file
func LoadSeedFile(path string) (models.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("read seed file: %w", err)
	}

	var seed models.Catalog
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return models.Catalog{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	for i, skill := range seed.Skills {
		if err := skill.Validate(); err != nil {
			return models.Catalog{}, fmt.Errorf("seed skill %d (%s): %w", i, skill.Name, err)
		}
	}
	return seed, nil
}

// SeedIfEmpty stores seed when the catalog holds no projects, skills or learning items.
// Seed project ids are reassigned. It reports whether the seed was applied.
func (s *Store) SeedIfEmpty(ctx context.Context, seed models.Catalog) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.state.Projects) > 0 || len(s.state.Skills) > 0 || len(s.state.CurrentlyLearning) > 0 {
		return false, nil
	}

	next := s.state.Clone()
	nextID := s.nextID
	var techs []string
	for _, p := range seed.Projects {
		p = p.Clone()
		p.Title = strings.TrimSpace(p.Title)
		if p.Title == "" {
			continue
		}
		p.ID = nextID
		nextID++
		p.Technologies = models.NormalizeTechnologies(p.Technologies)
		techs = append(techs, p.Technologies...)
		next.Projects = append(next.Projects, p)
	}
	next.Skills = append(make([]models.Skill, 0, len(seed.Skills)), seed.Skills...)
	next.CurrentlyLearning = append(make([]string, 0, len(seed.CurrentlyLearning)), seed.CurrentlyLearning...)
	techs = append(techs, seed.TechnologyTags...)
	next.TechnologyTags, _ = extendTags(next.TechnologyTags, techs)

	if err := s.commitLocked(ctx, next, Commit{
		Operation:         "seed catalog",
		UpsertProjects:    next.Clone().Projects,
		Skills:            true,
		CurrentlyLearning: true,
		TechnologyTags:    true,
	}); err != nil {
		return false, err
	}
	s.nextID = nextID

	s.logger.Info().Int("projects", len(next.Projects)).Int("skills", len(next.Skills)).Msg("Catalog seeded")
	return true, nil
}
