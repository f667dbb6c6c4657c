// Package catalog owns the projects, skills and learning list rendered by the site.
// All writes are serialized through Store and committed to a Persister before they become
// visible to readers.
package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

type Store struct {
	mu        sync.RWMutex
	state     models.Catalog
	nextID    int
	persister Persister
	logger    zerolog.Logger
}

// NewStore loads the persisted catalog and returns a store ready for use
func NewStore(ctx context.Context, persister Persister) (*Store, error) {
	if persister == nil {
		persister = MemoryPersister{}
	}

	loaded, err := persister.Load(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("load", "catalog", err)
	}

	state := loaded.Clone()
	maxID := 0
	techs := make([]string, 0)
	for i := range state.Projects {
		state.Projects[i].Title = strings.TrimSpace(state.Projects[i].Title)
		state.Projects[i].Technologies = models.NormalizeTechnologies(state.Projects[i].Technologies)
		techs = append(techs, state.Projects[i].Technologies...)
		if state.Projects[i].ID > maxID {
			maxID = state.Projects[i].ID
		}
	}
	state.TechnologyTags, _ = extendTags(state.TechnologyTags, techs)

	s := &Store{
		state:     state,
		nextID:    maxID + 1,
		persister: persister,
		logger:    log.With().Str("service", "catalog").Logger(),
	}

	s.logger.Info().
		Int("projects", len(state.Projects)).
		Int("skills", len(state.Skills)).
		Int("nextID", s.nextID).
		Msg("Catalog loaded")

	return s, nil
}

// Snapshot returns a deep copy of the current catalog
func (s *Store) Snapshot() models.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Project returns a copy of the project with the given id
func (s *Store) Project(id int) (models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Project{}, errs.NewNotFound("project")
	}
	return s.state.Projects[idx].Clone(), nil
}

// CreateProject stores a new project under the next unused id. Any id on input is ignored.
func (s *Store) CreateProject(ctx context.Context, input models.Project) (models.Project, error) {
	project := input.Clone()
	project.Title = strings.TrimSpace(project.Title)
	if project.Title == "" {
		return models.Project{}, errs.NewMissingRequiredFieldError("title")
	}
	project.Technologies = models.NormalizeTechnologies(project.Technologies)

	s.mu.Lock()
	defer s.mu.Unlock()

	project.ID = s.nextID

	next := s.state.Clone()
	next.Projects = append(next.Projects, project)
	var tagsChanged bool
	next.TechnologyTags, tagsChanged = extendTags(next.TechnologyTags, project.Technologies)

	if err := s.commitLocked(ctx, next, Commit{
		Operation:      "create project",
		UpsertProjects: []models.Project{project},
		TechnologyTags: tagsChanged,
	}); err != nil {
		return models.Project{}, err
	}
	s.nextID++

	s.logger.Info().Int("id", project.ID).Str("title", project.Title).Msg("Project created")
	return project.Clone(), nil
}

// UpdateProject merges the supplied fields into an existing project
func (s *Store) UpdateProject(ctx context.Context, id int, patch models.ProjectPatch) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Project{}, errs.NewNotFound("project")
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return models.Project{}, errs.NewInvalidFieldError("title", "must not be empty")
		}
		patch.Title = &title
	}
	updated := s.state.Projects[idx].Apply(patch)

	next := s.state.Clone()
	next.Projects[idx] = updated
	var tagsChanged bool
	next.TechnologyTags, tagsChanged = extendTags(next.TechnologyTags, updated.Technologies)

	if err := s.commitLocked(ctx, next, Commit{
		Operation:      "update project",
		UpsertProjects: []models.Project{updated},
		TechnologyTags: tagsChanged,
	}); err != nil {
		return models.Project{}, err
	}

	s.logger.Info().Int("id", id).Msg("Project updated")
	return updated.Clone(), nil
}

// DeleteProject removes a project. Its technologies stay in the tag index.
func (s *Store) DeleteProject(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return errs.NewNotFound("project")
	}

	next := s.state.Clone()
	next.Projects = append(next.Projects[:idx], next.Projects[idx+1:]...)

	if err := s.commitLocked(ctx, next, Commit{
		Operation:        "delete project",
		DeleteProjectIDs: []int{id},
	}); err != nil {
		return err
	}

	s.logger.Info().Int("id", id).Msg("Project deleted")
	return nil
}

// ReplaceSkills discards the previous skills and stores the given list verbatim
func (s *Store) ReplaceSkills(ctx context.Context, skills []models.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	next.Skills = append(make([]models.Skill, 0, len(skills)), skills...)

	if err := s.commitLocked(ctx, next, Commit{Operation: "replace skills", Skills: true}); err != nil {
		return err
	}

	s.logger.Info().Int("count", len(skills)).Msg("Skills replaced")
	return nil
}

// ReplaceCurrentlyLearning discards the previous list and stores the given one verbatim
func (s *Store) ReplaceCurrentlyLearning(ctx context.Context, items []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	next.CurrentlyLearning = append(make([]string, 0, len(items)), items...)

	if err := s.commitLocked(ctx, next, Commit{Operation: "replace currently learning", CurrentlyLearning: true}); err != nil {
		return err
	}

	s.logger.Info().Int("count", len(items)).Msg("Currently learning replaced")
	return nil
}

// commitLocked persists next and makes it the visible state. Caller holds the write lock.
func (s *Store) commitLocked(ctx context.Context, next models.Catalog, c Commit) error {
	c.State = next
	if err := s.persister.Commit(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("operation", c.Operation).Msg("Failed to persist catalog change")
		var apiErr *errs.ApiErr
		if errors.As(err, &apiErr) {
			return apiErr
		}
		return errs.NewDatabaseError(c.Operation, "catalog", err)
	}
	s.state = next
	return nil
}

func (s *Store) indexOf(id int) int {
	for i, p := range s.state.Projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// extendTags appends every technology not yet in tags, keeping the "all" sentinel first.
// Tags are never removed.
func extendTags(tags []string, techs []string) ([]string, bool) {
	out := append(make([]string, 0, len(tags)+len(techs)+1), tags...)
	changed := false
	if len(out) == 0 || out[0] != models.AllTechnologiesTag {
		filtered := []string{models.AllTechnologiesTag}
		for _, t := range out {
			if t != models.AllTechnologiesTag {
				filtered = append(filtered, t)
			}
		}
		out = filtered
		changed = true
	}

	seen := make(map[string]struct{}, len(out))
	for _, t := range out {
		seen[t] = struct{}{}
	}
	for _, t := range techs {
		if _, ok := seen[t]; ok || t == "" {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		changed = true
	}
	return out, changed
}
