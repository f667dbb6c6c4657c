package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-backend/models"
)

const seedYAML = `
projects:
  - title: Portfolio
    description: This site
    technologies: [Go, React]
    featured: true
    demoUrl: https://example.dev
skills:
  - name: Go
    level: 90
    category: backend
  - name: CSS
    level: 60
    category: frontend
currentlyLearning:
  - Rust
technologyTags:
  - Docker
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSeedFile(t *testing.T) {
	seed, err := LoadSeedFile(writeSeed(t, seedYAML))
	require.NoError(t, err)

	require.Len(t, seed.Projects, 1)
	assert.Equal(t, "Portfolio", seed.Projects[0].Title)
	assert.Equal(t, "https://example.dev", *seed.Projects[0].DemoURL)
	assert.Equal(t, []models.Skill{
		{Name: "Go", Level: 90, Category: models.CategoryBackend},
		{Name: "CSS", Level: 60, Category: models.CategoryFrontend},
	}, seed.Skills)
	assert.Equal(t, []string{"Rust"}, seed.CurrentlyLearning)
}

func TestLoadSeedFileRejectsBadSkill(t *testing.T) {
	_, err := LoadSeedFile(writeSeed(t, "skills:\n  - name: Go\n    level: 101\n    category: backend\n"))
	assert.Error(t, err)

	_, err = LoadSeedFile(writeSeed(t, "skills:\n  - name: Go\n    level: 10\n    category: devops\n"))
	assert.Error(t, err)

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seed, err := LoadSeedFile(writeSeed(t, seedYAML))
	require.NoError(t, err)

	applied, err := store.SeedIfEmpty(ctx, seed)
	require.NoError(t, err)
	assert.True(t, applied)

	snap := store.Snapshot()
	require.Len(t, snap.Projects, 1)
	assert.Equal(t, 1, snap.Projects[0].ID)
	assert.Equal(t, []string{"all", "Go", "React", "Docker"}, snap.TechnologyTags)

	applied, err = store.SeedIfEmpty(ctx, seed)
	require.NoError(t, err)
	assert.False(t, applied)

	p, err := store.CreateProject(ctx, models.Project{Title: "after seed"})
	require.NoError(t, err)
	assert.Equal(t, 2, p.ID)
}

func TestSeedTitlesAreTrimmedAndPatchesKeepThem(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	seeded, err := store.SeedIfEmpty(ctx, models.Catalog{Projects: []models.Project{
		{Title: "  Padded  "},
		{Title: "   "},
	}})
	require.NoError(t, err)
	require.True(t, seeded)

	projects := store.Snapshot().Projects
	require.Len(t, projects, 1)
	assert.Equal(t, "Padded", projects[0].Title)

	featured := true
	updated, err := store.UpdateProject(ctx, projects[0].ID, models.ProjectPatch{Featured: &featured})
	require.NoError(t, err)
	assert.Equal(t, "Padded", updated.Title)
	assert.True(t, updated.Featured)
}
