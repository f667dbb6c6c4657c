package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

type recordingPersister struct {
	loaded  models.Catalog
	commits []Commit
	fail    error
}

func (p *recordingPersister) Load(context.Context) (models.Catalog, error) {
	return p.loaded, nil
}

func (p *recordingPersister) Commit(_ context.Context, c Commit) error {
	if p.fail != nil {
		return p.fail
	}
	p.commits = append(p.commits, c)
	return nil
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), nil)
	require.NoError(t, err)
	return store
}

func TestCreateProjectAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	seen := map[int]bool{}
	last := 0
	for i := 0; i < 5; i++ {
		p, err := store.CreateProject(ctx, models.Project{Title: "p", ID: 99})
		require.NoError(t, err)
		assert.Greater(t, p.ID, last)
		assert.False(t, seen[p.ID])
		seen[p.ID] = true
		last = p.ID

		if i%2 == 0 {
			require.NoError(t, store.DeleteProject(ctx, p.ID))
		}
	}

	p, err := store.CreateProject(ctx, models.Project{Title: "after deletes"})
	require.NoError(t, err)
	assert.Equal(t, 6, p.ID, "deleted ids are never handed out again")
}

func TestCreateProjectDefaults(t *testing.T) {
	store := newTestStore(t)

	p, err := store.CreateProject(context.Background(), models.Project{
		Title:        "  X ",
		Technologies: []string{"Go", " Go", "", "React"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "X", p.Title)
	assert.Equal(t, []string{"Go", "React"}, p.Technologies)
	assert.False(t, p.Featured)
	assert.Nil(t, p.Description)
	assert.Equal(t, []string{"all", "Go", "React"}, store.Snapshot().TechnologyTags)
}

func TestCreateProjectRequiresTitle(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CreateProject(context.Background(), models.Project{Title: "   "})
	require.Error(t, err)
	assert.True(t, errs.IsMissingRequiredFieldError(err))
	assert.Empty(t, store.Snapshot().Projects)
}

func TestUpdateProjectOnlyTouchesSuppliedFields(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created, err := store.CreateProject(ctx, models.Project{
		Title:        "Portfolio",
		Description:  models.StringPtr("site"),
		Technologies: []string{"Go"},
		DemoURL:      models.StringPtr("https://demo"),
		SourceURL:    models.StringPtr("https://github.com/me/portfolio"),
	})
	require.NoError(t, err)

	featured := true
	updated, err := store.UpdateProject(ctx, created.ID, models.ProjectPatch{Featured: &featured})
	require.NoError(t, err)

	want := created.Clone()
	want.Featured = true
	assert.Equal(t, want, updated)

	got, err := store.Project(created.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUpdateProjectErrors(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.UpdateProject(ctx, 42, models.ProjectPatch{})
	assert.True(t, errs.IsNotFound(err))

	created, err := store.CreateProject(ctx, models.Project{Title: "keep"})
	require.NoError(t, err)

	blank := " "
	_, err = store.UpdateProject(ctx, created.ID, models.ProjectPatch{Title: &blank})
	assert.True(t, errs.IsInvalidFieldError(err))

	got, err := store.Project(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Title)
}

func TestDeleteProjectKeepsTags(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	p, err := store.CreateProject(ctx, models.Project{Title: "x", Technologies: []string{"Rust"}})
	require.NoError(t, err)
	require.NoError(t, store.DeleteProject(ctx, p.ID))

	snap := store.Snapshot()
	assert.Empty(t, snap.Projects)
	assert.Equal(t, []string{"all", "Rust"}, snap.TechnologyTags)

	assert.True(t, errs.IsNotFound(store.DeleteProject(ctx, p.ID)))
}

func TestReplaceSkills(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first := []models.Skill{{Name: "Go", Level: 90, Category: models.CategoryBackend}}
	require.NoError(t, store.ReplaceSkills(ctx, first))

	second := []models.Skill{
		{Name: "React", Level: 70, Category: models.CategoryFrontend},
		{Name: "Postgres", Level: 60, Category: models.CategoryDatabase},
	}
	require.NoError(t, store.ReplaceSkills(ctx, second))
	assert.Equal(t, second, store.Snapshot().Skills)

	second[0].Name = "mutated by caller"
	assert.Equal(t, "React", store.Snapshot().Skills[0].Name)
}

func TestReplaceSkillsIsAtomicForReaders(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	oldSkills := []models.Skill{
		{Name: "a", Level: 1, Category: models.CategoryOther},
		{Name: "b", Level: 1, Category: models.CategoryOther},
	}
	newSkills := []models.Skill{
		{Name: "c", Level: 2, Category: models.CategoryTools},
		{Name: "d", Level: 2, Category: models.CategoryTools},
		{Name: "e", Level: 2, Category: models.CategoryTools},
	}
	require.NoError(t, store.ReplaceSkills(ctx, oldSkills))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	failures := make(chan []models.Skill, 1)

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				got := store.Snapshot().Skills
				if !assert.ObjectsAreEqual(oldSkills, got) && !assert.ObjectsAreEqual(newSkills, got) {
					select {
					case failures <- got:
					default:
					}
					return
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		if i%2 == 0 {
			require.NoError(t, store.ReplaceSkills(ctx, newSkills))
		} else {
			require.NoError(t, store.ReplaceSkills(ctx, oldSkills))
		}
	}
	close(stop)
	wg.Wait()

	select {
	case got := <-failures:
		t.Fatalf("reader observed a partial skill list: %v", got)
	default:
	}
}

func TestReplaceCurrentlyLearning(t *testing.T) {
	store := newTestStore(t)

	items := []string{"Rust", "Rust", "Kubernetes"}
	require.NoError(t, store.ReplaceCurrentlyLearning(context.Background(), items))
	assert.Equal(t, items, store.Snapshot().CurrentlyLearning)

	require.NoError(t, store.ReplaceCurrentlyLearning(context.Background(), nil))
	assert.Empty(t, store.Snapshot().CurrentlyLearning)
}

func TestCommitFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	persister := &recordingPersister{}
	store, err := NewStore(ctx, persister)
	require.NoError(t, err)

	created, err := store.CreateProject(ctx, models.Project{Title: "first"})
	require.NoError(t, err)
	before := store.Snapshot()

	persister.fail = errors.New("disk on fire")

	_, err = store.CreateProject(ctx, models.Project{Title: "second", Technologies: []string{"Zig"}})
	require.Error(t, err)
	assert.True(t, errs.IsDatabaseError(err))

	assert.Error(t, store.DeleteProject(ctx, created.ID))
	assert.Error(t, store.ReplaceSkills(ctx, []models.Skill{{Name: "x"}}))
	assert.Equal(t, before, store.Snapshot())

	persister.fail = nil
	p, err := store.CreateProject(ctx, models.Project{Title: "third"})
	require.NoError(t, err)
	assert.Equal(t, 2, p.ID)
}

func TestNewStoreContinuesAfterLoadedIDs(t *testing.T) {
	ctx := context.Background()
	persister := &recordingPersister{loaded: models.Catalog{
		Projects: []models.Project{
			{ID: 3, Title: "three", Technologies: []string{"Go"}},
			{ID: 7, Title: "seven"},
		},
		TechnologyTags: []string{"Elm"},
	}}

	store, err := NewStore(ctx, persister)
	require.NoError(t, err)

	assert.Equal(t, []string{"all", "Elm", "Go"}, store.Snapshot().TechnologyTags)
	assert.Empty(t, store.Snapshot().Projects[1].Technologies)
	assert.NotNil(t, store.Snapshot().Projects[1].Technologies)

	p, err := store.CreateProject(ctx, models.Project{Title: "next"})
	require.NoError(t, err)
	assert.Equal(t, 8, p.ID)

	require.Len(t, persister.commits, 1)
	assert.Equal(t, "create project", persister.commits[0].Operation)
	assert.Len(t, persister.commits[0].State.Projects, 3)
}

func TestUpdateWithoutTitleKeepsLoadedTitle(t *testing.T) {
	ctx := context.Background()
	persister := &recordingPersister{loaded: models.Catalog{Projects: []models.Project{
		{ID: 1, Title: "  Loaded  "},
		{ID: 2, Title: ""},
	}}}
	store, err := NewStore(ctx, persister)
	require.NoError(t, err)

	featured := true
	first, err := store.UpdateProject(ctx, 1, models.ProjectPatch{Featured: &featured})
	require.NoError(t, err)
	assert.Equal(t, "Loaded", first.Title)

	second, err := store.UpdateProject(ctx, 2, models.ProjectPatch{Featured: &featured})
	require.NoError(t, err, "a patch that does not touch the title must not validate it")
	assert.Equal(t, "", second.Title)
	assert.True(t, second.Featured)
}
