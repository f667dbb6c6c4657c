package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-backend/catalog"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

type stubLister struct {
	repos []GitHubRepository
	err   error
	calls int32
	gate  chan struct{}
}

func (s *stubLister) FetchAllRepositories(ctx context.Context, account string) ([]GitHubRepository, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.gate != nil {
		<-s.gate
	}
	return s.repos, s.err
}

func newTestStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.NewStore(context.Background(), catalog.MemoryPersister{})
	require.NoError(t, err)
	return store
}

func TestToProject(t *testing.T) {
	p := ToProject(GitHubRepository{
		Name:        "dotfiles",
		Description: models.StringPtr("my config"),
		Language:    models.StringPtr("Shell"),
		HTMLURL:     "https://github.com/octo/dotfiles",
	})
	assert.Equal(t, "dotfiles", p.Title)
	assert.Equal(t, "my config", *p.Description)
	assert.Equal(t, []string{"Shell"}, p.Technologies)
	assert.Equal(t, "https://github.com/octo/dotfiles", *p.SourceURL)
	assert.False(t, p.Featured)
	assert.Nil(t, p.DemoURL)

	bare := ToProject(GitHubRepository{Name: "empty", HTMLURL: "https://github.com/octo/empty"})
	assert.Nil(t, bare.Description)
	assert.NotNil(t, bare.Technologies)
	assert.Empty(t, bare.Technologies)
}

func TestRefreshKeepsCuratedFieldsAndAddsNewRepositories(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	existing, err := store.CreateProject(ctx, models.Project{
		Title:        "My Curated Title",
		Description:  models.StringPtr("old"),
		Technologies: []string{"Go"},
		SourceURL:    models.StringPtr("https://github.com/octo/known"),
		DemoURL:      models.StringPtr("https://known.example.com"),
		Featured:     true,
	})
	require.NoError(t, err)

	lister := &stubLister{repos: []GitHubRepository{
		{Name: "known", Description: models.StringPtr("new description"), Language: models.StringPtr("Go"), HTMLURL: "https://github.com/octo/known"},
		{Name: "fresh", Language: models.StringPtr("Rust"), HTMLURL: "https://github.com/octo/fresh"},
	}}

	result, err := NewImporter(lister, store, "octo").Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, result.Projects, 2)

	kept, err := store.Project(existing.ID)
	require.NoError(t, err)
	assert.True(t, kept.Featured)
	assert.Equal(t, "My Curated Title", kept.Title)
	assert.Equal(t, "new description", *kept.Description)
	assert.Equal(t, "https://known.example.com", *kept.DemoURL)

	fresh := result.Projects[1]
	assert.Equal(t, existing.ID+1, fresh.ID)
	assert.Equal(t, "fresh", fresh.Title)
	assert.Equal(t, []string{"Rust"}, fresh.Technologies)
	assert.Contains(t, store.Snapshot().TechnologyTags, "Rust")
}

func TestRefreshIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	lister := &stubLister{repos: []GitHubRepository{
		{Name: "a", Language: models.StringPtr("Go"), HTMLURL: "https://github.com/octo/a"},
		{Name: "b", HTMLURL: "https://github.com/octo/b"},
	}}
	importer := NewImporter(lister, store, "octo")

	_, err := importer.Refresh(context.Background())
	require.NoError(t, err)
	first := store.Snapshot()

	second, err := importer.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Added)
	assert.Equal(t, 0, second.Updated)
	assert.Equal(t, 2, second.Unchanged)
	assert.Equal(t, first, store.Snapshot())
}

func TestRefreshFailureLeavesCatalogUnchanged(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateProject(context.Background(), models.Project{Title: "Existing"})
	require.NoError(t, err)
	before := store.Snapshot()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			_ = writeJSONPage(w, repoPage(0, 100))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	importer := NewImporter(NewGitHubClient(srv.URL, "", time.Second), store, "octo")
	_, err = importer.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsUpstreamError(err))
	assert.Equal(t, before, store.Snapshot())
}

func TestRefreshCollapsesConcurrentCalls(t *testing.T) {
	store := newTestStore(t)
	lister := &stubLister{
		repos: []GitHubRepository{{Name: "a", HTMLURL: "https://github.com/octo/a"}},
		gate:  make(chan struct{}),
	}
	importer := NewImporter(lister, store, "octo")

	var wg sync.WaitGroup
	results := make([]catalog.ImportResult, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := importer.Refresh(context.Background())
			assert.NoError(t, err)
			results[i] = r
		}(i)
	}

	// let the goroutines pile up on the in-flight import before releasing it
	time.Sleep(50 * time.Millisecond)
	close(lister.gate)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&lister.calls))
	assert.Len(t, store.Snapshot().Projects, 1)
	for _, r := range results {
		assert.Len(t, r.Projects, 1)
	}
}

func TestRefreshPropagatesListerError(t *testing.T) {
	store := newTestStore(t)
	_, err := NewImporter(&stubLister{err: errors.New("boom")}, store, "octo").Refresh(context.Background())
	require.Error(t, err)
	assert.Empty(t, store.Snapshot().Projects)
}

func TestRefreshSurvivesLeaderCancellation(t *testing.T) {
	store := newTestStore(t)
	lister := &stubLister{
		repos: []GitHubRepository{{Name: "a", HTMLURL: "https://github.com/octo/a"}},
		gate:  make(chan struct{}),
	}
	importer := NewImporter(lister, store, "octo")

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := importer.Refresh(leaderCtx)
		leaderErr <- err
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&lister.calls) == 1 }, time.Second, 5*time.Millisecond)

	type outcome struct {
		result catalog.ImportResult
		err    error
	}
	followerDone := make(chan outcome, 1)
	go func() {
		r, err := importer.Refresh(context.Background())
		followerDone <- outcome{r, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelLeader()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	close(lister.gate)
	follower := <-followerDone
	require.NoError(t, follower.err)
	assert.Equal(t, 1, follower.result.Added)
	assert.Len(t, store.Snapshot().Projects, 1)
	assert.Equal(t, int32(1), atomic.LoadInt32(&lister.calls))
}
