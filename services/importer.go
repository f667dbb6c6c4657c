package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/rpupo63/portfolio-backend/catalog"
	"github.com/rpupo63/portfolio-backend/models"
)

// RepositoryLister fetches the complete repository listing of an account
type RepositoryLister interface {
	FetchAllRepositories(ctx context.Context, account string) ([]GitHubRepository, error)
}

// Importer pulls an account's repositories into the catalog
type Importer struct {
	client  RepositoryLister
	store   *catalog.Store
	account string
	timeout time.Duration
	group   singleflight.Group
	logger  zerolog.Logger
}

// DefaultImportTimeout bounds one shared import, all pages included
const DefaultImportTimeout = 5 * time.Minute

func NewImporter(client RepositoryLister, store *catalog.Store, account string) *Importer {
	return &Importer{
		client:  client,
		store:   store,
		account: account,
		timeout: DefaultImportTimeout,
		logger:  log.With().Str("service", "importer").Str("account", account).Logger(),
	}
}

// Refresh fetches every repository and merges the result into the store.
// Callers arriving while an import is running share its result. The shared import is detached
// from the caller that started it, so one client going away does not fail the others.
func (i *Importer) Refresh(ctx context.Context) (catalog.ImportResult, error) {
	ch := i.group.DoChan(i.account, func() (interface{}, error) {
		importCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), i.timeout)
		defer cancel()
		return i.refresh(importCtx)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		i.logger.Debug().Err(ctx.Err()).Msg("Caller left before the import finished")
		return catalog.ImportResult{}, ctx.Err()
	case res = <-ch:
	}

	if res.Err != nil {
		return catalog.ImportResult{}, res.Err
	}
	if res.Shared {
		i.logger.Debug().Msg("Joined in-flight import")
	}

	result := res.Val.(catalog.ImportResult)
	// every caller gets its own copy of the project list
	projects := make([]models.Project, len(result.Projects))
	for idx, p := range result.Projects {
		projects[idx] = p.Clone()
	}
	result.Projects = projects
	return result, nil
}

func (i *Importer) refresh(ctx context.Context) (catalog.ImportResult, error) {
	i.logger.Info().Msg("Starting GitHub import")

	repos, err := i.client.FetchAllRepositories(ctx, i.account)
	if err != nil {
		i.logger.Error().Err(err).Msg("GitHub fetch failed, catalog left unchanged")
		return catalog.ImportResult{}, err
	}

	imported := make([]models.Project, 0, len(repos))
	for _, repo := range repos {
		imported = append(imported, ToProject(repo))
	}

	result, err := i.store.MergeImported(ctx, imported)
	if err != nil {
		return catalog.ImportResult{}, err
	}

	i.logger.Info().Int("repositories", len(repos)).Msg("GitHub import finished")
	return result, nil
}

// ToProject maps a repository onto the fields a project takes from GitHub
func ToProject(repo GitHubRepository) models.Project {
	techs := []string{}
	if repo.Language != nil && strings.TrimSpace(*repo.Language) != "" {
		techs = append(techs, strings.TrimSpace(*repo.Language))
	}

	var source *string
	if repo.HTMLURL != "" {
		source = models.StringPtr(repo.HTMLURL)
	}

	var description *string
	if repo.Description != nil {
		description = models.StringPtr(*repo.Description)
	}

	return models.Project{
		Title:        repo.Name,
		Description:  description,
		Technologies: techs,
		SourceURL:    source,
		Featured:     false,
	}
}
