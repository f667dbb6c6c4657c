package catalog

import (
	"context"

	"github.com/rpupo63/portfolio-backend/models"
)

// Commit describes one write to the catalog. State is the complete catalog after the write;
// the remaining fields describe what changed so row-oriented backends can apply a delta.
type Commit struct {
	Operation         string
	State             models.Catalog
	UpsertProjects    []models.Project
	DeleteProjectIDs  []int
	Skills            bool
	CurrentlyLearning bool
	TechnologyTags    bool
}

// Persister stores the catalog outside the process. Commit must be all-or-nothing:
// when it returns an error nothing of the change may have been kept.
type Persister interface {
	Load(ctx context.Context) (models.Catalog, error)
	Commit(ctx context.Context, c Commit) error
}

// MemoryPersister keeps nothing; the catalog lives only as long as the process
type MemoryPersister struct{}

func (MemoryPersister) Load(context.Context) (models.Catalog, error) {
	return models.Catalog{}, nil
}

func (MemoryPersister) Commit(context.Context, Commit) error {
	return nil
}
