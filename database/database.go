package database

import (
	"context"

	"github.com/rpupo63/portfolio-backend/catalog"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

// Database is the relational catalog backend. It implements catalog.Persister.
type Database struct {
	db           *gorm.DB
	projectRepo  *ProjectRepo
	skillRepo    *SkillRepo
	documentRepo *DocumentRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:           db,
		projectRepo:  NewProjectRepo(db),
		skillRepo:    NewSkillRepo(db),
		documentRepo: NewDocumentRepo(db),
	}
}

// Load reads the whole catalog
func (d Database) Load(ctx context.Context) (models.Catalog, error) {
	projects, err := d.projectRepo.FindAll(ctx)
	if err != nil {
		return models.Catalog{}, errs.NewDatabaseError("find", "projects", err)
	}
	skills, err := d.skillRepo.FindAll(ctx)
	if err != nil {
		return models.Catalog{}, errs.NewDatabaseError("find", "skills", err)
	}
	learning, err := d.documentRepo.GetStrings(ctx, keyCurrentlyLearning)
	if err != nil {
		return models.Catalog{}, errs.NewDatabaseError("find", "currently learning", err)
	}
	tags, err := d.documentRepo.GetStrings(ctx, keyTechnologyTags)
	if err != nil {
		return models.Catalog{}, errs.NewDatabaseError("find", "technology tags", err)
	}

	return models.Catalog{
		Projects:          projects,
		Skills:            skills,
		CurrentlyLearning: learning,
		TechnologyTags:    tags,
	}, nil
}

// Commit applies the change inside one transaction
func (d Database) Commit(ctx context.Context, c catalog.Commit) error {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projects := d.projectRepo.WithTx(tx)
		if err := projects.Upsert(ctx, c.UpsertProjects); err != nil {
			return err
		}
		if err := projects.Delete(ctx, c.DeleteProjectIDs); err != nil {
			return err
		}
		if c.Skills {
			if err := d.skillRepo.WithTx(tx).ReplaceAll(ctx, c.State.Skills); err != nil {
				return err
			}
		}
		documents := d.documentRepo.WithTx(tx)
		if c.CurrentlyLearning {
			if err := documents.PutStrings(ctx, keyCurrentlyLearning, c.State.CurrentlyLearning); err != nil {
				return err
			}
		}
		if c.TechnologyTags {
			if err := documents.PutStrings(ctx, keyTechnologyTags, c.State.TechnologyTags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errs.NewTransactionFailedError(c.Operation, err)
	}
	return nil
}

// Close releases the connection pool
func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
