package database

import (
	"context"

	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// WithTx returns a repo bound to the given transaction
func (r *ProjectRepo) WithTx(tx *gorm.DB) *ProjectRepo {
	return &ProjectRepo{tx}
}

// FindAll returns all projects ordered by id
func (r *ProjectRepo) FindAll(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).Order("id").Find(&projects).Error
	return projects, err
}

// Upsert inserts the projects or overwrites the rows that share their id
func (r *ProjectRepo) Upsert(ctx context.Context, projects []models.Project) error {
	if len(projects) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&projects).Error
}

// Delete removes projects from the database by id
func (r *ProjectRepo) Delete(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&models.Project{}, ids).Error
}
