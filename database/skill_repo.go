package database

import (
	"context"

	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

// skillRow keeps the list position so skills load back in the order they were saved
type skillRow struct {
	Position int    `gorm:"primaryKey;autoIncrement:false"`
	Name     string `gorm:"type:text;not null"`
	Level    int    `gorm:"not null"`
	Category string `gorm:"type:text;not null"`
}

func (skillRow) TableName() string {
	return "skills"
}

type SkillRepo struct {
	db *gorm.DB
}

func NewSkillRepo(db *gorm.DB) *SkillRepo {
	return &SkillRepo{db}
}

func (r *SkillRepo) WithTx(tx *gorm.DB) *SkillRepo {
	return &SkillRepo{tx}
}

// FindAll returns all skills in list order
func (r *SkillRepo) FindAll(ctx context.Context) ([]models.Skill, error) {
	var rows []skillRow
	if err := r.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, err
	}

	skills := make([]models.Skill, 0, len(rows))
	for _, row := range rows {
		skills = append(skills, models.Skill{
			Name:     row.Name,
			Level:    row.Level,
			Category: models.SkillCategory(row.Category),
		})
	}
	return skills, nil
}

// ReplaceAll deletes every stored skill and writes the given list
func (r *SkillRepo) ReplaceAll(ctx context.Context, skills []models.Skill) error {
	db := r.db.WithContext(ctx)
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&skillRow{}).Error; err != nil {
		return err
	}
	if len(skills) == 0 {
		return nil
	}

	rows := make([]skillRow, 0, len(skills))
	for i, s := range skills {
		rows = append(rows, skillRow{
			Position: i + 1,
			Name:     s.Name,
			Level:    s.Level,
			Category: string(s.Category),
		})
	}
	return db.CreateInBatches(&rows, 100).Error
}
