package database

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	keyCurrentlyLearning = "currently_learning"
	keyTechnologyTags    = "technology_tags"
)

// documentRow stores small list-valued catalog sections as JSON documents
type documentRow struct {
	Key   string         `gorm:"primaryKey;type:text"`
	Value datatypes.JSON `gorm:"type:jsonb;not null"`
}

func (documentRow) TableName() string {
	return "catalog_documents"
}

type DocumentRepo struct {
	db *gorm.DB
}

func NewDocumentRepo(db *gorm.DB) *DocumentRepo {
	return &DocumentRepo{db}
}

func (r *DocumentRepo) WithTx(tx *gorm.DB) *DocumentRepo {
	return &DocumentRepo{tx}
}

// GetStrings returns the list stored under key, or an empty list when there is none
func (r *DocumentRepo) GetStrings(ctx context.Context, key string) ([]string, error) {
	var row documentRow
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	values := []string{}
	if err := json.Unmarshal(row.Value, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// PutStrings stores values under key, replacing any previous list
func (r *DocumentRepo) PutStrings(ctx context.Context, key string, values []string) error {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoUpdates: clause.AssignmentColumns([]string{"value"})}).
		Create(&documentRow{Key: key, Value: datatypes.JSON(raw)}).Error
}
