package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/repositories"
)

type RenderProfilePostgreSQL struct {
	db *gorm.DB
}

func NewRenderProfilePostgreSQL(db *gorm.DB) repositories.RenderProfileRepository {
	return &RenderProfilePostgreSQL{db: db}
}

func (r *RenderProfilePostgreSQL) Save(ctx context.Context, profile *models.RenderProfile) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"config", "updated_at"}),
		}).
		Create(profile).Error
	if err != nil {
		return fmt.Errorf("failed to save render profile: %w", err)
	}
	return nil
}

func (r *RenderProfilePostgreSQL) GetByName(ctx context.Context, name string) (*models.RenderProfile, error) {
	var profile models.RenderProfile
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get render profile: %w", err)
	}
	return &profile, nil
}

func (r *RenderProfilePostgreSQL) List(ctx context.Context) ([]*models.RenderProfile, error) {
	var profiles []*models.RenderProfile
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to list render profiles: %w", err)
	}
	return profiles, nil
}
