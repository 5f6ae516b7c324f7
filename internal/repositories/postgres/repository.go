package postgres

import (
	"gorm.io/gorm"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/repositories"
)

type repository struct {
	exam    repositories.ExamRepository
	profile repositories.RenderProfileRepository
}

// NewRepository wires the postgres repositories over one connection pool.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		exam:    NewExamPostgreSQL(db),
		profile: NewRenderProfilePostgreSQL(db),
	}
}

func (r *repository) Exam() repositories.ExamRepository                   { return r.exam }
func (r *repository) RenderProfile() repositories.RenderProfileRepository { return r.profile }

// Migrate creates or updates the tables of the stored models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.ExamRecord{}, &models.RenderProfile{})
}
