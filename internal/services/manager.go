package services

import (
	"log/slog"
	"time"

	"github.com/SAP-F-2025/exam-document-service/internal/cache"
	"github.com/SAP-F-2025/exam-document-service/internal/events"
	"github.com/SAP-F-2025/exam-document-service/internal/grid"
	"github.com/SAP-F-2025/exam-document-service/internal/repositories"
	"github.com/SAP-F-2025/exam-document-service/internal/validator"
)

const serviceName = "exam-document-service"

// ServiceManager hands the handlers one dependency for every service.
type ServiceManager interface {
	Exam() ExamService
	Grid() GridService
	Render() RenderService
	ImportExport() ImportExportService
}

// Dependencies are the collaborators shared by all services. Cache and Publisher may be nil.
type Dependencies struct {
	Repo           repositories.Repository
	Cache          cache.CacheService
	Publisher      events.EventPublisher
	Validator      *validator.Validator
	Logger         *slog.Logger
	RenderCacheTTL time.Duration
}

type serviceManager struct {
	exam         ExamService
	grid         GridService
	render       RenderService
	importExport ImportExportService
}

func NewServiceManager(deps Dependencies) ServiceManager {
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	return &serviceManager{
		exam:         NewExamService(deps.Repo, deps.Publisher, deps.Validator, deps.Logger),
		grid:         NewGridService(deps.Repo, grid.NewEngine(), deps.Validator, deps.Logger),
		render:       NewRenderService(deps.Repo, deps.Cache, deps.Publisher, deps.Validator, deps.Logger, deps.RenderCacheTTL),
		importExport: NewImportExportService(deps.Repo, deps.Validator, deps.Logger),
	}
}

func (sm *serviceManager) Exam() ExamService                 { return sm.exam }
func (sm *serviceManager) Grid() GridService                 { return sm.grid }
func (sm *serviceManager) Render() RenderService             { return sm.render }
func (sm *serviceManager) ImportExport() ImportExportService { return sm.importExport }
