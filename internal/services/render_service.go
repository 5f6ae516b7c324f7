package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/exam-document-service/internal/cache"
	"github.com/SAP-F-2025/exam-document-service/internal/events"
	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/render"
	"github.com/SAP-F-2025/exam-document-service/internal/render/markup"
	"github.com/SAP-F-2025/exam-document-service/internal/render/office"
	"github.com/SAP-F-2025/exam-document-service/internal/render/sheet"
	"github.com/SAP-F-2025/exam-document-service/internal/repositories"
	"github.com/SAP-F-2025/exam-document-service/internal/validator"
	"github.com/SAP-F-2025/exam-document-service/pkg/monitoring"
)

const renderCachePrefix = "render"

type renderService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *ServiceLogger
	cacheTTL  time.Duration
}

// NewRenderService wires the renderers. cache and publisher may be nil; a zero
// cacheTTL disables caching.
func NewRenderService(repo repositories.Repository, cache cache.CacheService, publisher events.EventPublisher, validator *validator.Validator, logger *slog.Logger, cacheTTL time.Duration) RenderService {
	return &renderService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		validator: validator,
		logger:    NewServiceLogger(logger, LogConfig{Service: serviceName, Component: "render"}),
		cacheTTL:  cacheTTL,
	}
}

// cachedDocument is the cache form of a render.Output, whose Data is not part of its JSON.
type cachedDocument struct {
	ContentType string `json:"content_type"`
	FileName    string `json:"file_name"`
	Data        []byte `json:"data"`
}

type renderCacheKey struct {
	Exam   *models.Exam        `json:"exam"`
	Config models.RenderConfig `json:"config"`
	Mode   models.Mode         `json:"mode"`
	Format render.Format       `json:"format"`
}

// Render resolves the exam and config of req and renders them in the requested format.
// Cache failures are logged and never fail the render.
func (s *renderService) Render(ctx context.Context, req RenderRequest) (out *render.Output, err error) {
	op := s.logger.WithOperation(ctx, "render_exam")
	defer func() {
		op.LogResult(req.ExamID, "exam", err)
		status := "success"
		if err != nil {
			status = "error"
		}
		monitoring.RenderTotal.WithLabelValues(string(req.Format), string(req.Mode), status).Inc()
	}()

	if req.Format == "" {
		req.Format = render.FormatHTML
	}
	if !req.Format.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, req.Format)
	}
	if req.Mode == "" {
		req.Mode = models.ModeQuestions
	}
	if req.Mode != models.ModeQuestions && req.Mode != models.ModeAnswerKey {
		return nil, NewValidationError("mode", "must be questions or answer_key", req.Mode)
	}
	if req.Format == render.FormatXLSX {
		// the workbook only has an answer-key projection
		req.Mode = models.ModeAnswerKey
	}

	exam, err := s.resolveExam(ctx, req)
	if err != nil {
		return nil, err
	}
	cfg, err := s.resolveConfig(ctx, req)
	if err != nil {
		return nil, err
	}

	key, keyErr := cache.Key(renderCachePrefix, renderCacheKey{Exam: exam, Config: cfg, Mode: req.Mode, Format: req.Format})
	if keyErr != nil {
		s.logger.Logger().WarnContext(ctx, "Failed to derive render cache key", "error", keyErr)
	}
	if cached, ok := s.lookup(ctx, key); ok {
		monitoring.RenderCacheHits.WithLabelValues(string(req.Format)).Inc()
		out = &render.Output{ContentType: cached.ContentType, FileName: cached.FileName, Data: cached.Data}
		s.publishRendered(ctx, exam, req, len(out.Data), true)
		return out, nil
	}

	start := time.Now()
	rendered, err := renderDocument(exam, cfg, req.Mode, req.Format)
	if err != nil {
		return nil, err
	}
	monitoring.RenderDuration.WithLabelValues(string(req.Format)).Observe(time.Since(start).Seconds())

	s.store(ctx, key, rendered)
	s.publishRendered(ctx, exam, req, len(rendered.Data), false)
	return &rendered, nil
}

func renderDocument(exam *models.Exam, cfg models.RenderConfig, mode models.Mode, format render.Format) (render.Output, error) {
	switch format {
	case render.FormatHTML:
		return render.NewOutput(exam, mode, format, []byte(markup.Render(exam, cfg, mode))), nil
	case render.FormatDOCX:
		return office.Output(exam, cfg, mode)
	case render.FormatXLSX:
		return sheet.Output(exam, cfg)
	}
	return render.Output{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

func (s *renderService) resolveExam(ctx context.Context, req RenderRequest) (*models.Exam, error) {
	if req.Exam != nil {
		return req.Exam, nil
	}
	if strings.TrimSpace(req.ExamID) == "" {
		return nil, NewValidationError("exam_id", "exam_id or an inline exam is required", nil)
	}
	exam, err := s.repo.Exam().GetByID(ctx, req.ExamID)
	if err != nil {
		return nil, mapExamRepoError(err)
	}
	return exam, nil
}

func (s *renderService) resolveConfig(ctx context.Context, req RenderRequest) (models.RenderConfig, error) {
	cfg := models.DefaultRenderConfig()
	switch {
	case req.Config != nil:
		cfg = *req.Config
	case req.ProfileName != "":
		profile, err := s.GetProfile(ctx, req.ProfileName)
		if err != nil {
			return models.RenderConfig{}, err
		}
		cfg = profile.Config.Data()
	}
	cfg = cfg.WithDefaults()
	if err := s.validator.Validate(&cfg); err != nil {
		return models.RenderConfig{}, err
	}
	return cfg, nil
}

func (s *renderService) lookup(ctx context.Context, key string) (cachedDocument, bool) {
	var doc cachedDocument
	if s.cache == nil || s.cacheTTL <= 0 || key == "" {
		return doc, false
	}
	err := s.cache.Get(ctx, key, &doc)
	if err == nil {
		return doc, true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Logger().WarnContext(ctx, "Render cache read failed", "key", key, "error", err)
	}
	return doc, false
}

func (s *renderService) store(ctx context.Context, key string, out render.Output) {
	if s.cache == nil || s.cacheTTL <= 0 || key == "" {
		return
	}
	doc := cachedDocument{ContentType: out.ContentType, FileName: out.FileName, Data: out.Data}
	if err := s.cache.Set(ctx, key, doc, s.cacheTTL); err != nil {
		s.logger.Logger().WarnContext(ctx, "Render cache write failed", "key", key, "error", err)
	}
}

func (s *renderService) publishRendered(ctx context.Context, exam *models.Exam, req RenderRequest, size int, cacheHit bool) {
	if s.publisher == nil {
		return
	}
	event := events.NewEvent(events.EventExamRendered, events.ExamRenderedEvent{
		ExamID:   exam.ID,
		Format:   string(req.Format),
		Mode:     req.Mode,
		Bytes:    size,
		CacheHit: cacheHit,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Logger().WarnContext(ctx, "Failed to publish event", "event_type", event.Type, "error", err)
	}
}

// ===== RENDER PROFILES =====

func (s *renderService) SaveProfile(ctx context.Context, name string, cfg models.RenderConfig) (profile *models.RenderProfile, err error) {
	op := s.logger.WithOperation(ctx, "save_render_profile")
	defer func() { op.LogResult(name, "render_profile", err) }()

	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return nil, NewValidationError("name", "must be between 1 and 100 characters", name)
	}
	if err = s.validator.Validate(&cfg); err != nil {
		return nil, err
	}

	profile = models.NewRenderProfile(name, cfg)
	if err = s.repo.RenderProfile().Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save render profile: %w", err)
	}
	return profile, nil
}

func (s *renderService) GetProfile(ctx context.Context, name string) (*models.RenderProfile, error) {
	profile, err := s.repo.RenderProfile().GetByName(ctx, name)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get render profile: %w", err)
	}
	return profile, nil
}

func (s *renderService) ListProfiles(ctx context.Context) ([]*models.RenderProfile, error) {
	profiles, err := s.repo.RenderProfile().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list render profiles: %w", err)
	}
	return profiles, nil
}
