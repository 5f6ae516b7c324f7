package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/repositories"
	"github.com/SAP-F-2025/exam-document-service/internal/services"
	"github.com/SAP-F-2025/exam-document-service/internal/utils"
)

type ExamHandler struct {
	BaseHandler
	service services.ExamService
}

func NewExamHandler(service services.ExamService, logger utils.Logger) *ExamHandler {
	return &ExamHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// CreateExam creates a new draft exam
// @Summary Create exam
// @Tags exams
// @Accept json
// @Produce json
// @Param exam body models.Exam true "Exam document"
// @Success 201 {object} models.Exam
// @Failure 400 {object} ErrorResponse
// @Router /exams [post]
func (h *ExamHandler) CreateExam(c *gin.Context) {
	h.LogRequest(c, "Creating exam")

	var exam models.Exam
	if err := c.ShouldBindJSON(&exam); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), &exam)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListExams lists exam records with filters and pagination
// @Summary List exams
// @Tags exams
// @Produce json
// @Param status query string false "draft or published"
// @Param search query string false "Title search"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} services.ExamListResponse
// @Router /exams [get]
func (h *ExamHandler) ListExams(c *gin.Context) {
	filters := repositories.ExamFilters{
		Search:    c.Query("search"),
		Limit:     queryInt(c, "limit", 20),
		Offset:    queryInt(c, "offset", 0),
		SortBy:    c.DefaultQuery("sort_by", "updated_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}
	if status := c.Query("status"); status != "" {
		s := models.ExamStatus(status)
		filters.Status = &s
	}

	result, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExam returns the full exam document
// @Summary Get exam
// @Tags exams
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} models.Exam
// @Failure 404 {object} ErrorResponse
// @Router /exams/{id} [get]
func (h *ExamHandler) GetExam(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	exam, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// UpdateExam replaces the content of a draft exam
// @Summary Update exam
// @Tags exams
// @Accept json
// @Produce json
// @Param id path string true "Exam ID"
// @Param exam body models.Exam true "Exam document"
// @Success 200 {object} models.Exam
// @Failure 409 {object} ErrorResponse
// @Router /exams/{id} [put]
func (h *ExamHandler) UpdateExam(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var exam models.Exam
	if err := c.ShouldBindJSON(&exam); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &exam)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteExam soft-deletes an exam
// @Summary Delete exam
// @Tags exams
// @Param id path string true "Exam ID"
// @Success 200 {object} SuccessResponse
// @Router /exams/{id} [delete]
func (h *ExamHandler) DeleteExam(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Exam deleted successfully", nil)
}

// PublishExam moves a draft exam to published
// @Summary Publish exam
// @Tags exams
// @Param id path string true "Exam ID"
// @Success 200 {object} models.Exam
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /exams/{id}/publish [post]
func (h *ExamHandler) PublishExam(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	h.LogRequest(c, "Publishing exam", "exam_id", id)

	exam, err := h.service.Publish(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// AddSection appends a section to the exam
// @Summary Add section
// @Tags exams
// @Accept json
// @Param id path string true "Exam ID"
// @Param section body models.Section true "Section"
// @Success 201 {object} models.Exam
// @Router /exams/{id}/sections [post]
func (h *ExamHandler) AddSection(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var section models.Section
	if err := c.ShouldBindJSON(&section); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	exam, err := h.service.AddSection(c.Request.Context(), id, section)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, exam)
}

// AddQuestion appends a question of any known type to a section
// @Summary Add question
// @Tags exams
// @Accept json
// @Param id path string true "Exam ID"
// @Param section path int true "Zero-based section index"
// @Success 201 {object} models.Exam
// @Failure 400 {object} ErrorResponse
// @Router /exams/{id}/sections/{section}/questions [post]
func (h *ExamHandler) AddQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	sectionIndex, ok := ParseIndexParam(c, "section")
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}
	question, err := models.DecodeQuestion(body)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}
	if unknown, isUnknown := question.(*models.UnknownQuestion); isUnknown {
		h.RespondWithError(c, http.StatusBadRequest, "Unsupported question type", nil, unknown.Kind)
		return
	}

	exam, err := h.service.AddQuestion(c.Request.Context(), id, sectionIndex, question)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, exam)
}

// RemoveQuestion deletes a question from the exam
// @Summary Remove question
// @Tags exams
// @Param id path string true "Exam ID"
// @Param question_id path string true "Question ID"
// @Success 200 {object} models.Exam
// @Router /exams/{id}/questions/{question_id} [delete]
func (h *ExamHandler) RemoveQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	questionID := ParseStringIDParam(c, "question_id")
	if questionID == "" {
		return
	}

	exam, err := h.service.RemoveQuestion(c.Request.Context(), id, questionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// RenumberQuestions assigns sequential display numbers
// @Summary Renumber questions
// @Tags exams
// @Param id path string true "Exam ID"
// @Success 200 {object} models.Exam
// @Router /exams/{id}/renumber [post]
func (h *ExamHandler) RenumberQuestions(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	exam, err := h.service.RenumberQuestions(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// RemoveMatchingItem deletes a prompt or answer of a matching question and the key pairs using it
// @Summary Remove matching item
// @Tags exams
// @Param id path string true "Exam ID"
// @Param question_id path string true "Question ID"
// @Param side path string true "prompt or answer"
// @Param item_id path string true "Item ID"
// @Success 200 {object} models.Exam
// @Router /exams/{id}/questions/{question_id}/matching/{side}/{item_id} [delete]
func (h *ExamHandler) RemoveMatchingItem(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	questionID := ParseStringIDParam(c, "question_id")
	if questionID == "" {
		return
	}
	itemID := ParseStringIDParam(c, "item_id")
	if itemID == "" {
		return
	}
	side := services.MatchingSide(c.Param("side"))

	exam, err := h.service.RemoveMatchingItem(c.Request.Context(), id, questionID, side, itemID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}
