package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/exam-document-service/internal/services"
	"github.com/SAP-F-2025/exam-document-service/internal/utils"
)

type GridHandler struct {
	BaseHandler
	service services.GridService
}

func NewGridHandler(service services.GridService, logger utils.Logger) *GridHandler {
	return &GridHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

type EligibilityRequest struct {
	CellIDs []string `json:"cell_ids" binding:"required,min=1"`
}

// ApplyGridOperation runs one structural or content edit on a table question
// @Summary Edit table grid
// @Tags grid
// @Accept json
// @Produce json
// @Param id path string true "Exam ID"
// @Param question_id path string true "Question ID"
// @Param operation body services.GridOperation true "Grid operation"
// @Success 200 {object} models.TableGrid
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /exams/{id}/questions/{question_id}/grid [post]
func (h *GridHandler) ApplyGridOperation(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	questionID := ParseStringIDParam(c, "question_id")
	if questionID == "" {
		return
	}

	var op services.GridOperation
	if err := c.ShouldBindJSON(&op); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	g, err := h.service.Apply(c.Request.Context(), id, questionID, op)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, g)
}

// GetEligibility reports whether a selection can be merged or split
// @Summary Merge/split eligibility
// @Tags grid
// @Accept json
// @Produce json
// @Param id path string true "Exam ID"
// @Param question_id path string true "Question ID"
// @Param selection body EligibilityRequest true "Selected cells"
// @Success 200 {object} grid.Eligibility
// @Router /exams/{id}/questions/{question_id}/grid/eligibility [post]
func (h *GridHandler) GetEligibility(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	questionID := ParseStringIDParam(c, "question_id")
	if questionID == "" {
		return
	}

	var req EligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	result, err := h.service.Eligibility(c.Request.Context(), id, questionID, req.CellIDs)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
