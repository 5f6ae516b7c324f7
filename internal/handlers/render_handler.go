package handlers

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
	"github.com/SAP-F-2025/exam-document-service/internal/render"
	"github.com/SAP-F-2025/exam-document-service/internal/services"
	"github.com/SAP-F-2025/exam-document-service/internal/utils"
)

type RenderHandler struct {
	BaseHandler
	service services.RenderService
}

func NewRenderHandler(service services.RenderService, logger utils.Logger) *RenderHandler {
	return &RenderHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// RenderExam renders a stored exam
// @Summary Render exam
// @Tags render
// @Produce text/html,application/octet-stream
// @Param id path string true "Exam ID"
// @Param format query string false "html, docx or xlsx"
// @Param mode query string false "questions or answer_key"
// @Param profile query string false "Render profile name"
// @Success 200 {file} file
// @Router /exams/{id}/render [get]
func (h *RenderHandler) RenderExam(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	req := services.RenderRequest{
		ExamID:      id,
		ProfileName: c.Query("profile"),
		Mode:        models.Mode(c.Query("mode")),
		Format:      render.Format(c.Query("format")),
	}
	h.render(c, req)
}

// RenderInline renders an exam and config sent in the request body
// @Summary Render inline exam
// @Tags render
// @Accept json
// @Param request body services.RenderRequest true "Render request"
// @Success 200 {file} file
// @Router /render [post]
func (h *RenderHandler) RenderInline(c *gin.Context) {
	var req services.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}
	h.render(c, req)
}

func (h *RenderHandler) render(c *gin.Context, req services.RenderRequest) {
	out, err := h.service.Render(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	disposition := "attachment"
	if out.ContentType == render.FormatHTML.ContentType() {
		disposition = "inline"
	}
	c.Header("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": out.FileName}))
	c.Data(http.StatusOK, out.ContentType, out.Data)
}

// SaveProfile creates or replaces a named render configuration
// @Summary Save render profile
// @Tags render-profiles
// @Accept json
// @Param name path string true "Profile name"
// @Param config body models.RenderConfig true "Render config"
// @Success 200 {object} models.RenderProfile
// @Router /render-profiles/{name} [put]
func (h *RenderHandler) SaveProfile(c *gin.Context) {
	name := ParseStringIDParam(c, "name")
	if name == "" {
		return
	}

	var cfg models.RenderConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	profile, err := h.service.SaveProfile(c.Request.Context(), name, cfg)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetProfile returns one render profile
// @Summary Get render profile
// @Tags render-profiles
// @Param name path string true "Profile name"
// @Success 200 {object} models.RenderProfile
// @Failure 404 {object} ErrorResponse
// @Router /render-profiles/{name} [get]
func (h *RenderHandler) GetProfile(c *gin.Context) {
	name := ParseStringIDParam(c, "name")
	if name == "" {
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), name)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ListProfiles returns every render profile
// @Summary List render profiles
// @Tags render-profiles
// @Success 200 {array} models.RenderProfile
// @Router /render-profiles [get]
func (h *RenderHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.service.ListProfiles(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}
