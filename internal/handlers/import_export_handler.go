package handlers

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/exam-document-service/internal/services"
	"github.com/SAP-F-2025/exam-document-service/internal/utils"
)

const maxImportSize = 10 << 20

type ImportExportHandler struct {
	BaseHandler
	service services.ImportExportService
}

func NewImportExportHandler(service services.ImportExportService, logger utils.Logger) *ImportExportHandler {
	return &ImportExportHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ImportQuestions appends questions read from a CSV or XLSX upload to a section
// @Summary Import questions
// @Tags import-export
// @Accept multipart/form-data
// @Param id path string true "Exam ID"
// @Param section path int true "Zero-based section index"
// @Param file formData file true "CSV or XLSX file"
// @Success 200 {object} models.ImportSummary
// @Router /exams/{id}/sections/{section}/import [post]
func (h *ImportExportHandler) ImportQuestions(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	sectionIndex, ok := ParseIndexParam(c, "section")
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "File is required", err, err.Error())
		return
	}
	if header.Size > maxImportSize {
		h.RespondWithError(c, http.StatusBadRequest, "File too large", nil, "maximum size is 10MB")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Unable to read file", err, err.Error())
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing questions", "exam_id", id, "file", header.Filename)
	summary, err := h.service.ImportQuestions(c.Request.Context(), id, sectionIndex, file, header.Filename)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ExportQuestions downloads the exam's questions as a sheet
// @Summary Export questions
// @Tags import-export
// @Param id path string true "Exam ID"
// @Param format query string false "xlsx or csv"
// @Success 200 {file} file
// @Router /exams/{id}/export [get]
func (h *ImportExportHandler) ExportQuestions(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	format := services.ExportFormat(c.DefaultQuery("format", string(services.ExportXLSX)))

	file, err := h.service.ExportQuestions(c.Request.Context(), id, format)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.FileName}))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
