package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/exam-document-service/internal/services"
	"github.com/SAP-F-2025/exam-document-service/internal/utils"
	"github.com/SAP-F-2025/exam-document-service/pkg/monitoring"
)

const serviceName = "exam-document-service"

type HandlerManager struct {
	examHandler         *ExamHandler
	gridHandler         *GridHandler
	renderHandler       *RenderHandler
	importExportHandler *ImportExportHandler
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		examHandler:         NewExamHandler(serviceManager.Exam(), logger),
		gridHandler:         NewGridHandler(serviceManager.Grid(), logger),
		renderHandler:       NewRenderHandler(serviceManager.Render(), logger),
		importExportHandler: NewImportExportHandler(serviceManager.ImportExport(), logger),
	}
}

// NewRouter builds the engine with request ID, logging, metrics and recovery middleware.
func NewRouter(hm *HandlerManager, logger utils.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		utils.RequestID(),
		utils.ContextLogger(logger),
		utils.LoggerMiddleware(logger),
		monitoring.MetricsMiddleware(),
	)
	hm.SetupRoutes(router)
	return router
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Exam routes
		exams := v1.Group("/exams")
		{
			exams.POST("", hm.examHandler.CreateExam)
			exams.GET("", hm.examHandler.ListExams)
			exams.GET("/:id", hm.examHandler.GetExam)
			exams.PUT("/:id", hm.examHandler.UpdateExam)
			exams.DELETE("/:id", hm.examHandler.DeleteExam)
			exams.POST("/:id/publish", hm.examHandler.PublishExam)

			// Structure
			exams.POST("/:id/sections", hm.examHandler.AddSection)
			exams.POST("/:id/sections/:section/questions", hm.examHandler.AddQuestion)
			exams.DELETE("/:id/questions/:question_id", hm.examHandler.RemoveQuestion)
			exams.POST("/:id/renumber", hm.examHandler.RenumberQuestions)
			exams.DELETE("/:id/questions/:question_id/matching/:side/:item_id", hm.examHandler.RemoveMatchingItem)

			// Table grid editing
			exams.POST("/:id/questions/:question_id/grid", hm.gridHandler.ApplyGridOperation)
			exams.POST("/:id/questions/:question_id/grid/eligibility", hm.gridHandler.GetEligibility)

			// Documents
			exams.GET("/:id/render", hm.renderHandler.RenderExam)
			exams.POST("/:id/sections/:section/import", hm.importExportHandler.ImportQuestions)
			exams.GET("/:id/export", hm.importExportHandler.ExportQuestions)
		}

		v1.POST("/render", hm.renderHandler.RenderInline)

		// Render profile routes
		profiles := v1.Group("/render-profiles")
		{
			profiles.GET("", hm.renderHandler.ListProfiles)
			profiles.GET("/:name", hm.renderHandler.GetProfile)
			profiles.PUT("/:name", hm.renderHandler.SaveProfile)
		}
	}

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
		})
	})
}
