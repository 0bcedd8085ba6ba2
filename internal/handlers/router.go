package handlers

import (
	"net/http"
	"strconv"

	"github.com/examprep-ng/examprep-service/internal/services"
	"github.com/examprep-ng/examprep-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	examHandler         *ExamHandler
	analyticsHandler    *AnalyticsHandler
	importHandler       *ImportHandler
	notificationHandler *NotificationHandler
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		examHandler: NewExamHandler(
			serviceManager.Generator(),
			serviceManager.Answer(),
			serviceManager.Finalizer(),
			logger,
		),
		analyticsHandler:    NewAnalyticsHandler(serviceManager.Analytics(), logger),
		importHandler:       NewImportHandler(serviceManager.Import(), logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(IdentityMiddleware())
	{
		exams := v1.Group("/exams")
		{
			exams.POST("", hm.examHandler.GenerateExam)
			exams.GET("/:id", hm.examHandler.GetExam)
			exams.POST("/:id/answers", hm.examHandler.SubmitAnswer)
			exams.GET("/:id/answers", hm.examHandler.GetAnswers)
			exams.POST("/:id/finalize", hm.examHandler.FinalizeExam)
		}

		analytics := v1.Group("/analytics")
		{
			analytics.GET("/statistics", hm.analyticsHandler.GetExamStatistics)
			analytics.GET("/exams", hm.analyticsHandler.GetMockExamsWithScores)
			analytics.GET("/exams/:id/topics", hm.analyticsHandler.GetTopicBreakdown)
			analytics.GET("/subjects", hm.analyticsHandler.GetOverallSubjectAnalysis)
			analytics.GET("/subjects/performance", hm.analyticsHandler.GetSubjectsPerformance)
			analytics.GET("/weak-areas", hm.analyticsHandler.GetWeakAreas)
		}

		imports := v1.Group("/imports")
		{
			imports.POST("", hm.importHandler.ImportQuestions)
			imports.GET("", hm.importHandler.ListImportJobs)
			imports.GET("/:id", hm.importHandler.GetImportJob)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", hm.notificationHandler.ListNotifications)
			notifications.GET("/unread-count", hm.notificationHandler.UnreadCount)
			notifications.POST("/:id/read", hm.notificationHandler.MarkRead)
			notifications.POST("/read-all", hm.notificationHandler.MarkAllRead)
		}
	}
}

// HealthCheck responds to liveness probes
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// IdentityMiddleware lifts the authenticated user ID off the request.
// Authentication itself happens at the gateway; this service trusts the
// forwarded X-User-ID header.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("X-User-ID")
		if header != "" {
			if userID, err := strconv.ParseUint(header, 10, 32); err == nil && userID > 0 {
				c.Set("user_id", uint(userID))
			}
		}
		c.Next()
	}
}
