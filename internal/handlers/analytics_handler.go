package handlers

import (
	"net/http"

	"github.com/examprep-ng/examprep-service/internal/services"
	"github.com/examprep-ng/examprep-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// AnalyticsHandler serves the read-only performance views
type AnalyticsHandler struct {
	BaseHandler
	analytics services.AnalyticsService
}

func NewAnalyticsHandler(analytics services.AnalyticsService, logger utils.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler: NewBaseHandler(logger),
		analytics:   analytics,
	}
}

// GetExamStatistics handles GET /analytics/statistics
func (h *AnalyticsHandler) GetExamStatistics(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	stats, err := h.analytics.GetExamStatistics(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Exam statistics", stats)
}

// GetTopicBreakdown handles GET /analytics/exams/:id/topics
func (h *AnalyticsHandler) GetTopicBreakdown(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}
	examID, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	breakdown, err := h.analytics.GetTopicBreakdown(c.Request.Context(), userID, examID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Topic breakdown", breakdown)
}

// GetMockExamsWithScores handles GET /analytics/exams
func (h *AnalyticsHandler) GetMockExamsWithScores(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	exams, err := h.analytics.GetMockExamsWithScores(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Exams with scores", exams)
}

// GetOverallSubjectAnalysis handles GET /analytics/subjects
func (h *AnalyticsHandler) GetOverallSubjectAnalysis(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	analysis, err := h.analytics.GetOverallSubjectAnalysis(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Subject analysis", analysis)
}

// GetSubjectsPerformance handles GET /analytics/subjects/performance
func (h *AnalyticsHandler) GetSubjectsPerformance(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	perf, err := h.analytics.GetSubjectsPerformance(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Subjects performance", perf)
}

// GetWeakAreas handles GET /analytics/weak-areas
func (h *AnalyticsHandler) GetWeakAreas(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	areas, err := h.analytics.GetWeakAreas(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Weak areas", areas)
}
