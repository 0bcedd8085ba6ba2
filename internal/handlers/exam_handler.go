package handlers

import (
	"net/http"

	"github.com/examprep-ng/examprep-service/internal/services"
	"github.com/examprep-ng/examprep-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ExamHandler serves the exam lifecycle: generate, answer, finalize
type ExamHandler struct {
	BaseHandler
	generator services.GeneratorService
	answers   services.AnswerService
	finalizer services.FinalizerService
}

func NewExamHandler(
	generator services.GeneratorService,
	answers services.AnswerService,
	finalizer services.FinalizerService,
	logger utils.Logger,
) *ExamHandler {
	return &ExamHandler{
		BaseHandler: NewBaseHandler(logger),
		generator:   generator,
		answers:     answers,
		finalizer:   finalizer,
	}
}

// GenerateExam handles POST /exams
func (h *ExamHandler) GenerateExam(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	exam, err := h.generator.Generate(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Mock exam generated", exam)
}

// GetExam handles GET /exams/:id
func (h *ExamHandler) GetExam(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}
	examID, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	exam, err := h.generator.GetExam(c.Request.Context(), userID, examID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Mock exam", exam)
}

// SubmitAnswer handles POST /exams/:id/answers
func (h *ExamHandler) SubmitAnswer(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}
	examID, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	var req services.RecordAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.MockExamID = examID

	result, err := h.answers.RecordAnswer(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Answer recorded", result)
}

// GetAnswers handles GET /exams/:id/answers
func (h *ExamHandler) GetAnswers(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}
	examID, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	answers, err := h.answers.GetAnswers(c.Request.Context(), userID, examID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Answers", answers)
}

// FinalizeExam handles POST /exams/:id/finalize
func (h *ExamHandler) FinalizeExam(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}
	examID, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	summary, err := h.finalizer.Finalize(c.Request.Context(), userID, examID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Exam finalized", summary)
}
