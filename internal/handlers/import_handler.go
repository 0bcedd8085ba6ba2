package handlers

import (
	"net/http"

	"github.com/examprep-ng/examprep-service/internal/services"
	"github.com/examprep-ng/examprep-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ImportHandler serves the content import endpoints
type ImportHandler struct {
	BaseHandler
	imports services.ImportService
}

func NewImportHandler(imports services.ImportService, logger utils.Logger) *ImportHandler {
	return &ImportHandler{
		BaseHandler: NewBaseHandler(logger),
		imports:     imports,
	}
}

// ImportQuestions handles POST /imports (multipart form, field "file")
func (h *ImportHandler) ImportQuestions(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Missing file upload", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Cannot read uploaded file", err)
		return
	}
	defer file.Close()

	result, err := h.imports.ImportQuestionsFromFile(c.Request.Context(), file, fileHeader.Filename, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Import finished", result)
}

// GetImportJob handles GET /imports/:id
func (h *ImportHandler) GetImportJob(c *gin.Context) {
	if _, ok := CurrentUserID(c); !ok {
		return
	}

	jobID := c.Param("id")
	if jobID == "" {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid job id", nil)
		return
	}

	job, err := h.imports.GetImportJob(c.Request.Context(), jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Import job", job)
}

// ListImportJobs handles GET /imports
func (h *ImportHandler) ListImportJobs(c *gin.Context) {
	if _, ok := CurrentUserID(c); !ok {
		return
	}

	limit, offset := ParsePagination(c)
	jobs, err := h.imports.ListImportJobs(c.Request.Context(), limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Import jobs", jobs)
}
