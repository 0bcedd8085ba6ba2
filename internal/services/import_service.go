package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/examprep-ng/examprep-service/internal/models"
	"github.com/examprep-ng/examprep-service/internal/repositories"
	"github.com/examprep-ng/examprep-service/internal/utils"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
)

// ImportService loads questions and their taxonomy from CSV or xlsx sheets.
// Taxonomy rows (subject, section, chapter, topic, objective) are resolved by
// name and created on first sight.
type ImportService interface {
	ImportQuestionsFromFile(ctx context.Context, reader io.Reader, filename string, creatorID uint) (*ImportResult, error)
	ImportQuestionsFromCSV(ctx context.Context, reader io.Reader, filename string, creatorID uint) (*ImportResult, error)
	ImportQuestionsFromExcel(ctx context.Context, reader io.Reader, filename string, creatorID uint) (*ImportResult, error)

	GetImportJob(ctx context.Context, jobID string) (*models.ImportJob, error)
	ListImportJobs(ctx context.Context, limit, offset int) ([]*models.ImportJob, error)
}

type importService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
	notifier  NotificationService
}

func NewImportService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *utils.Validator,
	notifier NotificationService,
) ImportService {
	return &importService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		notifier:  notifier,
	}
}

// ===== DATA STRUCTURES =====

type ImportResult struct {
	JobID         string                         `json:"job_id"`
	TotalRows     int                            `json:"total_rows"`
	ProcessedRows int                            `json:"processed_rows"`
	SuccessCount  int                            `json:"success_count"`
	ErrorCount    int                            `json:"error_count"`
	Errors        []models.ImportValidationError `json:"errors,omitempty"`
	Status        models.ImportJobStatus         `json:"status"`
}

// expected sheet columns; option_e and the taxonomy extras are optional
var requiredColumns = []string{
	"subject", "section", "topic", "question",
	"option_a", "option_b", "option_c", "option_d", "correct_option",
}

var optionalColumns = []string{
	"chapter", "objective", "option_e", "explanation", "solution", "image_url",
}

// parsedRow is one sheet row after validation, before taxonomy resolution
type parsedRow struct {
	rowNum    int
	subject   string
	section   string
	chapter   string
	topic     string
	objective string

	text          string
	options       map[string]string // label value -> text
	correctOption string
	explanation   string
	solution      string
	imageURL      string
}

// ===== IMPORT OPERATIONS =====

func (s *importService) ImportQuestionsFromFile(ctx context.Context, reader io.Reader, filename string, creatorID uint) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".csv":
		return s.ImportQuestionsFromCSV(ctx, reader, filename, creatorID)
	case ".xlsx", ".xls":
		return s.ImportQuestionsFromExcel(ctx, reader, filename, creatorID)
	default:
		return nil, ErrImportInvalidFormat
	}
}

func (s *importService) ImportQuestionsFromCSV(ctx context.Context, reader io.Reader, filename string, creatorID uint) (*ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return s.runImport(ctx, records, filename, creatorID)
}

func (s *importService) ImportQuestionsFromExcel(ctx context.Context, reader io.Reader, filename string, creatorID uint) (*ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrImportInvalidFormat
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet rows: %w", err)
	}

	return s.runImport(ctx, records, filename, creatorID)
}

func (s *importService) GetImportJob(ctx context.Context, jobID string) (*models.ImportJob, error) {
	job, err := s.repo.ImportJob().GetByID(ctx, jobID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrImportJobNotFound
		}
		return nil, fmt.Errorf("failed to load import job: %w", err)
	}
	return job, nil
}

func (s *importService) ListImportJobs(ctx context.Context, limit, offset int) ([]*models.ImportJob, error) {
	return s.repo.ImportJob().List(ctx, limit, offset)
}

// ===== PIPELINE =====

// runImport drives the import: header mapping, per-row parsing with collected
// validation errors, then one transaction resolving taxonomy and inserting
// every valid question. A row error never aborts the batch.
func (s *importService) runImport(ctx context.Context, records [][]string, filename string, creatorID uint) (*ImportResult, error) {
	s.logger.Info("Starting question import", "filename", filename, "creator_id", creatorID)

	if len(records) < 2 {
		return nil, NewValidationError("file", "file must contain a header row and at least one data row", len(records))
	}

	headerMap, err := s.mapHeader(records[0])
	if err != nil {
		return nil, err
	}

	job := &models.ImportJob{
		ID:        uuid.NewString(),
		Filename:  filename,
		Status:    models.ImportProcessing,
		TotalRows: len(records) - 1,
		CreatedBy: creatorID,
	}
	if err := s.repo.ImportJob().Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create import job: %w", err)
	}

	var rows []*parsedRow
	var rowErrors []models.ImportValidationError

	for i, record := range records[1:] {
		rowNum := i + 2 // 1-based plus header
		row, errs := s.parseRow(record, headerMap, rowNum)
		if len(errs) > 0 {
			rowErrors = append(rowErrors, errs...)
			continue
		}
		rows = append(rows, row)
	}

	imported := 0
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		for _, row := range rows {
			question, err := s.buildQuestion(ctx, txRepo, row)
			if err != nil {
				return err
			}

			exists, err := txRepo.Question().ExistsByText(ctx, question.Text, question.SubjectID)
			if err != nil {
				return fmt.Errorf("row %d: failed to check duplicates: %w", row.rowNum, err)
			}
			if exists {
				rowErrors = append(rowErrors, models.ImportValidationError{
					Row:     row.rowNum,
					Column:  "question",
					Message: "question already exists in this subject",
				})
				continue
			}

			if err := txRepo.Question().Create(ctx, question); err != nil {
				return fmt.Errorf("row %d: failed to create question: %w", row.rowNum, err)
			}
			imported++
		}
		return nil
	})

	job.ProcessedRows = job.TotalRows
	job.SuccessCount = imported
	job.ErrorCount = len(rowErrors)
	now := time.Now().UTC()
	job.CompletedAt = &now

	if err != nil {
		job.Status = models.ImportFailed
		job.SuccessCount = 0
	} else {
		job.Status = models.ImportCompleted
	}
	if len(rowErrors) > 0 {
		if raw, marshalErr := json.Marshal(rowErrors); marshalErr == nil {
			job.Errors = datatypes.JSON(raw)
		}
	}

	if updateErr := s.repo.ImportJob().Update(ctx, job); updateErr != nil {
		s.logger.Error("Failed to update import job", "job_id", job.ID, "error", updateErr)
	}

	if err != nil {
		return nil, err
	}

	if notifyErr := s.notifier.NotifyImportCompleted(ctx, job); notifyErr != nil {
		s.logger.Warn("Failed to send import notification", "job_id", job.ID, "error", notifyErr)
	}

	s.logger.Info("Finished question import",
		"job_id", job.ID,
		"imported", imported,
		"rejected", len(rowErrors))

	return &ImportResult{
		JobID:         job.ID,
		TotalRows:     job.TotalRows,
		ProcessedRows: job.ProcessedRows,
		SuccessCount:  imported,
		ErrorCount:    len(rowErrors),
		Errors:        rowErrors,
		Status:        job.Status,
	}, nil
}

func (s *importService) mapHeader(header []string) (map[string]int, error) {
	headerMap := make(map[string]int, len(header))
	for i, col := range header {
		headerMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	for _, col := range requiredColumns {
		if _, ok := headerMap[col]; !ok {
			return nil, NewValidationError("header", fmt.Sprintf("missing required column '%s'", col), header)
		}
	}
	return headerMap, nil
}

func (s *importService) parseRow(record []string, headerMap map[string]int, rowNum int) (*parsedRow, []models.ImportValidationError) {
	var errs []models.ImportValidationError

	get := func(col string) string {
		idx, ok := headerMap[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}
	requireField := func(col string) string {
		v := get(col)
		if v == "" {
			errs = append(errs, models.ImportValidationError{Row: rowNum, Column: col, Message: "is required"})
		}
		return v
	}

	row := &parsedRow{
		rowNum:      rowNum,
		subject:     requireField("subject"),
		section:     requireField("section"),
		chapter:     get("chapter"),
		topic:       requireField("topic"),
		objective:   get("objective"),
		text:        requireField("question"),
		explanation: get("explanation"),
		solution:    get("solution"),
		imageURL:    get("image_url"),
		options:     make(map[string]string),
	}

	// Legacy sheet layout: 4 required option slots plus an optional fifth.
	for _, label := range []string{"A", "B", "C", "D"} {
		if v := requireField("option_" + strings.ToLower(label)); v != "" {
			row.options[label] = v
		}
	}
	if v := get("option_e"); v != "" {
		row.options["E"] = v
	}

	row.correctOption = strings.ToUpper(requireField("correct_option"))
	if row.correctOption != "" {
		if _, ok := row.options[row.correctOption]; !ok {
			errs = append(errs, models.ImportValidationError{
				Row:     rowNum,
				Column:  "correct_option",
				Message: fmt.Sprintf("'%s' does not match any provided option", row.correctOption),
			})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return row, nil
}

// buildQuestion resolves the row's taxonomy names and assembles the model
func (s *importService) buildQuestion(ctx context.Context, txRepo repositories.Repository, row *parsedRow) (*models.Question, error) {
	subject, err := txRepo.Taxonomy().FindOrCreateSubject(ctx, row.subject)
	if err != nil {
		return nil, fmt.Errorf("row %d: failed to resolve subject: %w", row.rowNum, err)
	}
	section, err := txRepo.Taxonomy().FindOrCreateSection(ctx, subject.ID, row.section)
	if err != nil {
		return nil, fmt.Errorf("row %d: failed to resolve section: %w", row.rowNum, err)
	}
	topic, err := txRepo.Taxonomy().FindOrCreateTopic(ctx, section.ID, row.topic)
	if err != nil {
		return nil, fmt.Errorf("row %d: failed to resolve topic: %w", row.rowNum, err)
	}

	question := &models.Question{
		Text:          row.text,
		SubjectID:     subject.ID,
		SectionID:     section.ID,
		TopicID:       topic.ID,
		CorrectOption: row.correctOption,
	}

	if row.chapter != "" {
		chapter, err := txRepo.Taxonomy().FindOrCreateChapter(ctx, subject.ID, row.chapter)
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to resolve chapter: %w", row.rowNum, err)
		}
		question.ChapterID = &chapter.ID
	}
	if row.objective != "" {
		objective, err := txRepo.Taxonomy().FindOrCreateObjective(ctx, topic.ID, row.objective)
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to resolve objective: %w", row.rowNum, err)
		}
		question.ObjectiveID = &objective.ID
	}
	if row.explanation != "" {
		question.Explanation = &row.explanation
	}
	if row.solution != "" {
		question.Solution = &row.solution
	}
	if row.imageURL != "" {
		question.ImageURL = &row.imageURL
	}

	for i, label := range []string{"A", "B", "C", "D", "E"} {
		text, ok := row.options[label]
		if !ok {
			continue
		}
		question.Options = append(question.Options, models.QuestionOption{
			Value:    label,
			Label:    text,
			Position: i + 1,
		})
	}

	return question, nil
}
