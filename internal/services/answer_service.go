package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/examprep-ng/examprep-service/internal/models"
	"github.com/examprep-ng/examprep-service/internal/repositories"
	"github.com/examprep-ng/examprep-service/internal/utils"
)

// AnswerService records per-question selections during a running exam
type AnswerService interface {
	RecordAnswer(ctx context.Context, userID uint, req *RecordAnswerRequest) (*RecordAnswerResponse, error)
	GetAnswers(ctx context.Context, userID, examID uint) ([]*models.UserExamAnswer, error)
}

type answerService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
}

func NewAnswerService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator) AnswerService {
	return &answerService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// ===== DATA STRUCTURES =====

type RecordAnswerRequest struct {
	MockExamID uint `json:"mock_exam_id" validate:"required"`
	QuestionID uint `json:"question_id" validate:"required"`

	// Nil records a deliberate skip.
	SelectedOption *string `json:"selected_option" validate:"omitempty,option_label"`
	TimeSpent      int     `json:"time_spent" validate:"min=0"`
}

type RecordAnswerResponse struct {
	MockExamID     uint    `json:"mock_exam_id"`
	QuestionID     uint    `json:"question_id"`
	SelectedOption *string `json:"selected_option"`
	IsCorrect      bool    `json:"is_correct"`
	Skipped        bool    `json:"skipped"`
}

// ===== CORE OPERATIONS =====

// RecordAnswer validates ownership and exam membership, grades the selection
// against the stored correct option and upserts the single answer row for
// (exam, user, question). Re-answering overwrites.
func (s *answerService) RecordAnswer(ctx context.Context, userID uint, req *RecordAnswerRequest) (*RecordAnswerResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exam, err := s.repo.Exam().GetByID(ctx, req.MockExamID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to load exam: %w", err)
	}
	if exam.UserID != userID {
		return nil, ErrExamAccessDenied
	}
	if exam.IsFinalized() {
		return nil, ErrExamFinalized
	}
	if exam.Expired(time.Now().UTC()) {
		return nil, ErrExamExpired
	}

	// Membership check blocks answer injection against questions outside the
	// generated snapshot.
	inExam, err := s.repo.ExamQuestion().Exists(ctx, req.MockExamID, req.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check exam membership: %w", err)
	}
	if !inExam {
		return nil, ErrQuestionNotInExam
	}

	question, err := s.repo.Question().GetByIDWithOptions(ctx, req.QuestionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to load question: %w", err)
	}

	isCorrect := false
	if req.SelectedOption != nil {
		if !question.HasOption(*req.SelectedOption) {
			return nil, ErrInvalidOption
		}
		isCorrect = *req.SelectedOption == question.CorrectOption
	}

	answer := &models.UserExamAnswer{
		MockExamID:     req.MockExamID,
		UserID:         userID,
		QuestionID:     req.QuestionID,
		SelectedOption: req.SelectedOption,
		IsCorrect:      isCorrect,
		TimeSpent:      req.TimeSpent,
	}

	if err := s.repo.Answer().Upsert(ctx, answer); err != nil {
		return nil, fmt.Errorf("failed to record answer: %w", err)
	}

	s.logger.Debug("Recorded answer",
		"exam_id", req.MockExamID,
		"question_id", req.QuestionID,
		"skipped", req.SelectedOption == nil)

	return &RecordAnswerResponse{
		MockExamID:     req.MockExamID,
		QuestionID:     req.QuestionID,
		SelectedOption: req.SelectedOption,
		IsCorrect:      isCorrect,
		Skipped:        req.SelectedOption == nil,
	}, nil
}

// GetAnswers returns the user's answer rows for one exam
func (s *answerService) GetAnswers(ctx context.Context, userID, examID uint) ([]*models.UserExamAnswer, error) {
	owned, err := s.repo.Exam().BelongsToUser(ctx, examID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check exam ownership: %w", err)
	}
	if !owned {
		return nil, ErrExamNotFound
	}

	return s.repo.Answer().GetByExam(ctx, examID)
}
