package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/examprep-ng/examprep-service/internal/models"
	"github.com/examprep-ng/examprep-service/internal/repositories"
)

// FinalizerService closes a mock exam and computes its summary
type FinalizerService interface {
	Finalize(ctx context.Context, userID, examID uint) (*ExamSummary, error)
}

type finalizerService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	analytics AnalyticsService
	notifier  NotificationService
}

func NewFinalizerService(
	repo repositories.Repository,
	logger *slog.Logger,
	analytics AnalyticsService,
	notifier NotificationService,
) FinalizerService {
	return &finalizerService{
		repo:      repo,
		logger:    logger,
		analytics: analytics,
		notifier:  notifier,
	}
}

// ===== DATA STRUCTURES =====

type ExamSummary struct {
	ExamID             uint              `json:"exam_id"`
	Status             models.ExamStatus `json:"status"`
	CompletedAt        time.Time         `json:"completed_at"`
	TotalQuestions     int               `json:"total_questions"`
	AnsweredQuestions  int               `json:"answered_questions"`
	SkippedQuestions   int               `json:"skipped_questions"`
	CorrectAnswers     int               `json:"correct_answers"`
	WrongAnswers       int               `json:"wrong_answers"`
	Score              float64           `json:"score"` // percent, 0-100
	AverageTimePerItem float64           `json:"average_time_per_item"` // seconds
}

// ===== CORE OPERATIONS =====

// Finalize recomputes the exam summary from stored answers and persists it.
// The computation is pure: repeat calls regrade the same rows and land on the
// same summary, so clients may retry freely. The recorded status and
// completion time survive re-finalization; only the first call fixes them.
func (s *finalizerService) Finalize(ctx context.Context, userID, examID uint) (*ExamSummary, error) {
	exam, err := s.repo.Exam().GetByID(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to load exam: %w", err)
	}
	if exam.UserID != userID {
		return nil, ErrExamAccessDenied
	}

	totalQuestions, err := s.repo.ExamQuestion().CountByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to count exam questions: %w", err)
	}
	answered, err := s.repo.Answer().CountByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to count answers: %w", err)
	}
	correct, err := s.repo.Answer().CountCorrectByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to count correct answers: %w", err)
	}
	totalTime, err := s.repo.Answer().TotalTimeByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum answer time: %w", err)
	}

	now := time.Now().UTC()

	// Status is fixed at first finalization; the wall clock decides whether
	// the user beat the timer.
	status := models.ExamStatusSubmitted
	completedAt := now
	if exam.IsFinalized() {
		status = *exam.Status
		completedAt = *exam.CompletedAt
	} else if exam.Expired(now) {
		status = models.ExamStatusTimerExpired
	}

	wrong := int(answered - correct)
	score := 0.0
	avgTime := 0.0
	if totalQuestions > 0 {
		score = float64(correct) / float64(totalQuestions) * 100
		avgTime = float64(totalTime) / float64(totalQuestions)
	}

	exam.Status = &status
	exam.CompletedAt = &completedAt
	total := int(totalQuestions)
	answeredInt := int(answered)
	correctInt := int(correct)
	exam.TotalQuestions = &total
	exam.AnsweredQuestions = &answeredInt
	exam.CorrectAnswers = &correctInt
	exam.WrongAnswers = &wrong
	exam.Score = &score
	examTime := float64(totalTime)
	exam.AverageTimePerExam = &examTime

	if err := s.repo.Exam().UpdateSummary(ctx, exam); err != nil {
		return nil, fmt.Errorf("failed to persist exam summary: %w", err)
	}

	// Downstream refreshes are best effort; the summary itself is committed.
	if err := s.analytics.InvalidateUserCache(ctx, userID); err != nil {
		s.logger.Warn("Failed to invalidate analytics cache", "user_id", userID, "error", err)
	}
	if areas, err := s.analytics.RefreshWeakAreas(ctx, userID); err != nil {
		s.logger.Warn("Failed to refresh weak areas", "user_id", userID, "error", err)
	} else if len(areas) > 0 {
		if err := s.notifier.NotifyWeakAreas(ctx, userID, areas); err != nil {
			s.logger.Warn("Failed to send weak-area notification", "user_id", userID, "error", err)
		}
	}
	if err := s.notifier.NotifyResultAvailable(ctx, exam); err != nil {
		s.logger.Warn("Failed to send result notification", "exam_id", examID, "error", err)
	}

	s.logger.Info("Finalized mock exam",
		"exam_id", examID,
		"user_id", userID,
		"status", status,
		"score", score)

	return &ExamSummary{
		ExamID:             examID,
		Status:             status,
		CompletedAt:        completedAt,
		TotalQuestions:     total,
		AnsweredQuestions:  answeredInt,
		SkippedQuestions:   total - answeredInt,
		CorrectAnswers:     correctInt,
		WrongAnswers:       wrong,
		Score:              score,
		AverageTimePerItem: avgTime,
	}, nil
}
