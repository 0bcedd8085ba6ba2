package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/examprep-ng/examprep-service/internal/events"
	"github.com/examprep-ng/examprep-service/internal/models"
	"github.com/examprep-ng/examprep-service/internal/repositories"
	"gorm.io/datatypes"
)

// NotificationService persists in-app notification rows and publishes the
// matching events to the notification topic. Delivery channels beyond in-app
// (email, push) consume the topic downstream.
type NotificationService interface {
	NotifyExamReady(ctx context.Context, exam *models.MockExam, subjectIDs []uint, questionCount int) error
	NotifyResultAvailable(ctx context.Context, exam *models.MockExam) error
	NotifyWeakAreas(ctx context.Context, userID uint, areas []*models.WeakArea) error
	NotifyImportCompleted(ctx context.Context, job *models.ImportJob) error

	List(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error)
	UnreadCount(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID uint) error
	MarkAllRead(ctx context.Context, userID uint) error
}

type notificationService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	publisher events.EventPublisher
}

func NewNotificationService(
	repo repositories.Repository,
	logger *slog.Logger,
	publisher events.EventPublisher,
) NotificationService {
	return &notificationService{
		repo:      repo,
		logger:    logger,
		publisher: publisher,
	}
}

var defaultChannels = []string{"in_app"}

// ===== OUTBOUND NOTIFICATIONS =====

func (s *notificationService) NotifyExamReady(ctx context.Context, exam *models.MockExam, subjectIDs []uint, questionCount int) error {
	notification := &models.Notification{
		Type:        models.NotificationExamReady,
		Title:       "Your mock exam is ready",
		Message:     fmt.Sprintf("A new mock exam with %d questions has been generated. You have until %s.", questionCount, exam.EndTime.Format(time.Kitchen)),
		RecipientID: exam.UserID,
		MockExamID:  &exam.ID,
		Priority:    int(models.PriorityNormal),
	}

	event := events.NewExamGeneratedEvent(exam.ID, exam.UserID, subjectIDs, questionCount, exam.StartTime, exam.EndTime)
	return s.deliver(ctx, notification, event)
}

func (s *notificationService) NotifyResultAvailable(ctx context.Context, exam *models.MockExam) error {
	score := 0.0
	if exam.Score != nil {
		score = *exam.Score
	}
	status := ""
	if exam.Status != nil {
		status = string(*exam.Status)
	}
	completedAt := time.Now().UTC()
	if exam.CompletedAt != nil {
		completedAt = *exam.CompletedAt
	}

	notification := &models.Notification{
		Type:        models.NotificationResultAvailable,
		Title:       "Your exam result is ready",
		Message:     fmt.Sprintf("Your mock exam scored %.1f%%.", score),
		RecipientID: exam.UserID,
		MockExamID:  &exam.ID,
		Priority:    int(models.PriorityHigh),
	}

	event := events.NewExamFinalizedEvent(
		exam.ID, exam.UserID, status, score,
		derefInt(exam.TotalQuestions),
		derefInt(exam.AnsweredQuestions),
		derefInt(exam.CorrectAnswers),
		completedAt,
	)
	return s.deliver(ctx, notification, event)
}

func (s *notificationService) NotifyWeakAreas(ctx context.Context, userID uint, areas []*models.WeakArea) error {
	snapshots := make([]events.WeakAreaSnapshot, 0, len(areas))
	for _, area := range areas {
		snapshots = append(snapshots, events.WeakAreaSnapshot{
			SubjectID:      area.SubjectID,
			SubjectName:    area.Subject.Name,
			TopicID:        area.TopicID,
			TopicName:      area.Topic.Name,
			Accuracy:       area.Accuracy(),
			TotalQuestions: area.TotalQuestions,
		})
	}

	notification := &models.Notification{
		Type:        models.NotificationWeakAreaDetected,
		Title:       "Topics that need attention",
		Message:     fmt.Sprintf("%d topics are below the accuracy threshold. Review them before your next exam.", len(areas)),
		RecipientID: userID,
		Priority:    int(models.PriorityNormal),
	}

	event := events.NewWeakAreaDetectedEvent(userID, snapshots)
	return s.deliver(ctx, notification, event)
}

func (s *notificationService) NotifyImportCompleted(ctx context.Context, job *models.ImportJob) error {
	notification := &models.Notification{
		Type:        models.NotificationImportCompleted,
		Title:       "Content import finished",
		Message:     fmt.Sprintf("Import %s finished: %d imported, %d rejected.", job.Filename, job.SuccessCount, job.ErrorCount),
		RecipientID: job.CreatedBy,
		Priority:    int(models.PriorityLow),
	}

	event := events.NewImportCompletedEvent(job.ID, job.Filename, job.SuccessCount, job.ErrorCount, job.CreatedBy)
	return s.deliver(ctx, notification, event)
}

// deliver persists the in-app row, then publishes. A publish failure is
// returned after the row is stored so callers can decide whether to log or
// escalate; the in-app copy survives either way.
func (s *notificationService) deliver(ctx context.Context, notification *models.Notification, event *events.NotificationEvent) error {
	channels, err := json.Marshal(defaultChannels)
	if err != nil {
		return fmt.Errorf("failed to encode channels: %w", err)
	}
	notification.Channels = datatypes.JSON(channels)

	now := time.Now().UTC()
	notification.SentAt = &now

	if err := s.repo.Notification().Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if err := s.publisher.PublishNotificationEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to publish notification event: %w", err)
	}

	return nil
}

// ===== IN-APP READS =====

func (s *notificationService) List(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error) {
	return s.repo.Notification().GetByUser(ctx, userID, limit, offset)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.repo.Notification().CountUnreadByUser(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	notification, err := s.repo.Notification().GetByID(ctx, notificationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load notification: %w", err)
	}
	if notification.RecipientID != userID {
		return ErrForbidden
	}

	return s.repo.Notification().MarkRead(ctx, notificationID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.repo.Notification().MarkAllRead(ctx, userID)
}
