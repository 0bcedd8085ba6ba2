package services

import (
	"context"
	"testing"
	"time"

	"github.com/examprep-ng/examprep-service/internal/events"
	"github.com/examprep-ng/examprep-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newNotificationServiceForTest(repo *MockRepository, publisher events.EventPublisher) NotificationService {
	return NewNotificationService(repo, testLogger(), publisher)
}

func TestNotificationService_NotifyExamReady(t *testing.T) {
	mockRepo := newMockRepository()
	publisher := events.NewMockEventPublisher()

	var stored *models.Notification
	mockRepo.notifications.On("Create", mock.Anything, mock.AnythingOfType("*models.Notification")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*models.Notification)
		}).Return(nil)

	now := time.Now().UTC()
	exam := &models.MockExam{ID: 42, UserID: 7, StartTime: now, EndTime: now.Add(90 * time.Minute)}

	service := newNotificationServiceForTest(mockRepo, publisher)
	err := service.NotifyExamReady(context.Background(), exam, []uint{1, 2, 3, 4}, 160)

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.NotificationExamReady, stored.Type)
	assert.Equal(t, uint(7), stored.RecipientID)
	require.NotNil(t, stored.MockExamID)
	assert.Equal(t, uint(42), *stored.MockExamID)
	assert.NotNil(t, stored.SentAt)

	published := publisher.EventsOfType(events.EventExamGenerated)
	require.Len(t, published, 1)
	assert.NotEmpty(t, published[0].ID)
}

func TestNotificationService_NotifyResultAvailable(t *testing.T) {
	mockRepo := newMockRepository()
	publisher := events.NewMockEventPublisher()

	mockRepo.notifications.On("Create", mock.Anything, mock.Anything).Return(nil)

	score := 62.5
	status := models.ExamStatusSubmitted
	completed := time.Now().UTC()
	total, answered, correct := 160, 150, 100
	exam := &models.MockExam{
		ID:                42,
		UserID:            7,
		Score:             &score,
		Status:            &status,
		CompletedAt:       &completed,
		TotalQuestions:    &total,
		AnsweredQuestions: &answered,
		CorrectAnswers:    &correct,
	}

	service := newNotificationServiceForTest(mockRepo, publisher)
	require.NoError(t, service.NotifyResultAvailable(context.Background(), exam))

	published := publisher.EventsOfType(events.EventExamFinalized)
	require.Len(t, published, 1)
}

func TestNotificationService_NotifyImportCompleted(t *testing.T) {
	mockRepo := newMockRepository()
	publisher := events.NewMockEventPublisher()
	mockRepo.notifications.On("Create", mock.Anything, mock.Anything).Return(nil)

	job := &models.ImportJob{
		ID:           "job-1",
		Filename:     "bank.csv",
		Status:       models.ImportCompleted,
		SuccessCount: 98,
		ErrorCount:   2,
		CreatedBy:    9,
	}

	service := newNotificationServiceForTest(mockRepo, publisher)
	require.NoError(t, service.NotifyImportCompleted(context.Background(), job))

	published := publisher.EventsOfType(events.EventImportCompleted)
	require.Len(t, published, 1)
}

func TestNotificationService_MarkRead(t *testing.T) {
	mockRepo := newMockRepository()
	mockRepo.notifications.On("GetByID", mock.Anything, uint(5)).
		Return(&models.Notification{ID: 5, RecipientID: 7}, nil)
	mockRepo.notifications.On("MarkRead", mock.Anything, uint(5)).Return(nil)

	service := newNotificationServiceForTest(mockRepo, events.NewMockEventPublisher())
	err := service.MarkRead(context.Background(), 7, 5)

	require.NoError(t, err)
	mockRepo.notifications.AssertExpectations(t)
}

func TestNotificationService_MarkRead_WrongUser(t *testing.T) {
	mockRepo := newMockRepository()
	mockRepo.notifications.On("GetByID", mock.Anything, uint(5)).
		Return(&models.Notification{ID: 5, RecipientID: 7}, nil)

	service := newNotificationServiceForTest(mockRepo, events.NewMockEventPublisher())
	err := service.MarkRead(context.Background(), 99, 5)

	assert.ErrorIs(t, err, ErrForbidden)
	mockRepo.notifications.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
}

func TestNotificationService_MarkRead_NotFound(t *testing.T) {
	mockRepo := newMockRepository()
	mockRepo.notifications.On("GetByID", mock.Anything, uint(5)).
		Return(nil, gorm.ErrRecordNotFound)

	service := newNotificationServiceForTest(mockRepo, events.NewMockEventPublisher())
	err := service.MarkRead(context.Background(), 7, 5)

	assert.ErrorIs(t, err, ErrNotFound)
}
