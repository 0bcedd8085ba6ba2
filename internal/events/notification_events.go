package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of notification events
type EventType string

const (
	// Exam events
	EventExamGenerated EventType = "exam.generated"
	EventExamFinalized EventType = "exam.finalized"

	// Performance events
	EventWeakAreaDetected EventType = "performance.weak_area_detected"

	// Content events
	EventImportCompleted EventType = "content.import_completed"
)

// NotificationEvent is the base event structure for all notification events
type NotificationEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Exam notification event payloads

type ExamGeneratedEvent struct {
	ExamID        uint      `json:"exam_id"`
	UserID        uint      `json:"user_id"`
	SubjectIDs    []uint    `json:"subject_ids"`
	QuestionCount int       `json:"question_count"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}

type ExamFinalizedEvent struct {
	ExamID            uint      `json:"exam_id"`
	UserID            uint      `json:"user_id"`
	Status            string    `json:"status"`
	Score             float64   `json:"score"`
	TotalQuestions    int       `json:"total_questions"`
	AnsweredQuestions int       `json:"answered_questions"`
	CorrectAnswers    int       `json:"correct_answers"`
	CompletedAt       time.Time `json:"completed_at"`
}

// Performance notification event payloads

type WeakAreaDetectedEvent struct {
	UserID    uint               `json:"user_id"`
	WeakAreas []WeakAreaSnapshot `json:"weak_areas"`
}

type WeakAreaSnapshot struct {
	SubjectID      uint    `json:"subject_id"`
	SubjectName    string  `json:"subject_name"`
	TopicID        uint    `json:"topic_id"`
	TopicName      string  `json:"topic_name"`
	Accuracy       float64 `json:"accuracy"`
	TotalQuestions int     `json:"total_questions"`
}

// Content notification event payloads

type ImportCompletedEvent struct {
	JobID        string `json:"job_id"`
	Filename     string `json:"filename"`
	SuccessCount int    `json:"success_count"`
	ErrorCount   int    `json:"error_count"`
	InitiatorID  uint   `json:"initiator_id"`
}

// Event factory functions

func NewExamGeneratedEvent(examID, userID uint, subjectIDs []uint, questionCount int, startTime, endTime time.Time) *NotificationEvent {
	return &NotificationEvent{
		ID:        GenerateEventID(),
		Type:      EventExamGenerated,
		Timestamp: time.Now().UTC(),
		Source:    "examprep-service",
		Version:   "1.0",
		Data: ExamGeneratedEvent{
			ExamID:        examID,
			UserID:        userID,
			SubjectIDs:    subjectIDs,
			QuestionCount: questionCount,
			StartTime:     startTime,
			EndTime:       endTime,
		},
	}
}

func NewExamFinalizedEvent(examID, userID uint, status string, score float64, totalQuestions, answeredQuestions, correctAnswers int, completedAt time.Time) *NotificationEvent {
	return &NotificationEvent{
		ID:        GenerateEventID(),
		Type:      EventExamFinalized,
		Timestamp: time.Now().UTC(),
		Source:    "examprep-service",
		Version:   "1.0",
		Data: ExamFinalizedEvent{
			ExamID:            examID,
			UserID:            userID,
			Status:            status,
			Score:             score,
			TotalQuestions:    totalQuestions,
			AnsweredQuestions: answeredQuestions,
			CorrectAnswers:    correctAnswers,
			CompletedAt:       completedAt,
		},
	}
}

func NewWeakAreaDetectedEvent(userID uint, areas []WeakAreaSnapshot) *NotificationEvent {
	return &NotificationEvent{
		ID:        GenerateEventID(),
		Type:      EventWeakAreaDetected,
		Timestamp: time.Now().UTC(),
		Source:    "examprep-service",
		Version:   "1.0",
		Data: WeakAreaDetectedEvent{
			UserID:    userID,
			WeakAreas: areas,
		},
	}
}

func NewImportCompletedEvent(jobID, filename string, successCount, errorCount int, initiatorID uint) *NotificationEvent {
	return &NotificationEvent{
		ID:        GenerateEventID(),
		Type:      EventImportCompleted,
		Timestamp: time.Now().UTC(),
		Source:    "examprep-service",
		Version:   "1.0",
		Data: ImportCompletedEvent{
			JobID:        jobID,
			Filename:     filename,
			SuccessCount: successCount,
			ErrorCount:   errorCount,
			InitiatorID:  initiatorID,
		},
	}
}

// GenerateEventID returns a unique event ID
func GenerateEventID() string {
	return uuid.NewString()
}
