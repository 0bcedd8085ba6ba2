package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string
type NotificationPriority int

const (
	NotificationExamReady        NotificationType = "exam_ready"
	NotificationResultAvailable  NotificationType = "result_available"
	NotificationWeakAreaDetected NotificationType = "weak_area_detected"
	NotificationImportCompleted  NotificationType = "import_completed"
	NotificationSubscription     NotificationType = "subscription_update"

	PriorityLow      NotificationPriority = 1
	PriorityNormal   NotificationPriority = 2
	PriorityHigh     NotificationPriority = 3
	PriorityCritical NotificationPriority = 4
)

// Notification is the in-app copy of a delivered event. Actual delivery
// (email, push) happens downstream of the kafka topic.
type Notification struct {
	ID      uint             `json:"id" gorm:"primaryKey"`
	Type    NotificationType `json:"type" gorm:"not null;index"`
	Title   string           `json:"title" gorm:"not null;size:255"`
	Message string           `json:"message" gorm:"type:text"`

	RecipientID uint  `json:"recipient_id" gorm:"not null;index"`
	MockExamID  *uint `json:"mock_exam_id" gorm:"index"`

	Channels datatypes.JSON `json:"channels" gorm:"type:jsonb"` // ["email", "in_app"]
	Priority int            `json:"priority" gorm:"default:2"`

	SentAt *time.Time `json:"sent_at"`
	ReadAt *time.Time `json:"read_at"`

	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
