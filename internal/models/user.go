package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	FullName string `json:"full_name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Email    string `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`

	PhoneNumber *string `json:"phone_number" gorm:"size:20"`
	AvatarURL   *string `json:"avatar_url" gorm:"size:500"`

	IsActive      bool       `json:"is_active" gorm:"default:true"`
	EmailVerified bool       `json:"email_verified" gorm:"default:false"`
	LastLoginAt   *time.Time `json:"last_login_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// ExamDetail is the user's current exam registration: the subjects they sit.
// SubjectIDs is stored as a JSON array; a valid record carries exactly four
// entries for the national exam format.
type ExamDetail struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	UserID     uint           `json:"user_id" gorm:"not null;index"`
	SubjectIDs datatypes.JSON `json:"subject_ids" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionExpired  SubscriptionStatus = "expired"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Subscription links exams to a paid plan. Payment-provider processing lives
// outside this service; only the resulting record is kept here.
type Subscription struct {
	ID        uint               `json:"id" gorm:"primaryKey"`
	UserID    uint               `json:"user_id" gorm:"not null;index"`
	PlanName  string             `json:"plan_name" gorm:"not null;size:100"`
	Status    SubscriptionStatus `json:"status" gorm:"not null;default:active;index"`
	StartsAt  time.Time          `json:"starts_at"`
	ExpiresAt time.Time          `json:"expires_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

func (User) TableName() string         { return "users" }
func (ExamDetail) TableName() string   { return "exam_details" }
func (Subscription) TableName() string { return "subscriptions" }

// Subjects decodes the stored subject ID array.
func (d *ExamDetail) Subjects() ([]uint, error) {
	var ids []uint
	if len(d.SubjectIDs) == 0 {
		return ids, nil
	}
	if err := json.Unmarshal(d.SubjectIDs, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// SetSubjects encodes ids into the JSON column.
func (d *ExamDetail) SetSubjects(ids []uint) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	d.SubjectIDs = datatypes.JSON(raw)
	return nil
}

// Active reports whether the subscription currently covers t.
func (s *Subscription) Active(t time.Time) bool {
	return s.Status == SubscriptionActive && !t.Before(s.StartsAt) && t.Before(s.ExpiresAt)
}
