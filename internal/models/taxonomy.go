package models

import (
	"time"

	"gorm.io/gorm"
)

// Curriculum taxonomy: Subject -> Section -> Topic -> Objective, with Chapter
// cross-cutting. Populated by the import tooling and read-only for the exam
// core.

type Subject struct {
	ID   uint    `json:"id" gorm:"primaryKey"`
	Name string  `json:"name" gorm:"not null;uniqueIndex;size:100" validate:"required,min=1,max=100"`
	Code *string `json:"code" gorm:"size:20;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Sections []Section `json:"sections,omitempty" gorm:"foreignKey:SubjectID"`
}

type Section struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	SubjectID uint   `json:"subject_id" gorm:"not null;index"`
	Name      string `json:"name" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Position  int    `json:"position" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Subject Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	Topics  []Topic `json:"topics,omitempty" gorm:"foreignKey:SectionID"`
}

// Chapter groups questions for study material navigation. It cuts across the
// Subject -> Section -> Topic hierarchy, so it hangs off Subject directly.
type Chapter struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	SubjectID uint   `json:"subject_id" gorm:"not null;index"`
	Name      string `json:"name" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Position  int    `json:"position" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Subject Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
}

type Topic struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	SectionID uint   `json:"section_id" gorm:"not null;index"`
	Name      string `json:"name" gorm:"not null;size:200" validate:"required,min=1,max=200"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Section    Section     `json:"section,omitempty" gorm:"foreignKey:SectionID"`
	Objectives []Objective `json:"objectives,omitempty" gorm:"foreignKey:TopicID"`
}

type Objective struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	TopicID     uint   `json:"topic_id" gorm:"not null;index"`
	Description string `json:"description" gorm:"not null;type:text" validate:"required"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Topic Topic `json:"topic,omitempty" gorm:"foreignKey:TopicID"`
}

func (Subject) TableName() string   { return "subjects" }
func (Section) TableName() string   { return "sections" }
func (Chapter) TableName() string   { return "chapters" }
func (Topic) TableName() string     { return "topics" }
func (Objective) TableName() string { return "objectives" }
