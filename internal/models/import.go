package models

import (
	"time"

	"gorm.io/datatypes"
)

type ImportJobStatus string

const (
	ImportPending    ImportJobStatus = "pending"
	ImportProcessing ImportJobStatus = "processing"
	ImportCompleted  ImportJobStatus = "completed"
	ImportFailed     ImportJobStatus = "failed"
)

// ImportJob tracks one curriculum/question import run.
type ImportJob struct {
	ID       string          `json:"id" gorm:"primaryKey;size:36"` // uuid
	Filename string          `json:"filename" gorm:"not null;size:255"`
	Status   ImportJobStatus `json:"status" gorm:"not null;default:pending;index"`

	TotalRows     int `json:"total_rows"`
	ProcessedRows int `json:"processed_rows"`
	SuccessCount  int `json:"success_count"`
	ErrorCount    int `json:"error_count"`

	Errors datatypes.JSON `json:"errors" gorm:"type:jsonb"` // []ImportValidationError

	CreatedBy   uint       `json:"created_by" gorm:"not null;index"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// ImportValidationError describes why one sheet row was rejected.
type ImportValidationError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

func (ImportJob) TableName() string { return "import_jobs" }
