package services

import (
	"errors"
	"fmt"

	apperrors "github.com/examprep-ng/examprep-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrConflict         = errors.New("resource conflict")

	// Exam generation errors
	ErrExamNotFound         = errors.New("mock exam not found")
	ErrExamAccessDenied     = errors.New("access denied to mock exam")
	ErrExamDetailNotFound   = errors.New("no subject registration found for user")
	ErrInvalidSubjectCount  = errors.New("subject registration must name exactly four subjects")
	ErrSubjectNotFound      = errors.New("subject not found")
	ErrQuestionPoolEmpty    = errors.New("question pool cannot fill the requested exam")
	ErrNoActiveSubscription = errors.New("user has no active subscription")

	// Answer recording errors
	ErrExamFinalized     = errors.New("mock exam is already finalized")
	ErrExamExpired       = errors.New("mock exam timer has expired")
	ErrQuestionNotInExam = errors.New("question does not belong to this exam")
	ErrInvalidOption     = errors.New("selected option is not offered by this question")

	// Question errors
	ErrQuestionNotFound = errors.New("question not found")

	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Import errors
	ErrImportJobNotFound    = errors.New("import job not found")
	ErrImportInvalidFormat  = errors.New("unsupported import file format")
	ErrImportAlreadyRunning = errors.New("import job is already processing")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type PermissionError struct {
	UserID     uint   `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %d cannot %s %s %d - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrExamNotFound) ||
		errors.Is(err, ErrExamDetailNotFound) ||
		errors.Is(err, ErrSubjectNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrImportJobNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrExamAccessDenied) {
		return true
	}
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrInvalidSubjectCount) ||
		errors.Is(err, ErrInvalidOption) ||
		errors.Is(err, ErrImportInvalidFormat) {
		return true
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *ValidationError
	return errors.As(err, &single)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrExamFinalized) ||
		errors.Is(err, ErrExamExpired) ||
		errors.Is(err, ErrImportAlreadyRunning)
}
