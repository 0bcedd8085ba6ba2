package utils

import (
	"reflect"
	"strings"

	apperrors "github.com/examprep-ng/examprep-service/internal/errors"
	"github.com/examprep-ng/examprep-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Custom validation functions

// ValidateOptionLabel accepts the answer option labels used by the national
// exam format. Questions carry four or five options, so "E" is legal here;
// whether the question actually has a fifth option is checked per question.
func ValidateOptionLabel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "A", "B", "C", "D", "E":
		return true
	}
	return false
}

func ValidateExamStatus(fl validator.FieldLevel) bool {
	validStatuses := []models.ExamStatus{
		models.ExamStatusSubmitted,
		models.ExamStatusTimerExpired,
	}

	value := fl.Field().String()
	for _, validStatus := range validStatuses {
		if string(validStatus) == value {
			return true
		}
	}
	return false
}

func ValidateNotificationType(fl validator.FieldLevel) bool {
	validTypes := []models.NotificationType{
		models.NotificationExamReady,
		models.NotificationResultAvailable,
		models.NotificationWeakAreaDetected,
		models.NotificationImportCompleted,
		models.NotificationSubscription,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}

// Validator wraps the struct validator with the service's custom rules and
// converts failures to the shared ValidationErrors type.
type Validator struct {
	structValidator *validator.Validate
}

// NewValidator builds a validator with the service's custom rules registered
func NewValidator() *Validator {
	validate := validator.New()
	RegisterCustomValidators(validate)
	return &Validator{structValidator: validate}
}

// Validate validates struct tags and returns ValidationErrors on failure
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if converted := apperrors.ToValidationErrors(err); len(converted) > 0 {
			return converted
		}
		return err
	}
	return nil
}

// Var validates a single value against a rule expression
func (v *Validator) Var(field interface{}, tag string) error {
	return v.structValidator.Var(field, tag)
}

// RegisterCustomValidators registers all custom validators
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("option_label", ValidateOptionLabel)
	validate.RegisterValidation("exam_status", ValidateExamStatus)
	validate.RegisterValidation("notification_type", ValidateNotificationType)

	// Report field names from json tags so error messages match the API surface
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
