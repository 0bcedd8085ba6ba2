package errors

import (
	"testing"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("subject_ids", "must contain exactly 4 subjects", []uint{1, 2})

	if err.Field != "subject_ids" {
		t.Errorf("Expected field to be 'subject_ids', got '%s'", err.Field)
	}

	if err.Message != "must contain exactly 4 subjects" {
		t.Errorf("Expected message to be 'must contain exactly 4 subjects', got '%s'", err.Message)
	}

	expected := "validation error on field 'subject_ids': must contain exactly 4 subjects"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	errs = append(errs, *NewValidationError("selected_option", "must be one of the answer labels A, B, C, D or E", "F"))
	expected := "validation failed: selected_option must be one of the answer labels A, B, C, D or E"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	errs = append(errs, *NewValidationError("time_spent", "must be at least 0", -5))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}
