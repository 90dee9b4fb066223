package service

import "fmt"

const (
	CodeNotFound      = "NOT_FOUND"
	CodeAlreadyExists = "ALREADY_EXISTS"
	CodeValidation    = "VALIDATION_ERROR"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func NewNotFound(id int64, err error) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("Task with id: %d not found", id),
		Details: map[string]any{
			"id": id,
		},
		Err: err,
	}
}

func NewAlreadyExists(description string, err error) *BusinessError {
	return &BusinessError{
		Code:    CodeAlreadyExists,
		Message: fmt.Sprintf("Task with description '%s' already exists", description),
		Details: map[string]any{
			"description": description,
		},
		Err: err,
	}
}

// NewValidationError reports a business-rule violation; reason is shown to the client as is.
func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: reason,
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}
