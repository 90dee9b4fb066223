// Package validation holds the field rules applied to request bodies before they reach the service.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var engine = newEngine()

func newEngine() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors is the list of failed field rules for one request body.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Messages returns the distinct messages in first-seen order.
func (e Errors) Messages() []string {
	seen := make(map[string]struct{}, len(e))
	out := make([]string, 0, len(e))
	for _, fe := range e {
		if _, ok := seen[fe.Message]; ok {
			continue
		}
		seen[fe.Message] = struct{}{}
		out = append(out, fe.Message)
	}
	return out
}

// Collector accumulates field errors; the zero value is ready to use.
type Collector struct {
	errs Errors
}

func (c *Collector) Add(fe *FieldError) {
	if fe != nil {
		c.errs = append(c.errs, *fe)
	}
}

// Err returns nil when no rule failed, otherwise the collected Errors.
func (c *Collector) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return c.errs
}

// NotBlank fails when value is nil, empty or whitespace only.
func NotBlank(field string, value *string, message string) *FieldError {
	if value == nil || engine.Var(*value, "notblank") != nil {
		return &FieldError{Field: field, Message: message}
	}
	return nil
}

// Required fails when value is nil.
func Required[T any](field string, value *T, message string) *FieldError {
	if value == nil {
		return &FieldError{Field: field, Message: message}
	}
	return nil
}

// ValueOfEnum passes for nil (absence is left to NotBlank/Required) and for any value whose
// upper-cased form equals one of members. Otherwise the message lists the valid names.
func ValueOfEnum(field, enumName string, value *string, members []string) *FieldError {
	if value == nil {
		return nil
	}
	if engine.Var(strings.ToUpper(*value), "oneof="+strings.Join(members, " ")) == nil {
		return nil
	}
	return &FieldError{
		Field:   field,
		Message: fmt.Sprintf("%s must be one of the following: %s", enumName, strings.Join(members, ", ")),
	}
}
