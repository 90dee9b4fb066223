package validation_test

import (
	"strings"
	"testing"

	"tasksApp/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var members = []string{"LOW", "MEDIUM", "HIGH"}

func ptr(s string) *string { return &s }

func TestValueOfEnum_AcceptsAnyCasing(t *testing.T) {
	for _, m := range members {
		for _, v := range []string{m, strings.ToLower(m), strings.ToUpper(m[:1]) + strings.ToLower(m[1:])} {
			assert.Nil(t, validation.ValueOfEnum("priority", "Priority", ptr(v), members), v)
		}
	}
}

func TestValueOfEnum_NilPasses(t *testing.T) {
	assert.Nil(t, validation.ValueOfEnum("priority", "Priority", nil, members))
}

func TestValueOfEnum_Rejects(t *testing.T) {
	for _, v := range []string{"", "   ", "urgent", "LOWW", " low "} {
		t.Run(v, func(t *testing.T) {
			fe := validation.ValueOfEnum("priority", "Priority", ptr(v), members)
			require.NotNil(t, fe)
			assert.Equal(t, "priority", fe.Field)
			assert.Equal(t, "Priority must be one of the following: LOW, MEDIUM, HIGH", fe.Message)
		})
	}
}

func TestNotBlank(t *testing.T) {
	assert.Nil(t, validation.NotBlank("description", ptr("Buy milk"), "blank"))
	assert.NotNil(t, validation.NotBlank("description", nil, "blank"))
	assert.NotNil(t, validation.NotBlank("description", ptr(""), "blank"))
	assert.NotNil(t, validation.NotBlank("description", ptr(" \t\n"), "blank"))
}

func TestRequired(t *testing.T) {
	id := int64(1)
	assert.Nil(t, validation.Required("id", &id, "required"))
	assert.NotNil(t, validation.Required[int64]("id", nil, "required"))
}

func TestCollector(t *testing.T) {
	var c validation.Collector
	assert.NoError(t, c.Err())

	c.Add(nil)
	c.Add(&validation.FieldError{Field: "a", Message: "same"})
	c.Add(&validation.FieldError{Field: "b", Message: "same"})
	c.Add(&validation.FieldError{Field: "c", Message: "other"})

	err := c.Err()
	require.Error(t, err)

	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 3)
	assert.Equal(t, []string{"same", "other"}, errs.Messages())
	assert.Contains(t, err.Error(), "a: same")
}
