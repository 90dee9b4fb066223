package dto_test

import (
	"testing"

	"tasksApp/internal/dto"
	"tasksApp/internal/models/task"
	"tasksApp/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func idPtr(id int64) *int64   { return &id }

func validationMessages(t *testing.T, err error) []string {
	t.Helper()
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	return errs.Messages()
}

func TestCreateTaskDto_Validate(t *testing.T) {
	tests := []struct {
		name     string
		dto      dto.CreateTaskDto
		messages []string
	}{
		{
			name: "valid lower case priority",
			dto:  dto.CreateTaskDto{Description: strPtr("Buy milk"), Priority: strPtr("low")},
		},
		{
			name:     "missing description",
			dto:      dto.CreateTaskDto{Priority: strPtr("HIGH")},
			messages: []string{"Task description cannot be null or empty"},
		},
		{
			name:     "blank description",
			dto:      dto.CreateTaskDto{Description: strPtr("   "), Priority: strPtr("HIGH")},
			messages: []string{"Task description cannot be null or empty"},
		},
		{
			name:     "missing priority",
			dto:      dto.CreateTaskDto{Description: strPtr("Buy milk")},
			messages: []string{"Priority cannot be null or empty"},
		},
		{
			name: "blank priority fails both rules",
			dto:  dto.CreateTaskDto{Description: strPtr("Buy milk"), Priority: strPtr("")},
			messages: []string{
				"Priority cannot be null or empty",
				"Priority must be one of the following: LOW, MEDIUM, HIGH",
			},
		},
		{
			name:     "unknown priority",
			dto:      dto.CreateTaskDto{Description: strPtr("Buy milk"), Priority: strPtr("urgent")},
			messages: []string{"Priority must be one of the following: LOW, MEDIUM, HIGH"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dto.Validate()
			if tt.messages == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.messages, validationMessages(t, err))
		})
	}
}

func TestUpdateTaskDto_Validate(t *testing.T) {
	assert.NoError(t, dto.UpdateTaskDto{ID: idPtr(1)}.Validate())
	assert.NoError(t, dto.UpdateTaskDto{ID: idPtr(1), Priority: strPtr("Medium")}.Validate())

	assert.Equal(t,
		[]string{"Task ID is required"},
		validationMessages(t, dto.UpdateTaskDto{IsTaskOpen: boolPtr(false)}.Validate()))

	assert.Equal(t,
		[]string{"Priority must be one of the following: LOW, MEDIUM, HIGH"},
		validationMessages(t, dto.UpdateTaskDto{ID: idPtr(1), Priority: strPtr("none")}.Validate()))
}

func TestToEntity(t *testing.T) {
	entity, err := dto.ToEntity(dto.CreateTaskDto{Description: strPtr("Buy milk"), Priority: strPtr("high")})
	require.NoError(t, err)

	assert.Zero(t, entity.ID)
	assert.Equal(t, "Buy milk", entity.Description)
	assert.Equal(t, task.PriorityHigh, entity.Priority)
	assert.True(t, entity.IsTaskOpen)
	assert.False(t, entity.IsReminderSet)
}

func TestToEntity_Errors(t *testing.T) {
	_, err := dto.ToEntity(dto.CreateTaskDto{Description: strPtr("x")})
	assert.ErrorIs(t, err, dto.ErrMissingField)

	_, err = dto.ToEntity(dto.CreateTaskDto{Description: strPtr("x"), Priority: strPtr("bad")})
	assert.Error(t, err)
}

func TestRoundTrip_PreservesDescriptionAndPriority(t *testing.T) {
	for _, p := range []string{"low", "MEDIUM", "High"} {
		entity, err := dto.ToEntity(dto.CreateTaskDto{Description: strPtr("Task " + p), Priority: strPtr(p)})
		require.NoError(t, err)

		out := dto.ToDto(entity)
		assert.Equal(t, "Task "+p, out.Description)
		expected, _ := task.ParsePriority(p)
		assert.Equal(t, expected, out.Priority)
		assert.False(t, out.IsReminderSet)
		assert.True(t, out.IsTaskOpen)
	}
}

func TestApplyUpdate_OnlyDescription(t *testing.T) {
	existing := &task.Task{ID: 1, Description: "old", IsReminderSet: true, IsTaskOpen: false, Priority: task.PriorityHigh}

	updated, err := dto.ApplyUpdate(dto.UpdateTaskDto{ID: idPtr(1), Description: strPtr("new")}, existing)
	require.NoError(t, err)

	assert.Same(t, existing, updated)
	assert.Equal(t, "new", updated.Description)
	assert.True(t, updated.IsReminderSet)
	assert.False(t, updated.IsTaskOpen)
	assert.Equal(t, task.PriorityHigh, updated.Priority)
}

func TestApplyUpdate_AllFields(t *testing.T) {
	existing := &task.Task{ID: 1, Description: "old", Priority: task.PriorityLow, IsTaskOpen: true}

	updated, err := dto.ApplyUpdate(dto.UpdateTaskDto{
		ID:            idPtr(1),
		Description:   strPtr("new"),
		IsReminderSet: boolPtr(true),
		IsTaskOpen:    boolPtr(false),
		Priority:      strPtr("medium"),
	}, existing)
	require.NoError(t, err)

	assert.Equal(t, dto.TaskDto{ID: 1, Description: "new", IsReminderSet: true, IsTaskOpen: false, Priority: task.PriorityMedium}, dto.ToDto(updated))
}

func TestApplyUpdate_NeverChangesID(t *testing.T) {
	existing := &task.Task{ID: 5, Description: "old"}

	updated, err := dto.ApplyUpdate(dto.UpdateTaskDto{ID: idPtr(99), Description: strPtr("new")}, existing)
	require.NoError(t, err)
	assert.Equal(t, int64(5), updated.ID)
}

func TestApplyUpdate_InvalidPriorityLeavesTaskUntouched(t *testing.T) {
	existing := &task.Task{ID: 1, Description: "old", Priority: task.PriorityLow}

	_, err := dto.ApplyUpdate(dto.UpdateTaskDto{ID: idPtr(1), Description: strPtr("new"), Priority: strPtr("bogus")}, existing)
	require.Error(t, err)
	assert.Equal(t, "old", existing.Description)
	assert.Equal(t, task.PriorityLow, existing.Priority)
}

func TestToDtoList_EmptyIsNotNil(t *testing.T) {
	list := dto.ToDtoList(nil)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
