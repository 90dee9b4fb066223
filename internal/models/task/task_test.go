package task_test

import (
	"testing"

	"tasksApp/internal/models/task"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input string
		want  task.Priority
	}{
		{"LOW", task.PriorityLow},
		{"low", task.PriorityLow},
		{"Medium", task.PriorityMedium},
		{"mEdIuM", task.PriorityMedium},
		{"high", task.PriorityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := task.ParsePriority(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePriority_Invalid(t *testing.T) {
	for _, input := range []string{"", " ", "urgent", "lowest", " low"} {
		t.Run(input, func(t *testing.T) {
			_, err := task.ParsePriority(input)
			require.Error(t, err)
			assert.Equal(t, "Priority must be one of the following: LOW, MEDIUM, HIGH", err.Error())
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	created := task.New("Buy milk", task.PriorityMedium)

	assert.Zero(t, created.ID)
	assert.Equal(t, "Buy milk", created.Description)
	assert.True(t, created.IsTaskOpen)
	assert.False(t, created.IsReminderSet)
	assert.Equal(t, task.PriorityMedium, created.Priority)
	assert.True(t, created.CreatedDate.IsZero())
}

func TestClone(t *testing.T) {
	original := &task.Task{ID: 3, Description: "a", Priority: task.PriorityLow}
	c := original.Clone()
	c.Description = "b"

	assert.Equal(t, "a", original.Description)
	assert.Nil(t, (*task.Task)(nil).Clone())
}
