package task

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStatus_Valid(t *testing.T) {
	for _, s := range Statuses() {
		assert.True(t, s.Valid(), s)
	}
	for _, s := range []Status{"", "todo", "BLOCKED"} {
		assert.False(t, s.Valid(), s)
	}
}

func TestTask_View(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	desc := "notes"
	tk := Task{
		ID:          7,
		Title:       "Buy milk",
		Description: &desc,
		Status:      StatusDone,
		CreatedAt:   time.Date(2026, 3, 4, 12, 0, 0, 123456789, loc),
		UpdatedAt:   time.Date(2026, 3, 4, 13, 30, 0, 0, loc),
		DeletedAt:   gorm.DeletedAt{Time: time.Now(), Valid: true},
	}

	data, err := json.Marshal(tk.View())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 7,
		"title": "Buy milk",
		"description": "notes",
		"status": "DONE",
		"createdAt": "2026-03-04T10:00:00.123Z",
		"updatedAt": "2026-03-04T11:30:00.000Z"
	}`, string(data))
}

func TestTask_ViewWithoutDescription(t *testing.T) {
	data, err := json.Marshal(Task{ID: 1, Title: "x", Status: StatusTodo}.View())
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Contains(t, out, "description")
	assert.Nil(t, out["description"])
}
