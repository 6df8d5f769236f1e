package task

import "time"

// TimeLayout matches JavaScript's Date.toISOString output.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// View is the public JSON shape of a task, used by the REST API and the
// live feed alike. It never exposes the soft-delete marker.
type View struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      Status  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// FormatTime renders t in UTC with millisecond precision.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// View returns the public shape of t.
func (t Task) View() View {
	return View{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   FormatTime(t.CreatedAt),
		UpdatedAt:   FormatTime(t.UpdatedAt),
	}
}
