package task

import "time"

// TaskResponse represents a task
type TaskResponse struct {
	ID          string    `json:"id"`
	MeetingID   *string   `json:"meeting_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	DueDate     *string   `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
