package task

// CreateTaskRequest represents the request to create a task
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=500"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status,omitempty" validate:"omitempty,oneof=todo in_progress done"`
	Priority    string  `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	DueDate     *string `json:"due_date,omitempty" validate:"omitempty,max=64"`
	MeetingID   *string `json:"meeting_id,omitempty" validate:"omitempty,uuid"`
}

// UpdateTaskRequest is a partial update
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=todo in_progress done"`
	Priority    *string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	DueDate     *string `json:"due_date,omitempty" validate:"omitempty,max=64"`
}
