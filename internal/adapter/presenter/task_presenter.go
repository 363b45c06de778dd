package presenter

import (
	taskDTO "github.com/johnquangdev/atlas/internal/adapter/dto/task"
	"github.com/johnquangdev/atlas/internal/domain/entities"
)

// ToTaskResponse converts a Task entity to TaskResponse DTO
func ToTaskResponse(t *entities.Task) *taskDTO.TaskResponse {
	if t == nil {
		return nil
	}

	response := &taskDTO.TaskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.MeetingID != nil {
		id := t.MeetingID.String()
		response.MeetingID = &id
	}
	return response
}

// ToTaskResponses converts a slice of tasks
func ToTaskResponses(tasks []*entities.Task) []*taskDTO.TaskResponse {
	out := make([]*taskDTO.TaskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskResponse(t)
	}
	return out
}
