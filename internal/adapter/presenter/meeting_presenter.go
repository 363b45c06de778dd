package presenter

import (
	meetingDTO "github.com/johnquangdev/atlas/internal/adapter/dto/meeting"
	taskDTO "github.com/johnquangdev/atlas/internal/adapter/dto/task"
	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/usecase/meeting"
)

func toActionItems(items []entities.ActionItem) []meetingDTO.ActionItemResponse {
	out := make([]meetingDTO.ActionItemResponse, len(items))
	for i, item := range items {
		out[i] = meetingDTO.ActionItemResponse{Task: item.Task, Assignee: item.Assignee, Due: item.Due}
	}
	return out
}

func toDecisions(decisions []entities.Decision) []meetingDTO.DecisionResponse {
	out := make([]meetingDTO.DecisionResponse, len(decisions))
	for i, d := range decisions {
		out[i] = meetingDTO.DecisionResponse{Decision: d.Decision, Context: d.Context}
	}
	return out
}

// ToProcessedMeetingResponse converts the processed transcript for review
func ToProcessedMeetingResponse(out *meeting.ProcessOutput) *meetingDTO.ProcessedMeetingResponse {
	if out == nil {
		return nil
	}
	topics := out.KeyTopics
	if topics == nil {
		topics = []string{}
	}
	return &meetingDTO.ProcessedMeetingResponse{
		Title:         out.Title,
		Summary:       out.Summary,
		ActionItems:   toActionItems(out.ActionItems),
		Decisions:     toDecisions(out.Decisions),
		KeyTopics:     topics,
		Date:          out.Date,
		RawTranscript: out.RawTranscript,
	}
}

// ToMeetingResponse converts a Meeting entity to MeetingResponse DTO
func ToMeetingResponse(m *entities.Meeting) *meetingDTO.MeetingResponse {
	if m == nil {
		return nil
	}
	return &meetingDTO.MeetingResponse{
		ID:            m.ID.String(),
		Title:         m.Title,
		Date:          m.Date,
		RawTranscript: m.RawTranscript,
		Summary:       m.Summary,
		ActionItems:   toActionItems(m.ActionItems),
		Decisions:     toDecisions(m.Decisions),
		KeyTopics:     []string(m.KeyTopics),
		Source:        string(m.Source),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ToMeetingResponses converts a slice of meetings
func ToMeetingResponses(meetings []*entities.Meeting) []*meetingDTO.MeetingResponse {
	out := make([]*meetingDTO.MeetingResponse, len(meetings))
	for i, m := range meetings {
		out[i] = ToMeetingResponse(m)
	}
	return out
}

// ToMeetingDetailResponse converts a meeting with its tasks
func ToMeetingDetailResponse(d *meeting.Detail) *meetingDTO.MeetingDetailResponse {
	if d == nil {
		return nil
	}
	tasks := ToTaskResponses(d.Tasks)
	if tasks == nil {
		tasks = []*taskDTO.TaskResponse{}
	}
	return &meetingDTO.MeetingDetailResponse{
		MeetingResponse: ToMeetingResponse(d.Meeting),
		Tasks:           tasks,
	}
}
