package dashboard

import (
	"github.com/johnquangdev/atlas/internal/adapter/dto/meeting"
	"github.com/johnquangdev/atlas/internal/adapter/dto/task"
)

// DashboardResponse is the home screen overview
type DashboardResponse struct {
	OpenTaskCount     int64                      `json:"open_task_count"`
	OpenTasks         []*task.TaskResponse       `json:"open_tasks"`
	WeekMeetingCount  int64                      `json:"week_meeting_count"`
	WeekMeetings      []*meeting.MeetingResponse `json:"week_meetings"`
	WeekDecisionCount int                        `json:"week_decision_count"`
}
