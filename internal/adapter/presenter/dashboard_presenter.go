package presenter

import (
	dashboardDTO "github.com/johnquangdev/atlas/internal/adapter/dto/dashboard"
	"github.com/johnquangdev/atlas/internal/usecase/dashboard"
)

// ToDashboardResponse converts the dashboard summary
func ToDashboardResponse(s *dashboard.Summary) *dashboardDTO.DashboardResponse {
	if s == nil {
		return nil
	}
	return &dashboardDTO.DashboardResponse{
		OpenTaskCount:     s.OpenTaskCount,
		OpenTasks:         ToTaskResponses(s.OpenTasks),
		WeekMeetingCount:  s.WeekMeetingCount,
		WeekMeetings:      ToMeetingResponses(s.WeekMeetings),
		WeekDecisionCount: s.WeekDecisionCount,
	}
}
