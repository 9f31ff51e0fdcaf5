package schedule

import "context"

type Service interface {
	AssignSchedule(ctx context.Context, req AssignScheduleRequest) (AssignmentResponse, error)
}
