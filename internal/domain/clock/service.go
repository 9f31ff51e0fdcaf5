package clock

import "context"

type Service interface {
	Record(ctx context.Context, req RecordEventRequest) (EventResponse, error)
	SubmitOffHours(ctx context.Context, req SubmitOffHoursRequest) (OffHoursResponse, error)
	ApproveOffHours(ctx context.Context, req ReviewOffHoursRequest) (OffHoursResponse, error)
	RejectOffHours(ctx context.Context, req ReviewOffHoursRequest) (OffHoursResponse, error)
}
