package excuse

import "context"

type Service interface {
	Submit(ctx context.Context, req SubmitExcuseRequest) (ExcuseResponse, error)
	Approve(ctx context.Context, req ReviewExcuseRequest) (ExcuseResponse, error)
	Reject(ctx context.Context, req ReviewExcuseRequest) (ExcuseResponse, error)
	ListMine(ctx context.Context, employeeID string) ([]ExcuseResponse, error)
}
