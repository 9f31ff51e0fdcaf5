package hourbank

import "context"

type Service interface {
	Balance(ctx context.Context, req BalanceRequest) (BalanceResponse, error)
}
