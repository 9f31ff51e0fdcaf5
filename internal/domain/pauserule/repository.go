package pauserule

import "context"

type PauseRuleRepository interface {
	Create(ctx context.Context, rule Rule) (Rule, error)
	// GetByRoleID returns the role's rules ordered by Order.
	GetByRoleID(ctx context.Context, roleID string) (Sequence, error)
}
