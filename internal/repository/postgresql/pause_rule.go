package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/pauserule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
)

type pauseRuleRepositoryImpl struct {
	db *database.DB
}

// Create implements pauserule.PauseRuleRepository.
func (p *pauseRuleRepositoryImpl) Create(ctx context.Context, rule pauserule.Rule) (pauserule.Rule, error) {
	q := GetQuerier(ctx, p.db)

	id, err := newID()
	if err != nil {
		return pauserule.Rule{}, err
	}
	rule.ID = id

	query := `
		INSERT INTO pause_rules (id, role_id, name, sort_order, duration_minutes)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := q.Exec(ctx, query, rule.ID, rule.RoleID, rule.Name, rule.Order, rule.DurationMinutes); err != nil {
		if isUniqueViolation(err) {
			return pauserule.Rule{}, pauserule.ErrDuplicateOrder
		}
		return pauserule.Rule{}, fmt.Errorf("failed to create pause rule: %w", err)
	}
	return rule, nil
}

// GetByRoleID implements pauserule.PauseRuleRepository.
func (p *pauseRuleRepositoryImpl) GetByRoleID(ctx context.Context, roleID string) (pauserule.Sequence, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT id, role_id, name, sort_order, duration_minutes
		FROM pause_rules
		WHERE role_id = $1
		ORDER BY sort_order
	`

	rows, err := q.Query(ctx, query, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pause rules: %w", err)
	}
	defer rows.Close()

	var rules []pauserule.Rule
	for rows.Next() {
		var r pauserule.Rule
		if err := rows.Scan(&r.ID, &r.RoleID, &r.Name, &r.Order, &r.DurationMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan pause rule: %w", err)
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pauserule.NewSequence(rules), nil
}

func NewPauseRuleRepository(db *database.DB) pauserule.PauseRuleRepository {
	return &pauseRuleRepositoryImpl{
		db: db,
	}
}
