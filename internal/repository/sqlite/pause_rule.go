package sqlite

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/pauserule"
)

type pauseRuleRepository struct {
	db *DB
}

func NewPauseRuleRepository(db *DB) pauserule.PauseRuleRepository {
	return &pauseRuleRepository{db: db}
}

// Create implements pauserule.PauseRuleRepository.
func (r *pauseRuleRepository) Create(ctx context.Context, rule pauserule.Rule) (pauserule.Rule, error) {
	id, err := newID()
	if err != nil {
		return pauserule.Rule{}, err
	}
	rule.ID = id

	_, err = getQuerier(ctx, r.db).ExecContext(ctx,
		`INSERT INTO pause_rules (id, role_id, name, sort_order, duration_minutes) VALUES (?, ?, ?, ?, ?)`,
		rule.ID, rule.RoleID, rule.Name, rule.Order, rule.DurationMinutes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return pauserule.Rule{}, pauserule.ErrDuplicateOrder
		}
		return pauserule.Rule{}, fmt.Errorf("failed to create pause rule: %w", err)
	}
	return rule, nil
}

// GetByRoleID implements pauserule.PauseRuleRepository.
func (r *pauseRuleRepository) GetByRoleID(ctx context.Context, roleID string) (pauserule.Sequence, error) {
	rows, err := getQuerier(ctx, r.db).QueryContext(ctx, `
		SELECT id, role_id, name, sort_order, duration_minutes
		FROM pause_rules
		WHERE role_id = ?
		ORDER BY sort_order`,
		roleID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query pause rules: %w", err)
	}
	defer rows.Close()

	var rules []pauserule.Rule
	for rows.Next() {
		var rule pauserule.Rule
		if err := rows.Scan(&rule.ID, &rule.RoleID, &rule.Name, &rule.Order, &rule.DurationMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan pause rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pauserule.NewSequence(rules), nil
}
