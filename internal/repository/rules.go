package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/expenso/docpipe/internal/common"
	"github.com/expenso/docpipe/internal/entity"
)

type RuleRepository interface {
	// ListActiveByOwner returns the owner's active rules ordered by
	// ascending priority, ties broken by rule ID. This is the snapshot a
	// pipeline run consumes read-only.
	ListActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.CategoryRule, error)
	Create(ctx context.Context, rule entity.CategoryRule) (int64, error)
}

type ruleRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRuleRepository(db *sql.DB, logger *slog.Logger) RuleRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ruleRepository{db: db, logger: logger}
}

func (r *ruleRepository) ListActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.CategoryRule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, name, pattern, field, category, priority, active
		 FROM category_rules
		 WHERE owner_id = ? AND active = 1
		 ORDER BY priority ASC, id ASC`, ownerID.String())
	if err != nil {
		return nil, common.WrapError(err, "list rules")
	}
	defer func() { _ = rows.Close() }()

	var rules []entity.CategoryRule
	for rows.Next() {
		var (
			rule     entity.CategoryRule
			ownerStr string
			active   int
		)
		if err := rows.Scan(&rule.ID, &ownerStr, &rule.Name, &rule.Pattern,
			&rule.Field, &rule.Category, &rule.Priority, &active); err != nil {
			return nil, common.WrapError(err, "scan rule")
		}
		rule.OwnerID, _ = uuid.Parse(ownerStr)
		rule.Active = active != 0
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *ruleRepository) Create(ctx context.Context, rule entity.CategoryRule) (int64, error) {
	active := 0
	if rule.Active {
		active = 1
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO category_rules(owner_id, name, pattern, field, category, priority, active)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		rule.OwnerID.String(), rule.Name, rule.Pattern, rule.Field,
		rule.Category, rule.Priority, active)
	if err != nil {
		r.logger.Error("failed to create rule", "pattern", rule.Pattern, "error", err)
		return 0, common.WrapError(err, "insert rule")
	}
	return res.LastInsertId()
}
