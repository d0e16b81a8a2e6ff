package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expenso/docpipe/internal/common"
	"github.com/expenso/docpipe/internal/entity"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, from, to *time.Time) ([]*entity.Transaction, error)
}

type transactionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewTransactionRepository(db *sql.DB, logger *slog.Logger) TransactionRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &transactionRepository{db: db, logger: logger}
}

// Create inserts the transaction together with its line items in one
// store transaction, preserving item order via position.
func (r *transactionRepository) Create(ctx context.Context, t *entity.Transaction) error {
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return common.WrapError(err, "begin tx")
	}
	defer func() { _ = dbtx.Rollback() }()

	var tax any
	if t.Tax != nil {
		tax = t.Tax.String()
	}
	_, err = dbtx.ExecContext(ctx,
		`INSERT INTO transactions(id, owner_id, document_id, tx_date, amount, currency,
		                          merchant, tax, category, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID.String(), t.OwnerID.String(), t.DocumentID.String(),
		t.Date.Format("2006-01-02"), t.Amount.String(), t.Currency,
		t.Merchant, tax, t.Category, t.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		r.logger.Error("failed to insert transaction", "document_id", t.DocumentID, "error", err)
		return common.WrapError(err, "insert transaction")
	}

	for i, item := range t.LineItems {
		var unitPrice, total any
		if item.UnitPrice != nil {
			unitPrice = item.UnitPrice.String()
		}
		if item.Total != nil {
			total = item.Total.String()
		}
		if _, err := dbtx.ExecContext(ctx,
			`INSERT INTO line_items(transaction_id, position, description, quantity, unit_price, total)
			 VALUES(?, ?, ?, ?, ?, ?)`,
			t.ID.String(), i, item.Description, item.Quantity.String(), unitPrice, total); err != nil {
			return common.WrapError(err, "insert line item")
		}
	}
	return dbtx.Commit()
}

func (r *transactionRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, from, to *time.Time) ([]*entity.Transaction, error) {
	q := `SELECT id, owner_id, document_id, tx_date, amount, currency, merchant, tax, category, created_at
	      FROM transactions WHERE owner_id = ?`
	args := []any{ownerID.String()}
	if from != nil {
		q += ` AND tx_date >= ?`
		args = append(args, from.Format("2006-01-02"))
	}
	if to != nil {
		q += ` AND tx_date <= ?`
		args = append(args, to.Format("2006-01-02"))
	}
	q += ` ORDER BY tx_date, created_at`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, common.WrapError(err, "list transactions")
	}
	defer func() { _ = rows.Close() }()

	var txs []*entity.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func scanTransaction(rows *sql.Rows) (*entity.Transaction, error) {
	var (
		t                             entity.Transaction
		idStr, ownerStr, docStr       string
		dateStr, amountStr, createdAt string
		tax                           sql.NullString
	)
	if err := rows.Scan(&idStr, &ownerStr, &docStr, &dateStr, &amountStr,
		&t.Currency, &t.Merchant, &tax, &t.Category, &createdAt); err != nil {
		return nil, common.WrapError(err, "scan transaction")
	}
	t.ID, _ = uuid.Parse(idStr)
	t.OwnerID, _ = uuid.Parse(ownerStr)
	t.DocumentID, _ = uuid.Parse(docStr)
	if d, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC); err == nil {
		t.Date = d
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, common.WrapError(err, "parse amount")
	}
	t.Amount = amount
	if tax.Valid {
		if v, err := decimal.NewFromString(tax.String); err == nil {
			t.Tax = &v
		}
	}
	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		t.CreatedAt = ts
	}
	return &t, nil
}
