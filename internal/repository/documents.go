package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/expenso/docpipe/constants"
	"github.com/expenso/docpipe/internal/common"
	"github.com/expenso/docpipe/internal/entity"
)

type DocumentRepository interface {
	Create(ctx context.Context, ownerID uuid.UUID, filename, mimeType string) (*entity.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	FinishSuccess(ctx context.Context, id uuid.UUID, rawText string, extracted []byte, attempts int) error
	FinishFailure(ctx context.Context, id uuid.UUID, errMsg string, attempts int) error
	Retrigger(ctx context.Context, id uuid.UUID) error
	ListByStatus(ctx context.Context, status constants.DocStatus, limit int) ([]*entity.Document, error)
}

type documentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewDocumentRepository(db *sql.DB, logger *slog.Logger) DocumentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentRepository{db: db, logger: logger}
}

func (r *documentRepository) Create(ctx context.Context, ownerID uuid.UUID, filename, mimeType string) (*entity.Document, error) {
	doc := &entity.Document{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Filename:   filename,
		MIMEType:   mimeType,
		Status:     string(constants.DocStatusQueued),
		UploadedAt: time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents(id, owner_id, filename, mime_type, status, uploaded_at)
		 VALUES(?, ?, ?, ?, ?, ?)`,
		doc.ID.String(), doc.OwnerID.String(), doc.Filename, doc.MIMEType,
		doc.Status, doc.UploadedAt.Format(time.RFC3339))
	if err != nil {
		r.logger.Error("failed to create document", "filename", filename, "error", err)
		return nil, common.WrapError(err, "insert document")
	}
	return doc, nil
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, filename, mime_type, status, raw_text, extracted_json,
		        error_message, attempts, uploaded_at, processed_at
		 FROM documents WHERE id = ?`, id.String())
	return scanDocument(row)
}

func (r *documentRepository) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, constants.DocStatusProcessing)
}

func (r *documentRepository) FinishSuccess(ctx context.Context, id uuid.UUID, rawText string, extracted []byte, attempts int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE documents
		 SET status = ?, raw_text = ?, extracted_json = ?, error_message = NULL,
		     attempts = ?, processed_at = ?
		 WHERE id = ?`,
		string(constants.DocStatusProcessed), rawText, string(extracted),
		attempts, time.Now().UTC().Format(time.RFC3339), id.String())
	return common.WrapError(err, "finish document")
}

func (r *documentRepository) FinishFailure(ctx context.Context, id uuid.UUID, errMsg string, attempts int) error {
	if len(errMsg) > 500 {
		errMsg = errMsg[:500]
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE documents SET status = ?, error_message = ?, attempts = ? WHERE id = ?`,
		string(constants.DocStatusFailed), errMsg, attempts, id.String())
	return common.WrapError(err, "fail document")
}

// Retrigger re-enters QUEUED from any prior state and resets the retry
// counter.
func (r *documentRepository) Retrigger(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE documents
		 SET status = ?, error_message = NULL, attempts = 0, processed_at = NULL
		 WHERE id = ?`,
		string(constants.DocStatusQueued), id.String())
	if err != nil {
		return common.WrapError(err, "retrigger document")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *documentRepository) ListByStatus(ctx context.Context, status constants.DocStatus, limit int) ([]*entity.Document, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, filename, mime_type, status, raw_text, extracted_json,
		        error_message, attempts, uploaded_at, processed_at
		 FROM documents WHERE status = ? ORDER BY uploaded_at LIMIT ?`,
		string(status), limit)
	if err != nil {
		return nil, common.WrapError(err, "list documents")
	}
	defer func() { _ = rows.Close() }()

	var docs []*entity.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *documentRepository) setStatus(ctx context.Context, id uuid.UUID, status constants.DocStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET status = ? WHERE id = ?`, string(status), id.String())
	if err != nil {
		return common.WrapError(err, "update document status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*entity.Document, error) {
	var (
		doc                         entity.Document
		idStr, ownerStr, uploadedAt string
		rawText, errMsg             sql.NullString
		extracted                   sql.NullString
		processedAt                 sql.NullString
	)
	err := row.Scan(&idStr, &ownerStr, &doc.Filename, &doc.MIMEType, &doc.Status,
		&rawText, &extracted, &errMsg, &doc.Attempts, &uploadedAt, &processedAt)
	if err == sql.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "scan document")
	}
	if doc.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("parse document id: %w", err)
	}
	if doc.OwnerID, err = uuid.Parse(ownerStr); err != nil {
		return nil, fmt.Errorf("parse owner id: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, uploadedAt); err == nil {
		doc.UploadedAt = t
	}
	if rawText.Valid {
		doc.RawText = &rawText.String
	}
	if extracted.Valid {
		doc.ExtractedJSON = []byte(extracted.String)
	}
	if errMsg.Valid {
		doc.ErrorMessage = &errMsg.String
	}
	if processedAt.Valid {
		if t, err := time.Parse(time.RFC3339, processedAt.String); err == nil {
			doc.ProcessedAt = &t
		}
	}
	return &doc, nil
}
