// Package service wires the pipeline core to the persistence sink and
// owns the transaction auto-creation policy.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/expenso/docpipe/internal/entity"
	"github.com/expenso/docpipe/internal/parse"
	"github.com/expenso/docpipe/internal/pipeline"
	"github.com/expenso/docpipe/internal/repository"
)

type DocumentService struct {
	logger    *slog.Logger
	docs      repository.DocumentRepository
	rules     repository.RuleRepository
	txs       repository.TransactionRepository
	processor *pipeline.Processor
}

func NewDocumentService(
	logger *slog.Logger,
	docs repository.DocumentRepository,
	rules repository.RuleRepository,
	txs repository.TransactionRepository,
	processor *pipeline.Processor,
) *DocumentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentService{
		logger:    logger,
		docs:      docs,
		rules:     rules,
		txs:       txs,
		processor: processor,
	}
}

// Ingest records a new document in QUEUED state. Content bytes stay with
// the caller (file storage is an external collaborator).
func (s *DocumentService) Ingest(ctx context.Context, ownerID uuid.UUID, filename, mimeType string) (*entity.Document, error) {
	doc, err := s.docs.Create(ctx, ownerID, filename, mimeType)
	if err != nil {
		return nil, err
	}
	s.logger.Info("document queued", "document_id", doc.ID, "filename", filename, "mime", mimeType)
	return doc, nil
}

// Process runs the full pipeline for one raw document and persists the
// outcome. A transaction draft is materialized only when both amount and
// date were actually extracted, not defaulted; that policy lives here,
// not in the normalizer.
func (s *DocumentService) Process(ctx context.Context, raw entity.RawDocument) (pipeline.Result, error) {
	ruleSet, err := s.rules.ListActiveByOwner(ctx, raw.OwnerID)
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("load rules: %w", err)
	}
	if err := s.docs.MarkProcessing(ctx, raw.ID); err != nil {
		return pipeline.Result{}, fmt.Errorf("mark processing: %w", err)
	}

	res := s.processor.Process(ctx, raw, ruleSet)

	if res.Data == nil {
		if err := s.docs.FinishFailure(ctx, raw.ID, res.Err, res.Attempts); err != nil {
			s.logger.Error("persist failure state", "document_id", raw.ID, "error", err)
			return res, err
		}
		return res, nil
	}

	extracted, err := json.Marshal(res.Data)
	if err != nil {
		return res, fmt.Errorf("marshal extracted data: %w", err)
	}
	if err := s.docs.FinishSuccess(ctx, raw.ID, res.RawText, extracted, res.Attempts); err != nil {
		s.logger.Error("persist processed state", "document_id", raw.ID, "error", err)
		return res, err
	}

	if s.shouldCreateTransaction(res) {
		if err := s.createTransaction(ctx, raw, res); err != nil {
			s.logger.Error("create transaction", "document_id", raw.ID, "error", err)
			return res, err
		}
	}
	return res, nil
}

// Retrigger re-queues a document regardless of prior terminal state and
// resets its retry counter.
func (s *DocumentService) Retrigger(ctx context.Context, docID uuid.UUID) error {
	if err := s.docs.Retrigger(ctx, docID); err != nil {
		return err
	}
	s.logger.Info("document retriggered", "document_id", docID)
	return nil
}

func (s *DocumentService) shouldCreateTransaction(res pipeline.Result) bool {
	return res.Data != nil &&
		res.Data.Amount != nil &&
		!res.Data.UsedDefault(parse.FieldDate)
}

func (s *DocumentService) createTransaction(ctx context.Context, raw entity.RawDocument, res pipeline.Result) error {
	tx := &entity.Transaction{
		ID:         uuid.New(),
		OwnerID:    raw.OwnerID,
		DocumentID: raw.ID,
		Date:       res.Data.Date,
		Amount:     *res.Data.Amount,
		Currency:   res.Data.Currency,
		Merchant:   res.Data.Merchant,
		Tax:        res.Data.Tax,
		LineItems:  res.Data.LineItems,
		CreatedAt:  time.Now().UTC(),
	}
	if res.Categorization != nil {
		tx.Category = res.Categorization.Category
	}
	if err := s.txs.Create(ctx, tx); err != nil {
		return err
	}
	s.logger.Info("transaction created",
		"transaction_id", tx.ID,
		"document_id", raw.ID,
		"amount", tx.Amount.String(),
		"category", tx.Category,
	)
	return nil
}
