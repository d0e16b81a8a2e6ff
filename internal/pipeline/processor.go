// Package pipeline drives one document through extraction, parsing,
// normalization, and categorization, owning the per-run retry policy.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/expenso/docpipe/constants"
	"github.com/expenso/docpipe/internal/categorize"
	"github.com/expenso/docpipe/internal/common"
	"github.com/expenso/docpipe/internal/entity"
	"github.com/expenso/docpipe/internal/extract"
	"github.com/expenso/docpipe/internal/parse"
)

// Config holds retry/backoff behavior and parsing defaults for runs.
type Config struct {
	MaxAttempts  int           // default 3
	BackoffBase  time.Duration // default 1 minute
	BaseCurrency string        // default "USD"
}

// Result is the outcome of one pipeline run, retries included.
type Result struct {
	State          constants.DocStatus
	RawText        string
	Engine         string
	Confidence     float32
	Data           *entity.DocumentData
	Categorization *entity.CategorizationResult
	Err            string
	Attempts       int
}

// Processor coordinates extraction then parse/normalize/categorize.
// Retry applies to the whole run, never to individual field parsers.
type Processor struct {
	Logger    *slog.Logger
	Extractor extract.TextExtractor
	Engine    *categorize.Engine
	Cfg       Config

	// Sleep and Now are injectable for simulated time in tests.
	Sleep func(ctx context.Context, d time.Duration) error
	Now   func() time.Time
}

func NewProcessor(logger *slog.Logger, ex extract.TextExtractor, engine *categorize.Engine, cfg Config) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = time.Minute
	}
	if cfg.BaseCurrency == "" {
		cfg.BaseCurrency = "USD"
	}
	return &Processor{
		Logger:    logger,
		Extractor: ex,
		Engine:    engine,
		Cfg:       cfg,
		Sleep:     sleepCtx,
		Now:       time.Now,
	}
}

// Process runs the full pipeline for one document. It always returns a
// Result with State set; failures are reported in Err with the last
// error message preserved verbatim.
func (p *Processor) Process(ctx context.Context, doc entity.RawDocument, rules []entity.CategoryRule) Result {
	if constants.MapMIMEToFormat(doc.MIMEType) == "" {
		err := &common.UnsupportedTypeError{MIMEType: doc.MIMEType}
		p.Logger.Error("pipeline.rejected", "document_id", doc.ID, "mime", doc.MIMEType)
		return Result{State: constants.DocStatusFailed, Err: err.Error()}
	}

	res, attempts, err := p.extractWithRetry(ctx, doc)
	if err != nil {
		p.Logger.Error("pipeline.extract.failed",
			"document_id", doc.ID, "attempts", attempts, "error", err)
		return Result{State: constants.DocStatusFailed, Err: err.Error(), Attempts: attempts}
	}
	p.Logger.Debug("pipeline.extract.ok",
		"document_id", doc.ID,
		"engine", res.Engine,
		"pages", res.Pages,
		"confidence", res.Confidence,
	)

	data := parse.Normalize(res.Text, parse.Options{
		BaseCurrency: p.Cfg.BaseCurrency,
		Now:          p.Now,
	})
	cat := p.Engine.Resolve(data.Merchant, doc.Filename, rules)

	p.Logger.Info("pipeline.processed",
		"document_id", doc.ID,
		"merchant", data.Merchant,
		"date", data.Date.Format("2006-01-02"),
		"currency", data.Currency,
		"category", cat.Category,
		"method", cat.Method,
		"defaulted", data.Defaulted,
		"attempts", attempts,
	)
	return Result{
		State:          constants.DocStatusProcessed,
		RawText:        res.Text,
		Engine:         res.Engine,
		Confidence:     res.Confidence,
		Data:           &data,
		Categorization: &cat,
		Attempts:       attempts,
	}
}

// extractWithRetry applies the run-level retry budget with exponential
// backoff. Retry-exempt errors (unsupported type) abort immediately.
func (p *Processor) extractWithRetry(ctx context.Context, doc entity.RawDocument) (extract.Result, int, error) {
	var lastErr error
	for attempt := 1; attempt <= p.Cfg.MaxAttempts; attempt++ {
		res, err := p.Extractor.Extract(ctx, doc)
		if err == nil {
			return res, attempt, nil
		}
		lastErr = err
		if !common.IsRetryable(err) {
			return extract.Result{}, attempt, err
		}
		if attempt == p.Cfg.MaxAttempts {
			break
		}
		delay := BackoffDelay(p.Cfg.BackoffBase, attempt)
		p.Logger.Warn("pipeline.extract.retry",
			"document_id", doc.ID, "attempt", attempt, "delay", delay, "error", err)
		if serr := p.Sleep(ctx, delay); serr != nil {
			return extract.Result{}, attempt, lastErr
		}
	}
	return extract.Result{}, p.Cfg.MaxAttempts, lastErr
}

// BackoffDelay computes the wait before the next attempt: base doubled
// per completed attempt (base, 2*base, 4*base, ...).
func BackoffDelay(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base << (attempt - 1)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
