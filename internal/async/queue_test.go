package async

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/expenso/docpipe/constants"
	"github.com/expenso/docpipe/internal/categorize"
	"github.com/expenso/docpipe/internal/entity"
	"github.com/expenso/docpipe/internal/extract"
	"github.com/expenso/docpipe/internal/pipeline"
	"github.com/expenso/docpipe/internal/repository"
	"github.com/expenso/docpipe/internal/service"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubExtractor struct{}

func (stubExtractor) Extract(_ context.Context, doc entity.RawDocument) (extract.Result, error) {
	return extract.Result{
		Text:   "CORNER CAFE\n12/11/2025\nTOTAL: $8.40",
		Pages:  1,
		Engine: extract.EngineOCRPrimary,
	}, nil
}

func newTestService(t *testing.T) (*service.DocumentService, repository.DocumentRepository) {
	t.Helper()
	ctx := context.Background()
	db, err := repository.Open(ctx, repository.Config{
		Path: filepath.Join(t.TempDir(), "queue-test.db"),
	}, testLogger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	docs := repository.NewDocumentRepository(db, testLogger)
	rules := repository.NewRuleRepository(db, testLogger)
	txs := repository.NewTransactionRepository(db, testLogger)

	processor := pipeline.NewProcessor(testLogger, stubExtractor{}, categorize.NewEngine(testLogger), pipeline.Config{})
	return service.NewDocumentService(testLogger, docs, rules, txs, processor), docs
}

func TestQueueProcessesAllJobs(t *testing.T) {
	svc, docs := newTestService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	q := NewProcessorQueue(svc, testLogger, WithWorkers(2), WithQueueSize(8))

	const jobs = 5
	ids := make([]uuid.UUID, 0, jobs)
	for i := 0; i < jobs; i++ {
		doc, err := svc.Ingest(ctx, ownerID, "receipt.jpg", "image/jpeg")
		if err != nil {
			t.Fatalf("Ingest: %v", err)
		}
		ids = append(ids, doc.ID)
		err = q.Enqueue(ctx, Job{
			Doc: entity.RawDocument{
				ID:       doc.ID,
				OwnerID:  ownerID,
				Filename: doc.Filename,
				MIMEType: doc.MIMEType,
				Content:  []byte("bytes"),
			},
			SubmittedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	q.Shutdown(shutdownCtx)

	for _, id := range ids {
		doc, err := docs.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if doc.Status != string(constants.DocStatusProcessed) {
			t.Errorf("document %s status = %q, want PROCESSED", id, doc.Status)
		}
	}
}

func TestQueueShutdownIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	q := NewProcessorQueue(svc, testLogger, WithWorkers(1))

	ctx := context.Background()
	q.Shutdown(ctx)
	q.Shutdown(ctx)
}

func TestQueueEnqueueAfterShutdown(t *testing.T) {
	svc, _ := newTestService(t)
	q := NewProcessorQueue(svc, testLogger, WithWorkers(1))
	q.Shutdown(context.Background())

	// Must not panic on the closed channel.
	err := q.Enqueue(context.Background(), Job{Doc: entity.RawDocument{ID: uuid.New()}})
	if err != nil {
		t.Errorf("Enqueue after shutdown: %v", err)
	}
}
