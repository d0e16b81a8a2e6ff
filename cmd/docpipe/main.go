package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/expenso/docpipe/constants"
	"github.com/expenso/docpipe/internal/async"
	"github.com/expenso/docpipe/internal/categorize"
	"github.com/expenso/docpipe/internal/common"
	"github.com/expenso/docpipe/internal/entity"
	"github.com/expenso/docpipe/internal/export"
	"github.com/expenso/docpipe/internal/extract"
	"github.com/expenso/docpipe/internal/pipeline"
	repo "github.com/expenso/docpipe/internal/repository"
	"github.com/expenso/docpipe/internal/service"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		ownerStr = flag.String("owner", "", "owner UUID (generated if omitted)")
		out      = flag.String("out", "", "output XLSX file path (optional)")
		fromStr  = flag.String("from", "", "from date YYYY-MM-DD for export")
		toStr    = flag.String("to", "", "to date YYYY-MM-DD for export")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		printError("Usage: docpipe [flags] <file>...\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var from, to *time.Time
	if *fromStr != "" {
		if parsed, err := time.Parse("2006-01-02", *fromStr); err != nil {
			printError("Error: invalid --from date format, use YYYY-MM-DD: %v\n", err)
			os.Exit(1)
		} else {
			from = &parsed
		}
	}
	if *toStr != "" {
		if parsed, err := time.Parse("2006-01-02", *toStr); err != nil {
			printError("Error: invalid --to date format, use YYYY-MM-DD: %v\n", err)
			os.Exit(1)
		} else {
			to = &parsed
		}
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ownerID := uuid.New()
	if *ownerStr != "" {
		parsed, err := uuid.Parse(*ownerStr)
		if err != nil {
			printError("Error: invalid --owner UUID: %v\n", err)
			os.Exit(1)
		}
		ownerID = parsed
	}

	db, err := repo.Open(ctx, repo.Config{
		Path:        cfg.Store.Path,
		BusyTimeout: cfg.Store.BusyTimeout,
	}, logger)
	if err != nil {
		logger.Error("open store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("close store", "error", cerr)
		}
	}()

	docsRepo := repo.NewDocumentRepository(db, logger)
	rulesRepo := repo.NewRuleRepository(db, logger)
	txsRepo := repo.NewTransactionRepository(db, logger)

	adapter := extract.NewAdapter(extract.Config{
		Tesseract:     cfg.OCR.TesseractBin,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger)

	engine := categorize.NewEngine(logger)

	processor := pipeline.NewProcessor(logger, adapter, engine, pipeline.Config{
		MaxAttempts:  cfg.Pipeline.MaxAttempts,
		BackoffBase:  cfg.Pipeline.BackoffBase,
		BaseCurrency: cfg.Currency.BaseCurrency,
	})

	svc := service.NewDocumentService(logger, docsRepo, rulesRepo, txsRepo, processor)

	queue := async.NewProcessorQueue(svc, logger,
		async.WithWorkers(cfg.Pipeline.Workers),
		async.WithProcessTimeout(cfg.Pipeline.ProcessTimeout),
	)

	ingested := 0
	failures := 0
	for _, path := range flag.Args() {
		mime := constants.MapExtToMIME(filepath.Ext(path))
		if mime == "" {
			logger.Error("unsupported file type", "path", path)
			failures++
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Error("read file", "path", path, "error", err)
			failures++
			continue
		}
		doc, err := svc.Ingest(ctx, ownerID, filepath.Base(path), mime)
		if err != nil {
			logger.Error("ingest file", "path", path, "error", err)
			failures++
			continue
		}
		raw := entity.RawDocument{
			ID:       doc.ID,
			OwnerID:  ownerID,
			Filename: doc.Filename,
			MIMEType: doc.MIMEType,
			Content:  content,
		}
		if err := queue.Enqueue(ctx, async.Job{Doc: raw, SubmittedAt: time.Now()}); err != nil {
			logger.Error("enqueue document", "document_id", doc.ID, "error", err)
			failures++
			continue
		}
		ingested++
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	queue.Shutdown(shutdownCtx)
	cancel()

	if *out != "" {
		exportService := export.NewService(txsRepo, logger)
		xlsxBytes, err := exportService.ExportTransactionsXLSX(ctx, ownerID, from, to)
		if err != nil {
			logger.Error("export transactions", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
			logger.Error("write output file", "error", err)
			os.Exit(1)
		}
		logger.Info("export written", "output", *out)
	}

	logger.Info("run complete",
		"owner_id", ownerID,
		"files_enqueued", ingested,
		"failures", failures,
	)

	fmt.Printf("Processing complete!\n")
	fmt.Printf("- Files enqueued: %d\n", ingested)
	fmt.Printf("- Failures: %d\n", failures)
	if *out != "" {
		fmt.Printf("- Output: %s\n", *out)
	}
	if failures > 0 {
		os.Exit(1)
	}
}
