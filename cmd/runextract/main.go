package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/expenso/docpipe/constants"
	"github.com/expenso/docpipe/internal/common"
	"github.com/expenso/docpipe/internal/entity"
	"github.com/expenso/docpipe/internal/extract"
)

// runextract runs text extraction on a single file and dumps the text to
// stdout. Useful for debugging engine selection without touching the store.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runextract <file>")
		os.Exit(2)
	}
	path := os.Args[1]

	mime := constants.MapExtToMIME(filepath.Ext(path))
	if mime == "" {
		logger.Error("unsupported file type", "path", path)
		os.Exit(2)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read file", "path", path, "error", err)
		os.Exit(1)
	}

	cfg := common.LoadConfig()

	adapter := extract.NewAdapter(extract.Config{
		Tesseract:     cfg.OCR.TesseractBin,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	raw := entity.RawDocument{
		ID:       uuid.New(),
		OwnerID:  uuid.New(),
		Filename: filepath.Base(path),
		MIMEType: mime,
		Content:  content,
	}

	start := time.Now()
	res, err := adapter.Extract(ctx, raw)
	dur := time.Since(start)

	if err != nil {
		logger.Error("text extraction failed",
			"path", path, "error", err, "duration_ms", dur.Milliseconds())
		os.Exit(1)
	}

	logger.Info("text extraction OK",
		"engine", res.Engine,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"confidence", res.Confidence,
		"warnings", len(res.Warnings),
		"duration_ms", dur.Milliseconds(),
	)

	if _, err := os.Stdout.WriteString(res.Text); err != nil {
		logger.Error("write stdout", "error", err)
		os.Exit(1)
	}
}
