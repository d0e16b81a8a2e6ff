package extract

import (
	"context"
	"time"

	"github.com/expenso/docpipe/internal/entity"
)

// Source engines, recorded on every extraction result.
const (
	EnginePDFStructured = "pdf-structured"
	EnginePDFRaster     = "pdf-raster"
	EngineOCRPrimary    = "ocr-primary"
	EngineOCRFallback   = "ocr-fallback"
)

// TextExtractor is Stage 1: document bytes -> text.
type TextExtractor interface {
	Extract(ctx context.Context, doc entity.RawDocument) (Result, error)
}

// Result is a single extraction outcome. Produced once per pipeline
// attempt, never mutated.
type Result struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.IMAGE
	Engine     string // pdf-structured | pdf-raster | ocr-primary | ocr-fallback
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32 // 0 when the backend reports none
}
