package extract

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/expenso/docpipe/constants"
	"github.com/expenso/docpipe/internal/common"
	"github.com/expenso/docpipe/internal/entity"
)

// minTextChars is the minimum number of non-whitespace characters a
// structured PDF backend must yield before we trust its output. Below
// this the PDF is treated as scanned and rasterized for OCR.
const minTextChars = 16

type Config struct {
	Tesseract     string // binary name or absolute path; if empty -> "tesseract"
	TesseractLang string // default "eng"
	TessdataDir   string
	DPI           int // rasterization DPI for scanned PDFs, default 300
	MaxPages      int // 0 = no limit
}

// Adapter wraps the PDF-text and OCR backends behind one Extract call.
// Strategies are tried in a fixed priority order with explicit fallback
// on empty output or error; no retries happen at this layer.
type Adapter struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewAdapter(cfg Config, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Adapter{cfg: cfg, runner: execRunner{}, logger: logger}
}

// Extract picks a strategy based on the declared MIME type.
func (a *Adapter) Extract(ctx context.Context, doc entity.RawDocument) (Result, error) {
	start := time.Now()
	format := constants.MapMIMEToFormat(doc.MIMEType)
	a.logger.Debug("starting text extraction", "document_id", doc.ID, "mime", doc.MIMEType, "format", format)

	var res Result
	var err error
	switch format {
	case constants.PDF:
		res, err = a.extractPDF(ctx, doc.Content)
	case constants.IMAGE:
		res, err = a.extractImage(ctx, doc.Content)
	default:
		a.logger.Error("unsupported mime type", "mime", doc.MIMEType)
		return Result{}, &common.UnsupportedTypeError{MIMEType: doc.MIMEType}
	}
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}
	if !hasText(res.Text) {
		return res, &common.ExtractionError{Message: "all backends returned empty text"}
	}
	res.Text = NormalizeText(res.Text)
	return res, nil
}

// hasText reports whether s contains at least one non-whitespace rune.
func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}

// nonWhitespaceLen counts the non-whitespace runes in s.
func nonWhitespaceLen(s string) int {
	n := 0
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\v':
		default:
			n++
		}
	}
	return n
}
