package extract

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"strings"

	"github.com/gen2brain/go-fitz"
	ledongthuc "github.com/ledongthuc/pdf"

	"github.com/expenso/docpipe/constants"
	"github.com/expenso/docpipe/internal/common"
)

// extractPDF tries layout-aware text extraction first, then a second
// structured backend, and rasterizes pages for OCR only when both yield
// nothing useful.
func (a *Adapter) extractPDF(ctx context.Context, data []byte) (Result, error) {
	text, pages, err := a.pdfStructuredText(data)
	if err == nil && nonWhitespaceLen(text) >= minTextChars {
		return Result{
			Text:       text,
			Pages:      pages,
			SourceType: constants.PDF,
			Engine:     EnginePDFStructured,
		}, nil
	}
	var warns []string
	if err != nil {
		warns = append(warns, err.Error())
		a.logger.Warn("pdf structured extraction failed, trying alternate backend", "error", err)
	}

	altText, altPages, altErr := pdfPlainText(data)
	if altErr == nil && nonWhitespaceLen(altText) >= minTextChars {
		return Result{
			Text:       altText,
			Pages:      altPages,
			SourceType: constants.PDF,
			Engine:     EnginePDFStructured,
			Warnings:   warns,
		}, nil
	}
	if altErr != nil {
		warns = append(warns, altErr.Error())
		a.logger.Warn("pdf alternate extraction failed, rasterizing for ocr", "error", altErr)
	}

	res, rerr := a.pdfRasterOCR(ctx, data)
	res.Warnings = append(warns, res.Warnings...)
	return res, rerr
}

// pdfStructuredText extracts per-page text with MuPDF.
func (a *Adapter) pdfStructuredText(data []byte) (string, int, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if a.cfg.MaxPages > 0 && pages > a.cfg.MaxPages {
		pages = a.cfg.MaxPages
	}
	var b strings.Builder
	for i := 0; i < pages; i++ {
		txt, err := doc.Text(i)
		if err != nil {
			return "", pages, fmt.Errorf("page %d text: %w", i+1, err)
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n")
		}
		b.WriteString(txt)
	}
	return b.String(), pages, nil
}

// pdfPlainText is the second structured backend. The underlying library
// is known to panic on odd files, so the whole call is recovered.
func pdfPlainText(data []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf plain text: panic: %v", r)
		}
	}()

	reader, err := ledongthuc.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("open pdf reader: %w", err)
	}
	pages = reader.NumPage()
	if pages < 1 {
		pages = 1
	}
	r, err := reader.GetPlainText()
	if err != nil {
		return "", pages, fmt.Errorf("extract plain text: %w", err)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", pages, fmt.Errorf("read plain text: %w", err)
	}
	return string(raw), pages, nil
}

// pdfRasterOCR renders each page to PNG and runs both OCR engines on it.
func (a *Adapter) pdfRasterOCR(ctx context.Context, data []byte) (Result, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return Result{SourceType: constants.PDF}, &common.ExtractionError{Message: "open pdf for raster", Cause: err}
	}
	defer doc.Close()

	pages := doc.NumPage()
	if a.cfg.MaxPages > 0 && pages > a.cfg.MaxPages {
		pages = a.cfg.MaxPages
	}
	if pages == 0 {
		return Result{SourceType: constants.PDF}, &common.ExtractionError{Message: "pdf has no pages"}
	}

	var b strings.Builder
	var warns []string
	for i := 0; i < pages; i++ {
		img, err := doc.ImageDPI(i, float64(a.cfg.DPI))
		if err != nil {
			warns = append(warns, fmt.Sprintf("render page %d: %v", i+1, err))
			continue
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			warns = append(warns, fmt.Sprintf("encode page %d: %v", i+1, err))
			continue
		}
		txt, _, w, err := a.ocrImageBytes(ctx, buf.Bytes())
		warns = append(warns, w...)
		if err != nil {
			warns = append(warns, err.Error())
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n") // keep a clear page break marker
		}
		b.WriteString(txt)
	}

	text := b.String()
	if !hasText(text) {
		return Result{SourceType: constants.PDF, Pages: pages, Warnings: warns},
			&common.ExtractionError{Message: "pdf raster ocr produced no text"}
	}
	return Result{
		Text:       text,
		Pages:      pages,
		SourceType: constants.PDF,
		Engine:     EnginePDFRaster,
		Language:   a.cfg.TesseractLang,
		Warnings:   warns,
		Confidence: heuristicConfidence(text),
	}, nil
}
