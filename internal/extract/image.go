package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"os"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/expenso/docpipe/constants"
	"github.com/expenso/docpipe/internal/common"
)

// minOCRHeight is the pixel height below which receipt photos are
// upscaled before OCR.
const minOCRHeight = 800

// extractImage runs the primary OCR engine and falls back to the
// secondary engine on error or empty output.
func (a *Adapter) extractImage(ctx context.Context, data []byte) (Result, error) {
	txt, engine, warns, err := a.ocrImageBytes(ctx, data)
	if err != nil {
		return Result{SourceType: constants.IMAGE, Warnings: warns},
			&common.ExtractionError{Message: "image ocr failed", Cause: err}
	}
	return Result{
		Text:       txt,
		Pages:      1,
		SourceType: constants.IMAGE,
		Engine:     engine,
		Language:   a.cfg.TesseractLang,
		Warnings:   warns,
		Confidence: heuristicConfidence(txt),
	}, nil
}

// ocrImageBytes tries the in-process engine first, then the CLI engine.
// Returns the text, the engine that produced it, and accumulated warnings.
func (a *Adapter) ocrImageBytes(ctx context.Context, data []byte) (string, string, []string, error) {
	prepared, warns := preprocessImage(data)

	txt, err := a.ocrPrimary(prepared)
	if err == nil && hasText(txt) {
		return txt, EngineOCRPrimary, warns, nil
	}
	if err != nil {
		warns = append(warns, fmt.Sprintf("primary ocr: %v", err))
		a.logger.Warn("primary ocr failed, trying fallback engine", "error", err)
	} else {
		warns = append(warns, "primary ocr returned empty text")
	}

	txt, w, err := a.ocrFallback(ctx, prepared)
	warns = append(warns, w...)
	if err != nil {
		return "", "", warns, fmt.Errorf("fallback ocr: %w", err)
	}
	if !hasText(txt) {
		return "", "", warns, fmt.Errorf("both ocr engines returned empty text")
	}
	return txt, EngineOCRFallback, warns, nil
}

// ocrPrimary runs the in-process tesseract API.
func (a *Adapter) ocrPrimary(data []byte) (string, error) {
	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()

	if err := client.SetLanguage(a.cfg.TesseractLang); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if a.cfg.TessdataDir != "" {
		if err := client.SetTessdataPrefix(a.cfg.TessdataDir); err != nil {
			return "", fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	return client.Text()
}

// ocrFallback shells out to the tesseract CLI.
func (a *Adapter) ocrFallback(ctx context.Context, data []byte) (string, []string, error) {
	tmp, err := os.CreateTemp("", "docpipe-ocr-*.png")
	if err != nil {
		return "", nil, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		return "", nil, err
	}

	args := []string{tmp.Name(), "stdout", "-l", a.cfg.TesseractLang}
	if a.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", a.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := a.runner.Run(ctx, a.cfg.Tesseract, args...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil, nil
}

// preprocessImage grayscales and upscales small photos, re-encoding to
// PNG. On any decode failure the original bytes pass through untouched
// so the OCR engines can report their own error.
func preprocessImage(data []byte) ([]byte, []string) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, []string{fmt.Sprintf("decode image: %v", err)}
	}
	gray := imaging.Grayscale(img)
	if gray.Bounds().Dy() < minOCRHeight {
		gray = imaging.Resize(gray, 0, 1200, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return data, []string{fmt.Sprintf("encode image: %v", err)}
	}
	return buf.Bytes(), nil
}
