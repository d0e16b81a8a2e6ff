package constants

import "strings"

// FileTypes holds the allowed source formats for a document.
var FileTypes = []string{"PDF", "IMAGE"}

const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
)

// SupportedMIMETypes is the exact set of MIME types accepted for processing.
// Anything else is rejected before extraction is attempted.
var SupportedMIMETypes = map[string]string{
	"application/pdf": PDF,
	"image/jpeg":      IMAGE,
	"image/jpg":       IMAGE,
	"image/png":       IMAGE,
}

// MapMIMEToFormat returns the source format for a MIME type, or "" if unsupported.
func MapMIMEToFormat(mime string) string {
	return SupportedMIMETypes[strings.ToLower(strings.TrimSpace(mime))]
}

// AllowedExtensions holds the default allowed file extensions for ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToMIME maps a normalized extension to its declared MIME type.
func MapExtToMIME(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return "application/pdf"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	default:
		return ""
	}
}
