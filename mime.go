package uploadkit

import (
	"io"
	"net/http"
	"strings"
)

// MIME type constants.
const (
	MIMEOctetStream    = "application/octet-stream"
	mimeDetectionBytes = 512 // http.DetectContentType requires up to 512 bytes
)

// imageTypes contains all recognized image MIME types.
var imageTypes = map[string]struct{}{
	"image/jpeg":    {},
	"image/png":     {},
	"image/gif":     {},
	"image/webp":    {},
	"image/svg+xml": {},
	"image/bmp":     {},
	"image/tiff":    {},
	"image/x-icon":  {},
	"image/avif":    {},
}

// documentTypes contains all recognized document MIME types.
var documentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
	"application/epub+zip": {},
	"text/plain":           {},
	"text/csv":             {},
	"application/rtf":      {},
}

// mimeExtensions maps MIME types to preferred file extensions.
var mimeExtensions = map[string]string{
	// Images
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/bmp":     ".bmp",
	"image/tiff":    ".tiff",
	"image/x-icon":  ".ico",
	"image/avif":    ".avif",
	// Documents
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"application/vnd.ms-excel": ".xls",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": ".xlsx",
	"application/epub+zip": ".epub",
	"text/plain":           ".txt",
	"text/csv":             ".csv",
	"text/html":            ".html",
	"application/rtf":      ".rtf",
	// Data
	"application/json": ".json",
	"application/xml":  ".xml",
	// Media
	"video/mp4":  ".mp4",
	"video/webm": ".webm",
	"audio/mpeg": ".mp3",
	"audio/wav":  ".wav",
	// Archives
	"application/zip":  ".zip",
	"application/gzip": ".gz",
	"application/x-tar": ".tar",
}

// DetectMIME detects the MIME type of a file by reading magic bytes.
// Returns "application/octet-stream" if detection fails.
func DetectMIME(file *File) string {
	if file == nil {
		return MIMEOctetStream
	}

	rc, err := file.Open()
	if err != nil {
		return MIMEOctetStream
	}
	defer rc.Close()

	return detectMIMEFromReader(rc)
}

// ExtFromMIME returns the preferred file extension for a MIME type.
// Returns empty string if the MIME type is unknown.
func ExtFromMIME(mimeType string) string {
	return mimeExtensions[normalizeMIME(mimeType)]
}

// detectMIMEFromReader detects MIME type by reading magic bytes from a reader.
func detectMIMEFromReader(r io.Reader) string {
	buf := make([]byte, mimeDetectionBytes)
	n, err := io.ReadFull(r, buf)
	if err != nil && n == 0 {
		return MIMEOctetStream
	}

	return http.DetectContentType(buf[:n])
}

// normalizeMIME extracts the base MIME type, removing parameters like charset.
// Returns the lowercase MIME type.
func normalizeMIME(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.TrimSpace(strings.ToLower(mimeType))
}

// isImageMIME checks if the MIME type is an image type.
func isImageMIME(mimeType string) bool {
	_, ok := imageTypes[normalizeMIME(mimeType)]
	return ok
}

// isDocumentMIME checks if the MIME type is a document type.
func isDocumentMIME(mimeType string) bool {
	_, ok := documentTypes[normalizeMIME(mimeType)]
	return ok
}

// matchesMIME checks if a MIME type matches any of the allowed patterns.
// Supports wildcards like "image/*".
func matchesMIME(mimeType string, allowed []string) bool {
	mimeType = normalizeMIME(mimeType)

	for _, pattern := range allowed {
		pattern = strings.TrimSpace(strings.ToLower(pattern))

		if mimeType == pattern {
			return true
		}

		if strings.HasSuffix(pattern, "/*") {
			prefix := strings.TrimSuffix(pattern, "*")
			if strings.HasPrefix(mimeType, prefix) {
				return true
			}
		}
	}

	return false
}
