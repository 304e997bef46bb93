package uploadkit

import (
	"context"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Built-in rename hooks. Each returns a copy of the file with a rewritten
// name; content is never touched.

// RandomName returns a renamer that replaces the filename with a random
// UUID, keeping the original extension. Use it to avoid collisions when
// clients upload files with the same name.
func RandomName() Renamer {
	return RenamerFunc(func(_ context.Context, _ *Form, _ string, file *File) *File {
		ext := filepath.Ext(file.Filename)
		if ext == "" {
			ext = ExtFromMIME(file.ContentType)
		}
		return file.WithFilename(uuid.NewString() + ext)
	})
}

// Prefixed returns a renamer that prepends a static prefix to the filename.
func Prefixed(prefix string) Renamer {
	return RenamerFunc(func(_ context.Context, _ *Form, _ string, file *File) *File {
		return file.WithFilename(prefix + file.Filename)
	})
}

// Sanitized returns a renamer that strips path separators and unsafe
// characters from the client-provided filename. Recommended for the local
// engine when filenames come straight from the request.
func Sanitized() Renamer {
	return RenamerFunc(func(_ context.Context, _ *Form, _ string, file *File) *File {
		return file.WithFilename(SanitizeFilename(file.Filename))
	})
}

// unsafeFilenameChars matches characters that are not safe for path segments.
var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// SanitizeFilename removes potentially dangerous characters from a filename.
// This prevents path traversal and produces names safe for both filesystem
// paths and object keys.
func SanitizeFilename(name string) string {
	// Drop any client-supplied directory components.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	// Remove leading/trailing whitespace and path traversal attempts.
	name = strings.Trim(name, " /\\")
	name = strings.ReplaceAll(name, "..", "")

	// Replace unsafe characters.
	name = unsafeFilenameChars.ReplaceAllString(name, "_")

	return url.PathEscape(name)
}
