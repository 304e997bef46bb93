package uploadkit

import (
	"context"
	"path/filepath"
	"strings"
)

// Built-in admission filters. A rejected file is silently dropped; rejection
// is not an error and never produces a failed Result on its own.

// MaxSize returns a filter that rejects files larger than the given size.
func MaxSize(bytes int64) Filter {
	return FilterFunc(func(_ context.Context, _ *Form, _ string, file *File) bool {
		return file.Size <= bytes
	})
}

// MinSize returns a filter that rejects files smaller than the given size.
func MinSize(bytes int64) Filter {
	return FilterFunc(func(_ context.Context, _ *Form, _ string, file *File) bool {
		return file.Size >= bytes
	})
}

// NotEmpty returns a filter that rejects empty files.
func NotEmpty() Filter {
	return MinSize(1)
}

// AllowedTypes returns a filter that only admits files whose MIME type
// matches one of the given patterns. Wildcards like "image/*" are supported.
// The type is detected from magic bytes, not trusted from the client.
func AllowedTypes(patterns ...string) Filter {
	return FilterFunc(func(_ context.Context, _ *Form, _ string, file *File) bool {
		return matchesMIME(DetectMIME(file), patterns)
	})
}

// AllowedExtensions returns a filter that only admits files whose name ends
// with one of the given extensions (case-insensitive, leading dot optional).
func AllowedExtensions(exts ...string) Filter {
	normalized := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}

	return FilterFunc(func(_ context.Context, _ *Form, _ string, file *File) bool {
		got := strings.ToLower(filepath.Ext(file.Filename))
		for _, ext := range normalized {
			if got == ext {
				return true
			}
		}
		return false
	})
}

// ImageOnly returns a filter that only admits image files, detected from
// magic bytes.
func ImageOnly() Filter {
	return FilterFunc(func(_ context.Context, _ *Form, _ string, file *File) bool {
		return isImageMIME(DetectMIME(file))
	})
}

// DocumentsOnly returns a filter that only admits document files
// (PDF, Word, Excel, EPUB, text, and CSV).
func DocumentsOnly() Filter {
	return FilterFunc(func(_ context.Context, _ *Form, _ string, file *File) bool {
		return isDocumentMIME(DetectMIME(file))
	})
}
