package uploadkit

import "context"

// Hooks are pure, per-file strategies supplied by the application. Each hook
// receives the request context, the full form (so decisions can consult
// sibling values), the field name, and the file under consideration. Hooks
// must not retain the form or file past the call.

// Filter decides whether a submitted file is admitted for upload.
// A file must pass every filter in the merged (field + global) list.
type Filter interface {
	Allow(ctx context.Context, form *Form, field string, file *File) bool
}

// FilterFunc adapts a function to the Filter interface.
type FilterFunc func(ctx context.Context, form *Form, field string, file *File) bool

// Allow implements Filter.
func (f FilterFunc) Allow(ctx context.Context, form *Form, field string, file *File) bool {
	return f(ctx, form, field, file)
}

// Renamer rewrites a file's identity before upload. Implementations must
// return a file with the same content, size, and content type; only the
// name may change. Use File.WithFilename to produce the rewritten file.
type Renamer interface {
	Rename(ctx context.Context, form *Form, field string, file *File) *File
}

// RenamerFunc adapts a function to the Renamer interface.
type RenamerFunc func(ctx context.Context, form *Form, field string, file *File) *File

// Rename implements Renamer.
func (f RenamerFunc) Rename(ctx context.Context, form *Form, field string, file *File) *File {
	return f(ctx, form, field, file)
}

// DestinationResolver computes the storage path or object key for a file.
// When set, it takes precedence over the static Destination string.
type DestinationResolver interface {
	Resolve(ctx context.Context, form *Form, field string, file *File) string
}

// DestinationFunc adapts a function to the DestinationResolver interface.
type DestinationFunc func(ctx context.Context, form *Form, field string, file *File) string

// Resolve implements DestinationResolver.
func (f DestinationFunc) Resolve(ctx context.Context, form *Form, field string, file *File) string {
	return f(ctx, form, field, file)
}
