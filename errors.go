package uploadkit

import "errors"

// Sentinel errors for broker operations. Engines never let errors escape
// their boundary; these surface only from form handling and local engine
// plumbing, wrapped with fmt.Errorf("%w: ...").
var (
	// Form errors.
	ErrFormParse = errors.New("uploadkit: failed to parse upload form")
	ErrNoContent = errors.New("uploadkit: file has no content")

	// Engine errors, recovered into failed Results at the engine boundary.
	ErrWriteFailed = errors.New("uploadkit: write failed")
	ErrReadFailed  = errors.New("uploadkit: read failed")
)
