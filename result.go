package uploadkit

// Result is the outcome of one file's upload attempt. It is created exactly
// once per admitted file by a storage engine (or synthesized by the broker
// for empty required fields) and is immutable after creation.
//
// Path and URL are mutually exclusive: the local engine sets Path, the
// remote-object engine sets URL, and the memory engine sets neither.
type Result struct {
	// FieldName is the form field this file was submitted under.
	FieldName string `json:"field_name"`

	// Filename is the file name after any rename hook ran.
	Filename string `json:"filename,omitempty"`

	// ContentType is the MIME type of the uploaded file.
	ContentType string `json:"content_type,omitempty"`

	// Size is the file size in bytes.
	Size int64 `json:"size,omitempty"`

	// Status reports whether the upload succeeded.
	Status bool `json:"status"`

	// Path is the filesystem destination, set by the local engine.
	Path string `json:"path,omitempty"`

	// URL is the object location, set by the remote-object engine.
	URL string `json:"url,omitempty"`

	// File holds the raw bytes, set only by the memory engine.
	File []byte `json:"file,omitempty"`

	// Metadata carries engine-specific extras (for example the S3 ETag).
	Metadata map[string]string `json:"metadata,omitempty"`

	// Error is the failure description, populated iff Status is false.
	Error string `json:"error,omitempty"`

	// Message is a human-readable summary of the outcome.
	Message string `json:"message,omitempty"`
}

// failedResult builds a failure outcome from an engine-internal error.
// Error propagation across the engine boundary is by value, never by panic.
func failedResult(field, filename string, err error) Result {
	msg := "Unable to upload " + field
	if filename != "" {
		msg = "Unable to upload " + filename + " for field " + field
	}
	var errText string
	if err != nil {
		errText = err.Error()
	}
	return Result{
		FieldName: field,
		Filename:  filename,
		Status:    false,
		Error:     errText,
		Message:   msg,
	}
}
