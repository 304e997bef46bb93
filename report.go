package uploadkit

import "fmt"

// msgNoFiles is both the synthetic failure message for empty required fields
// and the whole-report error when no fields are configured.
const msgNoFiles = "No files were uploaded"

// Report is the request-level aggregate of all upload outcomes, keyed by
// field name with successes and failures kept apart. It is mutated only by
// Fold while the broker processes a request and must be treated as frozen
// once returned to the caller.
type Report struct {
	// File aliases the single outcome when exactly one file was processed.
	File *Result `json:"file,omitempty"`

	// Files maps field names to successful outcomes.
	// Order within a field is not guaranteed when uploads are fanned out.
	Files map[string][]Result `json:"files"`

	// Failed maps field names to failed outcomes. A field may appear in
	// both Files and Failed when a multi-file upload partially fails.
	Failed map[string][]Result `json:"failed,omitempty"`

	// Status is false if any file failed or nothing was uploaded.
	Status bool `json:"status"`

	// Message summarizes successes, e.g. "3 files uploaded successfully".
	Message string `json:"message,omitempty"`

	// Error summarizes failures, e.g. "1 file(s) not uploaded".
	Error string `json:"error,omitempty"`
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{
		Files:  map[string][]Result{},
		Failed: map[string][]Result{},
		Status: true,
	}
}

// failedReport builds a terminal whole-report failure with no per-field
// results, used for configuration and form-parse errors.
func failedReport(msg string) *Report {
	r := NewReport()
	r.Status = false
	r.Error = msg
	r.Message = msg
	return r
}

// Fold merges outcomes into the report. It accepts a single Result, a slice
// of Results, or a one-level nested collection of either (the shape produced
// by per-field fan-out). Unexpected shapes are ignored rather than treated
// as successes. Every folded Result lands in exactly one of Files or Failed.
func (r *Report) Fold(v any) {
	switch x := v.(type) {
	case Result:
		r.add(x)
	case *Result:
		if x != nil {
			r.add(*x)
		}
	case []Result:
		for _, res := range x {
			r.add(res)
		}
	case []any:
		for _, item := range x {
			switch y := item.(type) {
			case Result:
				r.add(y)
			case []Result:
				for _, res := range y {
					r.add(res)
				}
			}
		}
	}
}

func (r *Report) add(res Result) {
	if res.Status {
		r.Files[res.FieldName] = append(r.Files[res.FieldName], res)
	} else {
		r.Failed[res.FieldName] = append(r.Failed[res.FieldName], res)
	}
}

// Len is the total number of successful outcomes across all fields.
func (r *Report) Len() int {
	total := 0
	for _, field := range r.Files {
		total += len(field)
	}
	return total
}

// failedLen is the total number of failed outcomes across all fields.
func (r *Report) failedLen() int {
	total := 0
	for _, field := range r.Failed {
		total += len(field)
	}
	return total
}

// finalize derives the summary fields from the folded buckets.
func (r *Report) finalize() *Report {
	succeeded, failed := r.Len(), r.failedLen()

	r.Status = failed == 0
	r.Message = ""
	r.Error = ""
	if succeeded > 0 {
		r.Message = fmt.Sprintf("%d files uploaded successfully", succeeded)
	}
	if failed > 0 {
		r.Error = fmt.Sprintf("%d file(s) not uploaded", failed)
	}

	if succeeded+failed == 1 {
		for _, field := range r.Files {
			r.File = &field[0]
		}
		for _, field := range r.Failed {
			r.File = &field[0]
		}
	}

	return r
}
