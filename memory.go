package uploadkit

import (
	"context"
	"fmt"
	"io"
)

// MemoryEngine buffers uploads fully in memory and returns the bytes in the
// Result. Intended for small, ephemeral payloads that the application
// processes immediately; it sets neither Path nor URL.
//
// Background mode is ignored: a detached upload has no way to hand the
// buffered bytes back to the request.
type MemoryEngine struct{}

// NewMemoryEngine creates an in-memory engine. It is stateless and safe to
// share across requests.
func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{}
}

// Upload implements Engine.
func (e *MemoryEngine) Upload(ctx context.Context, _ *Form, field Field, _ EffectiveConfig, file *File) Result {
	if err := ctx.Err(); err != nil {
		return failedResult(field.Name, file.Filename, fmt.Errorf("%w: %v", ErrReadFailed, err))
	}

	rc, err := file.Open()
	if err != nil {
		return failedResult(field.Name, file.Filename, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return failedResult(field.Name, file.Filename, fmt.Errorf("%w: %v", ErrReadFailed, err))
	}

	return Result{
		FieldName:   field.Name,
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Size:        int64(len(data)),
		Status:      true,
		File:        data,
		Message:     fmt.Sprintf("%s saved successfully", file.Filename),
	}
}

var _ Engine = (*MemoryEngine)(nil)
