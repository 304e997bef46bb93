package uploadkit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// LocalEngine stores uploads on the local filesystem. The destination is
// either a directory (static Destination, joined with the filename) or a
// full path computed by the destination hook. Parent directories are created
// on demand.
type LocalEngine struct{}

// NewLocalEngine creates a filesystem-backed engine. It is stateless and
// safe to share across requests.
func NewLocalEngine() *LocalEngine {
	return &LocalEngine{}
}

// Upload implements Engine. With Background set, the write is handed to the
// scheduler and an immediate in-flight result describes where the file will
// land; the write's eventual failure is reported only through the logger.
func (e *LocalEngine) Upload(ctx context.Context, form *Form, field Field, cfg EffectiveConfig, file *File) Result {
	dest := e.path(ctx, form, field.Name, cfg, file)

	if cfg.Background && cfg.Scheduler != nil {
		// Open synchronously so the content stays readable after the
		// request's multipart buffers are cleaned up.
		rc, err := file.Open()
		if err != nil {
			return failedResult(field.Name, file.Filename, err)
		}
		cfg.Scheduler.Schedule(func(bgCtx context.Context) {
			defer rc.Close()
			if res := e.write(bgCtx, field.Name, file, dest, rc); !res.Status {
				logResult(cfg.Logger, "background local upload failed", res)
			}
		})
		return Result{
			FieldName:   field.Name,
			Filename:    file.Filename,
			ContentType: file.ContentType,
			Size:        file.Size,
			Status:      true,
			Path:        dest,
			Message:     fmt.Sprintf("%s is uploading in the background", file.Filename),
		}
	}

	rc, err := file.Open()
	if err != nil {
		return failedResult(field.Name, file.Filename, err)
	}
	defer rc.Close()

	return e.write(ctx, field.Name, file, dest, rc)
}

// path resolves the filesystem destination for a file.
func (e *LocalEngine) path(ctx context.Context, form *Form, field string, cfg EffectiveConfig, file *File) string {
	if cfg.DestinationFunc != nil {
		return cfg.DestinationFunc.Resolve(ctx, form, field, file)
	}
	return filepath.Join(cfg.Destination, file.Filename)
}

// write copies the file content to dest, converting every failure into a
// failed Result. Nothing below this point escapes as an error.
func (e *LocalEngine) write(ctx context.Context, field string, file *File, dest string, r io.Reader) Result {
	if err := ctx.Err(); err != nil {
		return failedResult(field, file.Filename, fmt.Errorf("%w: %v", ErrWriteFailed, err))
	}

	if dir := filepath.Dir(dest); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return failedResult(field, file.Filename, fmt.Errorf("%w: %v", ErrWriteFailed, err))
		}
	}

	out, err := os.Create(dest)
	if err != nil {
		return failedResult(field, file.Filename, fmt.Errorf("%w: %v", ErrWriteFailed, err))
	}

	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(dest)
		return failedResult(field, file.Filename, fmt.Errorf("%w: %v", ErrWriteFailed, err))
	}
	if err := out.Close(); err != nil {
		return failedResult(field, file.Filename, fmt.Errorf("%w: %v", ErrWriteFailed, err))
	}

	return Result{
		FieldName:   field,
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Size:        file.Size,
		Status:      true,
		Path:        dest,
		Message:     fmt.Sprintf("%s was saved successfully for field %s", file.Filename, field),
	}
}

// logResult reports a failed outcome through the configured logger.
func logResult(logger *slog.Logger, msg string, res Result) {
	if logger == nil {
		return
	}
	logger.Error(msg,
		slog.String("field", res.FieldName),
		slog.String("filename", res.Filename),
		slog.String("error", res.Error),
	)
}

var _ Engine = (*LocalEngine)(nil)
