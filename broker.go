package uploadkit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"
)

// defaultConcurrency bounds per-field file fan-out. The bound is independent
// of field cardinality so adversarial requests cannot spawn a goroutine per
// submitted file.
const defaultConcurrency = 8

// Broker is the upload orchestrator. It receives a multipart form, resolves
// each declared field's effective configuration, applies admission filters
// and rename hooks, dispatches uploads through the resolved storage engines,
// and aggregates per-file outcomes into a Report.
//
// A Broker is built once at application setup and is safe for concurrent use.
type Broker struct {
	fields      []Field
	config      Config
	scheduler   Scheduler
	ownPool     *Pool
	logger      *slog.Logger
	concurrency int
}

// Option configures the broker.
type Option func(*Broker)

// WithFields declares the form fields the broker expects.
func WithFields(fields ...Field) Option {
	return func(b *Broker) {
		b.fields = append(b.fields, fields...)
	}
}

// WithField declares a single form field.
func WithField(field Field) Option {
	return func(b *Broker) {
		b.fields = append(b.fields, field)
	}
}

// WithConfig sets the global configuration. Field-level configs override it
// key by key; filters concatenate.
func WithConfig(cfg Config) Option {
	return func(b *Broker) {
		b.config = cfg
	}
}

// WithLogger sets the logger used for engine failures and background
// outcomes. If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(b *Broker) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithScheduler sets the background scheduler. By default the broker owns a
// small worker pool; supply a scheduler to share one across brokers or to
// plug in different task infrastructure.
func WithScheduler(s Scheduler) Option {
	return func(b *Broker) {
		if s != nil {
			b.scheduler = s
		}
	}
}

// WithConcurrency bounds how many files upload at once within a field.
// Defaults to 8.
func WithConcurrency(n int) Option {
	return func(b *Broker) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// New creates a broker for the declared fields.
func New(opts ...Option) *Broker {
	b := &Broker{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.scheduler == nil {
		b.ownPool = NewPool(defaultPoolWorkers, WithPoolLogger(b.logger))
		b.scheduler = b.ownPool
	}
	return b
}

// NewSingle creates a broker for a single file field, the common case of one
// named input carrying up to count files.
func NewSingle(name string, count int, required bool, opts ...Option) *Broker {
	fieldOpts := []FieldOption{WithMaxCount(count)}
	if required {
		fieldOpts = append(fieldOpts, WithRequired())
	}
	return New(append(opts, WithField(NewField(name, fieldOpts...)))...)
}

// Close releases the broker-owned background pool, waiting for scheduled
// uploads to finish. No-op when a custom scheduler was supplied.
func (b *Broker) Close() {
	if b.ownPool != nil {
		b.ownPool.Close()
	}
}

// Handle parses the request body as a multipart form and uploads the
// declared fields. Parse failures, including part-limit violations, surface
// as a whole-report failure with no per-field results.
func (b *Broker) Handle(r *http.Request) *Report {
	if len(b.fields) == 0 {
		return failedReport(msgNoFiles)
	}

	maxMemory := pickInt64(0, b.config.MaxMemory, DefaultMaxMemory)
	maxFiles := pickInt64(0, b.config.MaxFiles, DefaultMaxFiles)
	maxFields := pickInt64(0, b.config.MaxFields, DefaultMaxFields)

	form, err := parseRequest(r, maxMemory, maxFiles, maxFields)
	if err != nil {
		b.logger.Error("failed to parse upload form", slog.String("error", err.Error()))
		return failedReport(err.Error())
	}

	return b.HandleForm(r.Context(), form)
}

// HandleForm uploads the declared fields from an already-parsed form.
// Fields are processed concurrently; one field's failure never aborts
// another field's processing.
func (b *Broker) HandleForm(ctx context.Context, form *Form) *Report {
	if len(b.fields) == 0 {
		return failedReport(msgNoFiles)
	}

	engine := b.globalEngine(ctx, form)

	outcomes := make([][]Result, len(b.fields))
	var g errgroup.Group
	for i, field := range b.fields {
		g.Go(func() error {
			outcomes[i] = b.handleField(ctx, form, field, engine)
			return nil
		})
	}
	_ = g.Wait()

	report := NewReport()
	for _, results := range outcomes {
		report.Fold(results)
	}
	return report.finalize()
}

// globalEngine instantiates the request-level engine that fields without
// their own engine inherit.
func (b *Broker) globalEngine(ctx context.Context, form *Form) Engine {
	switch {
	case b.config.EngineFactory != nil:
		return b.config.EngineFactory(ctx, form)
	case b.config.Engine != nil:
		return b.config.Engine
	default:
		return NewLocalEngine()
	}
}

// handleField processes one declared field: filter, cap, rename, upload.
func (b *Broker) handleField(ctx context.Context, form *Form, field Field, globalEngine Engine) (results []Result) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("field processing panicked",
				slog.String("field", field.Name), slog.Any("panic", r))
			results = []Result{failedResult(field.Name, "", fmt.Errorf("uploadkit: %v", r))}
		}
	}()

	cfg := resolveConfig(ctx, form, b.config, field, globalEngine)
	cfg.Scheduler = b.scheduler
	cfg.Logger = b.logger

	// Admission first, then the cardinality cap: a file rejected by a
	// filter never counts against MaxCount. Rejected files are silently
	// omitted, and excess files beyond the cap are silently dropped.
	files := admit(ctx, form, field.Name, cfg.Filters, form.Files(field.Name))
	if len(files) > field.maxCount() {
		files = files[:field.maxCount()]
	}

	if cfg.Rename != nil {
		renamed := make([]*File, len(files))
		for i, file := range files {
			renamed[i] = cfg.Rename.Rename(ctx, form, field.Name, file)
		}
		files = renamed
	}

	switch len(files) {
	case 0:
		if !field.Required {
			return nil
		}
		// A required field with nothing admitted yields exactly one
		// synthetic failure.
		return []Result{{
			FieldName: field.Name,
			Status:    false,
			Error:     msgNoFiles,
			Message:   msgNoFiles,
		}}
	case 1:
		return []Result{b.upload(ctx, form, field, cfg, files[0])}
	default:
		// Fan out one task per file and join. A single file's failure
		// is captured in its own Result and never aborts siblings.
		results := make([]Result, len(files))
		var g errgroup.Group
		g.SetLimit(b.concurrency)
		for i, file := range files {
			g.Go(func() error {
				results[i] = b.upload(ctx, form, field, cfg, file)
				return nil
			})
		}
		_ = g.Wait()
		return results
	}
}

// admit returns the files that pass every filter in the merged list.
func admit(ctx context.Context, form *Form, field string, filters []Filter, files []*File) []*File {
	if len(filters) == 0 {
		return files
	}
	admitted := make([]*File, 0, len(files))
	for _, file := range files {
		ok := true
		for _, filter := range filters {
			if !filter.Allow(ctx, form, field, file) {
				ok = false
				break
			}
		}
		if ok {
			admitted = append(admitted, file)
		}
	}
	return admitted
}

// upload runs one engine call, containing panics so a misbehaving engine
// cannot take down sibling uploads.
func (b *Broker) upload(ctx context.Context, form *Form, field Field, cfg EffectiveConfig, file *File) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("engine panicked",
				slog.String("field", field.Name),
				slog.String("filename", file.Filename),
				slog.Any("panic", r))
			res = failedResult(field.Name, file.Filename, fmt.Errorf("uploadkit: %v", r))
		}
	}()

	res = cfg.Engine.Upload(ctx, form, field, cfg, file)
	if !res.Status {
		logResult(b.logger, "upload failed", res)
	}
	return res
}
