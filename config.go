package uploadkit

import (
	"context"
	"log/slog"
)

// Built-in configuration defaults.
const (
	DefaultMaxFiles  = 1000
	DefaultMaxFields = 1000
	DefaultMaxMemory = 32 << 20 // memory budget for multipart parsing
)

// Config holds upload settings. A Config set on the broker applies to every
// field; a Config set on a Field overrides the global one key by key, except
// Filters which always concatenate (global filters apply in addition to
// field-specific ones, never replaced by them).
//
// The zero value is usable: files land in the working directory through the
// local engine with no filters and the identity rename.
type Config struct {
	// Destination is a static directory (local engine) or key prefix
	// (remote engine). Ignored when DestinationFunc is set.
	Destination string

	// DestinationFunc computes the path or object key per file.
	DestinationFunc DestinationResolver

	// Filters are admission predicates; a file must pass all of them.
	Filters []Filter

	// Rename rewrites file identity before upload. Defaults to identity.
	Rename Renamer

	// Background detaches uploads from the request when true. Use Ptr(true)
	// at field level to override a global false and vice versa; nil inherits.
	Background *bool

	// Engine handles uploads for this scope. Defaults to the local engine.
	Engine Engine

	// EngineFactory constructs the engine per request. Takes precedence
	// over Engine when set.
	EngineFactory EngineFactory

	// MaxFiles caps the total number of files accepted in one form.
	// Defaults to 1000. Only meaningful on the global config.
	MaxFiles int64

	// MaxFields caps the total number of form parts. Defaults to 1000.
	// Only meaningful on the global config.
	MaxFields int64

	// MaxMemory is the multipart parse memory budget in bytes; larger
	// parts spill to temporary files. Defaults to 32MB.
	MaxMemory int64

	// Bucket and Region identify the target for remote-object engines.
	Bucket string
	Region string

	// ExtraArgs carries free-form backend-specific options, merged key by
	// key with field-level entries winning.
	ExtraArgs map[string]string
}

// EffectiveConfig is the fully merged configuration one field is processed
// with. It is built fresh per request because destination hooks and
// per-request engines depend on request state, and must not be retained
// across requests.
type EffectiveConfig struct {
	Destination     string
	DestinationFunc DestinationResolver
	Filters         []Filter
	Rename          Renamer
	Background      bool
	Engine          Engine
	MaxFiles        int64
	MaxFields       int64
	MaxMemory       int64
	Bucket          string
	Region          string
	ExtraArgs       map[string]string

	// Scheduler and Logger are attached by the broker so engines can run
	// background work and report failures without framework plumbing.
	Scheduler Scheduler
	Logger    *slog.Logger
}

// Ptr returns a pointer to v. Handy for optional override fields such as
// Config.Background.
func Ptr[T any](v T) *T {
	return &v
}

// ResolveDestination applies the destination hook when present, falling back
// to the static destination. Shared by all engines so destination semantics
// stay uniform.
func (c EffectiveConfig) ResolveDestination(ctx context.Context, form *Form, field string, file *File) string {
	if c.DestinationFunc != nil {
		return c.DestinationFunc.Resolve(ctx, form, field, file)
	}
	return c.Destination
}

// resolveConfig merges the global config with a field's overrides into the
// effective configuration for this request. Resolution is total: missing
// keys fall back to global values and then to built-in defaults.
//
// globalEngine is the engine already instantiated for this request; a field
// with its own EngineFactory gets a fresh per-request engine instead.
func resolveConfig(ctx context.Context, form *Form, global Config, field Field, globalEngine Engine) EffectiveConfig {
	local := Config{}
	if field.Config != nil {
		local = *field.Config
	}

	eff := EffectiveConfig{
		MaxFiles:  pickInt64(local.MaxFiles, global.MaxFiles, DefaultMaxFiles),
		MaxFields: pickInt64(local.MaxFields, global.MaxFields, DefaultMaxFields),
		MaxMemory: pickInt64(local.MaxMemory, global.MaxMemory, DefaultMaxMemory),
		Bucket:    pickString(local.Bucket, global.Bucket),
		Region:    pickString(local.Region, global.Region),
	}

	// Destination is taken as a unit so a field-level static path is not
	// shadowed by a global destination hook.
	if local.DestinationFunc != nil || local.Destination != "" {
		eff.Destination = local.Destination
		eff.DestinationFunc = local.DestinationFunc
	} else {
		eff.Destination = global.Destination
		eff.DestinationFunc = global.DestinationFunc
	}

	// Field-level filters run first, then global ones. All must pass, so
	// the order only matters for deterministic diagnostics.
	eff.Filters = make([]Filter, 0, len(local.Filters)+len(global.Filters))
	eff.Filters = append(eff.Filters, local.Filters...)
	eff.Filters = append(eff.Filters, global.Filters...)

	eff.Rename = global.Rename
	if local.Rename != nil {
		eff.Rename = local.Rename
	}

	eff.Background = false
	if global.Background != nil {
		eff.Background = *global.Background
	}
	if local.Background != nil {
		eff.Background = *local.Background
	}

	if len(global.ExtraArgs) > 0 || len(local.ExtraArgs) > 0 {
		eff.ExtraArgs = make(map[string]string, len(global.ExtraArgs)+len(local.ExtraArgs))
		for k, v := range global.ExtraArgs {
			eff.ExtraArgs[k] = v
		}
		for k, v := range local.ExtraArgs {
			eff.ExtraArgs[k] = v
		}
	}

	switch {
	case local.EngineFactory != nil:
		eff.Engine = local.EngineFactory(ctx, form)
	case local.Engine != nil:
		eff.Engine = local.Engine
	default:
		eff.Engine = globalEngine
	}

	return eff
}

func pickInt64(local, global, fallback int64) int64 {
	if local > 0 {
		return local
	}
	if global > 0 {
		return global
	}
	return fallback
}

func pickString(local, global string) string {
	if local != "" {
		return local
	}
	return global
}
