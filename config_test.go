package uploadkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveConfig(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	form := NewForm(nil, nil)

	t.Run("defaults when everything is empty", func(t *testing.T) {
		t.Parallel()

		eff := resolveConfig(ctx, form, Config{}, NewField("f"), NewLocalEngine())

		require.Equal(t, int64(DefaultMaxFiles), eff.MaxFiles)
		require.Equal(t, int64(DefaultMaxFields), eff.MaxFields)
		require.Equal(t, int64(DefaultMaxMemory), eff.MaxMemory)
		require.False(t, eff.Background)
		require.Nil(t, eff.Rename)
		require.Empty(t, eff.Filters)
		require.Empty(t, eff.Destination)
	})

	t.Run("field scalar overrides global", func(t *testing.T) {
		t.Parallel()

		global := Config{Destination: "global-dir", Bucket: "global-bucket", Region: "us-east-1"}
		field := NewField("f", WithFieldConfig(Config{Destination: "field-dir", Bucket: "field-bucket"}))

		eff := resolveConfig(ctx, form, global, field, NewLocalEngine())

		require.Equal(t, "field-dir", eff.Destination)
		require.Equal(t, "field-bucket", eff.Bucket)
		// Missing field keys fall back to global.
		require.Equal(t, "us-east-1", eff.Region)
	})

	t.Run("filters concatenate field first then global", func(t *testing.T) {
		t.Parallel()

		fieldFilter := MaxSize(1)
		globalFilter := MinSize(1)

		global := Config{Filters: []Filter{globalFilter}}
		field := NewField("f", WithFieldConfig(Config{Filters: []Filter{fieldFilter}}))

		eff := resolveConfig(ctx, form, global, field, NewLocalEngine())

		require.Len(t, eff.Filters, 2)
	})

	t.Run("background pointer override", func(t *testing.T) {
		t.Parallel()

		global := Config{Background: Ptr(true)}

		eff := resolveConfig(ctx, form, global, NewField("inherits"), NewLocalEngine())
		require.True(t, eff.Background)

		field := NewField("overrides", WithFieldConfig(Config{Background: Ptr(false)}))
		eff = resolveConfig(ctx, form, global, field, NewLocalEngine())
		require.False(t, eff.Background)
	})

	t.Run("field engine factory builds per-request engine", func(t *testing.T) {
		t.Parallel()

		fieldEngine := NewMemoryEngine()
		field := NewField("f", WithFieldConfig(Config{
			EngineFactory: func(ctx context.Context, form *Form) Engine {
				return fieldEngine
			},
		}))

		globalEngine := NewLocalEngine()
		eff := resolveConfig(ctx, form, Config{}, field, globalEngine)

		require.Same(t, fieldEngine, eff.Engine)
	})

	t.Run("field inherits request-level global engine", func(t *testing.T) {
		t.Parallel()

		globalEngine := NewMemoryEngine()
		eff := resolveConfig(ctx, form, Config{}, NewField("f"), globalEngine)

		require.Same(t, globalEngine, eff.Engine)
	})

	t.Run("field static destination not shadowed by global hook", func(t *testing.T) {
		t.Parallel()

		global := Config{
			DestinationFunc: DestinationFunc(func(context.Context, *Form, string, *File) string {
				return "from-global-hook"
			}),
		}
		field := NewField("f", WithFieldConfig(Config{Destination: "field-dir"}))

		eff := resolveConfig(ctx, form, global, field, NewLocalEngine())

		require.Equal(t, "field-dir", eff.Destination)
		require.Nil(t, eff.DestinationFunc)
	})

	t.Run("extra args merge with field winning per key", func(t *testing.T) {
		t.Parallel()

		global := Config{ExtraArgs: map[string]string{"acl": "private", "cache-control": "no-store"}}
		field := NewField("f", WithFieldConfig(Config{ExtraArgs: map[string]string{"acl": "public-read"}}))

		eff := resolveConfig(ctx, form, global, field, NewLocalEngine())

		require.Equal(t, "public-read", eff.ExtraArgs["acl"])
		require.Equal(t, "no-store", eff.ExtraArgs["cache-control"])
	})

	t.Run("resolution does not mutate inputs", func(t *testing.T) {
		t.Parallel()

		global := Config{Filters: []Filter{MaxSize(1)}, ExtraArgs: map[string]string{"acl": "private"}}
		field := NewField("f", WithFieldConfig(Config{Filters: []Filter{MinSize(1)}}))

		_ = resolveConfig(ctx, form, global, field, NewLocalEngine())

		require.Len(t, global.Filters, 1)
		require.Len(t, field.Config.Filters, 1)
		require.Equal(t, map[string]string{"acl": "private"}, global.ExtraArgs)
	})
}

func TestField(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		f := NewField("book")
		require.Equal(t, "book", f.Name)
		require.Equal(t, 1, f.maxCount())
		require.False(t, f.Required)
		require.Nil(t, f.Config)
	})

	t.Run("options", func(t *testing.T) {
		t.Parallel()

		f := NewField("covers",
			WithMaxCount(3),
			WithRequired(),
			WithFieldConfig(Config{Destination: "covers"}),
		)
		require.Equal(t, 3, f.MaxCount)
		require.True(t, f.Required)
		require.Equal(t, "covers", f.Config.Destination)
	})

	t.Run("non-positive max count ignored", func(t *testing.T) {
		t.Parallel()

		f := NewField("x", WithMaxCount(0))
		require.Equal(t, 1, f.maxCount())
	})
}
