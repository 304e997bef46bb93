package uploadkit

import "context"

// Engine uploads one file on behalf of a field. Implementations read all of
// their settings from the resolved EffectiveConfig so that no engine-specific
// configuration parsing leaks into the broker.
//
// Upload must not panic or leak errors past its boundary: every internal
// failure is converted into a Result with Status false and Error set. The
// broker never inspects the concrete engine type.
type Engine interface {
	Upload(ctx context.Context, form *Form, field Field, cfg EffectiveConfig, file *File) Result
}

// EngineFactory constructs an engine for a single request. Use a factory at
// field level when the engine needs request state (for example a per-tenant
// destination); engines without per-request state should be constructed once
// and set as Config.Engine instead.
type EngineFactory func(ctx context.Context, form *Form) Engine
