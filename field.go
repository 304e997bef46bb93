package uploadkit

// Field declares a named form field the broker expects files on. Fields are
// constructed at application setup, are immutable afterwards, and are shared
// read-only across concurrent requests.
type Field struct {
	// Name is the form field name. Must be unique per broker.
	Name string

	// MaxCount caps how many files are accepted for this field; excess
	// submissions are silently dropped. Defaults to 1.
	MaxCount int

	// Required makes the field fail with a synthetic outcome when zero
	// files are admitted.
	Required bool

	// Config overrides the broker's global configuration for this field.
	Config *Config
}

// FieldOption configures a Field.
type FieldOption func(*Field)

// WithMaxCount sets the file cap for the field.
func WithMaxCount(n int) FieldOption {
	return func(f *Field) {
		if n > 0 {
			f.MaxCount = n
		}
	}
}

// WithRequired marks the field as required.
func WithRequired() FieldOption {
	return func(f *Field) {
		f.Required = true
	}
}

// WithFieldConfig sets the field-level configuration overrides.
func WithFieldConfig(cfg Config) FieldOption {
	return func(f *Field) {
		f.Config = &cfg
	}
}

// NewField creates a field descriptor. Without options the field accepts a
// single optional file with the broker's global configuration.
func NewField(name string, opts ...FieldOption) Field {
	f := Field{
		Name:     name,
		MaxCount: 1,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// maxCount normalizes the cap, defaulting to 1.
func (f Field) maxCount() int {
	if f.MaxCount > 0 {
		return f.MaxCount
	}
	return 1
}
