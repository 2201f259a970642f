package event

// EmitterOption configures an Emitter.
type EmitterOption func(*Emitter)

// WithLogger sets the logger. Pass NewSlogLogger(...) to log through slog.
func WithLogger(l logger) EmitterOption {
	return func(e *Emitter) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithConfig applies the emitter settings of cfg. Bindings are not
// registered; use NewConfigProvider for that.
func WithConfig(cfg Config) EmitterOption {
	return func(e *Emitter) {
		e.defaultPriority = cfg.DefaultPriority
		if cfg.ErrorPolicy.valid() {
			e.errorPolicy = cfg.ErrorPolicy
		}
		e.recoverPanics = cfg.RecoverPanics
	}
}

func WithErrorPolicy(p ErrorPolicy) EmitterOption {
	return func(e *Emitter) {
		if p.valid() {
			e.errorPolicy = p
		}
	}
}

func WithDefaultPriority(p Priority) EmitterOption {
	return func(e *Emitter) {
		e.defaultPriority = p
	}
}

// WithPanicRecovery controls whether listener panics are recovered. When
// disabled a panicking listener unwinds through Emit.
func WithPanicRecovery(enabled bool) EmitterOption {
	return func(e *Emitter) {
		e.recoverPanics = enabled
	}
}
