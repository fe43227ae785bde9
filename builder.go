package docAuth

import (
	"log/slog"
	"time"

	"github.com/doccare/docAuth/jwt"
	"github.com/doccare/docAuth/session"
)

// Builder assembles a [Manager]. A Builder can be built once.
type Builder struct {
	config  Config
	store   session.Store
	decoder TokenDecoder
	logger  *slog.Logger
	now     func() time.Time

	auditSink AuditSink

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStore sets the Session Store. Required.
func (b *Builder) WithStore(store session.Store) *Builder {
	b.store = store
	return b
}

// WithDecoder overrides the token decoder derived from Config.Token.
func (b *Builder) WithDecoder(d TokenDecoder) *Builder {
	b.decoder = d
	return b
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithClock sets the clock used for expiry comparisons. Defaults to time.Now.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// WithAuditSink sets the audit sink. Events flow only when Config.Audit.Enabled.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the rehydrate latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns a Manager. The session is
// empty until [Manager.Rehydrate] runs.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}
	if b.store == nil {
		return nil, ErrStoreRequired
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	decoder := b.decoder
	if decoder == nil {
		d, err := jwt.NewDecoder(jwt.Config{
			Verify:        cfg.Token.Verify,
			SigningMethod: jwt.SigningMethod(cfg.Token.SigningMethod),
			Key:           cloneBytes(cfg.Token.Key),
			Issuer:        cfg.Token.Issuer,
			Audience:      cfg.Token.Audience,
		})
		if err != nil {
			return nil, err
		}
		decoder = d
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}
	now := b.now
	if now == nil {
		now = time.Now
	}

	m := &Manager{
		config:  cfg,
		store:   b.store,
		decoder: decoder,
		logger:  logger.With("component", "session"),
		now:     now,
		audit:   newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics: NewMetrics(cfg.Metrics),
		ready:   make(chan struct{}),
	}
	m.flows = m.buildFlowDeps()

	b.built = true
	return m, nil
}
