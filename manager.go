package docAuth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/doccare/docAuth/internal/flows"
	"github.com/doccare/docAuth/jwt"
	"github.com/doccare/docAuth/session"
)

// TokenDecoder decodes a bearer token into its claim set. [*jwt.Decoder]
// satisfies it.
type TokenDecoder interface {
	Decode(token string) (*jwt.Claims, error)
}

// Manager is the single source of truth for who is signed in. It keeps the
// in-memory Identity and the Session Store in step: Login and Logout update
// both under one lock, so no reader observes one without the other.
//
// Manager methods are safe for concurrent use after [Builder.Build].
type Manager struct {
	config  Config
	store   session.Store
	decoder TokenDecoder
	logger  *slog.Logger
	now     func() time.Time
	audit   *auditDispatcher
	metrics *Metrics
	flows   flows.Deps

	mu       sync.RWMutex
	identity *Identity

	rehydrateOnce sync.Once
	ready         chan struct{}
	outcome       RehydrateOutcome
}

// Rehydrate restores a persisted session. It runs once; later calls return the
// first outcome. Any persisted session that cannot be restored is removed from
// the store. Rehydrate closes the readiness gate when it finishes.
func (m *Manager) Rehydrate(ctx context.Context) RehydrateOutcome {
	m.rehydrateOnce.Do(func() {
		defer close(m.ready)
		start := time.Now()

		m.mu.Lock()
		res := flows.RunRehydrate(ctx, m.flows.Rehydrate)
		m.outcome = rehydrateOutcome(res.Kind)
		if res.Kind == flows.RehydrateKindRestored {
			m.identity = &Identity{
				Profile:   res.Profile,
				Token:     res.Token,
				ExpiresAt: res.Claims.Expiry(),
			}
		}
		m.mu.Unlock()

		m.metrics.Observe(MetricRehydrateLatency, time.Since(start))
		m.logger.Info("session rehydrated", "outcome", m.outcome.String(), "reason", res.Reason)
	})
	return m.outcome
}

func rehydrateOutcome(kind flows.RehydrateKind) RehydrateOutcome {
	switch kind {
	case flows.RehydrateKindRestored:
		return RehydrateRestored
	case flows.RehydrateKindExpired:
		return RehydrateExpired
	case flows.RehydrateKindInvalid:
		return RehydrateInvalid
	default:
		return RehydrateEmpty
	}
}

// Ready is closed once Rehydrate has completed.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

// Wait blocks until Rehydrate has completed or ctx ends.
func (m *Manager) Wait(ctx context.Context) error {
	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrManagerNotReady, ctx.Err())
	}
}

// Login installs profile and token as the current session and persists both.
//
// A blank token yields ErrTokenMissing, an incomplete profile ErrProfileInvalid
// and an undecodable token ErrTokenMalformed; none of them change any state.
// When the store write fails the session ends logged out in memory and in the
// store, and the error wraps ErrSessionPersistFailed. Token expiry is not
// checked here.
func (m *Manager) Login(ctx context.Context, profile Profile, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, err := flows.RunLogin(ctx, profile, token, m.flows.Login)
	if err != nil {
		if errors.Is(err, ErrSessionPersistFailed) {
			m.identity = nil
		}
		return err
	}

	m.identity = &Identity{
		Profile:   res.Profile,
		Token:     res.Token,
		ExpiresAt: res.Claims.Expiry(),
	}
	m.logger.Info("signed in", "email", res.Profile.Email, "admin", res.Profile.IsAdmin)
	return nil
}

// Logout clears the session in memory and in the store. It is idempotent;
// store errors are logged and absorbed.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subject := ""
	if m.identity != nil {
		subject = m.identity.Email
	}
	m.identity = nil

	err := flows.RunLogout(ctx, m.flows.Logout)
	if err != nil {
		m.logger.Warn("logout: clearing session store failed", "error", err)
	}

	m.metrics.Inc(MetricLogout)
	m.emitAudit(ctx, auditEventLogout, err == nil, subject, err, nil)
}

// Identity returns a copy of the current identity.
func (m *Manager) Identity() (Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.identity == nil {
		return Identity{}, false
	}
	return *m.identity, true
}

// BearerToken returns the current token for authenticated API calls. It
// reports ErrTokenMissing when no one is signed in and ErrTokenExpired when
// the token's exp has passed since it was installed.
func (m *Manager) BearerToken() (string, error) {
	identity, ok := m.Identity()
	if !ok {
		return "", ErrTokenMissing
	}
	if identity.Expired(m.now().Add(-m.config.Token.Leeway)) {
		return "", ErrTokenExpired
	}
	return identity.Token, nil
}

// Admit evaluates the route guard against the identity current at call time.
func (m *Manager) Admit(level AccessLevel) Decision {
	var snapshot *Identity
	if identity, ok := m.Identity(); ok {
		snapshot = &identity
	}

	d := Decide(snapshot, level)
	switch {
	case d.Admit:
		m.metrics.Inc(MetricGuardAdmit)
	case d.RedirectTo == RouteLogin:
		m.metrics.Inc(MetricGuardRedirectLogin)
	default:
		m.metrics.Inc(MetricGuardRedirectHome)
	}
	return d
}

// AdmitPath looks up path in routes and evaluates the guard for its level.
func (m *Manager) AdmitPath(routes *RouteTable, path string) Decision {
	return m.Admit(routes.Level(path))
}

// MetricsSnapshot copies the manager's counters.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	if m == nil || m.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return m.metrics.Snapshot()
}

// AuditDropped returns how many audit events were dropped on a full buffer.
func (m *Manager) AuditDropped() uint64 {
	if m == nil || m.audit == nil {
		return 0
	}
	return m.audit.Dropped()
}

// Close flushes and stops the audit dispatcher. The session is left intact.
func (m *Manager) Close() {
	if m == nil {
		return
	}
	m.audit.Close()
}

func (m *Manager) metricInc(id int) {
	m.metrics.Inc(MetricID(id))
}

func (m *Manager) flowAudit(ctx context.Context, event string, success bool, subject string, err error, metadata func() map[string]string) {
	m.emitAudit(ctx, event, success, subject, err, metadata)
}

func (m *Manager) buildFlowDeps() flows.Deps {
	keys := flows.Keys{
		Profile: m.config.Session.profileKey(),
		Token:   m.config.Session.tokenKey(),
	}
	return flows.Deps{
		Rehydrate: flows.RehydrateDeps{
			Store:     m.store,
			Keys:      keys,
			Decode:    m.decoder.Decode,
			Now:       m.now,
			Leeway:    m.config.Token.Leeway,
			MetricInc: m.metricInc,
			EmitAudit: m.flowAudit,
			Info:      m.logger.Info,
			Debug:     m.logger.Debug,
			Metrics: flows.RehydrateMetrics{
				Restored: int(MetricRehydrateRestored),
				Empty:    int(MetricRehydrateEmpty),
				Expired:  int(MetricRehydrateExpired),
				Invalid:  int(MetricRehydrateInvalid),
			},
			Event:   auditEventRehydrate,
			Expired: ErrTokenExpired,
		},
		Login: flows.LoginDeps{
			Store:     m.store,
			Keys:      keys,
			Decode:    m.decoder.Decode,
			MetricInc: m.metricInc,
			EmitAudit: m.flowAudit,
			Error:     m.logger.Error,
			Warn:      m.logger.Warn,
			Metrics: flows.LoginMetrics{
				LoginSuccess:  int(MetricLoginSuccess),
				LoginRejected: int(MetricLoginRejected),
				PersistFailed: int(MetricLoginPersistFailed),
			},
			Events: flows.LoginEvents{
				Login:         auditEventLogin,
				LoginRejected: auditEventLoginRejected,
			},
			Errors: flows.LoginErrors{
				ManagerNotReady: ErrManagerNotReady,
				TokenMissing:    ErrTokenMissing,
				TokenMalformed:  ErrTokenMalformed,
				ProfileInvalid:  ErrProfileInvalid,
				PersistFailed:   ErrSessionPersistFailed,
			},
		},
		Logout: flows.LogoutDeps{
			Store: m.store,
			Keys:  keys,
		},
	}
}
