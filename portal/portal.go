package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	docAuth "github.com/doccare/docAuth"
	"github.com/doccare/docAuth/api"
	"github.com/doccare/docAuth/appointment"
	"github.com/doccare/docAuth/internal/rate"
)

var (
	// ErrMissingFields is returned when a required form field is blank.
	ErrMissingFields = errors.New("please fill all fields")
	// ErrInvalidEmail is returned when an email does not look like one.
	ErrInvalidEmail = errors.New("please enter a valid email")
	// ErrNotLoggedIn is returned by flows that need a bearer token.
	ErrNotLoggedIn = errors.New("you are not logged in")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Session is the part of [docAuth.Manager] the flows drive.
type Session interface {
	Login(ctx context.Context, profile docAuth.Profile, token string) error
	Logout(ctx context.Context)
	BearerToken() (string, error)
}

// Backend is the part of [api.Client] the flows call.
type Backend interface {
	Login(ctx context.Context, email, password string) (*api.AuthResult, error)
	Signup(ctx context.Context, name, email, password string) (*api.AuthResult, error)
	CreateAppointment(ctx context.Context, token string, a appointment.Appointment) (string, error)
	ListAppointments(ctx context.Context, token string) ([]appointment.Appointment, error)
	UpdateAppointment(ctx context.Context, token string, a appointment.Appointment) error
	DeleteAppointment(ctx context.Context, token, id string) error
	AdminUsers(ctx context.Context, token string) ([]api.User, error)
	AdminAppointments(ctx context.Context, token string) ([]appointment.Appointment, error)
}

// Throttle limits credential submissions per email.
type Throttle interface {
	Allow(ctx context.Context, key string) error
}

type resetter interface {
	Reset(ctx context.Context, key string) error
}

// Portal runs the user flows.
type Portal struct {
	session  Session
	backend  Backend
	throttle Throttle
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Portal.
type Option func(*Portal)

// WithThrottle limits login and signup submissions.
func WithThrottle(t Throttle) Option {
	return func(p *Portal) { p.throttle = t }
}

// WithLogger sets the flow logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Portal) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock sets the clock used for booking validation and the dashboard.
func WithClock(now func() time.Time) Option {
	return func(p *Portal) {
		if now != nil {
			p.now = now
		}
	}
}

// New returns a Portal driving session through backend.
func New(session Session, backend Backend, opts ...Option) *Portal {
	p := &Portal{
		session: session,
		backend: backend,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Portal) allow(ctx context.Context, email string) error {
	if p.throttle == nil {
		return nil
	}
	err := p.throttle.Allow(ctx, email)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, rate.ErrRateLimited):
		p.logger.WarnContext(ctx, "login throttled")
		return docAuth.ErrLoginRateLimited
	default:
		// Counter backend down: submit anyway, the server has its own limits.
		p.logger.WarnContext(ctx, "login throttle unavailable", "error", err)
		return nil
	}
}

func (p *Portal) resetThrottle(ctx context.Context, email string) {
	r, ok := p.throttle.(resetter)
	if !ok {
		return
	}
	if err := r.Reset(ctx, email); err != nil {
		p.logger.DebugContext(ctx, "login throttle reset failed", "error", err)
	}
}

func (p *Portal) token() (string, error) {
	token, err := p.session.BearerToken()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotLoggedIn, err)
	}
	return token, nil
}

// Login signs in with email and password and returns the admin route for
// administrators and the home route for everyone else.
func (p *Portal) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return "", ErrInvalidEmail
	}
	if err := p.allow(ctx, email); err != nil {
		return "", err
	}

	res, err := p.backend.Login(ctx, email, password)
	if err != nil {
		return "", err
	}
	if err := p.session.Login(ctx, res.Profile, res.Token); err != nil {
		return "", err
	}
	p.resetThrottle(ctx, email)

	if res.Profile.IsAdmin {
		return docAuth.RouteAdmin, nil
	}
	return docAuth.RouteHome, nil
}

// Signup registers an account, signs in, and returns the home route.
func (p *Portal) Signup(ctx context.Context, name, email, password string) (string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return "", ErrMissingFields
	}
	if err := p.allow(ctx, email); err != nil {
		return "", err
	}

	res, err := p.backend.Signup(ctx, name, email, password)
	if err != nil {
		return "", err
	}
	if err := p.session.Login(ctx, res.Profile, res.Token); err != nil {
		return "", err
	}
	return docAuth.RouteHome, nil
}

// Logout ends the session and returns the home route.
func (p *Portal) Logout(ctx context.Context) string {
	p.session.Logout(ctx)
	return docAuth.RouteHome
}
