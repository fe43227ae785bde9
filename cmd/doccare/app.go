package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	docAuth "github.com/doccare/docAuth"
	"github.com/doccare/docAuth/api"
	"github.com/doccare/docAuth/internal/logging"
	"github.com/doccare/docAuth/portal"
)

// app is everything one invocation needs after the session has rehydrated.
type app struct {
	cfg     config
	logger  *slog.Logger
	manager *docAuth.Manager
	portal  *portal.Portal
	routes  *docAuth.RouteTable
	backend *backend
}

func newApp(ctx context.Context, cfg config, stderr io.Writer, now func() time.Time) (*app, error) {
	logger := logging.New(stderr, cfg.LogLevel)

	b, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	client, err := api.New(cfg.APIBase, api.WithTimeout(cfg.Timeout), api.WithLogger(logger.With("component", "api")))
	if err != nil {
		_ = b.close()
		return nil, err
	}

	dcfg := docAuth.DefaultConfig()
	dcfg.Metrics.Enabled = true
	dcfg.Metrics.EnableLatencyHistograms = true
	dcfg.Audit.Enabled = cfg.Audit
	if cfg.JWTSecret != "" {
		dcfg.Token.Verify = true
		dcfg.Token.SigningMethod = "hs256"
		dcfg.Token.Key = []byte(cfg.JWTSecret)
	}

	builder := docAuth.New().
		WithConfig(dcfg).
		WithStore(b.store).
		WithLogger(logger).
		WithClock(now)
	if cfg.Audit {
		builder = builder.WithAuditSink(docAuth.NewJSONWriterSink(stderr))
	}
	manager, err := builder.Build()
	if err != nil {
		_ = b.close()
		return nil, err
	}
	for _, w := range dcfg.Lint() {
		logger.Debug("config lint", "code", w.Code, "severity", w.Severity.String(), "message", w.Message)
	}
	manager.Rehydrate(ctx)

	return &app{
		cfg:     cfg,
		logger:  logger,
		manager: manager,
		portal: portal.New(manager, client,
			portal.WithThrottle(b.throttle),
			portal.WithLogger(logger.With("component", "portal")),
			portal.WithClock(now),
		),
		routes:  docAuth.DefaultRoutes(),
		backend: b,
	}, nil
}

func (a *app) close() error {
	if a == nil {
		return nil
	}
	a.manager.Close()
	return a.backend.close()
}

// redirectError is a navigation the route guard refused.
type redirectError struct {
	decision docAuth.Decision
}

func (e *redirectError) Error() string {
	return "redirect: " + e.decision.RedirectTo + " (" + e.decision.Reason.String() + ")"
}

// admit runs the guard for route and turns a redirect into an error.
func (a *app) admit(route string) error {
	if route == "" {
		return nil
	}
	d := a.manager.AdmitPath(a.routes, route)
	if d.Admit {
		return nil
	}
	a.logger.Info("navigation redirected", "route", route, "to", d.RedirectTo, "reason", d.Reason.String())
	return &redirectError{decision: d}
}

const (
	exitOK       = 0
	exitError    = 1
	exitRedirect = 2
)

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var re *redirectError
	if errors.As(err, &re) {
		return exitRedirect
	}
	return exitError
}
