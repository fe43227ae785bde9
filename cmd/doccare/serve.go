package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	clientprom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"golang.org/x/sync/errgroup"

	"github.com/doccare/docAuth/api"
	"github.com/doccare/docAuth/directory"
	"github.com/doccare/docAuth/metrics/export/otel"
	"github.com/doccare/docAuth/metrics/export/prometheus"
	"github.com/doccare/docAuth/middleware"
	"github.com/doccare/docAuth/portal"
)

func (c *cli) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the guarded DocCare views and /metrics over HTTP",
		Long: `serve exposes the navigation layer over HTTP on the current session.
Protected views redirect exactly as the CLI commands do; /metrics serves the
session counters for Prometheus.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			handler, err := newHandler(c.app)
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 5 * time.Second,
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				c.app.logger.Info("serving", "addr", addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	return cmd
}

// newHandler serves the guarded views plus the session metrics, as Prometheus
// text on /metrics and as OTel points on /metrics/otel.
func newHandler(a *app) (http.Handler, error) {
	reg := clientprom.NewRegistry()
	reg.MustRegister(prometheus.NewExporter(a.manager))

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	if _, err := otel.NewExporter(provider.Meter("github.com/doccare/docAuth"), a.manager); err != nil {
		return nil, err
	}

	pages := http.NewServeMux()
	pages.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		identity, ok := a.manager.Identity()
		if !ok {
			writeJSON(w, http.StatusOK, map[string]any{"signedIn": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"signedIn": true, "profile": identity.Profile})
	})
	pages.HandleFunc("GET /auth", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"message": "sign in with: doccare login --email <email> --password <password>"})
	})
	pages.HandleFunc("GET /doctors", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		specialty := q.Get("specialty")
		if specialty == "" {
			specialty = directory.AllSpecialties
		}
		writeJSON(w, http.StatusOK, directory.Filter(directory.Catalog(), q.Get("search"), specialty))
	})
	pages.HandleFunc("GET /my-appointments", func(w http.ResponseWriter, r *http.Request) {
		appts, err := a.portal.MyAppointments(r.Context())
		respond(w, appts, err)
	})
	pages.HandleFunc("GET /admin", func(w http.ResponseWriter, r *http.Request) {
		s, err := a.portal.Dashboard(r.Context())
		respond(w, s, err)
	})
	pages.HandleFunc("GET /admin/users", func(w http.ResponseWriter, r *http.Request) {
		users, err := a.portal.Users(r.Context())
		respond(w, users, err)
	})
	pages.HandleFunc("GET /admin/appointments", func(w http.ResponseWriter, r *http.Request) {
		appts, err := a.portal.AllAppointments(r.Context())
		respond(w, appts, err)
	})

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /metrics/otel", func(w http.ResponseWriter, r *http.Request) {
		points, err := otel.Collect(r.Context(), reader)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, points)
	})
	mux.Handle("/", middleware.Routes(a.manager, a.routes)(pages))
	return mux, nil
}

func respond(w http.ResponseWriter, v any, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, v)
		return
	}
	status := http.StatusBadGateway
	if errors.Is(err, portal.ErrNotLoggedIn) || api.IsUnauthorized(err) {
		status = http.StatusUnauthorized
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
