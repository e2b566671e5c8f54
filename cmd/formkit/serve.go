package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/formkit/internal/config"
	"github.com/vango-dev/formkit/pkg/form"
	"github.com/vango-dev/formkit/pkg/middleware"
	"github.com/vango-dev/formkit/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		src  source
		addr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a form over HTTP and WebSocket",
		Long: `Serve a form to browsers.

Every WebSocket client on /ws gets its own form. POST /validate checks
a JSON object of values in one request. Metrics are served on /metrics
unless disabled in the config.

Examples:
  formkit serve --definition signup.yaml
  formkit serve --openapi api.yaml --schema Signup --addr :9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), &src, addr)
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from config)")

	return cmd
}

func runServe(ctx context.Context, src *source, addr string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, def, err := src.load(ctx)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	var (
		mws     []form.Middleware
		metrics *middleware.Metrics
	)
	if cfg.Metrics.Enabled {
		metrics = middleware.Prometheus(middleware.WithNamespace(cfg.Metrics.Namespace))
		mws = append(mws, metrics)
	}
	if cfg.Tracing.Enabled {
		mws = append(mws, middleware.OpenTelemetry(middleware.WithTracerName(cfg.Tracing.TracerName)))
	}

	// Fail before listening when the definition cannot be built.
	if _, _, err := build(cfg, def); err != nil {
		return err
	}

	srvCfg := &server.Config{
		Address:      cfg.Server.Addr,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		CheckOrigin:  checkOrigin(cfg),
	}
	if metrics != nil {
		srvCfg.Observer = metrics
	}

	srv := server.New(func(ctx context.Context, opts ...form.Option) (*form.Form, error) {
		opts = append([]form.Option{form.WithMiddleware(mws...)}, opts...)
		f, _, err := build(cfg, def, opts...)
		return f, err
	}, srvCfg)
	if cfg.Metrics.Enabled {
		srv.Mount(cfg.Metrics.Path, promhttp.Handler())
	}

	printBanner()
	fmt.Println("  serve")
	fmt.Println()
	name := def.Name
	if name == "" {
		name = "form"
	}
	success("Serving %s (%d fields) on %s", name, len(def.Fields), cfg.Server.Addr)
	info("WebSocket:  /ws")
	info("Validate:   POST /validate")
	if cfg.Metrics.Enabled {
		info("Metrics:    %s", cfg.Metrics.Path)
	} else {
		warn("Metrics disabled")
	}
	fmt.Println()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}

// checkOrigin allows the configured origins. Without any, the WebSocket
// default same-origin check applies.
func checkOrigin(cfg *config.Config) func(*http.Request) bool {
	allowed := cfg.Server.AllowedOrigins
	if len(allowed) == 0 {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}
