package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/skosovsky/toolguard/internal/config"
	"github.com/skosovsky/toolguard/internal/logging"
	"github.com/skosovsky/toolguard/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web form and JSON API",
		Long: `Serve the validation form on / and the JSON API on /validate, /validate/batch and /schema.
Settings come from TOOLGUARD_* environment variables; flags override them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr, _ = cmd.Flags().GetString("addr")
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			level, err := cfg.Level()
			if err != nil {
				return err
			}
			logger := logging.New(level)

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			handler, err := server.NewHandler(server.Options{
				Logger:         logger,
				MaxBodyBytes:   cfg.MaxBodyBytes,
				MaxConcurrency: cfg.MaxConcurrency,
				Registry:       reg,
			})
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, srv, cfg.ShutdownTimeout, logger)
		},
	}
	cmd.Flags().String("addr", ":8080", "Listen address (overrides TOOLGUARD_ADDR)")
	cmd.Flags().String("log-level", "info", "Log level: debug, info, warn, error (overrides TOOLGUARD_LOG_LEVEL)")
	return cmd
}
