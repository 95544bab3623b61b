package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/marcosfrias28/brymar-sub012/internal/logging"
	httpadapter "github.com/marcosfrias28/brymar-sub012/pkg/adapters/http"
	"github.com/marcosfrias28/brymar-sub012/pkg/analytics"
	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
	"github.com/marcosfrias28/brymar-sub012/pkg/draft"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the draft and analytics HTTP server",
	Long: `Exposes the server tier over HTTP: draft CRUD per wizard kind,
analytics ingest, /metrics and /healthz.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		sinkURL, _ := cmd.Flags().GetString("sink")
		logger := newLogger(cmd)

		managers := draft.NewManagers()
		store := serverStore(cmd)
		for _, kind := range domain.Kinds() {
			if err := managers.Register(kind, store); err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
		}

		registry := prometheus.NewRegistry()
		metrics := analytics.NewMetrics(registry)

		opts := []httpadapter.Option{
			httpadapter.WithLogger(logging.ForComponent(logger, "http")),
			httpadapter.WithMetricsRegistry(registry),
			httpadapter.WithMetrics(metrics),
		}
		if sinkURL != "" {
			opts = append(opts, httpadapter.WithSink(analytics.NewHTTPSink(sinkURL, nil)))
		}

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: httpadapter.NewHandler(managers, opts...),
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("Starting wizard server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nShutting down... Signal: %v\n", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				_ = srv.Close()
				fmt.Printf("Forced shutdown: %v\n", err)
				os.Exit(1)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("sink", "", "Forward ingested analytics events to this URL")
}
