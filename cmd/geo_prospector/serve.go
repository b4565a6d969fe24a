package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/geo-prospector/internal/server"
	"github.com/jonathan/geo-prospector/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start an HTTP server that exposes the prospecting job and the API key check.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config and $PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	port := a.cfg.Server.Port
	if servePort > 0 {
		port = servePort
	}
	if port > 65535 {
		return fmt.Errorf("invalid port %d", port)
	}

	srv := server.New(server.Config{
		Port:         port,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		JWTSecret:    a.cfg.Auth.JWTSecret,
		JWTIssuer:    a.cfg.Auth.Issuer,
		RateLimit:    ratelimit.LoadConfig(),
		Logger:       a.logger,
	}, a.orchestrator)

	return srv.Start(ctx)
}
