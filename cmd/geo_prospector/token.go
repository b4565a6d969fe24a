package main

import (
	"fmt"
	"time"

	"github.com/jonathan/geo-prospector/internal/config"
	"github.com/jonathan/geo-prospector/internal/server"
	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the HTTP server",
	Long:  `Signs an HS256 token with the configured auth.jwt_secret. Requires JWT_SECRET or a config file that sets it.`,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "Token subject (required)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if !cfg.Auth.Enabled() {
		return fmt.Errorf("JWT_SECRET is not configured")
	}

	token, err := server.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer).GenerateToken(tokenSubject, tokenTTL)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
