package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theopenlane/secdash/config"
	"github.com/theopenlane/secdash/internal/api"
	"github.com/theopenlane/secdash/internal/certificate"
	"github.com/theopenlane/secdash/internal/dnsrecords"
	"github.com/theopenlane/secdash/internal/headers"
	"github.com/theopenlane/secdash/internal/slack"
)

// serveCmd is the cobra command that starts the dashboard server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the security dashboard server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

// init registers the serve command and its flags on the root command
func init() {
	rootCmd.AddCommand(serveCmd)
}

// serve builds the checkers and runs the HTTP server until ctx is cancelled
func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	inspector, err := setupInspector(cfg)
	if err != nil {
		return fmt.Errorf("setting up certificate inspector: %w", err)
	}

	handler := api.NewRouter(api.RouterConfig{
		Inspector:      inspector,
		Resolver:       setupResolver(cfg),
		Auditor:        headers.New(headers.WithTimeout(cfg.Checks.Timeout)),
		Notifier:       setupSlack(cfg),
		MaxBodySize:    cfg.Server.MaxBodySize,
		CheckTimeout:   cfg.Checks.Timeout,
		DetailedErrors: cfg.Server.DetailedErrors,
		AlertDays:      cfg.Checks.SSL.AlertDays,
		RateLimit:      cfg.Server.RateLimit,
		RateBurst:      cfg.Server.RateBurst,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()

		log.Info().Dur("grace_period", cfg.Server.ShutdownGracePeriod).Msg("shutting down gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGracePeriod)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
	}()

	log.Info().Str("listen", cfg.Server.Listen).Bool("detailed_errors", cfg.Server.DetailedErrors).Msg("starting security dashboard")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}

// loadConfig reads the config file named by the --config flag and applies the logging flags
func loadConfig() (*config.Config, error) {
	cfgPath := k.String("config")

	cfg, err := config.Load(&cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg.Server.Debug = k.Bool("debug")
	cfg.Server.Pretty = k.Bool("pretty")

	return cfg, nil
}

// setupInspector builds the certificate inspector from config
func setupInspector(cfg *config.Config) (*certificate.Inspector, error) {
	return certificate.New(
		certificate.WithPort(cfg.Checks.SSL.Port),
		certificate.WithTimeout(cfg.Checks.Timeout),
		certificate.WithStrict(cfg.Checks.SSL.Strict),
	)
}

// setupResolver builds the DNS resolver, falling back to the system nameserver
func setupResolver(cfg *config.Config) *dnsrecords.Resolver {
	server := cfg.Checks.DNS.Server
	if server == "" {
		server = dnsrecords.DefaultServer()
	}

	log.Info().Str("server", server).Msg("dns resolver configured")

	return dnsrecords.New(
		dnsrecords.WithServer(server),
		dnsrecords.WithTimeout(cfg.Checks.Timeout),
	)
}

// setupSlack initializes the Slack webhook client from config, returning nil when unconfigured
func setupSlack(cfg *config.Config) api.Notifier {
	if cfg.Slack.WebhookURL == "" {
		log.Info().Msg("slack expiry alerts not configured, skipping")
		return nil
	}

	client, err := slack.New(
		cfg.Slack.WebhookURL,
		slack.WithHTTPClient(&http.Client{Timeout: cfg.Slack.RequestTimeout}),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize slack client")
		return nil
	}

	log.Info().Int("alert_days", cfg.Checks.SSL.AlertDays).Msg("slack expiry alerts configured")

	return client
}
