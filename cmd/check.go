package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theopenlane/secdash/config"
	"github.com/theopenlane/secdash/internal/domain"
	"github.com/theopenlane/secdash/internal/headers"
)

// checkFunc runs one checker against a raw target using the loaded config
type checkFunc func(ctx context.Context, cmd *cobra.Command, cfg *config.Config, target string) (any, error)

// checkCmd groups the command line checks
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "run a single check and print its JSON result",
}

var checkSSLCmd = &cobra.Command{
	Use:   "ssl <domain>",
	Short: "inspect the TLS certificate served by a domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, "ssl", args[0], checkSSL)
	},
}

var checkDNSCmd = &cobra.Command{
	Use:   "dns <domain>",
	Short: "list the DNS records of a domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, "dns", args[0], checkDNS)
	},
}

var checkHeadersCmd = &cobra.Command{
	Use:   "headers <url>",
	Short: "report the security headers returned by a URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, "headers", args[0], checkHeaders)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.AddCommand(checkSSLCmd, checkDNSCmd, checkHeadersCmd)
}

// runCheck loads config, runs fn under the check timeout and prints the result as JSON
func runCheck(cmd *cobra.Command, name, target string, fn checkFunc) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Checks.Timeout)
	defer cancel()

	result, err := fn(ctx, cmd, cfg, target)

	fmt.Fprintln(cmd.ErrOrStderr(), formatOutcome(name, target, err))

	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	return enc.Encode(result)
}

func checkSSL(ctx context.Context, cmd *cobra.Command, cfg *config.Config, target string) (any, error) {
	info, err := domain.Hostname(target)
	if err != nil {
		return nil, err
	}

	inspector, err := setupInspector(cfg)
	if err != nil {
		return nil, err
	}

	result, err := inspector.Inspect(ctx, info.Domain)
	if err != nil {
		return nil, err
	}

	if notice := formatExpiry(result.DaysRemaining, cfg.Checks.SSL.AlertDays); notice != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), notice)
	}

	return result, nil
}

func checkDNS(ctx context.Context, _ *cobra.Command, cfg *config.Config, target string) (any, error) {
	info, err := domain.Hostname(target)
	if err != nil {
		return nil, err
	}

	return setupResolver(cfg).Resolve(ctx, info.Domain)
}

func checkHeaders(ctx context.Context, _ *cobra.Command, cfg *config.Config, target string) (any, error) {
	u, err := domain.URL(target)
	if err != nil {
		return nil, err
	}

	return headers.New(headers.WithTimeout(cfg.Checks.Timeout)).Audit(ctx, u)
}
