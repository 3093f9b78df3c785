package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theopenlane/secdash/config"
)

// appName is the name of the application used in CLI usage output and log lines
const appName = "secdash"

// k holds the parsed command line flags
var k *koanf.Koanf

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          appName,
	Short:        "security dashboard for TLS certificate, DNS record and HTTP header checks",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadFlags(cmd); err != nil {
			return err
		}

		setupLogging(k.Bool("debug"), k.Bool("pretty"))

		return nil
	},
}

// Execute runs the root command with a context cancelled on SIGINT or SIGTERM
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	k = koanf.New(".")

	flags := rootCmd.PersistentFlags()
	flags.String("config", config.DefaultConfigFilePath, "config file location")
	flags.Bool("debug", false, "debug logging output")
	flags.Bool("pretty", false, "enable pretty (human readable) logging output")
}

// loadFlags merges the flags of the executing command, including inherited ones, into k
func loadFlags(cmd *cobra.Command) error {
	return k.Load(posflag.Provider(cmd.Flags(), k.Delim(), k), nil)
}

// setupLogging configures the global zerolog logger
func setupLogging(debug, pretty bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	log.Logger = log.With().Str("service", appName).Logger()
}
