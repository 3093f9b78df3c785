// Package config loads the secdash service configuration from defaults, an optional
// YAML file, and SECDASH_ prefixed environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/mcuadros/go-defaults"
)

const (
	// DefaultConfigFilePath is the config file read when no path is given
	DefaultConfigFilePath = "./config/.config.yaml"
	// EnvPrefix is the prefix of every environment variable read into the config
	EnvPrefix = "SECDASH_"
)

// Config holds the full service configuration
type Config struct {
	// Server holds the HTTP listener settings
	Server Server `json:"server" koanf:"server"`
	// Checks holds the settings shared by the security checkers
	Checks Checks `json:"checks" koanf:"checks"`
	// Slack holds the certificate expiry alert settings
	Slack Slack `json:"slack" koanf:"slack"`
}

// Server holds the HTTP listener settings
type Server struct {
	// Listen is the address the dashboard listens on
	Listen string `json:"listen" koanf:"listen" default:":3000"`
	// Debug enables debug logging
	Debug bool `json:"debug" koanf:"debug" default:"false"`
	// Pretty enables human readable log output
	Pretty bool `json:"pretty" koanf:"pretty" default:"false"`
	// ReadTimeout is the maximum duration for reading a request
	ReadTimeout time.Duration `json:"readTimeout" koanf:"readTimeout" default:"15s"`
	// WriteTimeout is the maximum duration before timing out a response write
	WriteTimeout time.Duration `json:"writeTimeout" koanf:"writeTimeout" default:"30s"`
	// ShutdownGracePeriod is how long in-flight requests get to finish on shutdown
	ShutdownGracePeriod time.Duration `json:"shutdownGracePeriod" koanf:"shutdownGracePeriod" default:"10s"`
	// MaxBodySize is the largest accepted request body in bytes
	MaxBodySize int64 `json:"maxBodySize" koanf:"maxBodySize" default:"4096"`
	// DetailedErrors maps failure kinds to distinct HTTP status codes instead of a uniform 500
	DetailedErrors bool `json:"detailedErrors" koanf:"detailedErrors" default:"false"`
	// RateLimit is the sustained number of check requests allowed per second, 0 disables limiting
	RateLimit float64 `json:"rateLimit" koanf:"rateLimit" default:"0"`
	// RateBurst is the number of check requests allowed in a burst when limiting is enabled
	RateBurst int `json:"rateBurst" koanf:"rateBurst" default:"20"`
}

// Checks holds the settings shared by the security checkers
type Checks struct {
	// Timeout bounds every network call made by a single check
	Timeout time.Duration `json:"timeout" koanf:"timeout" default:"10s"`
	// SSL configures the certificate inspector
	SSL SSL `json:"ssl" koanf:"ssl"`
	// DNS configures the record resolver
	DNS DNS `json:"dns" koanf:"dns"`
}

// SSL configures the certificate inspector
type SSL struct {
	// Port is the port certificates are fetched from
	Port string `json:"port" koanf:"port" default:"443"`
	// Strict rejects self-signed, mismatched, expired and revoked certificates
	Strict bool `json:"strict" koanf:"strict" default:"false"`
	// AlertDays sends an expiry alert when fewer days than this remain
	AlertDays int `json:"alertDays" koanf:"alertDays" default:"30"`
}

// DNS configures the record resolver
type DNS struct {
	// Server is the host:port of the DNS server to query, empty uses the system resolver
	Server string `json:"server" koanf:"server" default:""`
}

// Slack configures certificate expiry alerts
type Slack struct {
	// WebhookURL is the Slack incoming webhook, empty disables alerts
	WebhookURL string `json:"webhookURL" koanf:"webhookURL" default:"" sensitive:"true"`
	// RequestTimeout is the timeout for webhook requests
	RequestTimeout time.Duration `json:"requestTimeout" koanf:"requestTimeout" default:"10s"`
}

// Load builds the configuration from defaults, the YAML file at cfgFile when it
// exists, and the environment
func Load(cfgFile *string) (*Config, error) {
	k := koanf.New(".")

	cfg := &Config{}
	defaults.SetDefaults(cfg)

	path := DefaultConfigFilePath
	if cfgFile != nil && *cfgFile != "" {
		path = *cfgFile
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrConfigFileLoad, path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigFileLoad, path, err)
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey(keyPaths(reflect.TypeOf(Config{}), ""))), nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigEnvLoad, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigUnmarshal, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// envKey maps SECDASH_CHECKS_SSL_ALERTDAYS to checks.ssl.alertDays using the
// lowercased koanf paths so environment values override the same key a YAML
// file sets; unknown variables keep their lowercased path
func envKey(paths map[string]string) func(key, value string) (string, any) {
	return func(key, value string) (string, any) {
		key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "_", ".")

		if canonical, ok := paths[key]; ok {
			return canonical, value
		}

		return key, value
	}
}

// keyPaths indexes every koanf path of t by its lowercased form
func keyPaths(t reflect.Type, prefix string) map[string]string {
	paths := make(map[string]string)

	for i := range t.NumField() {
		field := t.Field(i)

		tag := field.Tag.Get("koanf")
		if !field.IsExported() || tag == "" || tag == "-" {
			continue
		}

		path := prefix + tag

		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Duration(0)) {
			for lower, canonical := range keyPaths(field.Type, path+".") {
				paths[lower] = canonical
			}

			continue
		}

		paths[strings.ToLower(path)] = path
	}

	return paths
}

// Validate reports settings that would leave the service unusable
func (c *Config) Validate() error {
	switch {
	case c.Server.Listen == "":
		return fmt.Errorf("%w: server.listen must be set", ErrInvalidConfig)
	case c.Server.MaxBodySize <= 0:
		return fmt.Errorf("%w: server.maxBodySize must be positive", ErrInvalidConfig)
	case c.Server.RateLimit < 0:
		return fmt.Errorf("%w: server.rateLimit must not be negative", ErrInvalidConfig)
	case c.Server.RateLimit > 0 && c.Server.RateBurst <= 0:
		return fmt.Errorf("%w: server.rateBurst must be positive when rate limiting", ErrInvalidConfig)
	case c.Checks.Timeout <= 0:
		return fmt.Errorf("%w: checks.timeout must be positive", ErrInvalidConfig)
	case c.Checks.SSL.Port == "":
		return fmt.Errorf("%w: checks.ssl.port must be set", ErrInvalidConfig)
	}

	return nil
}
