package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// BootConfig is the set of settings needed before a ResolvedProcessConfig
// can even be loaded: which file to read, in what format, and whether an
// observational HTTP status API should be started. Flags take precedence
// over the environment; both are bound into the same struct the way the
// teacher's cmd/zmux-server/main.go checks os.Getenv("ENV") but promoted
// here to a typed struct bound with caarlos0/env, following
// iota-uz-iota-sdk's pattern of binding process configuration structs
// with struct tags instead of scattered os.Getenv calls.
type BootConfig struct {
	ConfigPath   string `env:"PROCVD_CONFIG" envDefault:"procvd.json"`
	ConfigFormat string `env:"PROCVD_CONFIG_FORMAT" envDefault:"json"`
	EnvFile      string `env:"PROCVD_ENV_FILE"`
	HTTPAddr     string `env:"PROCVD_HTTP_ADDR"`
	HTTPDevCORS  bool   `env:"PROCVD_HTTP_DEV_CORS"`
	LogFormat    string `env:"PROCVD_LOG_FORMAT" envDefault:"console"`
	RedisAddr    string `env:"PROCVD_REDIS_ADDR"`
	Verbose      bool   `env:"PROCVD_VERBOSE"`

	// SampleConfigRequested is flag-only (--sample-config); it has no
	// environment-variable equivalent since it selects a one-shot CLI
	// action rather than a persistent setting.
	SampleConfigRequested bool `env:"-"`
}

// ParseBootConfig loads an optional .env file (if --env-file/PROCVD_ENV_FILE
// names one), binds environment variables into a BootConfig, then applies
// flag overrides from args. fs should be a fresh flag.FlagSet so repeated
// calls in tests don't collide with flag.CommandLine.
func ParseBootConfig(fs *flag.FlagSet, args []string) (*BootConfig, error) {
	envFile := ""
	fs.StringVar(&envFile, "env-file", "", "optional .env file to load before reading environment variables")
	configPath := fs.String("config", "", "path to the process configuration file")
	configFormat := fs.String("format", "", "configuration format: json or ini")
	httpAddr := fs.String("http-addr", "", "optional address for the read-only status API, e.g. :8080")
	logFormat := fs.String("log-format", "", "log output format: console or json")
	sampleConfig := fs.Bool("sample-config", false, "print a sample configuration and exit")
	verbose := fs.Bool("verbose", false, "on fatal errors, dump each layer of the error chain with spew instead of just its message")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if envFile == "" {
		envFile = os.Getenv("PROCVD_ENV_FILE")
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	cfg := &BootConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse boot environment: %w", err)
	}

	if *configPath != "" {
		cfg.ConfigPath = *configPath
	}
	if *configFormat != "" {
		cfg.ConfigFormat = *configFormat
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}
	cfg.SampleConfigRequested = *sampleConfig
	if *verbose {
		cfg.Verbose = true
	}

	return cfg, nil
}
