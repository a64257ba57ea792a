// Package config loads generator settings from the environment.
package config

import (
	stderrors "errors"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"go.uber.org/zap/zapcore"

	"napigen/internal/errors"
)

// Config holds generator settings. Command-line flags override these values.
type Config struct {
	// OutputPath is where generated files are written. ENV: NAPIGEN_OUTPUT_PATH
	OutputPath string `env:"NAPIGEN_OUTPUT_PATH,default=./output/"`
	// Backends lists renderers to run. ENV: NAPIGEN_BACKENDS
	Backends []string `env:"NAPIGEN_BACKENDS,default=cpp"`
	// Package names the generated Go package. ENV: NAPIGEN_PACKAGE
	Package  string `env:"NAPIGEN_PACKAGE,default=bindings"`
	LogLevel string `env:"NAPIGEN_LOG_LEVEL,default=info"`
	// WatchDebounce delays regeneration after a schema change. ENV: NAPIGEN_WATCH_DEBOUNCE
	WatchDebounce time.Duration `env:"NAPIGEN_WATCH_DEBOUNCE,default=200ms"`
	ForceClean    bool          `env:"NAPIGEN_FORCE_CLEAN,default=false"`
}

// Load reads the configuration from the environment, falling back to the defaults.
func Load() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !stderrors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "decoding environment")
	}
	// envdecode splits lists on semicolons; commas are accepted too.
	cfg.Backends = ParseBackends(strings.Join(cfg.Backends, ","))
	return cfg, cfg.Validate()
}

// Level parses LogLevel.
func (c Config) Level() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log level")
	}
	return level, nil
}

func (c Config) Validate() error {
	if c.OutputPath == "" {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).Detail("output path is empty").Build()
	}
	if c.Package == "" {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).Detail("package name is empty").Build()
	}
	if len(c.Backends) == 0 {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).Detail("no backend selected").Build()
	}
	if c.WatchDebounce < 0 {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Detail("watch debounce %s is negative", c.WatchDebounce).
			Build()
	}
	_, err := c.Level()
	return err
}

// ParseBackends splits a comma separated backend list.
func ParseBackends(list string) []string {
	return trimAll(strings.Split(list, ","))
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
