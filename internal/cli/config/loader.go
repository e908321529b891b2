package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/domonda/go-sheetjson/templatefile"
)

// EnvPrefix is the prefix of environment variables
// overriding configuration values,
// for example SHEETJSON_LOG_LEVEL for log_level.
const EnvPrefix = "SHEETJSON_"

// ConfigFileNames are looked up in the working directory
// if no config file is passed explicitly.
var ConfigFileNames = []string{"sheetjson.yaml", "sheetjson.yml"}

type (
	configKey struct{}
	loggerKey struct{}
)

// findConfigFile returns the explicit path
// or the first existing ConfigFileNames entry.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range ConfigFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads the configuration from defaults, config file,
// environment variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
//
// Only flags that were explicitly set are used,
// kebab-case flag names map to snake_case keys.
// The templates of the configuration are compiled.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"lang":        DefaultLang,
		"output":      DefaultOutput,
		"strict":      false,
		"concurrency": DefaultConcurrency,
		"log_level":   DefaultLogLevel,
		"log_format":  DefaultLogFormat,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	cfgFile = findConfigFile(cfgFile)
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}
	fileTemplateFile := k.String("template_file")

	// 3. Environment variables: SHEETJSON_LOG_LEVEL -> log_level
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Explicitly set flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// A template file named in the config file is relative to it
	if cfgFile != "" && cfg.TemplateFile != "" && cfg.TemplateFile == fileTemplateFile && !filepath.IsAbs(cfg.TemplateFile) {
		cfg.TemplateFile = filepath.Join(filepath.Dir(cfgFile), cfg.TemplateFile)
	}

	var err error
	switch {
	case cfg.TemplateFile != "":
		cfg.Templates, err = templatefile.Load(cfg.TemplateFile)
	case k.Exists("templates"):
		cfg.Templates, err = templatefile.Unmarshal(k, "templates")
		if err != nil {
			err = fmt.Errorf("templates of config file %s: %w", cfgFile, err)
		}
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WithLogger returns a copy of ctx holding logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// WithConfig returns a copy of ctx holding cfg.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from the command context
// or returns a config with default values.
func FromContext(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	return &Config{
		Lang:        DefaultLang,
		Output:      DefaultOutput,
		Concurrency: DefaultConcurrency,
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
	}
}
