// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the logger of the current process.
// It should be set once on startup via SetLogger.
var Log = logr.Discard()

var configFromFlags = Config{}

// Config holds the configurable options of the process logger.
type Config struct {
	// Development enables console encoding, stacktraces and caller annotation.
	Development bool

	// Verbosity is the log level verbosity.
	Verbosity int

	DisableStacktrace bool
	DisableCaller     bool
}

var developmentConfig = zap.Config{
	Level:             zap.NewAtomicLevelAt(zap.InfoLevel),
	Development:       true,
	Encoding:          "console",
	DisableStacktrace: false,
	DisableCaller:     false,
	EncoderConfig:     zap.NewProductionEncoderConfig(),
	OutputPaths:       []string{"stderr"},
	ErrorOutputPaths:  []string{"stderr"},
}

var productionConfig = zap.Config{
	Level:             zap.NewAtomicLevelAt(zap.InfoLevel),
	Development:       false,
	DisableStacktrace: true,
	DisableCaller:     true,
	Encoding:          "json",
	EncoderConfig:     zap.NewProductionEncoderConfig(),
	OutputPaths:       []string{"stderr"},
	ErrorOutputPaths:  []string{"stderr"},
}

// New creates a new logger from the given configuration.
// If the configuration is nil the configuration from the registered flags is used.
func New(config *Config) (logr.Logger, error) {
	if config == nil {
		config = &configFromFlags
	}
	zapCfg := determineZapConfig(config)

	level := int8(0 - config.Verbosity)
	zapCfg.Level = zap.NewAtomicLevelAt(zapcore.Level(level))

	zapLog, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return logr.Logger{}, err
	}
	return zapr.NewLogger(zapLog), nil
}

// NewCliLogger creates a new logger for cli usage.
// CLI usage means that by default the logger writes console encoded output.
func NewCliLogger() (logr.Logger, error) {
	config := configFromFlags
	config.Development = true
	return New(&config)
}

// SetLogger sets the logger of the current process.
func SetLogger(log logr.Logger) {
	Log = log
}

func determineZapConfig(config *Config) zap.Config {
	var cfg zap.Config
	if config.Development {
		cfg = developmentConfig
	} else {
		cfg = productionConfig
	}

	cfg.DisableStacktrace = config.DisableStacktrace
	cfg.DisableCaller = config.DisableCaller

	return cfg
}

// InitFlags registers the logger flags on the given flag set.
func InitFlags(flagset *flag.FlagSet) {
	if flagset == nil {
		flagset = flag.CommandLine
	}

	flagset.BoolVar(&configFromFlags.Development, "dev", false, "enable development logging which result in console encoding, enabled stacktrace and enabled caller")
	flagset.IntVarP(&configFromFlags.Verbosity, "verbosity", "v", 1, "number for the log level verbosity")
	flagset.BoolVar(&configFromFlags.DisableStacktrace, "disable-stacktrace", true, "disable the stacktrace of error logs")
	flagset.BoolVar(&configFromFlags.DisableCaller, "disable-caller", true, "disable the caller of logs")
}
