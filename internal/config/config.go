package config

import (
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/mutker/simtempd/internal/errors"
	"codeberg.org/mutker/simtempd/internal/logger"
	"codeberg.org/mutker/simtempd/internal/simtemp"
	"codeberg.org/mutker/simtempd/internal/telemetry"
)

const (
	DefaultLogLevel = "info"

	configName = "simtempd"
	envVar     = "SIMTEMPD_CONFIG"
)

type Config struct {
	SamplingMS  int    `mapstructure:"sampling_ms"`
	ThresholdMC int    `mapstructure:"threshold_mc"`
	Mode        string `mapstructure:"mode"`
	LogLevel    string `mapstructure:"log_level"`
	Monitor     bool   `mapstructure:"monitor"`
	Telemetry   bool   `mapstructure:"telemetry"`
	TelemetryDB string `mapstructure:"database"`
}

// Load reads configuration with flag > file > default precedence. The
// config file is simtempd.toml from /etc (or the SIMTEMPD_CONFIG path).
// Invalid input fails the load; nothing is partially applied.
func Load() (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	v.SetDefault("sampling_ms", simtemp.DefaultSamplingMS)
	v.SetDefault("threshold_mc", simtemp.DefaultThresholdMC)
	v.SetDefault("mode", simtemp.ModeNormal.String())
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("monitor", false)
	v.SetDefault("telemetry", false)
	v.SetDefault("database", telemetry.DefaultConfig().DBPath)

	fs := pflag.NewFlagSet(configName, pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Int("sampling-ms", simtemp.DefaultSamplingMS, "Sampling interval in milliseconds")
	fs.Int("threshold-mc", simtemp.DefaultThresholdMC, "Alert threshold in milli-Celsius")
	fs.String("mode", simtemp.ModeNormal.String(), "Temperature generation mode (normal, noisy, ramp)")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.Bool("monitor", false, "Print samples to stdout")
	fs.Bool("telemetry", false, "Record samples to the telemetry database")
	fs.String("database", telemetry.DefaultConfig().DBPath, "Telemetry database path")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	bindings := map[string]string{
		"sampling_ms":  "sampling-ms",
		"threshold_mc": "threshold-mc",
		"mode":         "mode",
		"log_level":    "log-level",
		"monitor":      "monitor",
		"telemetry":    "telemetry",
		"database":     "database",
	}
	for key, flagName := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(flagName)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	if path := os.Getenv(envVar); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errFactory.WithMessage(errors.ErrReadConfig, "Failed to read config file").
				WithData(err.Error())
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every field against the device contract. The first
// violation is returned; previous configuration stays untouched since the
// caller only applies a fully validated Config.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.SamplingMS < simtemp.SamplingMSMin || c.SamplingMS > simtemp.SamplingMSMax {
		return errFactory.WithData(errors.ErrInvalidInterval, c.SamplingMS)
	}

	if c.ThresholdMC < simtemp.ThresholdMCMin || c.ThresholdMC > simtemp.ThresholdMCMax {
		return errFactory.WithData(errors.ErrInvalidConfig, c.ThresholdMC)
	}

	if _, err := simtemp.ParseMode(c.Mode); err != nil {
		return err
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	if c.Telemetry && c.TelemetryDB == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "telemetry enabled without a database path")
	}

	return nil
}

// Device maps the daemon configuration onto the device configuration.
func (c *Config) Device() simtemp.Config {
	mode, _ := simtemp.ParseMode(c.Mode)

	return simtemp.Config{
		SamplingMS:  uint32(c.SamplingMS),
		ThresholdMC: int32(c.ThresholdMC),
		Mode:        mode,
	}
}

// Level returns the parsed log level.
func (c *Config) Level() logger.LogLevel {
	level, _ := logger.ParseLevel(c.LogLevel)
	return level
}
