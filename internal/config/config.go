// Package config loads the ring's ambient configuration (identifier
// space size, logging) from YAML, the same way the teacher's
// internal/config package does, reduced to what a transport-less ring
// core needs.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"chordring/internal/logger"
)

// FileLoggerConfig configures lumberjack-based log rotation when
// LoggerConfig.Mode is "file".
type FileLoggerConfig struct {
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"maxSize"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAge     int    `yaml:"maxAge"`
	Compress   bool   `yaml:"compress"`
}

// LoggerConfig configures the zap-backed logger adapter.
type LoggerConfig struct {
	Active   bool             `yaml:"active"`
	Level    string           `yaml:"level"`
	Encoding string           `yaml:"encoding"`
	Mode     string           `yaml:"mode"`
	File     FileLoggerConfig `yaml:"file"`
}

// RingConfig configures the identifier space of the ring.
type RingConfig struct {
	Bits int `yaml:"idBits"`
}

// Config is the top-level configuration for the demo binary.
type Config struct {
	Logger LoggerConfig `yaml:"logger"`
	Ring   RingConfig   `yaml:"ring"`
}

// Default returns the configuration used when no file is supplied: an
// 8-bit ring (matching spec.md's reference deployment) and a disabled
// logger.
func Default() Config {
	return Config{
		Ring: RingConfig{Bits: 8},
		Logger: LoggerConfig{
			Active:   false,
			Level:    "info",
			Encoding: "console",
			Mode:     "stdout",
		},
	}
}

// Load reads and parses a YAML configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %q: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LogConfig emits the loaded configuration at Debug level, the same
// visibility the teacher's Config.LogConfig gives operators without
// requiring Info-level chatter on every startup.
func (c Config) LogConfig(lgr logger.Logger) {
	lgr.Debug("configuration loaded",
		logger.F("idBits", c.Ring.Bits),
		logger.F("logger_level", c.Logger.Level),
		logger.F("logger_mode", c.Logger.Mode),
	)
}
