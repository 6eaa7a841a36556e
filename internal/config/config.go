// Package config loads the kindcore command configuration.
package config

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ezachrisen/kindcore/evaluator"
)

// DefaultPath is the configuration file read when --config is not given.
const DefaultPath = "kindcore.yaml"

// Config holds all kindcore configuration.
type Config struct {
	// Generate coverage obligations
	Coverage bool `yaml:"coverage"`

	// CEL expression selecting the entries to check; empty checks all
	Select string `yaml:"select"`

	// Directory for generated programs; empty writes next to each book
	OutDir string `yaml:"out_dir"`

	// Fail a check on undecodable diagnostics
	StrictDecoding bool `yaml:"strict_decoding"`

	Evaluator EvaluatorConfig `yaml:"evaluator"`

	Logging LoggingConfig `yaml:"logging"`
}

// EvaluatorConfig configures the external evaluator process.
type EvaluatorConfig struct {
	Path    string   `yaml:"path"`
	Args    []string `yaml:"args"`
	Prelude string   `yaml:"prelude"`
	Entry   string   `yaml:"entry"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Evaluator: EvaluatorConfig{
			Path:  "hvm",
			Args:  append([]string(nil), evaluator.DefaultArgs...),
			Entry: evaluator.DefaultEntry,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration at path. A missing file yields the defaults;
// values in the file override them.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, errors.Wrap(err, "failed to read config")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// applyEnvOverrides lets the environment point at a different evaluator.
func (c *Config) applyEnvOverrides() {
	if p := os.Getenv("KINDCORE_HVM"); p != "" {
		c.Evaluator.Path = p
	}
	if p := os.Getenv("KINDCORE_PRELUDE"); p != "" {
		c.Evaluator.Prelude = p
	}
}

// Validate checks the configuration for values no command can use.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Evaluator.Path == "" {
		return errors.New("evaluator.path is empty")
	}
	return nil
}

// Level is the parsed logging level.
func (c *Config) Level() (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return l, errors.Wrap(err, "logging.level")
	}
	return l, nil
}

// Command builds the evaluator the configuration describes.
func (c *Config) Command() *evaluator.Command {
	return &evaluator.Command{
		Path:    c.Evaluator.Path,
		Args:    c.Evaluator.Args,
		Prelude: c.Evaluator.Prelude,
		Entry:   c.Evaluator.Entry,
	}
}
