package machine

import (
	"github.com/caarlos0/env/v6"
)

// Config is the configuration of an Engine.
type Config struct {
	// MaxCallDepth limits the depth of nested calls of a thread. A value <= 0
	// means no limit.
	MaxCallDepth int `env:"LILYPAD_MAX_CALL_DEPTH" envDefault:"512"`

	// MaxSteps limits the number of calls a thread may execute. A value <= 0
	// means no limit.
	MaxSteps int `env:"LILYPAD_MAX_STEPS"`

	// ModulePath is the root directory of the module files loaded on demand.
	// If empty, loading external modules is disabled.
	ModulePath string `env:"LILYPAD_MODULE_PATH"`

	// LogLevel is the minimum level of the engine's log messages (debug,
	// info, warn, error).
	LogLevel string `env:"LILYPAD_LOG_LEVEL" envDefault:"warn"`
}

// DefaultConfig returns the configuration with all default values.
func DefaultConfig() Config {
	cfg, _ := LoadConfig(map[string]string{})
	return cfg
}

// LoadConfig loads the configuration from the environment variables in
// environ, or from the process' environment if environ is nil.
func LoadConfig(environ map[string]string) (Config, error) {
	var cfg Config
	var opts env.Options
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.Parse(&cfg, opts); err != nil {
		return cfg, err
	}
	return cfg, nil
}
