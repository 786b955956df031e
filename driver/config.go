package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxCircularIterations = 10
	DefaultResolveCacheSize      = 1024
)

// Config controls a checking run.
type Config struct {
	// Parallelism bounds the number of modules elaborated at once.  Zero
	// means GOMAXPROCS.
	Parallelism            int  `yaml:"parallelism"`
	MaxCircularIterations  int  `yaml:"max_circular_iterations"`
	NoImplicitAny          bool `yaml:"no_implicit_any"`
	SkipIndexedAccessCheck bool `yaml:"skip_indexed_access_check"`
	ResolveCacheSize       int  `yaml:"resolve_cache_size"`

	// Libs lists the paths of the modules elaborated as builtin libraries.
	// Their declarations are visible from every other module.
	Libs []string `yaml:"libs"`
}

func DefaultConfig() Config {
	return Config{
		MaxCircularIterations: DefaultMaxCircularIterations,
		ResolveCacheSize:      DefaultResolveCacheSize,
	}
}

// LoadConfig reads a YAML configuration file.  Fields missing from the
// file keep their default values and unknown fields are an error.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	cfg, err := ParseConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func ParseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Parallelism < 0 {
		return fmt.Errorf("parallelism must be non-negative: %d", c.Parallelism)
	}
	if c.MaxCircularIterations < 1 {
		return fmt.Errorf("max_circular_iterations must be positive: %d", c.MaxCircularIterations)
	}
	if c.ResolveCacheSize < 1 {
		return fmt.Errorf("resolve_cache_size must be positive: %d", c.ResolveCacheSize)
	}
	return nil
}

func (c Config) parallelism() int {
	if c.Parallelism == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Parallelism
}
