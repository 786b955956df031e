package driver_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brimdata/tstype/driver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := driver.ParseConfig(strings.NewReader(`
parallelism: 2
no_implicit_any: true
libs:
  - /lib/lib.es5.d.ts
  - /lib/lib.dom.d.ts
`))
	require.NoError(t, err)
	assert.Equal(t, driver.Config{
		Parallelism:           2,
		MaxCircularIterations: driver.DefaultMaxCircularIterations,
		NoImplicitAny:         true,
		ResolveCacheSize:      driver.DefaultResolveCacheSize,
		Libs:                  []string{"/lib/lib.es5.d.ts", "/lib/lib.dom.d.ts"},
	}, cfg)
}

func TestParseConfigEmpty(t *testing.T) {
	cfg, err := driver.ParseConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, driver.DefaultConfig(), cfg)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name, src, err string
	}{
		{"unknown field", "parallel: 3\n", "field parallel not found"},
		{"negative parallelism", "parallelism: -1\n", "parallelism must be non-negative"},
		{"zero iterations", "max_circular_iterations: 0\n", "max_circular_iterations must be positive"},
		{"zero cache", "resolve_cache_size: 0\n", "resolve_cache_size must be positive"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := driver.ParseConfig(strings.NewReader(tc.src))
			assert.ErrorContains(t, err, tc.err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tstype.yaml")
	require.NoError(t, os.WriteFile(path, []byte("skip_indexed_access_check: true\n"), 0o644))
	cfg, err := driver.LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.SkipIndexedAccessCheck)

	_, err = driver.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRegisterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	d := driver.New(driver.Config{}, nil)
	require.NoError(t, d.Metrics().Register(reg))
	d.Metrics().Loads.WithLabelValues("circular").Inc()
	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "tstype_loads_total")
	// Registering twice is refused by the registry.
	assert.Error(t, d.Metrics().Register(reg))
}
