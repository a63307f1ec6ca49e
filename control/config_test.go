// File: control/config_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package control_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/control"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "ring.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := control.DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 256, cfg.Ring.Capacity)
	assert.Equal(t, -1, cfg.Source.CPU)
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
version: "1.2.0"
ring:
  name: adc
  capacity: 64
  policy: reject_new
  guard: spin
source:
  period: 250us
consumer:
  batch: 8
`)
	cfg, err := control.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "adc", cfg.Ring.Name)
	assert.Equal(t, 64, cfg.Ring.Capacity)
	assert.Equal(t, "reject_new", cfg.Ring.Policy)
	assert.Equal(t, "spin", cfg.Ring.Guard)
	assert.Equal(t, 250*time.Microsecond, cfg.Source.Period)
	assert.Equal(t, 8, cfg.Consumer.Batch)
	assert.Equal(t, 10*time.Millisecond, cfg.Consumer.Interval, "default kept")
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := control.LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = control.LoadConfig(writeConfig(t, dir, "ring: [oops"))
	require.Error(t, err)

	_, err = control.LoadConfig(writeConfig(t, dir, "ring:\n  capacity: 100\n"))
	require.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*control.Config){
		"version":           func(c *control.Config) { c.Version = "2.0.0" },
		"version_garbage":   func(c *control.Config) { c.Version = "latest" },
		"ring.capacity":     func(c *control.Config) { c.Ring.Capacity = 0 },
		"ring.capacity_npo": func(c *control.Config) { c.Ring.Capacity = 6 },
		"ring.policy":       func(c *control.Config) { c.Ring.Policy = "drop_newest" },
		"ring.guard":        func(c *control.Config) { c.Ring.Guard = "irq" },
		"ring.guard_noop":   func(c *control.Config) { c.Ring.Guard = "noop" },
		"ring.max_bytes":    func(c *control.Config) { c.Ring.MaxBytes = -1 },
		"source.period":     func(c *control.Config) { c.Source.Period = 0 },
		"consumer.interval": func(c *control.Config) { c.Consumer.Interval = -time.Second },
		"consumer.batch":    func(c *control.Config) { c.Consumer.Batch = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := control.DefaultConfig()
			mutate(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, api.ErrInvalidArgument)
			var e *api.Error
			require.True(t, errors.As(err, &e))
			assert.Contains(t, name, e.Context["field"].(string))
		})
	}
}

func TestLoadConfigRejectsNoopGuard(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "ring:\n  capacity: 16\n  guard: noop\n")
	_, err := control.LoadConfig(path)
	require.ErrorIs(t, err, api.ErrInvalidArgument)
	var e *api.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "ring.guard", e.Context["field"])
}

func TestParsePolicy(t *testing.T) {
	p, err := control.ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, api.OverwriteOldest, p)
	p, err = control.ParsePolicy("reject_new")
	require.NoError(t, err)
	assert.Equal(t, api.RejectNew, p)
	_, err = control.ParsePolicy("RejectNew")
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestConfigStoreNotifies(t *testing.T) {
	store := control.NewConfigStore(control.DefaultConfig())
	var calls []time.Duration
	store.OnReload(func(old, cur control.Config) {
		assert.Equal(t, time.Millisecond, old.Source.Period)
		calls = append(calls, cur.Source.Period)
	})

	next := store.Get()
	next.Source.Period = 5 * time.Millisecond
	store.Set(next)
	assert.Equal(t, []time.Duration{5 * time.Millisecond}, calls)
	assert.Equal(t, 5*time.Millisecond, store.Get().Source.Period)
}

func TestMergeRuntimeKeepsGeometry(t *testing.T) {
	cur := control.DefaultConfig()
	next := control.DefaultConfig()
	next.Ring.Capacity = 1024
	next.Metrics.Addr = ":9999"
	next.Source.Period = 3 * time.Millisecond
	next.Source.CPU = 2
	next.Consumer.Batch = 4

	merged := control.MergeRuntime(cur, next, nil)
	assert.Equal(t, cur.Ring, merged.Ring)
	assert.Equal(t, cur.Metrics, merged.Metrics)
	assert.Equal(t, cur.Source.CPU, merged.Source.CPU)
	assert.Equal(t, 3*time.Millisecond, merged.Source.Period)
	assert.Equal(t, 4, merged.Consumer.Batch)
}
