// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Typed configuration with YAML loading, validation and a thread-safe
// store that notifies listeners on change.

package control

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/core/ring"
	"github.com/momentics/hioload-ring/critical"
)

// SupportedVersions is the range of config schema versions this build reads.
const SupportedVersions = ">= 1.0.0, < 2.0.0"

// Config is the on-disk configuration.
type Config struct {
	Version  string         `yaml:"version"`
	Ring     RingConfig     `yaml:"ring"`
	Source   SourceConfig   `yaml:"source"`
	Consumer ConsumerConfig `yaml:"consumer"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// RingConfig fixes the geometry of the buffer. Not reloadable.
type RingConfig struct {
	Name     string `yaml:"name"`
	Capacity int    `yaml:"capacity"`
	Policy   string `yaml:"policy"`    // overwrite_oldest | reject_new
	Guard    string `yaml:"guard"`     // mutex | spin
	MaxBytes int64  `yaml:"max_bytes"` // 0 = unlimited
}

// SourceConfig drives the simulated interrupt producer.
type SourceConfig struct {
	Period time.Duration `yaml:"period"`
	CPU    int           `yaml:"cpu"` // -1 = do not pin
}

// ConsumerConfig drives the main-loop consumer.
type ConsumerConfig struct {
	Interval time.Duration `yaml:"interval"`
	Batch    int           `yaml:"batch"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty = disabled
}

// DefaultConfig returns a valid configuration.
func DefaultConfig() Config {
	return Config{
		Version: "1.0.0",
		Ring: RingConfig{
			Name:     "sensor",
			Capacity: 256,
			Policy:   "overwrite_oldest",
			Guard:    "mutex",
		},
		Source:   SourceConfig{Period: time.Millisecond, CPU: -1},
		Consumer: ConsumerConfig{Interval: 10 * time.Millisecond, Batch: 32},
	}
}

// LoadConfig reads path over DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("control: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("control: parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field that would otherwise fail later.
func (c Config) Validate() error {
	invalid := func(field string, value any) error {
		return api.NewError(api.ErrCodeInvalidArgument, "control: invalid config").
			Wrap(api.ErrInvalidArgument).
			WithContext("field", field).
			WithContext("value", value)
	}

	v, err := semver.NewVersion(c.Version)
	if err != nil {
		return invalid("version", c.Version)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return fmt.Errorf("control: version constraint: %w", err)
	}
	if !constraint.Check(v) {
		return invalid("version", c.Version)
	}

	if c.Ring.Capacity <= 0 || !ring.IsPowerOfTwo(uint64(c.Ring.Capacity)) {
		return invalid("ring.capacity", c.Ring.Capacity)
	}
	if _, err := ParsePolicy(c.Ring.Policy); err != nil {
		return invalid("ring.policy", c.Ring.Policy)
	}
	// The configured ring always has a producer and a consumer in separate
	// contexts; noop is for programmatic single-context use only.
	if _, err := critical.New(c.Ring.Guard); err != nil || c.Ring.Guard == "noop" {
		return invalid("ring.guard", c.Ring.Guard)
	}
	if c.Ring.MaxBytes < 0 {
		return invalid("ring.max_bytes", c.Ring.MaxBytes)
	}
	if c.Source.Period <= 0 {
		return invalid("source.period", c.Source.Period)
	}
	if c.Consumer.Interval <= 0 {
		return invalid("consumer.interval", c.Consumer.Interval)
	}
	if c.Consumer.Batch <= 0 {
		return invalid("consumer.batch", c.Consumer.Batch)
	}
	return nil
}

// ParsePolicy maps the config spelling to an api.OverflowPolicy.
func ParsePolicy(s string) (api.OverflowPolicy, error) {
	switch s {
	case "", "overwrite_oldest":
		return api.OverwriteOldest, nil
	case "reject_new":
		return api.RejectNew, nil
	default:
		return 0, fmt.Errorf("control: unknown overflow policy %q: %w", s, api.ErrInvalidArgument)
	}
}

// ConfigStore holds the active Config and notifies listeners on change.
type ConfigStore struct {
	mu        sync.RWMutex
	config    Config
	listeners []func(old, cur Config)
}

// NewConfigStore initializes a store with cfg.
func NewConfigStore(cfg Config) *ConfigStore {
	return &ConfigStore{config: cfg}
}

// Get returns the current configuration.
func (cs *ConfigStore) Get() Config {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.config
}

// Set replaces the configuration and calls every listener, outside the
// lock, in registration order.
func (cs *ConfigStore) Set(cfg Config) {
	cs.mu.Lock()
	old := cs.config
	cs.config = cfg
	listeners := append([]func(old, cur Config){}, cs.listeners...)
	cs.mu.Unlock()
	for _, fn := range listeners {
		fn(old, cfg)
	}
}

// OnReload registers a listener hook called on config changes.
func (cs *ConfigStore) OnReload(fn func(old, cur Config)) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}
