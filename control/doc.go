// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, hot-reload, metrics registry and debug introspection for
// hioload-ring deployments.
//
// Provides concurrent-safe state handling primitives including:
//   - YAML configuration with validation and snapshot reads
//   - fsnotify-driven hot reload of runtime-mutable fields
//   - A Prometheus registry wrapper with duplicate detection
//   - Debug probe registration and state export
//
// Ring geometry (capacity, policy, guard) is fixed when a ring is built;
// reloads only ever touch the producer period and consumer interval.
package control
