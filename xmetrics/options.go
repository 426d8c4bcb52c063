// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/xmidt-org/sallust"
)

const (
	DefaultNamespace = "global"
	DefaultSubsystem = "development"
)

// Options is the configurable set of options for creating a Registry.
type Options struct {
	// Logger is the logger these Options carry.  If nil, sallust.Default()
	// is used.  NewRegistry does not write to it.
	Logger *zap.Logger

	// Namespace is the global default namespace for metrics which don't
	// define a namespace (or for ad hoc metrics).  If not supplied,
	// DefaultNamespace is used.
	Namespace string

	// Subsystem is the global default subsystem for metrics which don't
	// define a subsystem (or for ad hoc metrics).  If not supplied,
	// DefaultSubsystem is used.
	Subsystem string

	// Pedantic indicates whether the registry is created via
	// prometheus.NewPedanticRegistry.  By default, this is false.  Set to
	// true for testing or development.
	Pedantic bool

	// DisableGoCollector omits the standard Go runtime collector from the
	// registry.  By default, the collector is registered.
	DisableGoCollector bool

	// DisableProcessCollector omits the standard process collector from
	// the registry.  By default, the collector is registered.
	DisableProcessCollector bool

	// Metrics defines the set of predefined metrics that a Registry
	// created from these Options preregisters immediately.  This field is
	// optional.
	Metrics []Metric
}

func (o *Options) logger() *zap.Logger {
	if o != nil && o.Logger != nil {
		return o.Logger
	}

	return sallust.Default()
}

func (o *Options) namespace() string {
	if o != nil && len(o.Namespace) > 0 {
		return o.Namespace
	}

	return DefaultNamespace
}

func (o *Options) subsystem() string {
	if o != nil && len(o.Subsystem) > 0 {
		return o.Subsystem
	}

	return DefaultSubsystem
}

func (o *Options) pedantic() bool {
	return o != nil && o.Pedantic
}

func (o *Options) disableGoCollector() bool {
	return o != nil && o.DisableGoCollector
}

func (o *Options) disableProcessCollector() bool {
	return o != nil && o.DisableProcessCollector
}

// Module returns the predefined metrics carried by these Options, or an
// empty slice if none were configured.
func (o *Options) Module() []Metric {
	if o != nil {
		return o.Metrics
	}

	return nil
}

// registry constructs the underlying Prometheus registry these Options
// describe, including the Go runtime and process collectors unless
// disabled.
func (o *Options) registry() *prometheus.Registry {
	var r *prometheus.Registry
	if o.pedantic() {
		r = prometheus.NewPedanticRegistry()
	} else {
		r = prometheus.NewRegistry()
	}

	if !o.disableGoCollector() {
		r.MustRegister(collectors.NewGoCollector())
	}

	if !o.disableProcessCollector() {
		r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	return r
}
