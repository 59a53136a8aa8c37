// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingot

import (
	"io"
	"log/slog"

	"github.com/openstable-io/ingot/clock"
	"github.com/openstable-io/ingot/token"
	"github.com/prometheus/client_golang/prometheus"
)

// Config holds the configuration for a Ledger
type Config struct {
	logger           *slog.Logger
	promRegistry     prometheus.Registerer
	tokenService     token.Service
	clock            clock.Clock
	dataDir          string
	apiListenAddress string
	auditDisabled    bool
}

// ConfigOptionFunc is a type that represents functions that modify the
// Ledger config
type ConfigOptionFunc func(*Config)

// NewConfig creates a new config with the specified options
func NewConfig(opts ...ConfigOptionFunc) Config {
	c := Config{
		// Default logger will throw away logs
		// We do this so we don't have to add guards around every log operation
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
		clock:  clock.System(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) ConfigOptionFunc {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithDataDir specifies the persistent data directory to use. The
// default is to store everything in memory.
func WithDataDir(dataDir string) ConfigOptionFunc {
	return func(c *Config) {
		c.dataDir = dataDir
	}
}

// WithTokenService specifies the external transfer-execution service.
// This is required.
func WithTokenService(svc token.Service) ConfigOptionFunc {
	return func(c *Config) {
		c.tokenService = svc
	}
}

// WithClock specifies the clock source used for epoch and expiry
// evaluation. The default is the system clock.
func WithClock(clk clock.Clock) ConfigOptionFunc {
	return func(c *Config) {
		c.clock = clk
	}
}

// WithPrometheusRegistry specifies a prometheus registry for metrics
func WithPrometheusRegistry(registry prometheus.Registerer) ConfigOptionFunc {
	return func(c *Config) {
		c.promRegistry = registry
	}
}

// WithApiListenAddress specifies the REST API listen address. The
// default is to not start the API server.
func WithApiListenAddress(address string) ConfigOptionFunc {
	return func(c *Config) {
		c.apiListenAddress = address
	}
}

// WithAuditDisabled disables the append-only audit journal
func WithAuditDisabled(disabled bool) ConfigOptionFunc {
	return func(c *Config) {
		c.auditDisabled = disabled
	}
}
