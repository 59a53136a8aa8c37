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

// Package issuance implements the issuance controller: mint and burn
// authorization, per-minter quotas, the lifetime supply cap and the
// rolling 24-hour epoch quota. Every check runs before the external
// mint or burn call so a rejected operation never mutates state.
package issuance

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/openstable-io/ingot/clock"
	"github.com/openstable-io/ingot/database"
	"github.com/openstable-io/ingot/event"
	"github.com/openstable-io/ingot/roles"
	"github.com/openstable-io/ingot/token"
	"github.com/prometheus/client_golang/prometheus"
)

// EpochLengthSeconds is the fixed epoch window for the rolling mint
// quota. The window resets lazily on access, not via a timer.
const EpochLengthSeconds = 86400

// MaxBatchEntries bounds the number of entries in a batch mint
const MaxBatchEntries = 10

const (
	// MaxNameLength bounds the token name accepted at initialization
	MaxNameLength = 32
	// MaxSymbolLength bounds the token symbol accepted at initialization
	MaxSymbolLength = 10
)

var (
	ErrPaused              = errors.New("ledger is paused")
	ErrNotPaused           = errors.New("ledger is not paused")
	ErrZeroAmount          = errors.New("amount must be nonzero")
	ErrQuotaExceeded       = errors.New("minter quota exceeded")
	ErrSupplyCapExceeded   = errors.New("supply cap exceeded")
	ErrEpochQuotaExceeded  = errors.New("epoch quota exceeded")
	ErrBatchSize           = errors.New("batch size out of range")
	ErrNotAuthority        = errors.New("caller is not the ledger authority")
	ErrNotPendingAuthority = errors.New("caller is not the pending authority")
	ErrLedgerExists        = errors.New("ledger already exists")
	ErrNameLength          = errors.New("token name length out of range")
	ErrSymbolLength        = errors.New("token symbol length out of range")
	ErrCapBelowSupply      = errors.New("supply cap below current total supply")
)

// Controller enforces issuance policy for all ledger instances. All
// operations are serialized through the shared per-instance mutex and
// follow evaluate-then-commit: state counters are only persisted after
// the external transfer-service call succeeds.
type Controller struct {
	db      *database.Database
	token   token.Service
	events  *event.EventBus
	roles   *roles.Registry
	clock   clock.Clock
	logger  *slog.Logger
	metrics *issuanceMetrics
	mu      *sync.Mutex
}

// ControllerConfig holds the dependencies for a Controller
type ControllerConfig struct {
	Database     *database.Database
	Token        token.Service
	EventBus     *event.EventBus
	Roles        *roles.Registry
	Clock        clock.Clock
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	Mutex        *sync.Mutex
}

// NewController creates an issuance controller
func NewController(cfg ControllerConfig) *Controller {
	c := &Controller{
		db:     cfg.Database,
		token:  cfg.Token,
		events: cfg.EventBus,
		roles:  cfg.Roles,
		clock:  cfg.Clock,
		logger: cfg.Logger,
		mu:     cfg.Mutex,
	}
	if cfg.PromRegistry != nil {
		c.initMetrics(cfg.PromRegistry)
	}
	return c
}

type issuanceMetrics struct {
	mints   *prometheus.CounterVec
	burns   *prometheus.CounterVec
	rejects *prometheus.CounterVec
	supply  *prometheus.GaugeVec
}

func (c *Controller) initMetrics(promRegistry prometheus.Registerer) {
	c.metrics = &issuanceMetrics{
		mints: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingot_mints_total",
				Help: "successful mint operations by ledger",
			},
			[]string{"ledger"},
		),
		burns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingot_burns_total",
				Help: "successful burn operations by ledger",
			},
			[]string{"ledger"},
		),
		rejects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingot_issuance_rejects_total",
				Help: "rejected issuance operations by reason",
			},
			[]string{"op", "reason"},
		),
		supply: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ingot_total_supply",
				Help: "current total supply by ledger",
			},
			[]string{"ledger"},
		),
	}
	promRegistry.MustRegister(
		c.metrics.mints,
		c.metrics.burns,
		c.metrics.rejects,
		c.metrics.supply,
	)
}

func (c *Controller) recordReject(op string, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.rejects.WithLabelValues(op, rejectReason(err)).Inc()
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrPaused):
		return "paused"
	case errors.Is(err, ErrZeroAmount):
		return "zero_amount"
	case errors.Is(err, roles.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, ErrSupplyCapExceeded):
		return "supply_cap_exceeded"
	case errors.Is(err, ErrEpochQuotaExceeded):
		return "epoch_quota_exceeded"
	case errors.Is(err, ErrBatchSize):
		return "batch_size"
	case errors.Is(err, token.ErrExecutionFailed):
		return "execution_failed"
	default:
		return "other"
	}
}
