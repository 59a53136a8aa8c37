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

// Package compliance implements the transfer-compliance engine: fee
// computation, blacklist/whitelist evaluation, the permanent-delegate
// override and forced seizure.
package compliance

import (
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/openstable-io/ingot/clock"
	"github.com/openstable-io/ingot/database"
	"github.com/openstable-io/ingot/database/models"
	"github.com/openstable-io/ingot/event"
	"github.com/openstable-io/ingot/roles"
	"github.com/openstable-io/ingot/token"
	"github.com/prometheus/client_golang/prometheus"
)

// MaxFeeBasisPoints is the upper bound of the fee rate (100%)
const MaxFeeBasisPoints = 10000

// MaxBatchEntries bounds the number of targets in a batch blacklist
const MaxBatchEntries = 10

var (
	ErrHookPaused             = errors.New("compliance checks are paused")
	ErrSourceBlacklisted      = errors.New("source is blacklisted")
	ErrDestinationBlacklisted = errors.New("destination is blacklisted")
	ErrAmountTooLow           = errors.New("amount below minimum transfer amount")
	ErrInvalidFeeRate         = errors.New("fee rate exceeds 10000 basis points")
	ErrConfigExists           = errors.New("compliance config already exists")
	ErrNoDelegate             = errors.New("no permanent delegate configured")
	ErrNotDelegate            = errors.New("caller is not the permanent delegate")
	ErrSelfSeizure            = errors.New("seizure source and treasury are the same account")
	ErrSeizeAmount            = errors.New("seize amount exceeds source balance")
	ErrEmptyBalance           = errors.New("source account has no balance to seize")
	ErrBatchSize              = errors.New("batch size out of range")
	ErrInvalidListKind        = errors.New("invalid whitelist classification")
	ErrBatchMismatch          = errors.New("batch targets and reasons differ in length")
)

// Engine evaluates every proposed transfer against the ledger's
// compliance configuration and manages the blacklist/whitelist state.
// Mutating operations are serialized through the shared per-instance
// mutex.
type Engine struct {
	db      *database.Database
	token   token.Service
	events  *event.EventBus
	roles   *roles.Registry
	clock   clock.Clock
	logger  *slog.Logger
	metrics *complianceMetrics
	mu      *sync.Mutex
}

// EngineConfig holds the dependencies for an Engine
type EngineConfig struct {
	Database     *database.Database
	Token        token.Service
	EventBus     *event.EventBus
	Roles        *roles.Registry
	Clock        clock.Clock
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	Mutex        *sync.Mutex
}

// NewEngine creates a compliance engine
func NewEngine(cfg EngineConfig) *Engine {
	e := &Engine{
		db:     cfg.Database,
		token:  cfg.Token,
		events: cfg.EventBus,
		roles:  cfg.Roles,
		clock:  cfg.Clock,
		logger: cfg.Logger,
		mu:     cfg.Mutex,
	}
	if cfg.PromRegistry != nil {
		e.initMetrics(cfg.PromRegistry)
	}
	return e
}

type complianceMetrics struct {
	evaluations *prometheus.CounterVec
	fees        *prometheus.CounterVec
	seizures    *prometheus.CounterVec
	rejects     *prometheus.CounterVec
}

func (e *Engine) initMetrics(promRegistry prometheus.Registerer) {
	e.metrics = &complianceMetrics{
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingot_transfers_evaluated_total",
				Help: "transfer compliance evaluations by outcome",
			},
			[]string{"ledger", "outcome"},
		),
		fees: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingot_transfer_fees_total",
				Help: "transfer fees collected by ledger",
			},
			[]string{"ledger"},
		),
		seizures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingot_seizures_total",
				Help: "completed seizures by ledger",
			},
			[]string{"ledger"},
		),
		rejects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingot_compliance_rejects_total",
				Help: "rejected compliance operations by reason",
			},
			[]string{"op", "reason"},
		),
	}
	promRegistry.MustRegister(
		e.metrics.evaluations,
		e.metrics.fees,
		e.metrics.seizures,
		e.metrics.rejects,
	)
}

func (e *Engine) recordReject(op string, err error) {
	if e.metrics == nil {
		return
	}
	e.metrics.rejects.WithLabelValues(op, rejectReason(err)).Inc()
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrHookPaused):
		return "paused"
	case errors.Is(err, ErrSourceBlacklisted):
		return "source_blacklisted"
	case errors.Is(err, ErrDestinationBlacklisted):
		return "destination_blacklisted"
	case errors.Is(err, ErrAmountTooLow):
		return "amount_too_low"
	case errors.Is(err, ErrNotDelegate), errors.Is(err, roles.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrSelfSeizure):
		return "self_seizure"
	case errors.Is(err, token.ErrExecutionFailed):
		return "execution_failed"
	default:
		return "other"
	}
}

// ConfigParams describes a new or updated compliance configuration
type ConfigParams struct {
	FeeBasisPoints    uint16
	MaxTransferFee    uint64
	MinTransferAmount uint64
	BlacklistEnabled  bool
	PermanentDelegate string
}

// InitConfig creates the compliance configuration for a ledger
// instance. Requires MASTER.
func (e *Engine) InitConfig(
	ledgerID, caller string,
	params ConfigParams,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.db.GetLedger(ledgerID, nil); err != nil {
		return err
	}
	ok, err := e.roles.Has(ledgerID, caller, roles.Master)
	if err != nil {
		return err
	}
	if !ok {
		return roles.ErrUnauthorized
	}
	if params.FeeBasisPoints > MaxFeeBasisPoints {
		return ErrInvalidFeeRate
	}
	if _, err := e.db.GetComplianceConfig(ledgerID, nil); err == nil {
		return ErrConfigExists
	}
	config := &models.ComplianceConfig{
		LedgerID:          ledgerID,
		FeeBasisPoints:    params.FeeBasisPoints,
		MaxTransferFee:    params.MaxTransferFee,
		MinTransferAmount: params.MinTransferAmount,
		BlacklistEnabled:  params.BlacklistEnabled,
		PermanentDelegate: params.PermanentDelegate,
	}
	if err := e.db.CreateComplianceConfig(config, nil); err != nil {
		return err
	}
	e.logger.Info(
		"compliance config initialized",
		"ledger", ledgerID,
		"fee_bps", params.FeeBasisPoints,
		"blacklist_enabled", params.BlacklistEnabled,
		"component", "compliance",
	)
	return nil
}

// UpdateConfig replaces the fee parameters of an existing compliance
// configuration. Requires MASTER. The cumulative fee counter and the
// paused flag are preserved.
func (e *Engine) UpdateConfig(
	ledgerID, caller string,
	params ConfigParams,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	config, err := e.authorizedConfig(ledgerID, caller)
	if err != nil {
		return err
	}
	if params.FeeBasisPoints > MaxFeeBasisPoints {
		return ErrInvalidFeeRate
	}
	config.FeeBasisPoints = params.FeeBasisPoints
	config.MaxTransferFee = params.MaxTransferFee
	config.MinTransferAmount = params.MinTransferAmount
	config.BlacklistEnabled = params.BlacklistEnabled
	config.PermanentDelegate = params.PermanentDelegate
	if err := e.db.UpdateComplianceConfig(config, nil); err != nil {
		return err
	}
	e.publishConfigEvent(
		ledgerID,
		caller,
		"fee_basis_points",
		strconv.FormatUint(uint64(params.FeeBasisPoints), 10),
	)
	return nil
}

// SetPermanentDelegate sets or clears the permanent-delegate identity.
// Requires MASTER. An empty delegate disables the override entirely.
func (e *Engine) SetPermanentDelegate(
	ledgerID, caller, delegate string,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	config, err := e.authorizedConfig(ledgerID, caller)
	if err != nil {
		return err
	}
	config.PermanentDelegate = delegate
	if err := e.db.UpdateComplianceConfig(config, nil); err != nil {
		return err
	}
	e.logger.Info(
		"permanent delegate updated",
		"ledger", ledgerID,
		"delegate", delegate,
		"component", "compliance",
	)
	e.publishConfigEvent(ledgerID, caller, "permanent_delegate", delegate)
	return nil
}

// SetBlacklistEnabled toggles blacklist enforcement. Requires MASTER.
func (e *Engine) SetBlacklistEnabled(
	ledgerID, caller string,
	enabled bool,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	config, err := e.authorizedConfig(ledgerID, caller)
	if err != nil {
		return err
	}
	config.BlacklistEnabled = enabled
	if err := e.db.UpdateComplianceConfig(config, nil); err != nil {
		return err
	}
	e.publishConfigEvent(
		ledgerID,
		caller,
		"blacklist_enabled",
		strconv.FormatBool(enabled),
	)
	return nil
}

// SetPaused sets the compliance paused flag, halting all transfer
// evaluation. Requires PAUSER.
func (e *Engine) SetPaused(
	ledgerID, caller string,
	paused bool,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	config, err := e.db.GetComplianceConfig(ledgerID, nil)
	if err != nil {
		return err
	}
	ok, err := e.roles.Has(ledgerID, caller, roles.Pauser)
	if err != nil {
		return err
	}
	if !ok {
		return roles.ErrUnauthorized
	}
	config.Paused = paused
	if err := e.db.UpdateComplianceConfig(config, nil); err != nil {
		return err
	}
	e.logger.Info(
		"compliance paused flag set",
		"ledger", ledgerID,
		"paused", paused,
		"component", "compliance",
	)
	e.publishConfigEvent(ledgerID, caller, "paused", strconv.FormatBool(paused))
	return nil
}

// Config returns the compliance configuration for a ledger instance
func (e *Engine) Config(ledgerID string) (*models.ComplianceConfig, error) {
	return e.db.GetComplianceConfig(ledgerID, nil)
}

// authorizedConfig loads the compliance config and verifies the caller
// holds MASTER
func (e *Engine) authorizedConfig(
	ledgerID, caller string,
) (*models.ComplianceConfig, error) {
	config, err := e.db.GetComplianceConfig(ledgerID, nil)
	if err != nil {
		return nil, err
	}
	ok, err := e.roles.Has(ledgerID, caller, roles.Master)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, roles.ErrUnauthorized
	}
	return config, nil
}

func (e *Engine) publishConfigEvent(
	ledgerID, caller, field, value string,
) {
	e.events.Publish(
		event.ComplianceConfigEventType,
		event.NewEvent(
			event.ComplianceConfigEventType,
			event.ComplianceConfigEvent{
				LedgerID: ledgerID,
				Caller:   caller,
				Field:    field,
				Value:    value,
			},
		),
	)
}
