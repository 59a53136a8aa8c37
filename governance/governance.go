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

// Package governance implements the multisig coordinator: signer-set
// configuration and the proposal lifecycle (create, approve, execute).
// Expiry is evaluated lazily on access; there is no background timer.
package governance

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/openstable-io/ingot/clock"
	"github.com/openstable-io/ingot/database"
	"github.com/openstable-io/ingot/database/models"
	"github.com/openstable-io/ingot/event"
	"github.com/openstable-io/ingot/roles"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// MaxSigners bounds the signer set of a multisig configuration
const MaxSigners = 10

// DefaultProposalTTL applies when a proposal is created with a zero
// TTL
const DefaultProposalTTL = 72 * time.Hour

var (
	ErrInvalidThreshold = errors.New("threshold outside valid range")
	ErrDuplicateSigner  = errors.New("signer set contains duplicates")
	ErrConfigExists     = errors.New("multisig config already exists")
	ErrNotSigner        = errors.New("caller is not an authorized signer")
	ErrExpired          = errors.New("proposal has expired")
	ErrAlreadyExecuted  = errors.New("proposal already executed")
	ErrAlreadyApproved  = errors.New("signer already approved this proposal")
	ErrThresholdNotMet  = errors.New("approval threshold not met")
)

// Proposal lifecycle stages carried in proposal events
const (
	StageCreated  = "created"
	StageApproved = "approved"
	StageExecuted = "executed"
)

// Coordinator manages multisig configuration and the proposal
// lifecycle for all ledger instances. Proposals gate privileged
// actions: an executed proposal serves as the authorization token for
// the caller to apply its payload. Mutations are serialized through
// the shared per-instance mutex.
type Coordinator struct {
	db      *database.Database
	events  *event.EventBus
	roles   *roles.Registry
	clock   clock.Clock
	logger  *slog.Logger
	metrics *governanceMetrics
	mu      *sync.Mutex
}

// CoordinatorConfig holds the dependencies for a Coordinator
type CoordinatorConfig struct {
	Database     *database.Database
	EventBus     *event.EventBus
	Roles        *roles.Registry
	Clock        clock.Clock
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	Mutex        *sync.Mutex
}

// NewCoordinator creates a governance coordinator
func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	c := &Coordinator{
		db:     cfg.Database,
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

type governanceMetrics struct {
	proposals *prometheus.CounterVec
	rejects   *prometheus.CounterVec
}

func (c *Coordinator) initMetrics(promRegistry prometheus.Registerer) {
	c.metrics = &governanceMetrics{
		proposals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingot_proposals_total",
				Help: "multisig proposal lifecycle transitions by stage",
			},
			[]string{"ledger", "stage"},
		),
		rejects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingot_governance_rejects_total",
				Help: "rejected governance operations by reason",
			},
			[]string{"op", "reason"},
		),
	}
	promRegistry.MustRegister(c.metrics.proposals, c.metrics.rejects)
}

func (c *Coordinator) recordStage(ledgerID, stage string) {
	if c.metrics == nil {
		return
	}
	c.metrics.proposals.WithLabelValues(ledgerID, stage).Inc()
}

func (c *Coordinator) recordReject(op string, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.rejects.WithLabelValues(op, rejectReason(err)).Inc()
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrNotSigner), errors.Is(err, roles.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrAlreadyExecuted):
		return "already_executed"
	case errors.Is(err, ErrAlreadyApproved):
		return "already_approved"
	case errors.Is(err, ErrThresholdNotMet):
		return "threshold_not_met"
	case errors.Is(err, ErrInvalidThreshold):
		return "invalid_threshold"
	default:
		return "other"
	}
}

// InitConfig creates the multisig configuration for a ledger instance.
// Requires MASTER. The threshold must satisfy
// 1 <= threshold <= len(signers) <= 10 and the signer set must be
// distinct.
func (c *Coordinator) InitConfig(
	ledgerID, caller string,
	threshold int,
	signers []string,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.db.GetLedger(ledgerID, nil); err != nil {
		return err
	}
	ok, err := c.roles.Has(ledgerID, caller, roles.Master)
	if err != nil {
		return err
	}
	if !ok {
		c.recordReject("init_config", roles.ErrUnauthorized)
		return roles.ErrUnauthorized
	}
	if threshold < 1 || len(signers) > MaxSigners ||
		threshold > len(signers) {
		c.recordReject("init_config", ErrInvalidThreshold)
		return ErrInvalidThreshold
	}
	seen := make(map[string]struct{}, len(signers))
	for _, signer := range signers {
		if _, dup := seen[signer]; dup {
			return ErrDuplicateSigner
		}
		seen[signer] = struct{}{}
	}
	if _, err := c.db.GetMultisigConfig(ledgerID, nil); err == nil {
		return ErrConfigExists
	}
	config := &models.MultisigConfig{
		LedgerID:  ledgerID,
		Threshold: threshold,
	}
	err = c.db.Transaction(func(txn *gorm.DB) error {
		return c.db.CreateMultisigConfig(config, signers, txn)
	})
	if err != nil {
		return err
	}
	c.logger.Info(
		"multisig config initialized",
		"ledger", ledgerID,
		"threshold", threshold,
		"signers", len(signers),
		"component", "governance",
	)
	return nil
}

// Propose creates a new proposal carrying an opaque payload. The
// proposer must be in the signer set. A zero TTL falls back to
// DefaultProposalTTL. The proposer's own approval is not implied; it
// must be recorded separately via Approve.
func (c *Coordinator) Propose(
	ledgerID, proposer string,
	payload []byte,
	ttl time.Duration,
) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.db.GetMultisigConfig(ledgerID, nil); err != nil {
		return "", err
	}
	isSigner, err := c.isSigner(ledgerID, proposer)
	if err != nil {
		return "", err
	}
	if !isSigner {
		c.recordReject("propose", ErrNotSigner)
		return "", ErrNotSigner
	}
	if ttl == 0 {
		ttl = DefaultProposalTTL
	}
	now := c.clock.Now()
	proposal := &models.MultisigProposal{
		ProposalID: uuid.NewString(),
		LedgerID:   ledgerID,
		Proposer:   proposer,
		Payload:    payload,
		CreatedAt:  now.Unix(),
		ExpiresAt:  now.Add(ttl).Unix(),
	}
	if err := c.db.CreateProposal(proposal, nil); err != nil {
		return "", err
	}
	config, err := c.db.GetMultisigConfig(ledgerID, nil)
	if err != nil {
		return "", err
	}
	c.recordStage(ledgerID, StageCreated)
	c.logger.Info(
		"proposal created",
		"ledger", ledgerID,
		"proposal", proposal.ProposalID,
		"proposer", proposer,
		"expires_at", proposal.ExpiresAt,
		"component", "governance",
	)
	c.publishProposalEvent(
		ledgerID,
		proposal.ProposalID,
		proposer,
		StageCreated,
		0,
		config.Threshold,
	)
	return proposal.ProposalID, nil
}

// Approve records a signer's approval. Rejects expired and executed
// proposals, non-signers and duplicate approvals.
func (c *Coordinator) Approve(proposalID, signer string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	proposal, err := c.db.GetProposal(proposalID, nil)
	if err != nil {
		return err
	}
	if err := c.checkLive(proposal); err != nil {
		c.recordReject("approve", err)
		return err
	}
	isSigner, err := c.isSigner(proposal.LedgerID, signer)
	if err != nil {
		return err
	}
	if !isSigner {
		c.recordReject("approve", ErrNotSigner)
		return ErrNotSigner
	}
	approvals, err := c.db.GetApprovals(proposalID, nil)
	if err != nil {
		return err
	}
	for _, approved := range approvals {
		if approved == signer {
			c.recordReject("approve", ErrAlreadyApproved)
			return ErrAlreadyApproved
		}
	}
	err = c.db.AddApproval(&models.ProposalApproval{
		ProposalID: proposalID,
		Signer:     signer,
		ApprovedAt: c.clock.Now().Unix(),
	}, nil)
	if err != nil {
		return err
	}
	config, err := c.db.GetMultisigConfig(proposal.LedgerID, nil)
	if err != nil {
		return err
	}
	c.recordStage(proposal.LedgerID, StageApproved)
	c.publishProposalEvent(
		proposal.LedgerID,
		proposalID,
		signer,
		StageApproved,
		len(approvals)+1,
		config.Threshold,
	)
	return nil
}

// Execute marks a proposal executed once its approval count meets the
// threshold. Execution happens exactly once; the executed proposal is
// the caller's authorization token for applying the payload.
func (c *Coordinator) Execute(proposalID, executor string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	proposal, err := c.db.GetProposal(proposalID, nil)
	if err != nil {
		return err
	}
	if err := c.checkLive(proposal); err != nil {
		c.recordReject("execute", err)
		return err
	}
	approvals, err := c.db.GetApprovals(proposalID, nil)
	if err != nil {
		return err
	}
	config, err := c.db.GetMultisigConfig(proposal.LedgerID, nil)
	if err != nil {
		return err
	}
	if len(approvals) < config.Threshold {
		c.recordReject("execute", ErrThresholdNotMet)
		return ErrThresholdNotMet
	}
	proposal.Executed = true
	if err := c.db.UpdateProposal(proposal, nil); err != nil {
		return err
	}
	c.recordStage(proposal.LedgerID, StageExecuted)
	c.logger.Info(
		"proposal executed",
		"ledger", proposal.LedgerID,
		"proposal", proposalID,
		"executor", executor,
		"approvals", len(approvals),
		"threshold", config.Threshold,
		"component", "governance",
	)
	c.publishProposalEvent(
		proposal.LedgerID,
		proposalID,
		executor,
		StageExecuted,
		len(approvals),
		config.Threshold,
	)
	return nil
}

// Proposal returns a proposal record along with its current approvals
func (c *Coordinator) Proposal(
	proposalID string,
) (*models.MultisigProposal, []string, error) {
	proposal, err := c.db.GetProposal(proposalID, nil)
	if err != nil {
		return nil, nil, err
	}
	approvals, err := c.db.GetApprovals(proposalID, nil)
	if err != nil {
		return nil, nil, err
	}
	return proposal, approvals, nil
}

// Config returns the multisig configuration and signer set for a
// ledger instance
func (c *Coordinator) Config(
	ledgerID string,
) (*models.MultisigConfig, []string, error) {
	config, err := c.db.GetMultisigConfig(ledgerID, nil)
	if err != nil {
		return nil, nil, err
	}
	signers, err := c.db.GetMultisigSigners(ledgerID, nil)
	if err != nil {
		return nil, nil, err
	}
	return config, signers, nil
}

// checkLive rejects executed and expired proposals. Expiry is lazy:
// it is only ever observed here, on approve/execute access.
func (c *Coordinator) checkLive(proposal *models.MultisigProposal) error {
	if proposal.Executed {
		return ErrAlreadyExecuted
	}
	if c.clock.Now().Unix() >= proposal.ExpiresAt {
		return ErrExpired
	}
	return nil
}

func (c *Coordinator) isSigner(ledgerID, identity string) (bool, error) {
	signers, err := c.db.GetMultisigSigners(ledgerID, nil)
	if err != nil {
		return false, err
	}
	for _, signer := range signers {
		if signer == identity {
			return true, nil
		}
	}
	return false, nil
}

func (c *Coordinator) publishProposalEvent(
	ledgerID, proposalID, caller, stage string,
	approvals, threshold int,
) {
	c.events.Publish(
		event.ProposalEventType,
		event.NewEvent(event.ProposalEventType, event.ProposalEvent{
			LedgerID:   ledgerID,
			ProposalID: proposalID,
			Caller:     caller,
			Stage:      stage,
			Approvals:  approvals,
			Threshold:  threshold,
		}),
	)
}
