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

package api

import "github.com/openstable-io/ingot/audit"

// ErrorResponse is the error body returned by every failed request
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// RootResponse is returned by GET /
type RootResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	IsHealthy bool `json:"is_healthy"`
}

// InitLedgerRequest creates a new ledger instance
type InitLedgerRequest struct {
	LedgerID   string `json:"ledger_id"`
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
	Decimals   uint8  `json:"decimals"`
	Authority  string `json:"authority"`
	SupplyCap  uint64 `json:"supply_cap"`
	EpochQuota uint64 `json:"epoch_quota"`
}

// LedgerResponse describes a ledger instance's current state
type LedgerResponse struct {
	LedgerID         string `json:"ledger_id"`
	Name             string `json:"name"`
	Symbol           string `json:"symbol"`
	Decimals         uint8  `json:"decimals"`
	Authority        string `json:"authority"`
	PendingAuthority string `json:"pending_authority,omitempty"`
	TotalSupply      uint64 `json:"total_supply"`
	Paused           bool   `json:"paused"`
	SupplyCap        uint64 `json:"supply_cap"`
	EpochQuota       uint64 `json:"epoch_quota"`
	EpochMinted      uint64 `json:"epoch_minted"`
	EpochStart       int64  `json:"epoch_start"`
	Features         uint32 `json:"features"`
}

// MintRequest mints new supply to a destination account
type MintRequest struct {
	Caller      string `json:"caller"`
	Destination string `json:"destination"`
	Amount      uint64 `json:"amount"`
}

// BatchMintEntry is one recipient in a batch mint
type BatchMintEntry struct {
	Destination string `json:"destination"`
	Amount      uint64 `json:"amount"`
}

// BatchMintRequest mints to up to 10 recipients in one operation
type BatchMintRequest struct {
	Caller  string           `json:"caller"`
	Entries []BatchMintEntry `json:"entries"`
}

// BurnRequest destroys supply held by a source account
type BurnRequest struct {
	Caller string `json:"caller"`
	Source string `json:"source"`
	Amount uint64 `json:"amount"`
}

// AccountRequest targets a single account (freeze/thaw)
type AccountRequest struct {
	Caller  string `json:"caller"`
	Account string `json:"account"`
}

// SetPausedRequest sets a paused flag
type SetPausedRequest struct {
	Caller string `json:"caller"`
	Paused bool   `json:"paused"`
}

// GrantRoleRequest overwrites a target's role bitmask
type GrantRoleRequest struct {
	Caller string `json:"caller"`
	Target string `json:"target"`
	Roles  uint8  `json:"roles"`
}

// RoleResponse reports an identity's role bitmask
type RoleResponse struct {
	LedgerID string `json:"ledger_id"`
	Identity string `json:"identity"`
	Roles    uint8  `json:"roles"`
}

// SetMinterQuotaRequest assigns a per-minter quota ceiling
type SetMinterQuotaRequest struct {
	Caller string `json:"caller"`
	Minter string `json:"minter"`
	Quota  uint64 `json:"quota"`
}

// SetLimitRequest sets a single numeric limit (supply cap, epoch
// quota)
type SetLimitRequest struct {
	Caller string `json:"caller"`
	Value  uint64 `json:"value"`
}

// SetFeaturesRequest replaces the ledger feature-flag bitmask
type SetFeaturesRequest struct {
	Caller   string `json:"caller"`
	Features uint32 `json:"features"`
}

// AuthorityRequest drives the two-step authority transfer
type AuthorityRequest struct {
	Caller       string `json:"caller"`
	NewAuthority string `json:"new_authority,omitempty"`
}

// ComplianceConfigRequest creates or replaces the compliance
// configuration
type ComplianceConfigRequest struct {
	Caller            string `json:"caller"`
	FeeBasisPoints    uint16 `json:"fee_basis_points"`
	MaxTransferFee    uint64 `json:"max_transfer_fee"`
	MinTransferAmount uint64 `json:"min_transfer_amount"`
	BlacklistEnabled  bool   `json:"blacklist_enabled"`
	PermanentDelegate string `json:"permanent_delegate,omitempty"`
}

// ComplianceConfigResponse describes the current compliance
// configuration
type ComplianceConfigResponse struct {
	LedgerID           string `json:"ledger_id"`
	FeeBasisPoints     uint16 `json:"fee_basis_points"`
	MaxTransferFee     uint64 `json:"max_transfer_fee"`
	MinTransferAmount  uint64 `json:"min_transfer_amount"`
	TotalFeesCollected uint64 `json:"total_fees_collected"`
	Paused             bool   `json:"paused"`
	BlacklistEnabled   bool   `json:"blacklist_enabled"`
	PermanentDelegate  string `json:"permanent_delegate,omitempty"`
}

// EvaluateTransferRequest runs the compliance pipeline for a proposed
// transfer
type EvaluateTransferRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Amount      uint64 `json:"amount"`
}

// EvaluateTransferResponse reports the computed fee and net amount
type EvaluateTransferResponse struct {
	Fee       uint64 `json:"fee"`
	NetAmount uint64 `json:"net_amount"`
	Bypass    string `json:"bypass,omitempty"`
}

// ListEntryRequest adds a blacklist or whitelist entry
type ListEntryRequest struct {
	Caller string `json:"caller"`
	Target string `json:"target"`
	Kind   string `json:"kind,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// BatchBlacklistRequest blacklists up to 10 targets with matched
// reasons
type BatchBlacklistRequest struct {
	Caller  string   `json:"caller"`
	Targets []string `json:"targets"`
	Reasons []string `json:"reasons"`
}

// SeizeRequest forcibly transfers funds out of a targeted account. A
// zero amount seizes the full balance.
type SeizeRequest struct {
	Caller   string `json:"caller"`
	Source   string `json:"source"`
	Treasury string `json:"treasury"`
	Amount   uint64 `json:"amount"`
	Reason   string `json:"reason,omitempty"`
}

// SeizeResponse reports the seized amount
type SeizeResponse struct {
	Amount uint64 `json:"amount"`
}

// InitMultisigRequest creates the multisig configuration
type InitMultisigRequest struct {
	Caller    string   `json:"caller"`
	Threshold int      `json:"threshold"`
	Signers   []string `json:"signers"`
}

// MultisigConfigResponse describes the multisig configuration
type MultisigConfigResponse struct {
	LedgerID  string   `json:"ledger_id"`
	Threshold int      `json:"threshold"`
	Signers   []string `json:"signers"`
}

// CreateProposalRequest creates a new multisig proposal. TTLSeconds of
// zero falls back to the default proposal lifetime.
type CreateProposalRequest struct {
	Caller     string `json:"caller"`
	Payload    []byte `json:"payload"`
	TTLSeconds int64  `json:"ttl_seconds"`
}

// ProposalRequest approves or executes an existing proposal
type ProposalRequest struct {
	Caller string `json:"caller"`
}

// CallerRequest carries only the caller identity
type CallerRequest struct {
	Caller string `json:"caller"`
}

// ProposalResponse describes a proposal and its approvals
type ProposalResponse struct {
	ProposalID string   `json:"proposal_id"`
	LedgerID   string   `json:"ledger_id"`
	Proposer   string   `json:"proposer"`
	Payload    []byte   `json:"payload,omitempty"`
	Executed   bool     `json:"executed"`
	CreatedAt  int64    `json:"created_at"`
	ExpiresAt  int64    `json:"expires_at"`
	Approvals  []string `json:"approvals"`
}

// AuditRecordsResponse is a page of audit journal records
type AuditRecordsResponse struct {
	Records []audit.Record `json:"records"`
	NextSeq uint64         `json:"next_seq"`
}
