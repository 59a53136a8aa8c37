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

package models

import "errors"

var (
	ErrMultisigConfigNotFound = errors.New("multisig config not found")
	ErrProposalNotFound       = errors.New("proposal not found")
)

// MultisigConfig holds the approval threshold for one ledger instance.
// Signer identities live in MultisigSigner rows.
type MultisigConfig struct {
	ID        uint   `gorm:"primarykey"`
	LedgerID  string `gorm:"size:64;uniqueIndex;not null"`
	Threshold int    `gorm:"not null"`
}

// TableName returns the table name
func (MultisigConfig) TableName() string {
	return "multisig_config"
}

// MultisigSigner is one authorized signer identity in a ledger's
// multisig configuration
type MultisigSigner struct {
	ID       uint   `gorm:"primarykey"`
	LedgerID string `gorm:"size:64;uniqueIndex:idx_signer_ledger_identity,priority:1;not null"`
	Identity string `gorm:"size:64;uniqueIndex:idx_signer_ledger_identity,priority:2;not null"`
}

// TableName returns the table name
func (MultisigSigner) TableName() string {
	return "multisig_signer"
}

// MultisigProposal is an action pending collective authorization.
// Proposals have a lifecycle: created -> approved(n) -> executed, or
// expire unexecuted. Once executed the record is frozen.
type MultisigProposal struct {
	ID         uint   `gorm:"primarykey"`
	ProposalID string `gorm:"size:36;uniqueIndex;not null"`
	LedgerID   string `gorm:"size:64;index;not null"`
	Proposer   string `gorm:"size:64;not null"`
	Payload    []byte // opaque; applied by the caller after execution
	Executed   bool   `gorm:"not null"`
	CreatedAt  int64  `gorm:"not null"` // unix seconds
	ExpiresAt  int64  `gorm:"not null"` // unix seconds
}

// TableName returns the table name
func (MultisigProposal) TableName() string {
	return "multisig_proposal"
}

// ProposalApproval records one signer's approval of a proposal. Each
// signer approves at most once.
type ProposalApproval struct {
	ID         uint   `gorm:"primarykey"`
	ProposalID string `gorm:"size:36;uniqueIndex:idx_approval_proposal_signer,priority:1;not null"`
	Signer     string `gorm:"size:64;uniqueIndex:idx_approval_proposal_signer,priority:2;not null"`
	ApprovedAt int64  `gorm:"not null"` // unix seconds
}

// TableName returns the table name
func (ProposalApproval) TableName() string {
	return "proposal_approval"
}
