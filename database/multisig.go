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

package database

import (
	"errors"
	"fmt"

	"github.com/openstable-io/ingot/database/models"
	"gorm.io/gorm"
)

// GetMultisigConfig retrieves the multisig configuration for a ledger
// instance
func (d *Database) GetMultisigConfig(
	ledgerID string,
	txn *gorm.DB,
) (*models.MultisigConfig, error) {
	var config models.MultisigConfig
	result := d.handle(txn).
		Where("ledger_id = ?", ledgerID).
		First(&config)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrMultisigConfigNotFound
		}
		return nil, fmt.Errorf("DB querying MultisigConfig failed: %w", result.Error)
	}
	return &config, nil
}

// CreateMultisigConfig creates the multisig configuration and its
// signer rows
func (d *Database) CreateMultisigConfig(
	config *models.MultisigConfig,
	signers []string,
	txn *gorm.DB,
) error {
	db := d.handle(txn)
	if result := db.Create(config); result.Error != nil {
		return fmt.Errorf("DB creating MultisigConfig failed: %w", result.Error)
	}
	for _, signer := range signers {
		row := models.MultisigSigner{
			LedgerID: config.LedgerID,
			Identity: signer,
		}
		if result := db.Create(&row); result.Error != nil {
			return fmt.Errorf("DB creating MultisigSigner failed: %w", result.Error)
		}
	}
	return nil
}

// GetMultisigSigners returns the signer identities for a ledger's
// multisig configuration
func (d *Database) GetMultisigSigners(
	ledgerID string,
	txn *gorm.DB,
) ([]string, error) {
	var rows []models.MultisigSigner
	result := d.handle(txn).
		Where("ledger_id = ?", ledgerID).
		Order("id").
		Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("DB querying MultisigSigners failed: %w", result.Error)
	}
	signers := make([]string, 0, len(rows))
	for _, row := range rows {
		signers = append(signers, row.Identity)
	}
	return signers, nil
}

// CreateProposal creates a new multisig proposal record
func (d *Database) CreateProposal(
	proposal *models.MultisigProposal,
	txn *gorm.DB,
) error {
	if result := d.handle(txn).Create(proposal); result.Error != nil {
		return fmt.Errorf("DB creating MultisigProposal failed: %w", result.Error)
	}
	return nil
}

// GetProposal retrieves a proposal by its identifier
func (d *Database) GetProposal(
	proposalID string,
	txn *gorm.DB,
) (*models.MultisigProposal, error) {
	var proposal models.MultisigProposal
	result := d.handle(txn).
		Where("proposal_id = ?", proposalID).
		First(&proposal)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrProposalNotFound
		}
		return nil, fmt.Errorf("DB querying MultisigProposal failed: %w", result.Error)
	}
	return &proposal, nil
}

// UpdateProposal saves changes to an existing proposal record
func (d *Database) UpdateProposal(
	proposal *models.MultisigProposal,
	txn *gorm.DB,
) error {
	if result := d.handle(txn).Save(proposal); result.Error != nil {
		return fmt.Errorf("DB updating MultisigProposal failed: %w", result.Error)
	}
	return nil
}

// GetApprovals returns the signer identities that have approved a
// proposal, in approval order
func (d *Database) GetApprovals(
	proposalID string,
	txn *gorm.DB,
) ([]string, error) {
	var rows []models.ProposalApproval
	result := d.handle(txn).
		Where("proposal_id = ?", proposalID).
		Order("id").
		Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("DB querying ProposalApprovals failed: %w", result.Error)
	}
	signers := make([]string, 0, len(rows))
	for _, row := range rows {
		signers = append(signers, row.Signer)
	}
	return signers, nil
}

// AddApproval records a signer's approval of a proposal
func (d *Database) AddApproval(
	approval *models.ProposalApproval,
	txn *gorm.DB,
) error {
	if result := d.handle(txn).Create(approval); result.Error != nil {
		return fmt.Errorf("DB creating ProposalApproval failed: %w", result.Error)
	}
	return nil
}
