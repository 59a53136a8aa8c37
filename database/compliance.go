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
	"gorm.io/gorm/clause"
)

// GetComplianceConfig retrieves the compliance configuration for a
// ledger instance
func (d *Database) GetComplianceConfig(
	ledgerID string,
	txn *gorm.DB,
) (*models.ComplianceConfig, error) {
	var config models.ComplianceConfig
	result := d.handle(txn).
		Where("ledger_id = ?", ledgerID).
		First(&config)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrComplianceConfigNotFound
		}
		return nil, fmt.Errorf("DB querying ComplianceConfig failed: %w", result.Error)
	}
	return &config, nil
}

// CreateComplianceConfig creates the compliance configuration record
func (d *Database) CreateComplianceConfig(
	config *models.ComplianceConfig,
	txn *gorm.DB,
) error {
	if result := d.handle(txn).Create(config); result.Error != nil {
		return fmt.Errorf("DB creating ComplianceConfig failed: %w", result.Error)
	}
	return nil
}

// UpdateComplianceConfig saves changes to the compliance configuration
func (d *Database) UpdateComplianceConfig(
	config *models.ComplianceConfig,
	txn *gorm.DB,
) error {
	if result := d.handle(txn).Save(config); result.Error != nil {
		return fmt.Errorf("DB updating ComplianceConfig failed: %w", result.Error)
	}
	return nil
}

// GetListEntry retrieves a list entry by target and classification.
// Returns nil when no entry exists.
func (d *Database) GetListEntry(
	ledgerID, target, kind string,
	txn *gorm.DB,
) (*models.ListEntry, error) {
	var entry models.ListEntry
	result := d.handle(txn).
		Where(
			"ledger_id = ? AND target = ? AND kind = ?",
			ledgerID, target, kind,
		).
		First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("DB querying ListEntry failed: %w", result.Error)
	}
	return &entry, nil
}

// GetActiveBlacklistEntry retrieves the active blacklist entry for a
// target, or nil when the target is not actively blacklisted
func (d *Database) GetActiveBlacklistEntry(
	ledgerID, target string,
	txn *gorm.DB,
) (*models.ListEntry, error) {
	var entry models.ListEntry
	result := d.handle(txn).
		Where(
			"ledger_id = ? AND target = ? AND kind = ? AND active = ?",
			ledgerID, target, models.ListKindBlacklist, true,
		).
		First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("DB querying ListEntry failed: %w", result.Error)
	}
	return &entry, nil
}

// GetActiveWhitelistEntry retrieves an active whitelist entry of
// either classification for a target, or nil when none exists
func (d *Database) GetActiveWhitelistEntry(
	ledgerID, target string,
	txn *gorm.DB,
) (*models.ListEntry, error) {
	var entry models.ListEntry
	result := d.handle(txn).
		Where(
			"ledger_id = ? AND target = ? AND kind IN ? AND active = ?",
			ledgerID,
			target,
			[]string{
				models.ListKindWhitelistFeeExempt,
				models.ListKindWhitelistBypass,
			},
			true,
		).
		First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("DB querying ListEntry failed: %w", result.Error)
	}
	return &entry, nil
}

// UpsertListEntry creates or overwrites a list entry. Re-adding an
// existing entry re-activates it and replaces reason, creator and
// timestamp.
func (d *Database) UpsertListEntry(
	entry *models.ListEntry,
	txn *gorm.DB,
) error {
	onConflict := clause.OnConflict{
		Columns: []clause.Column{
			{Name: "ledger_id"},
			{Name: "target"},
			{Name: "kind"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"active",
			"reason",
			"created_by",
			"created_at",
		}),
	}
	if result := d.handle(txn).Clauses(onConflict).Create(entry); result.Error != nil {
		return fmt.Errorf("DB upserting ListEntry failed: %w", result.Error)
	}
	return nil
}

// DeactivateListEntry marks a list entry inactive, retaining the row
// for the audit trail. Returns ErrListEntryNotFound when no such entry
// exists.
func (d *Database) DeactivateListEntry(
	ledgerID, target, kind string,
	txn *gorm.DB,
) error {
	result := d.handle(txn).
		Model(&models.ListEntry{}).
		Where(
			"ledger_id = ? AND target = ? AND kind = ?",
			ledgerID, target, kind,
		).
		Update("active", false)
	if result.Error != nil {
		return fmt.Errorf("DB deactivating ListEntry failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrListEntryNotFound
	}
	return nil
}
