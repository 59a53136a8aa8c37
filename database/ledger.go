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

// GetLedger retrieves a ledger instance by its identifier
func (d *Database) GetLedger(
	ledgerID string,
	txn *gorm.DB,
) (*models.Ledger, error) {
	var ledger models.Ledger
	result := d.handle(txn).
		Where("ledger_id = ?", ledgerID).
		First(&ledger)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrLedgerNotFound
		}
		return nil, fmt.Errorf("DB querying Ledger failed: %w", result.Error)
	}
	return &ledger, nil
}

// CreateLedger creates a new ledger instance record
func (d *Database) CreateLedger(
	ledger *models.Ledger,
	txn *gorm.DB,
) error {
	if result := d.handle(txn).Create(ledger); result.Error != nil {
		return fmt.Errorf("DB creating Ledger failed: %w", result.Error)
	}
	return nil
}

// UpdateLedger saves changes to an existing ledger instance record
func (d *Database) UpdateLedger(
	ledger *models.Ledger,
	txn *gorm.DB,
) error {
	if result := d.handle(txn).Save(ledger); result.Error != nil {
		return fmt.Errorf("DB updating Ledger failed: %w", result.Error)
	}
	return nil
}

// ListLedgers returns all ledger instances
func (d *Database) ListLedgers(txn *gorm.DB) ([]models.Ledger, error) {
	var ledgers []models.Ledger
	result := d.handle(txn).Order("ledger_id").Find(&ledgers)
	if result.Error != nil {
		return nil, fmt.Errorf("DB listing Ledgers failed: %w", result.Error)
	}
	return ledgers, nil
}
