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

// GetRole retrieves the role bitmask record for an identity on a
// ledger instance. Returns ErrRoleNotFound if no grant exists.
func (d *Database) GetRole(
	ledgerID, identity string,
	txn *gorm.DB,
) (*models.Role, error) {
	var role models.Role
	result := d.handle(txn).
		Where("ledger_id = ? AND identity = ?", ledgerID, identity).
		First(&role)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrRoleNotFound
		}
		return nil, fmt.Errorf("DB querying Role failed: %w", result.Error)
	}
	return &role, nil
}

// SetRole overwrites the role bitmask for an identity, creating the
// record on first grant
func (d *Database) SetRole(
	role *models.Role,
	txn *gorm.DB,
) error {
	onConflict := clause.OnConflict{
		Columns: []clause.Column{
			{Name: "ledger_id"},
			{Name: "identity"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"roles"}),
	}
	if result := d.handle(txn).Clauses(onConflict).Create(role); result.Error != nil {
		return fmt.Errorf("DB upserting Role failed: %w", result.Error)
	}
	return nil
}

// GetMinterQuota retrieves the quota record for a minter. Returns nil
// when no quota has been assigned.
func (d *Database) GetMinterQuota(
	ledgerID, minter string,
	txn *gorm.DB,
) (*models.MinterQuota, error) {
	var quota models.MinterQuota
	result := d.handle(txn).
		Where("ledger_id = ? AND minter = ?", ledgerID, minter).
		First(&quota)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("DB querying MinterQuota failed: %w", result.Error)
	}
	return &quota, nil
}

// SetMinterQuota creates or updates the quota ceiling for a minter,
// preserving the cumulative minted counter
func (d *Database) SetMinterQuota(
	quota *models.MinterQuota,
	txn *gorm.DB,
) error {
	onConflict := clause.OnConflict{
		Columns: []clause.Column{
			{Name: "ledger_id"},
			{Name: "minter"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"quota"}),
	}
	if result := d.handle(txn).Clauses(onConflict).Create(quota); result.Error != nil {
		return fmt.Errorf("DB upserting MinterQuota failed: %w", result.Error)
	}
	return nil
}

// UpdateMinterQuota saves changes to an existing quota record,
// including the minted counter
func (d *Database) UpdateMinterQuota(
	quota *models.MinterQuota,
	txn *gorm.DB,
) error {
	if result := d.handle(txn).Save(quota); result.Error != nil {
		return fmt.Errorf("DB updating MinterQuota failed: %w", result.Error)
	}
	return nil
}
