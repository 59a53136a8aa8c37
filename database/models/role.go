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

var ErrRoleNotFound = errors.New("role not found")

// Role maps (identity, ledger instance) to a capability bitmask.
// Grants overwrite the whole bitmask rather than merging.
type Role struct {
	ID       uint   `gorm:"primarykey"`
	LedgerID string `gorm:"size:64;uniqueIndex:idx_role_ledger_identity,priority:1;not null"`
	Identity string `gorm:"size:64;uniqueIndex:idx_role_ledger_identity,priority:2;not null"`
	Roles    uint8  `gorm:"not null"`
}

// TableName returns the table name
func (Role) TableName() string {
	return "role"
}

// MinterQuota tracks the per-minter ceiling and cumulative minted
// amount for non-MASTER minters
type MinterQuota struct {
	ID       uint   `gorm:"primarykey"`
	LedgerID string `gorm:"size:64;uniqueIndex:idx_quota_ledger_minter,priority:1;not null"`
	Minter   string `gorm:"size:64;uniqueIndex:idx_quota_ledger_minter,priority:2;not null"`
	Quota    uint64 `gorm:"not null"`
	Minted   uint64 `gorm:"not null"`
}

// TableName returns the table name
func (MinterQuota) TableName() string {
	return "minter_quota"
}
