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
	ErrComplianceConfigNotFound = errors.New("compliance config not found")
	ErrListEntryNotFound        = errors.New("list entry not found")
)

// ComplianceConfig holds the transfer-compliance parameters for one
// ledger instance
type ComplianceConfig struct {
	ID                 uint   `gorm:"primarykey"`
	LedgerID           string `gorm:"size:64;uniqueIndex;not null"`
	FeeBasisPoints     uint16 `gorm:"not null"` // 0-10000
	MaxTransferFee     uint64 `gorm:"not null"`
	MinTransferAmount  uint64 `gorm:"not null"`
	TotalFeesCollected uint64 `gorm:"not null"`
	Paused             bool   `gorm:"not null"`
	BlacklistEnabled   bool   `gorm:"not null"`
	PermanentDelegate  string `gorm:"size:64"` // empty = none configured
}

// TableName returns the table name
func (ComplianceConfig) TableName() string {
	return "compliance_config"
}

// List entry classifications
const (
	ListKindBlacklist          = "blacklist"
	ListKindWhitelistFeeExempt = "whitelist-fee-exempt"
	ListKindWhitelistBypass    = "whitelist-full-bypass"
)

// ListEntry is a blacklist or whitelist record for one identity.
// Removal deactivates the row instead of deleting it so the audit
// trail is retained.
type ListEntry struct {
	ID        uint   `gorm:"primarykey"`
	LedgerID  string `gorm:"size:64;uniqueIndex:idx_list_ledger_target_kind,priority:1;not null"`
	Target    string `gorm:"size:64;uniqueIndex:idx_list_ledger_target_kind,priority:2;not null"`
	Kind      string `gorm:"size:24;uniqueIndex:idx_list_ledger_target_kind,priority:3;not null"`
	Active    bool   `gorm:"not null"`
	Reason    string `gorm:"size:256"`
	CreatedBy string `gorm:"size:64;not null"`
	CreatedAt int64  `gorm:"not null"` // unix seconds
}

// TableName returns the table name
func (ListEntry) TableName() string {
	return "list_entry"
}

// IsWhitelist reports whether the entry is one of the whitelist
// classifications
func (l *ListEntry) IsWhitelist() bool {
	return l.Kind == ListKindWhitelistFeeExempt ||
		l.Kind == ListKindWhitelistBypass
}
