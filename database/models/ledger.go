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

var ErrLedgerNotFound = errors.New("ledger not found")

// Ledger is the per-instance state record for one governed asset.
// It is the single point of contended mutable shared state: every
// mutation happens read-modify-write inside one serialized operation.
type Ledger struct {
	ID               uint   `gorm:"primarykey"`
	LedgerID         string `gorm:"size:64;uniqueIndex;not null"`
	Name             string `gorm:"size:32;not null"`
	Symbol           string `gorm:"size:10;not null"`
	Decimals         uint8  `gorm:"not null"`
	Authority        string `gorm:"size:64;index;not null"`
	PendingAuthority string `gorm:"size:64"` // two-step transfer target, empty when absent
	TotalSupply      uint64 `gorm:"not null"`
	Paused           bool   `gorm:"not null"`
	Features         uint32 `gorm:"not null"` // feature-flag bitmask
	SupplyCap        uint64 `gorm:"not null"` // 0 = unlimited
	EpochQuota       uint64 `gorm:"not null"` // 0 = unlimited
	EpochMinted      uint64 `gorm:"not null"`
	EpochStart       int64  `gorm:"not null"` // unix seconds, advanced only by rollover
}

// TableName returns the table name
func (Ledger) TableName() string {
	return "ledger"
}
