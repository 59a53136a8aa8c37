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

package event

const (
	// MintEventType is the event type for successful mints
	MintEventType = EventType("issuance.mint")
	// BatchMintEventType is the event type for completed batch mints
	BatchMintEventType = EventType("issuance.mint.batch")
	// BurnEventType is the event type for successful burns
	BurnEventType = EventType("issuance.burn")
	// PauseEventType is the event type for ledger pauses
	PauseEventType = EventType("issuance.pause")
	// UnpauseEventType is the event type for ledger unpauses
	UnpauseEventType = EventType("issuance.unpause")
	// FreezeEventType is the event type for account freezes
	FreezeEventType = EventType("issuance.freeze")
	// ThawEventType is the event type for account thaws
	ThawEventType = EventType("issuance.thaw")
	// AuthorityEventType is the event type for authority transfer steps
	AuthorityEventType = EventType("issuance.authority")
	// QuotaEventType is the event type for quota and cap changes
	QuotaEventType = EventType("issuance.quota")
	// FeaturesEventType is the event type for feature-flag changes
	FeaturesEventType = EventType("issuance.features")
)

// MintEvent is emitted after the external mint call succeeds and the
// supply counters have been committed
type MintEvent struct {
	LedgerID    string
	Minter      string
	Destination string
	Amount      uint64
	TotalSupply uint64
}

// BatchMintEvent summarizes a completed batch mint
type BatchMintEvent struct {
	LedgerID    string
	Minter      string
	Entries     int
	TotalAmount uint64
	TotalSupply uint64
}

// BurnEvent is emitted after a successful burn
type BurnEvent struct {
	LedgerID    string
	Burner      string
	Source      string
	Amount      uint64
	TotalSupply uint64
	// SelfBurn is true when the caller burned their own funds rather
	// than acting under the BURNER role
	SelfBurn bool
}

// PauseEvent is emitted when the ledger paused flag changes
type PauseEvent struct {
	LedgerID string
	Caller   string
}

// FreezeEvent is emitted when an account is frozen or thawed
type FreezeEvent struct {
	LedgerID string
	Caller   string
	Account  string
}

// AuthorityEvent is emitted on both steps of the two-step authority
// transfer
type AuthorityEvent struct {
	LedgerID     string
	Caller       string
	NewAuthority string
	// Accepted is false for the initiate step and true once the
	// pending authority has claimed the role
	Accepted bool
}

// QuotaEvent is emitted when a supply cap, epoch quota or per-minter
// quota is changed
type QuotaEvent struct {
	LedgerID string
	Caller   string
	Kind     string
	Target   string
	Value    uint64
}

// FeaturesEvent is emitted when the ledger feature-flag bitmask changes
type FeaturesEvent struct {
	LedgerID string
	Caller   string
	Features uint32
}
