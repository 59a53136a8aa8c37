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
	// RoleGrantEventType is the event type for role bitmask changes
	RoleGrantEventType = EventType("roles.grant")
	// ProposalEventType is the event type for multisig proposal lifecycle
	// transitions (created, approved, executed)
	ProposalEventType = EventType("governance.proposal")
)

// RoleGrantEvent is emitted when a role bitmask is overwritten
type RoleGrantEvent struct {
	LedgerID string
	Caller   string
	Target   string
	Roles    uint8
}

// ProposalEvent is emitted on each multisig proposal lifecycle
// transition. Approvals carries a snapshot of the approval count
// against the configured threshold.
type ProposalEvent struct {
	LedgerID   string
	ProposalID string
	Caller     string
	Stage      string
	Approvals  int
	Threshold  int
}
