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
	// TransferEvaluatedEventType is the event type for evaluated transfers
	TransferEvaluatedEventType = EventType("compliance.transfer")
	// SeizureEventType is the event type for forced seizures
	SeizureEventType = EventType("compliance.seizure")
	// ListEntryEventType is the event type for blacklist/whitelist changes
	ListEntryEventType = EventType("compliance.list")
	// ComplianceConfigEventType is the event type for compliance config updates
	ComplianceConfigEventType = EventType("compliance.config")
)

// TransferEvaluatedEvent records the outcome of a transfer compliance
// evaluation, including which bypass (if any) applied
type TransferEvaluatedEvent struct {
	LedgerID    string
	Source      string
	Destination string
	Amount      uint64
	Fee         uint64
	NetAmount   uint64
	Bypass      string
}

// SeizureEvent is emitted after a forced transfer out of a targeted
// account completes
type SeizureEvent struct {
	LedgerID string
	Source   string
	Treasury string
	Amount   uint64
	SeizedBy string
	Reason   string
}

// ListEntryEvent is emitted when a blacklist or whitelist entry is
// added or deactivated
type ListEntryEvent struct {
	LedgerID string
	Target   string
	Kind     string
	Active   bool
	Caller   string
	Reason   string
}

// ComplianceConfigEvent is emitted when the compliance configuration
// changes
type ComplianceConfigEvent struct {
	LedgerID string
	Caller   string
	Field    string
	Value    string
}
