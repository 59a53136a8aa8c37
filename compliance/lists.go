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

package compliance

import (
	"github.com/openstable-io/ingot/database/models"
	"github.com/openstable-io/ingot/event"
	"github.com/openstable-io/ingot/roles"
	"gorm.io/gorm"
)

// AddBlacklist adds or reactivates a blacklist entry for a target.
// Requires the BLACKLISTER role. Re-adding an existing entry
// overwrites its reason and timestamp.
func (e *Engine) AddBlacklist(
	ledgerID, caller, target, reason string,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireBlacklister(ledgerID, caller); err != nil {
		e.recordReject("blacklist_add", err)
		return err
	}
	if err := e.upsertEntry(ledgerID, caller, target, models.ListKindBlacklist, reason, nil); err != nil {
		return err
	}
	e.publishListEvent(ledgerID, caller, target, models.ListKindBlacklist, true, reason)
	return nil
}

// RemoveBlacklist deactivates a target's blacklist entry, retaining
// the row for the audit trail. Requires the BLACKLISTER role.
func (e *Engine) RemoveBlacklist(ledgerID, caller, target string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireBlacklister(ledgerID, caller); err != nil {
		e.recordReject("blacklist_remove", err)
		return err
	}
	err := e.db.DeactivateListEntry(
		ledgerID,
		target,
		models.ListKindBlacklist,
		nil,
	)
	if err != nil {
		return err
	}
	e.publishListEvent(ledgerID, caller, target, models.ListKindBlacklist, false, "")
	return nil
}

// BatchBlacklist adds up to 10 targets in one operation with matched
// per-target reasons. The whole batch is applied in one transaction;
// a size or length mismatch aborts it entirely.
func (e *Engine) BatchBlacklist(
	ledgerID, caller string,
	targets, reasons []string,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(targets) == 0 || len(targets) > MaxBatchEntries {
		e.recordReject("blacklist_batch", ErrBatchSize)
		return ErrBatchSize
	}
	if len(reasons) != len(targets) {
		return ErrBatchMismatch
	}
	if err := e.requireBlacklister(ledgerID, caller); err != nil {
		e.recordReject("blacklist_batch", err)
		return err
	}
	err := e.db.Transaction(func(txn *gorm.DB) error {
		for i, target := range targets {
			err := e.upsertEntry(
				ledgerID,
				caller,
				target,
				models.ListKindBlacklist,
				reasons[i],
				txn,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for i, target := range targets {
		e.publishListEvent(
			ledgerID,
			caller,
			target,
			models.ListKindBlacklist,
			true,
			reasons[i],
		)
	}
	e.logger.Info(
		"batch blacklist applied",
		"ledger", ledgerID,
		"targets", len(targets),
		"caller", caller,
		"component", "compliance",
	)
	return nil
}

// AddWhitelist adds or reactivates a whitelist entry of the given
// classification. Requires MASTER.
func (e *Engine) AddWhitelist(
	ledgerID, caller, target, kind, reason string,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if kind != models.ListKindWhitelistFeeExempt &&
		kind != models.ListKindWhitelistBypass {
		return ErrInvalidListKind
	}
	if err := e.requireMaster(ledgerID, caller); err != nil {
		e.recordReject("whitelist_add", err)
		return err
	}
	if err := e.upsertEntry(ledgerID, caller, target, kind, reason, nil); err != nil {
		return err
	}
	e.publishListEvent(ledgerID, caller, target, kind, true, reason)
	return nil
}

// RemoveWhitelist deactivates a target's whitelist entry. Requires
// MASTER.
func (e *Engine) RemoveWhitelist(
	ledgerID, caller, target, kind string,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireMaster(ledgerID, caller); err != nil {
		e.recordReject("whitelist_remove", err)
		return err
	}
	if err := e.db.DeactivateListEntry(ledgerID, target, kind, nil); err != nil {
		return err
	}
	e.publishListEvent(ledgerID, caller, target, kind, false, "")
	return nil
}

// ListEntry returns the list entry for a target and classification, or
// nil when none exists
func (e *Engine) ListEntry(
	ledgerID, target, kind string,
) (*models.ListEntry, error) {
	return e.db.GetListEntry(ledgerID, target, kind, nil)
}

func (e *Engine) upsertEntry(
	ledgerID, caller, target, kind, reason string,
	txn *gorm.DB,
) error {
	return e.db.UpsertListEntry(&models.ListEntry{
		LedgerID:  ledgerID,
		Target:    target,
		Kind:      kind,
		Active:    true,
		Reason:    reason,
		CreatedBy: caller,
		CreatedAt: e.clock.Now().Unix(),
	}, txn)
}

func (e *Engine) requireBlacklister(ledgerID, caller string) error {
	ok, err := e.roles.Has(ledgerID, caller, roles.Blacklister)
	if err != nil {
		return err
	}
	if !ok {
		return roles.ErrUnauthorized
	}
	return nil
}

func (e *Engine) requireMaster(ledgerID, caller string) error {
	ok, err := e.roles.Has(ledgerID, caller, roles.Master)
	if err != nil {
		return err
	}
	if !ok {
		return roles.ErrUnauthorized
	}
	return nil
}

func (e *Engine) publishListEvent(
	ledgerID, caller, target, kind string,
	active bool,
	reason string,
) {
	e.events.Publish(
		event.ListEntryEventType,
		event.NewEvent(event.ListEntryEventType, event.ListEntryEvent{
			LedgerID: ledgerID,
			Target:   target,
			Kind:     kind,
			Active:   active,
			Caller:   caller,
			Reason:   reason,
		}),
	)
}
