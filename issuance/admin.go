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

package issuance

import (
	"context"
	"fmt"

	"github.com/openstable-io/ingot/database/models"
	"github.com/openstable-io/ingot/event"
	"github.com/openstable-io/ingot/roles"
	"gorm.io/gorm"
)

// InitLedgerParams describes a new ledger instance
type InitLedgerParams struct {
	LedgerID   string
	Name       string
	Symbol     string
	Decimals   uint8
	Authority  string
	SupplyCap  uint64 // 0 = unlimited
	EpochQuota uint64 // 0 = unlimited
}

// InitLedger creates a new ledger instance and grants MASTER to its
// administrative authority
func (c *Controller) InitLedger(params InitLedgerParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if params.Name == "" || len(params.Name) > MaxNameLength {
		return ErrNameLength
	}
	if params.Symbol == "" || len(params.Symbol) > MaxSymbolLength {
		return ErrSymbolLength
	}
	if _, err := c.db.GetLedger(params.LedgerID, nil); err == nil {
		return ErrLedgerExists
	}
	ledger := &models.Ledger{
		LedgerID:   params.LedgerID,
		Name:       params.Name,
		Symbol:     params.Symbol,
		Decimals:   params.Decimals,
		Authority:  params.Authority,
		SupplyCap:  params.SupplyCap,
		EpochQuota: params.EpochQuota,
		EpochStart: c.clock.Now().Unix(),
	}
	err := c.db.Transaction(func(txn *gorm.DB) error {
		if err := c.db.CreateLedger(ledger, txn); err != nil {
			return err
		}
		return c.db.SetRole(&models.Role{
			LedgerID: params.LedgerID,
			Identity: params.Authority,
			Roles:    uint8(roles.Master),
		}, txn)
	})
	if err != nil {
		return err
	}
	c.logger.Info(
		"ledger initialized",
		"ledger", params.LedgerID,
		"name", params.Name,
		"symbol", params.Symbol,
		"authority", params.Authority,
		"component", "issuance",
	)
	return nil
}

// SetPaused sets the ledger paused flag. Requires the PAUSER role.
func (c *Controller) SetPaused(
	ledgerID, caller string,
	paused bool,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ledger, err := c.db.GetLedger(ledgerID, nil)
	if err != nil {
		return err
	}
	ok, err := c.roles.Has(ledgerID, caller, roles.Pauser)
	if err != nil {
		return err
	}
	if !ok {
		return roles.ErrUnauthorized
	}
	ledger.Paused = paused
	if err := c.db.UpdateLedger(ledger, nil); err != nil {
		return err
	}
	evtType := event.PauseEventType
	if !paused {
		evtType = event.UnpauseEventType
	}
	c.logger.Info(
		"ledger paused flag set",
		"ledger", ledgerID,
		"paused", paused,
		"component", "issuance",
	)
	c.events.Publish(
		evtType,
		event.NewEvent(evtType, event.PauseEvent{
			LedgerID: ledgerID,
			Caller:   caller,
		}),
	)
	return nil
}

// Freeze blocks an account from transacting. Requires the PAUSER role
// and an unpaused ledger.
func (c *Controller) Freeze(
	ctx context.Context,
	ledgerID, caller, account string,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ledger, err := c.db.GetLedger(ledgerID, nil)
	if err != nil {
		return err
	}
	if ledger.Paused {
		return ErrPaused
	}
	ok, err := c.roles.Has(ledgerID, caller, roles.Pauser)
	if err != nil {
		return err
	}
	if !ok {
		return roles.ErrUnauthorized
	}
	if err := c.token.Freeze(ctx, ledgerID, account); err != nil {
		return fmt.Errorf("freeze: %w", err)
	}
	c.events.Publish(
		event.FreezeEventType,
		event.NewEvent(event.FreezeEventType, event.FreezeEvent{
			LedgerID: ledgerID,
			Caller:   caller,
			Account:  account,
		}),
	)
	return nil
}

// Thaw unblocks a frozen account. Requires the PAUSER role. Unlike
// Freeze there is no pause precondition: a wrongly-frozen account must
// be recoverable even while the ledger is paused.
func (c *Controller) Thaw(
	ctx context.Context,
	ledgerID, caller, account string,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.db.GetLedger(ledgerID, nil); err != nil {
		return err
	}
	ok, err := c.roles.Has(ledgerID, caller, roles.Pauser)
	if err != nil {
		return err
	}
	if !ok {
		return roles.ErrUnauthorized
	}
	if err := c.token.Thaw(ctx, ledgerID, account); err != nil {
		return fmt.Errorf("thaw: %w", err)
	}
	c.events.Publish(
		event.ThawEventType,
		event.NewEvent(event.ThawEventType, event.FreezeEvent{
			LedgerID: ledgerID,
			Caller:   caller,
			Account:  account,
		}),
	)
	return nil
}

// InitiateAuthorityTransfer records a new pending authority. Only the
// current authority may initiate; the target must then claim the role
// via AcceptAuthorityTransfer.
func (c *Controller) InitiateAuthorityTransfer(
	ledgerID, caller, newAuthority string,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ledger, err := c.db.GetLedger(ledgerID, nil)
	if err != nil {
		return err
	}
	if caller != ledger.Authority {
		return ErrNotAuthority
	}
	ledger.PendingAuthority = newAuthority
	if err := c.db.UpdateLedger(ledger, nil); err != nil {
		return err
	}
	c.events.Publish(
		event.AuthorityEventType,
		event.NewEvent(event.AuthorityEventType, event.AuthorityEvent{
			LedgerID:     ledgerID,
			Caller:       caller,
			NewAuthority: newAuthority,
		}),
	)
	return nil
}

// AcceptAuthorityTransfer completes a two-step authority transfer.
// Only the pending authority may claim it.
func (c *Controller) AcceptAuthorityTransfer(
	ledgerID, caller string,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ledger, err := c.db.GetLedger(ledgerID, nil)
	if err != nil {
		return err
	}
	if ledger.PendingAuthority == "" || caller != ledger.PendingAuthority {
		return ErrNotPendingAuthority
	}
	ledger.Authority = caller
	ledger.PendingAuthority = ""
	if err := c.db.UpdateLedger(ledger, nil); err != nil {
		return err
	}
	c.logger.Info(
		"authority transfer completed",
		"ledger", ledgerID,
		"authority", caller,
		"component", "issuance",
	)
	c.events.Publish(
		event.AuthorityEventType,
		event.NewEvent(event.AuthorityEventType, event.AuthorityEvent{
			LedgerID:     ledgerID,
			Caller:       caller,
			NewAuthority: caller,
			Accepted:     true,
		}),
	)
	return nil
}

// SetSupplyCap sets the lifetime supply cap. Requires MASTER. A
// nonzero cap below the current supply is rejected since it would
// immediately violate the cap invariant.
func (c *Controller) SetSupplyCap(
	ledgerID, caller string,
	cap uint64,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ledger, err := c.db.GetLedger(ledgerID, nil)
	if err != nil {
		return err
	}
	ok, err := c.roles.Has(ledgerID, caller, roles.Master)
	if err != nil {
		return err
	}
	if !ok {
		return roles.ErrUnauthorized
	}
	if cap != 0 && cap < ledger.TotalSupply {
		return ErrCapBelowSupply
	}
	ledger.SupplyCap = cap
	if err := c.db.UpdateLedger(ledger, nil); err != nil {
		return err
	}
	c.publishQuotaEvent(ledgerID, caller, "supply_cap", "", cap)
	return nil
}

// SetEpochQuota sets the rolling 24-hour mint quota. Requires MASTER.
func (c *Controller) SetEpochQuota(
	ledgerID, caller string,
	quota uint64,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ledger, err := c.db.GetLedger(ledgerID, nil)
	if err != nil {
		return err
	}
	ok, err := c.roles.Has(ledgerID, caller, roles.Master)
	if err != nil {
		return err
	}
	if !ok {
		return roles.ErrUnauthorized
	}
	ledger.EpochQuota = quota
	if err := c.db.UpdateLedger(ledger, nil); err != nil {
		return err
	}
	c.publishQuotaEvent(ledgerID, caller, "epoch_quota", "", quota)
	return nil
}

// SetFeatures replaces the ledger feature-flag bitmask. Requires
// MASTER.
func (c *Controller) SetFeatures(
	ledgerID, caller string,
	features uint32,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ledger, err := c.db.GetLedger(ledgerID, nil)
	if err != nil {
		return err
	}
	ok, err := c.roles.Has(ledgerID, caller, roles.Master)
	if err != nil {
		return err
	}
	if !ok {
		return roles.ErrUnauthorized
	}
	ledger.Features = features
	if err := c.db.UpdateLedger(ledger, nil); err != nil {
		return err
	}
	c.events.Publish(
		event.FeaturesEventType,
		event.NewEvent(event.FeaturesEventType, event.FeaturesEvent{
			LedgerID: ledgerID,
			Caller:   caller,
			Features: features,
		}),
	)
	return nil
}

// SetMinterQuota assigns or updates a minter's quota ceiling. Requires
// MASTER. The cumulative minted counter is preserved across updates.
func (c *Controller) SetMinterQuota(
	ledgerID, caller, minter string,
	quota uint64,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.db.GetLedger(ledgerID, nil); err != nil {
		return err
	}
	ok, err := c.roles.Has(ledgerID, caller, roles.Master)
	if err != nil {
		return err
	}
	if !ok {
		return roles.ErrUnauthorized
	}
	err = c.db.SetMinterQuota(&models.MinterQuota{
		LedgerID: ledgerID,
		Minter:   minter,
		Quota:    quota,
	}, nil)
	if err != nil {
		return err
	}
	c.publishQuotaEvent(ledgerID, caller, "minter_quota", minter, quota)
	return nil
}

func (c *Controller) publishQuotaEvent(
	ledgerID, caller, kind, target string,
	value uint64,
) {
	c.events.Publish(
		event.QuotaEventType,
		event.NewEvent(event.QuotaEventType, event.QuotaEvent{
			LedgerID: ledgerID,
			Caller:   caller,
			Kind:     kind,
			Target:   target,
			Value:    value,
		}),
	)
}
