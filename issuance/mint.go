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
	"github.com/openstable-io/ingot/internal/checked"
	"github.com/openstable-io/ingot/roles"
	"gorm.io/gorm"
)

// MintEntry is one (recipient, amount) pair in a batch mint
type MintEntry struct {
	Destination string
	Amount      uint64
}

// mintPlan carries the validated counter updates for a mint. Nothing
// in it touches the database until commit.
type mintPlan struct {
	ledger         *models.Ledger
	quota          *models.MinterQuota // nil when the caller holds MASTER
	newSupply      uint64
	newEpochMinted uint64
	epochStart     int64
}

// planMint runs every issuance check for the aggregate amount and
// returns the counter updates to apply after the external calls
// succeed. The epoch rollover is computed here but only persisted on
// commit, so a rejected mint leaves state untouched.
func (c *Controller) planMint(
	ledgerID, caller string,
	amount uint64,
) (*mintPlan, error) {
	ledger, err := c.db.GetLedger(ledgerID, nil)
	if err != nil {
		return nil, err
	}
	if ledger.Paused {
		return nil, ErrPaused
	}
	if amount == 0 {
		return nil, ErrZeroAmount
	}
	mask, err := c.roles.Get(ledgerID, caller)
	if err != nil {
		return nil, err
	}
	if mask&(roles.Minter|roles.Master) == 0 {
		return nil, roles.ErrUnauthorized
	}
	isMaster := mask&roles.Master != 0
	plan := &mintPlan{ledger: ledger}
	// Per-minter quota; MASTER holders bypass this entirely
	if !isMaster {
		quota, err := c.db.GetMinterQuota(ledgerID, caller, nil)
		if err != nil {
			return nil, err
		}
		if quota == nil {
			// No quota assigned means no minting allowance
			return nil, ErrQuotaExceeded
		}
		newMinted, err := checked.Add(quota.Minted, amount)
		if err != nil {
			return nil, err
		}
		if newMinted > quota.Quota {
			return nil, ErrQuotaExceeded
		}
		quota.Minted = newMinted
		plan.quota = quota
	}
	// Lifetime supply cap
	newSupply, err := checked.Add(ledger.TotalSupply, amount)
	if err != nil {
		return nil, err
	}
	if ledger.SupplyCap != 0 && newSupply > ledger.SupplyCap {
		return nil, ErrSupplyCapExceeded
	}
	plan.newSupply = newSupply
	// Epoch quota with lazy fixed-window reset
	epochMinted := ledger.EpochMinted
	epochStart := ledger.EpochStart
	now := c.clock.Now().Unix()
	if now-epochStart >= EpochLengthSeconds {
		epochMinted = 0
		epochStart = now
	}
	newEpochMinted, err := checked.Add(epochMinted, amount)
	if err != nil {
		return nil, err
	}
	if ledger.EpochQuota != 0 && newEpochMinted > ledger.EpochQuota {
		return nil, ErrEpochQuotaExceeded
	}
	plan.newEpochMinted = newEpochMinted
	plan.epochStart = epochStart
	return plan, nil
}

// commit persists the validated counter updates in one transaction
func (c *Controller) commit(plan *mintPlan) error {
	plan.ledger.TotalSupply = plan.newSupply
	plan.ledger.EpochMinted = plan.newEpochMinted
	plan.ledger.EpochStart = plan.epochStart
	return c.db.Transaction(func(txn *gorm.DB) error {
		if err := c.db.UpdateLedger(plan.ledger, txn); err != nil {
			return err
		}
		if plan.quota != nil {
			if err := c.db.UpdateMinterQuota(plan.quota, txn); err != nil {
				return err
			}
		}
		return nil
	})
}

// Mint validates and executes a single mint to one destination
func (c *Controller) Mint(
	ctx context.Context,
	ledgerID, caller, destination string,
	amount uint64,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	plan, err := c.planMint(ledgerID, caller, amount)
	if err != nil {
		c.recordReject("mint", err)
		return err
	}
	if err := c.token.MintTo(ctx, ledgerID, destination, amount); err != nil {
		c.recordReject("mint", err)
		return fmt.Errorf("mint: %w", err)
	}
	if err := c.commit(plan); err != nil {
		return err
	}
	c.logger.Info(
		"minted",
		"ledger", ledgerID,
		"minter", caller,
		"destination", destination,
		"amount", amount,
		"total_supply", plan.newSupply,
		"component", "issuance",
	)
	if c.metrics != nil {
		c.metrics.mints.WithLabelValues(ledgerID).Inc()
		c.metrics.supply.WithLabelValues(ledgerID).Set(float64(plan.newSupply))
	}
	c.events.Publish(
		event.MintEventType,
		event.NewEvent(event.MintEventType, event.MintEvent{
			LedgerID:    ledgerID,
			Minter:      caller,
			Destination: destination,
			Amount:      amount,
			TotalSupply: plan.newSupply,
		}),
	)
	return nil
}

// BatchMint validates and executes an ordered list of mints. The
// aggregate amount is checked against quota, cap and epoch limits
// before any external call is issued; a failure at any entry aborts
// the entire batch with no external calls and no state change.
func (c *Controller) BatchMint(
	ctx context.Context,
	ledgerID, caller string,
	entries []MintEntry,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(entries) == 0 || len(entries) > MaxBatchEntries {
		c.recordReject("batch_mint", ErrBatchSize)
		return ErrBatchSize
	}
	amounts := make([]uint64, 0, len(entries))
	for _, entry := range entries {
		if entry.Amount == 0 {
			c.recordReject("batch_mint", ErrZeroAmount)
			return ErrZeroAmount
		}
		amounts = append(amounts, entry.Amount)
	}
	totalAmount, err := checked.Sum(amounts)
	if err != nil {
		c.recordReject("batch_mint", err)
		return err
	}
	plan, err := c.planMint(ledgerID, caller, totalAmount)
	if err != nil {
		c.recordReject("batch_mint", err)
		return err
	}
	// One external call per entry, in list order. State counters are
	// only committed once every call has completed.
	for _, entry := range entries {
		if err := c.token.MintTo(ctx, ledgerID, entry.Destination, entry.Amount); err != nil {
			c.recordReject("batch_mint", err)
			return fmt.Errorf("batch mint: %w", err)
		}
	}
	if err := c.commit(plan); err != nil {
		return err
	}
	c.logger.Info(
		"batch minted",
		"ledger", ledgerID,
		"minter", caller,
		"entries", len(entries),
		"total_amount", totalAmount,
		"total_supply", plan.newSupply,
		"component", "issuance",
	)
	if c.metrics != nil {
		c.metrics.mints.WithLabelValues(ledgerID).Add(float64(len(entries)))
		c.metrics.supply.WithLabelValues(ledgerID).Set(float64(plan.newSupply))
	}
	c.events.Publish(
		event.BatchMintEventType,
		event.NewEvent(event.BatchMintEventType, event.BatchMintEvent{
			LedgerID:    ledgerID,
			Minter:      caller,
			Entries:     len(entries),
			TotalAmount: totalAmount,
			TotalSupply: plan.newSupply,
		}),
	)
	return nil
}
