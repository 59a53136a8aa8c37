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

	"github.com/openstable-io/ingot/event"
	"github.com/openstable-io/ingot/internal/checked"
	"github.com/openstable-io/ingot/roles"
	"github.com/openstable-io/ingot/token"
)

// Burn validates and executes a burn from the given source account.
// Burning your own funds is always allowed; burning someone else's
// requires the BURNER role. The external call runs under the owner's
// or the admin's authorization accordingly.
func (c *Controller) Burn(
	ctx context.Context,
	ledgerID, caller, source string,
	amount uint64,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ledger, err := c.db.GetLedger(ledgerID, nil)
	if err != nil {
		return err
	}
	if ledger.Paused {
		c.recordReject("burn", ErrPaused)
		return ErrPaused
	}
	if amount == 0 {
		c.recordReject("burn", ErrZeroAmount)
		return ErrZeroAmount
	}
	selfBurn := caller == source
	auth := token.AuthorityOwner
	if !selfBurn {
		ok, err := c.roles.Has(ledgerID, caller, roles.Burner)
		if err != nil {
			return err
		}
		if !ok {
			c.recordReject("burn", roles.ErrUnauthorized)
			return roles.ErrUnauthorized
		}
		auth = token.AuthorityAdmin
	}
	newSupply, err := checked.Sub(ledger.TotalSupply, amount)
	if err != nil {
		c.recordReject("burn", err)
		return err
	}
	if err := c.token.BurnFrom(ctx, ledgerID, source, auth, amount); err != nil {
		c.recordReject("burn", err)
		return fmt.Errorf("burn: %w", err)
	}
	ledger.TotalSupply = newSupply
	if err := c.db.UpdateLedger(ledger, nil); err != nil {
		return err
	}
	c.logger.Info(
		"burned",
		"ledger", ledgerID,
		"burner", caller,
		"source", source,
		"amount", amount,
		"total_supply", newSupply,
		"component", "issuance",
	)
	if c.metrics != nil {
		c.metrics.burns.WithLabelValues(ledgerID).Inc()
		c.metrics.supply.WithLabelValues(ledgerID).Set(float64(newSupply))
	}
	c.events.Publish(
		event.BurnEventType,
		event.NewEvent(event.BurnEventType, event.BurnEvent{
			LedgerID:    ledgerID,
			Burner:      caller,
			Source:      source,
			Amount:      amount,
			TotalSupply: newSupply,
			SelfBurn:    selfBurn,
		}),
	)
	return nil
}
