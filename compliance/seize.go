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
	"context"
	"fmt"

	"github.com/openstable-io/ingot/event"
	"github.com/openstable-io/ingot/token"
)

// Seize forcibly transfers funds out of a targeted account into the
// treasury. Only the configured permanent delegate may seize. An
// amount of zero seizes the full source balance.
func (e *Engine) Seize(
	ctx context.Context,
	ledgerID, caller, source, treasury string,
	amount uint64,
	reason string,
) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	seized, err := e.seize(ctx, ledgerID, caller, source, treasury, amount)
	if err != nil {
		e.recordReject("seize", err)
		return 0, err
	}
	if e.metrics != nil {
		e.metrics.seizures.WithLabelValues(ledgerID).Inc()
	}
	e.logger.Info(
		"funds seized",
		"ledger", ledgerID,
		"source", source,
		"treasury", treasury,
		"amount", seized,
		"seized_by", caller,
		"component", "compliance",
	)
	e.events.Publish(
		event.SeizureEventType,
		event.NewEvent(event.SeizureEventType, event.SeizureEvent{
			LedgerID: ledgerID,
			Source:   source,
			Treasury: treasury,
			Amount:   seized,
			SeizedBy: caller,
			Reason:   reason,
		}),
	)
	return seized, nil
}

func (e *Engine) seize(
	ctx context.Context,
	ledgerID, caller, source, treasury string,
	amount uint64,
) (uint64, error) {
	config, err := e.db.GetComplianceConfig(ledgerID, nil)
	if err != nil {
		return 0, err
	}
	if config.PermanentDelegate == "" {
		return 0, ErrNoDelegate
	}
	if caller != config.PermanentDelegate {
		return 0, ErrNotDelegate
	}
	if source == treasury {
		return 0, ErrSelfSeizure
	}
	balance, err := e.token.Balance(ctx, ledgerID, source)
	if err != nil {
		return 0, fmt.Errorf("seize: %w", err)
	}
	if amount == 0 {
		amount = balance
	}
	if amount == 0 {
		return 0, ErrEmptyBalance
	}
	if amount > balance {
		return 0, ErrSeizeAmount
	}
	err = e.token.Transfer(
		ctx,
		ledgerID,
		source,
		treasury,
		token.AuthorityAdmin,
		amount,
	)
	if err != nil {
		return 0, fmt.Errorf("seize: %w", err)
	}
	return amount, nil
}
