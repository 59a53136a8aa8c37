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
	"github.com/openstable-io/ingot/internal/checked"
)

// Bypass reasons reported in an evaluation result
const (
	// BypassDelegate indicates the permanent delegate was a party to
	// the transfer and every further check was skipped
	BypassDelegate = "delegate"
	// BypassWhitelist indicates a whitelisted party exempted the
	// transfer from fees and the minimum-amount check
	BypassWhitelist = "whitelist"
)

// Result is the outcome of a transfer compliance evaluation
type Result struct {
	Fee       uint64
	NetAmount uint64
	// Bypass names the override that applied, or is empty on the
	// standard fee path
	Bypass string
}

// EvaluateTransfer runs the compliance pipeline for a proposed
// transfer and computes its fee. The pipeline order is fixed: paused
// check, blacklist check, permanent-delegate override, whitelist
// exemption, then the standard minimum-amount and fee path. The
// permanent delegate is the sole override that beats an active
// blacklist entry. Collected fees accumulate into the config's
// counter.
func (e *Engine) EvaluateTransfer(
	ledgerID, source, destination string,
	amount uint64,
) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	result, err := e.evaluate(ledgerID, source, destination, amount)
	if err != nil {
		e.recordReject("transfer", err)
		return Result{}, err
	}
	if e.metrics != nil {
		outcome := result.Bypass
		if outcome == "" {
			outcome = "standard"
		}
		e.metrics.evaluations.WithLabelValues(ledgerID, outcome).Inc()
		if result.Fee > 0 {
			e.metrics.fees.WithLabelValues(ledgerID).
				Add(float64(result.Fee))
		}
	}
	e.events.Publish(
		event.TransferEvaluatedEventType,
		event.NewEvent(
			event.TransferEvaluatedEventType,
			event.TransferEvaluatedEvent{
				LedgerID:    ledgerID,
				Source:      source,
				Destination: destination,
				Amount:      amount,
				Fee:         result.Fee,
				NetAmount:   result.NetAmount,
				Bypass:      result.Bypass,
			},
		),
	)
	return result, nil
}

func (e *Engine) evaluate(
	ledgerID, source, destination string,
	amount uint64,
) (Result, error) {
	config, err := e.db.GetComplianceConfig(ledgerID, nil)
	if err != nil {
		return Result{}, err
	}
	if config.Paused {
		return Result{}, ErrHookPaused
	}
	// The delegate override short-circuits everything, including an
	// active blacklist entry on either party
	if config.PermanentDelegate != "" &&
		(source == config.PermanentDelegate ||
			destination == config.PermanentDelegate) {
		return Result{NetAmount: amount, Bypass: BypassDelegate}, nil
	}
	if config.BlacklistEnabled {
		entry, err := e.db.GetActiveBlacklistEntry(ledgerID, source, nil)
		if err != nil {
			return Result{}, err
		}
		if entry != nil {
			return Result{}, ErrSourceBlacklisted
		}
		entry, err = e.db.GetActiveBlacklistEntry(ledgerID, destination, nil)
		if err != nil {
			return Result{}, err
		}
		if entry != nil {
			return Result{}, ErrDestinationBlacklisted
		}
	}
	whitelisted, err := e.isWhitelisted(ledgerID, source, destination)
	if err != nil {
		return Result{}, err
	}
	if whitelisted {
		return Result{NetAmount: amount, Bypass: BypassWhitelist}, nil
	}
	if amount < config.MinTransferAmount {
		return Result{}, ErrAmountTooLow
	}
	fee, err := calculateFee(config, amount)
	if err != nil {
		return Result{}, err
	}
	if fee > 0 {
		collected, err := checked.Add(config.TotalFeesCollected, fee)
		if err != nil {
			return Result{}, err
		}
		config.TotalFeesCollected = collected
		if err := e.db.UpdateComplianceConfig(config, nil); err != nil {
			return Result{}, err
		}
	}
	return Result{Fee: fee, NetAmount: amount - fee}, nil
}

func (e *Engine) isWhitelisted(
	ledgerID, source, destination string,
) (bool, error) {
	entry, err := e.db.GetActiveWhitelistEntry(ledgerID, source, nil)
	if err != nil {
		return false, err
	}
	if entry != nil {
		return true, nil
	}
	entry, err = e.db.GetActiveWhitelistEntry(ledgerID, destination, nil)
	if err != nil {
		return false, err
	}
	return entry != nil, nil
}

// calculateFee computes min(amount * feeBps / 10000, maxFee). The
// intermediate product is carried at 128 bits so a large amount cannot
// overflow before the division truncates it back to 64 bits.
func calculateFee(
	config *models.ComplianceConfig,
	amount uint64,
) (uint64, error) {
	if config.FeeBasisPoints == 0 {
		return 0, nil
	}
	fee, err := checked.MulDiv(
		amount,
		uint64(config.FeeBasisPoints),
		MaxFeeBasisPoints,
	)
	if err != nil {
		return 0, err
	}
	// Deliberate clamp, not an overflow condition
	if fee > config.MaxTransferFee {
		fee = config.MaxTransferFee
	}
	return fee, nil
}
