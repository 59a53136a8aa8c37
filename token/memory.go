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

package token

import (
	"fmt"
	"sync"

	"context"
)

type accountKey struct {
	ledgerID string
	account  string
}

// MemoryService is an in-memory Service implementation that tracks
// balances and frozen accounts. It backs dev mode and tests; a real
// deployment wires an adapter for the actual token-transfer service.
type MemoryService struct {
	mu       sync.Mutex
	balances map[accountKey]uint64
	frozen   map[accountKey]bool
	// Calls records every invocation in order, for tests that assert
	// on external-call counts
	calls []string
	// failNext, when set, causes the next call to fail
	failNext error
}

// NewMemoryService creates a new in-memory transfer-execution service
func NewMemoryService() *MemoryService {
	return &MemoryService{
		balances: make(map[accountKey]uint64),
		frozen:   make(map[accountKey]bool),
	}
}

// FailNext causes the next external call to fail with the given error
func (m *MemoryService) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// Calls returns the recorded external call descriptions in order
func (m *MemoryService) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MemoryService) begin(desc string) error {
	m.calls = append(m.calls, desc)
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return fmt.Errorf("%w: %w", ErrExecutionFailed, err)
	}
	return nil
}

func (m *MemoryService) MintTo(
	_ context.Context,
	ledgerID, destination string,
	amount uint64,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(fmt.Sprintf("mint:%s:%d", destination, amount)); err != nil {
		return err
	}
	key := accountKey{ledgerID, destination}
	m.balances[key] += amount
	return nil
}

func (m *MemoryService) BurnFrom(
	_ context.Context,
	ledgerID, source string,
	auth Authority,
	amount uint64,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(fmt.Sprintf("burn:%s:%s:%d", auth, source, amount)); err != nil {
		return err
	}
	key := accountKey{ledgerID, source}
	if m.balances[key] < amount {
		return fmt.Errorf("%w: insufficient balance", ErrExecutionFailed)
	}
	m.balances[key] -= amount
	return nil
}

func (m *MemoryService) Transfer(
	_ context.Context,
	ledgerID, source, destination string,
	auth Authority,
	amount uint64,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(fmt.Sprintf("transfer:%s:%s:%s:%d", auth, source, destination, amount)); err != nil {
		return err
	}
	srcKey := accountKey{ledgerID, source}
	if m.balances[srcKey] < amount {
		return fmt.Errorf("%w: insufficient balance", ErrExecutionFailed)
	}
	m.balances[srcKey] -= amount
	m.balances[accountKey{ledgerID, destination}] += amount
	return nil
}

func (m *MemoryService) Freeze(
	_ context.Context,
	ledgerID, account string,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("freeze:" + account); err != nil {
		return err
	}
	m.frozen[accountKey{ledgerID, account}] = true
	return nil
}

func (m *MemoryService) Thaw(
	_ context.Context,
	ledgerID, account string,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("thaw:" + account); err != nil {
		return err
	}
	delete(m.frozen, accountKey{ledgerID, account})
	return nil
}

func (m *MemoryService) Balance(
	_ context.Context,
	ledgerID, account string,
) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[accountKey{ledgerID, account}], nil
}

// Frozen reports whether an account is currently frozen
func (m *MemoryService) Frozen(ledgerID, account string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frozen[accountKey{ledgerID, account}]
}

// SetBalance seeds an account balance directly
func (m *MemoryService) SetBalance(ledgerID, account string, amount uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[accountKey{ledgerID, account}] = amount
}
