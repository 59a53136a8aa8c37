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

package governance_test

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/openstable-io/ingot/clock"
	"github.com/openstable-io/ingot/database"
	"github.com/openstable-io/ingot/event"
	"github.com/openstable-io/ingot/governance"
	"github.com/openstable-io/ingot/issuance"
	"github.com/openstable-io/ingot/roles"
	"github.com/openstable-io/ingot/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAuthority = "authority"

type testEnv struct {
	db          *database.Database
	clock       *clock.Fixed
	coordinator *governance.Coordinator
	initLedger  func(ledgerID string)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	db, err := database.New(&database.Config{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	eventBus := event.NewEventBus(nil, logger)
	t.Cleanup(eventBus.Stop)
	var mu sync.Mutex
	registry := roles.NewRegistry(db, eventBus, logger, &mu)
	fixedClock := clock.NewFixed(time.Unix(1700000000, 0))
	controller := issuance.NewController(issuance.ControllerConfig{
		Database: db,
		Token:    token.NewMemoryService(),
		EventBus: eventBus,
		Roles:    registry,
		Clock:    fixedClock,
		Logger:   logger,
		Mutex:    &mu,
	})
	env := &testEnv{
		db:    db,
		clock: fixedClock,
		coordinator: governance.NewCoordinator(governance.CoordinatorConfig{
			Database: db,
			EventBus: eventBus,
			Roles:    registry,
			Clock:    fixedClock,
			Logger:   logger,
			Mutex:    &mu,
		}),
	}
	env.initLedger = func(ledgerID string) {
		t.Helper()
		err := controller.InitLedger(issuance.InitLedgerParams{
			LedgerID:  ledgerID,
			Name:      "Test Dollar",
			Symbol:    "TUSD",
			Decimals:  6,
			Authority: testAuthority,
		})
		require.NoError(t, err)
	}
	return env
}

// setup creates a ledger instance plus its multisig config. The
// shared in-memory database persists across tests in this package, so
// every test uses its own ledger ID.
func (env *testEnv) setup(
	t *testing.T,
	ledgerID string,
	threshold int,
	signers []string,
) {
	t.Helper()
	env.initLedger(ledgerID)
	err := env.coordinator.InitConfig(ledgerID, testAuthority, threshold, signers)
	require.NoError(t, err)
}

func TestInitConfigValidation(t *testing.T) {
	env := newTestEnv(t)
	env.initLedger("ms-init")
	err := env.coordinator.InitConfig("ms-init", "someone", 1, []string{"a"})
	assert.ErrorIs(t, err, roles.ErrUnauthorized)
	err = env.coordinator.InitConfig("ms-init", testAuthority, 0, []string{"a"})
	assert.ErrorIs(t, err, governance.ErrInvalidThreshold)
	err = env.coordinator.InitConfig("ms-init", testAuthority, 3, []string{"a", "b"})
	assert.ErrorIs(t, err, governance.ErrInvalidThreshold)
	tooMany := make([]string, governance.MaxSigners+1)
	for i := range tooMany {
		tooMany[i] = string(rune('a' + i))
	}
	err = env.coordinator.InitConfig("ms-init", testAuthority, 1, tooMany)
	assert.ErrorIs(t, err, governance.ErrInvalidThreshold)
	err = env.coordinator.InitConfig(
		"ms-init",
		testAuthority,
		1,
		[]string{"a", "b", "a"},
	)
	assert.ErrorIs(t, err, governance.ErrDuplicateSigner)
	err = env.coordinator.InitConfig(
		"ms-init",
		testAuthority,
		2,
		[]string{"a", "b", "c"},
	)
	require.NoError(t, err)
	err = env.coordinator.InitConfig("ms-init", testAuthority, 1, []string{"a"})
	assert.ErrorIs(t, err, governance.ErrConfigExists)
}

func TestProposalLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.setup(t, "ms-lifecycle", 2, []string{"a", "b", "c"})
	proposalID, err := env.coordinator.Propose(
		"ms-lifecycle",
		"a",
		[]byte(`{"action":"set_supply_cap","value":1000000}`),
		0,
	)
	require.NoError(t, err)
	// One approval is below the threshold of two
	require.NoError(t, env.coordinator.Approve(proposalID, "a"))
	err = env.coordinator.Execute(proposalID, "a")
	assert.ErrorIs(t, err, governance.ErrThresholdNotMet)
	// The same signer cannot approve twice
	err = env.coordinator.Approve(proposalID, "a")
	assert.ErrorIs(t, err, governance.ErrAlreadyApproved)
	require.NoError(t, env.coordinator.Approve(proposalID, "b"))
	require.NoError(t, env.coordinator.Execute(proposalID, "c"))
	// Execution happens exactly once
	err = env.coordinator.Execute(proposalID, "c")
	assert.ErrorIs(t, err, governance.ErrAlreadyExecuted)
	proposal, approvals, err := env.coordinator.Proposal(proposalID)
	require.NoError(t, err)
	assert.True(t, proposal.Executed)
	assert.Equal(t, []string{"a", "b"}, approvals)
}

func TestProposeNonSigner(t *testing.T) {
	env := newTestEnv(t)
	env.setup(t, "ms-nonsigner", 1, []string{"a", "b"})
	_, err := env.coordinator.Propose("ms-nonsigner", "outsider", nil, 0)
	assert.ErrorIs(t, err, governance.ErrNotSigner)
	proposalID, err := env.coordinator.Propose("ms-nonsigner", "a", nil, 0)
	require.NoError(t, err)
	err = env.coordinator.Approve(proposalID, "outsider")
	assert.ErrorIs(t, err, governance.ErrNotSigner)
}

func TestProposalExpiry(t *testing.T) {
	env := newTestEnv(t)
	env.setup(t, "ms-expiry", 1, []string{"a", "b"})
	proposalID, err := env.coordinator.Propose(
		"ms-expiry",
		"a",
		nil,
		time.Hour,
	)
	require.NoError(t, err)
	require.NoError(t, env.coordinator.Approve(proposalID, "a"))
	// Expiry is lazy: it is only observed on approve/execute access
	env.clock.Advance(time.Hour)
	err = env.coordinator.Approve(proposalID, "b")
	assert.ErrorIs(t, err, governance.ErrExpired)
	err = env.coordinator.Execute(proposalID, "a")
	assert.ErrorIs(t, err, governance.ErrExpired)
}

func TestProposalDefaultTTL(t *testing.T) {
	env := newTestEnv(t)
	env.setup(t, "ms-ttl", 1, []string{"a"})
	proposalID, err := env.coordinator.Propose("ms-ttl", "a", nil, 0)
	require.NoError(t, err)
	proposal, _, err := env.coordinator.Proposal(proposalID)
	require.NoError(t, err)
	expected := env.clock.Now().Add(governance.DefaultProposalTTL).Unix()
	assert.Equal(t, expected, proposal.ExpiresAt)
	// Still live one second before the TTL elapses
	env.clock.Advance(governance.DefaultProposalTTL - time.Second)
	require.NoError(t, env.coordinator.Approve(proposalID, "a"))
}

func TestConfigAccessor(t *testing.T) {
	env := newTestEnv(t)
	env.setup(t, "ms-config", 2, []string{"a", "b", "c"})
	config, signers, err := env.coordinator.Config("ms-config")
	require.NoError(t, err)
	assert.Equal(t, 2, config.Threshold)
	assert.Equal(t, []string{"a", "b", "c"}, signers)
}
