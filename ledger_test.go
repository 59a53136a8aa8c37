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

package ingot_test

import (
	"context"
	"testing"
	"time"

	ingot "github.com/openstable-io/ingot"
	"github.com/openstable-io/ingot/event"
	"github.com/openstable-io/ingot/issuance"
	"github.com/openstable-io/ingot/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestLedger(t *testing.T) *ingot.Ledger {
	t.Helper()
	ledger, err := ingot.New(ingot.NewConfig(
		ingot.WithTokenService(token.NewMemoryService()),
	))
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		ledger.Stop(ctx)
	})
	return ledger
}

func TestNewRequiresTokenService(t *testing.T) {
	_, err := ingot.New(ingot.NewConfig())
	assert.Error(t, err)
}

func TestEndToEndMintIsJournaled(t *testing.T) {
	ledger := newTestLedger(t)
	err := ledger.Issuance().InitLedger(issuance.InitLedgerParams{
		LedgerID:  "facade-mint",
		Name:      "Test Dollar",
		Symbol:    "TUSD",
		Decimals:  6,
		Authority: "admin",
	})
	require.NoError(t, err)
	err = ledger.Issuance().Mint(
		context.Background(),
		"facade-mint",
		"admin",
		"alice",
		1000,
	)
	require.NoError(t, err)
	got, err := ledger.Database().GetLedger("facade-mint", nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), got.TotalSupply)
	// Issuance events flow through the bus into the audit journal
	journal := ledger.Journal()
	require.NotNil(t, journal)
	deadline := time.Now().Add(2 * time.Second)
	for journal.NextSeq() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for journaled event")
		}
		time.Sleep(5 * time.Millisecond)
	}
	records, err := journal.Records(0, 0)
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, string(event.MintEventType), records[0].Type)
}

func TestAuditDisabled(t *testing.T) {
	ledger, err := ingot.New(ingot.NewConfig(
		ingot.WithTokenService(token.NewMemoryService()),
		ingot.WithAuditDisabled(true),
	))
	require.NoError(t, err)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		ledger.Stop(ctx)
	}()
	assert.Nil(t, ledger.Journal())
}

func TestStopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)
	ledger, err := ingot.New(ingot.NewConfig(
		ingot.WithTokenService(token.NewMemoryService()),
	))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, ledger.Stop(ctx))
	require.NoError(t, ledger.Stop(ctx))
}
