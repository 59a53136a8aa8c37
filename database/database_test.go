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

package database_test

import (
	"errors"
	"testing"

	"github.com/openstable-io/ingot/database"
	"github.com/openstable-io/ingot/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDatabase(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.New(&database.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLedgerRoundTrip(t *testing.T) {
	db := newTestDatabase(t)
	_, err := db.GetLedger("db-ledger-missing", nil)
	assert.ErrorIs(t, err, models.ErrLedgerNotFound)
	ledger := &models.Ledger{
		LedgerID:  "db-ledger",
		Name:      "Test Dollar",
		Symbol:    "TUSD",
		Decimals:  6,
		Authority: "admin",
	}
	require.NoError(t, db.CreateLedger(ledger, nil))
	got, err := db.GetLedger("db-ledger", nil)
	require.NoError(t, err)
	assert.Equal(t, "Test Dollar", got.Name)
	got.TotalSupply = 12345
	require.NoError(t, db.UpdateLedger(got, nil))
	got, err = db.GetLedger("db-ledger", nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), got.TotalSupply)
}

func TestSetRoleUpsert(t *testing.T) {
	db := newTestDatabase(t)
	_, err := db.GetRole("db-role", "alice", nil)
	assert.ErrorIs(t, err, models.ErrRoleNotFound)
	require.NoError(t, db.SetRole(&models.Role{
		LedgerID: "db-role",
		Identity: "alice",
		Roles:    0b0000010,
	}, nil))
	require.NoError(t, db.SetRole(&models.Role{
		LedgerID: "db-role",
		Identity: "alice",
		Roles:    0b0001000,
	}, nil))
	role, err := db.GetRole("db-role", "alice", nil)
	require.NoError(t, err)
	// The upsert replaces the bitmask, it does not merge
	assert.Equal(t, uint8(0b0001000), role.Roles)
}

func TestMinterQuotaUpsertPreservesMinted(t *testing.T) {
	db := newTestDatabase(t)
	quota, err := db.GetMinterQuota("db-quota", "minter1", nil)
	require.NoError(t, err)
	assert.Nil(t, quota)
	require.NoError(t, db.SetMinterQuota(&models.MinterQuota{
		LedgerID: "db-quota",
		Minter:   "minter1",
		Quota:    100,
	}, nil))
	quota, err = db.GetMinterQuota("db-quota", "minter1", nil)
	require.NoError(t, err)
	require.NotNil(t, quota)
	quota.Minted = 40
	require.NoError(t, db.UpdateMinterQuota(quota, nil))
	// Re-assigning the ceiling keeps the cumulative minted counter
	require.NoError(t, db.SetMinterQuota(&models.MinterQuota{
		LedgerID: "db-quota",
		Minter:   "minter1",
		Quota:    200,
	}, nil))
	quota, err = db.GetMinterQuota("db-quota", "minter1", nil)
	require.NoError(t, err)
	require.NotNil(t, quota)
	assert.Equal(t, uint64(200), quota.Quota)
	assert.Equal(t, uint64(40), quota.Minted)
}

func TestListEntryLifecycle(t *testing.T) {
	db := newTestDatabase(t)
	entry, err := db.GetListEntry("db-list", "mallory", models.ListKindBlacklist, nil)
	require.NoError(t, err)
	assert.Nil(t, entry)
	require.NoError(t, db.UpsertListEntry(&models.ListEntry{
		LedgerID:  "db-list",
		Target:    "mallory",
		Kind:      models.ListKindBlacklist,
		Active:    true,
		Reason:    "sanctions",
		CreatedBy: "officer",
	}, nil))
	active, err := db.GetActiveBlacklistEntry("db-list", "mallory", nil)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "sanctions", active.Reason)
	// Deactivation retains the row
	require.NoError(
		t,
		db.DeactivateListEntry("db-list", "mallory", models.ListKindBlacklist, nil),
	)
	active, err = db.GetActiveBlacklistEntry("db-list", "mallory", nil)
	require.NoError(t, err)
	assert.Nil(t, active)
	entry, err = db.GetListEntry("db-list", "mallory", models.ListKindBlacklist, nil)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.False(t, entry.Active)
	// Deactivating a missing entry reports not found
	err = db.DeactivateListEntry("db-list", "nobody", models.ListKindBlacklist, nil)
	assert.ErrorIs(t, err, models.ErrListEntryNotFound)
}

func TestActiveWhitelistEntryMatchesBothKinds(t *testing.T) {
	db := newTestDatabase(t)
	require.NoError(t, db.UpsertListEntry(&models.ListEntry{
		LedgerID:  "db-wl",
		Target:    "partner",
		Kind:      models.ListKindWhitelistBypass,
		Active:    true,
		CreatedBy: "admin",
	}, nil))
	entry, err := db.GetActiveWhitelistEntry("db-wl", "partner", nil)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.True(t, entry.IsWhitelist())
	// A blacklist entry never satisfies a whitelist lookup
	require.NoError(t, db.UpsertListEntry(&models.ListEntry{
		LedgerID:  "db-wl",
		Target:    "mallory",
		Kind:      models.ListKindBlacklist,
		Active:    true,
		CreatedBy: "admin",
	}, nil))
	entry, err = db.GetActiveWhitelistEntry("db-wl", "mallory", nil)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestTransactionRollback(t *testing.T) {
	db := newTestDatabase(t)
	sentinel := errors.New("abort")
	err := db.Transaction(func(txn *gorm.DB) error {
		if err := db.CreateLedger(&models.Ledger{
			LedgerID:  "db-rollback",
			Name:      "Test Dollar",
			Symbol:    "TUSD",
			Authority: "admin",
		}, txn); err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	_, err = db.GetLedger("db-rollback", nil)
	assert.ErrorIs(t, err, models.ErrLedgerNotFound)
}

func TestMultisigStore(t *testing.T) {
	db := newTestDatabase(t)
	_, err := db.GetMultisigConfig("db-ms", nil)
	assert.ErrorIs(t, err, models.ErrMultisigConfigNotFound)
	err = db.Transaction(func(txn *gorm.DB) error {
		return db.CreateMultisigConfig(
			&models.MultisigConfig{LedgerID: "db-ms", Threshold: 2},
			[]string{"a", "b", "c"},
			txn,
		)
	})
	require.NoError(t, err)
	signers, err := db.GetMultisigSigners("db-ms", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, signers)
	_, err = db.GetProposal("no-such-proposal", nil)
	assert.ErrorIs(t, err, models.ErrProposalNotFound)
	proposal := &models.MultisigProposal{
		ProposalID: "db-ms-prop",
		LedgerID:   "db-ms",
		Proposer:   "a",
		Payload:    []byte(`{}`),
		CreatedAt:  100,
		ExpiresAt:  200,
	}
	require.NoError(t, db.CreateProposal(proposal, nil))
	require.NoError(t, db.AddApproval(&models.ProposalApproval{
		ProposalID: "db-ms-prop",
		Signer:     "a",
		ApprovedAt: 101,
	}, nil))
	require.NoError(t, db.AddApproval(&models.ProposalApproval{
		ProposalID: "db-ms-prop",
		Signer:     "b",
		ApprovedAt: 102,
	}, nil))
	approvals, err := db.GetApprovals("db-ms-prop", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, approvals)
	proposal.Executed = true
	require.NoError(t, db.UpdateProposal(proposal, nil))
	got, err := db.GetProposal("db-ms-prop", nil)
	require.NoError(t, err)
	assert.True(t, got.Executed)
}
