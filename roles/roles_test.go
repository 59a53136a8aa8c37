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

package roles_test

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/openstable-io/ingot/database"
	"github.com/openstable-io/ingot/database/models"
	"github.com/openstable-io/ingot/event"
	"github.com/openstable-io/ingot/roles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) (*roles.Registry, *database.Database) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	db, err := database.New(&database.Config{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	eventBus := event.NewEventBus(nil, logger)
	t.Cleanup(eventBus.Stop)
	var mu sync.Mutex
	return roles.NewRegistry(db, eventBus, logger, &mu), db
}

// seedMaster writes a MASTER grant directly, standing in for ledger
// initialization
func seedMaster(t *testing.T, db *database.Database, ledgerID, identity string) {
	t.Helper()
	err := db.SetRole(&models.Role{
		LedgerID: ledgerID,
		Identity: identity,
		Roles:    uint8(roles.Master),
	}, nil)
	require.NoError(t, err)
}

func TestGetMissingRole(t *testing.T) {
	registry, _ := newTestRegistry(t)
	mask, err := registry.Get("roles-missing", "nobody")
	require.NoError(t, err)
	assert.Equal(t, roles.Role(0), mask)
}

func TestGrantRequiresMaster(t *testing.T) {
	registry, db := newTestRegistry(t)
	seedMaster(t, db, "roles-gate", "admin")
	err := registry.Grant("roles-gate", "someone", "target", roles.Minter)
	assert.ErrorIs(t, err, roles.ErrUnauthorized)
	err = registry.Grant("roles-gate", "admin", "target", roles.Minter)
	require.NoError(t, err)
}

func TestGrantOverwrites(t *testing.T) {
	registry, db := newTestRegistry(t)
	seedMaster(t, db, "roles-overwrite", "admin")
	err := registry.Grant(
		"roles-overwrite",
		"admin",
		"target",
		roles.Minter|roles.Burner,
	)
	require.NoError(t, err)
	mask, err := registry.Get("roles-overwrite", "target")
	require.NoError(t, err)
	assert.Equal(t, roles.Minter|roles.Burner, mask)
	// A second grant replaces the whole bitmask instead of merging
	err = registry.Grant("roles-overwrite", "admin", "target", roles.Pauser)
	require.NoError(t, err)
	mask, err = registry.Get("roles-overwrite", "target")
	require.NoError(t, err)
	assert.Equal(t, roles.Pauser, mask)
	// Granting zero revokes everything
	err = registry.Grant("roles-overwrite", "admin", "target", 0)
	require.NoError(t, err)
	mask, err = registry.Get("roles-overwrite", "target")
	require.NoError(t, err)
	assert.Equal(t, roles.Role(0), mask)
}

func TestHasMasterImpliesAll(t *testing.T) {
	registry, db := newTestRegistry(t)
	seedMaster(t, db, "roles-master", "admin")
	for _, required := range []roles.Role{
		roles.Minter,
		roles.Burner,
		roles.Pauser,
		roles.Blacklister,
		roles.Seizer,
		roles.Freezer,
	} {
		ok, err := registry.Has("roles-master", "admin", required)
		require.NoError(t, err)
		assert.True(t, ok, "MASTER should satisfy %b", required)
	}
}

func TestHasExactBit(t *testing.T) {
	registry, db := newTestRegistry(t)
	seedMaster(t, db, "roles-exact", "admin")
	err := registry.Grant("roles-exact", "admin", "target", roles.Minter)
	require.NoError(t, err)
	ok, err := registry.Has("roles-exact", "target", roles.Minter)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = registry.Has("roles-exact", "target", roles.Burner)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRolesScopedPerLedger(t *testing.T) {
	registry, db := newTestRegistry(t)
	seedMaster(t, db, "roles-scope-a", "admin")
	err := registry.Grant("roles-scope-a", "admin", "target", roles.Minter)
	require.NoError(t, err)
	mask, err := registry.Get("roles-scope-b", "target")
	require.NoError(t, err)
	assert.Equal(t, roles.Role(0), mask)
}
