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

// Package roles implements the role registry: a capability bitmask per
// (identity, ledger instance) pair. Capabilities are explicit bit flags
// rather than a role hierarchy; MASTER authorizes everything via an
// explicit bit test, not inheritance.
package roles

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/openstable-io/ingot/database"
	"github.com/openstable-io/ingot/database/models"
	"github.com/openstable-io/ingot/event"
)

// ErrUnauthorized is returned when a caller lacks the role bit an
// operation requires
var ErrUnauthorized = errors.New("unauthorized")

// Role is a capability bitmask. Bits beyond the defined set are
// accepted on grant and ignored by consumers.
type Role uint8

const (
	Master Role = 1 << iota
	Minter
	Burner
	Pauser
	Blacklister
	Seizer
	Freezer
)

// Registry resolves and mutates role bitmasks. Grants are serialized
// through the shared per-instance mutex; reads are lock-free since
// every mutating operation is already serialized by its engine.
type Registry struct {
	db     *database.Database
	events *event.EventBus
	logger *slog.Logger
	mu     *sync.Mutex
}

// NewRegistry creates a role registry backed by the given database
func NewRegistry(
	db *database.Database,
	events *event.EventBus,
	logger *slog.Logger,
	mu *sync.Mutex,
) *Registry {
	return &Registry{
		db:     db,
		events: events,
		logger: logger,
		mu:     mu,
	}
}

// Get returns the identity's current bitmask, or zero when no grant
// exists
func (r *Registry) Get(ledgerID, identity string) (Role, error) {
	role, err := r.db.GetRole(ledgerID, identity, nil)
	if err != nil {
		if errors.Is(err, models.ErrRoleNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return Role(role.Roles), nil
}

// Has reports whether the identity holds the required bit. MASTER is
// always a superset authorization.
func (r *Registry) Has(ledgerID, identity string, required Role) (bool, error) {
	mask, err := r.Get(ledgerID, identity)
	if err != nil {
		return false, err
	}
	return mask&required != 0 || mask&Master != 0, nil
}

// Grant overwrites the target's bitmask. The caller must hold MASTER
// on the ledger instance.
func (r *Registry) Grant(
	ledgerID, caller, target string,
	newRoles Role,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	isMaster, err := r.Has(ledgerID, caller, Master)
	if err != nil {
		return err
	}
	if !isMaster {
		return ErrUnauthorized
	}
	err = r.db.SetRole(&models.Role{
		LedgerID: ledgerID,
		Identity: target,
		Roles:    uint8(newRoles),
	}, nil)
	if err != nil {
		return err
	}
	r.logger.Info(
		"role bitmask updated",
		"ledger", ledgerID,
		"target", target,
		"roles", uint8(newRoles),
		"component", "roles",
	)
	r.events.Publish(
		event.RoleGrantEventType,
		event.NewEvent(
			event.RoleGrantEventType,
			event.RoleGrantEvent{
				LedgerID: ledgerID,
				Caller:   caller,
				Target:   target,
				Roles:    uint8(newRoles),
			},
		),
	)
	return nil
}
