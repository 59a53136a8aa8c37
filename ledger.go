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

// Package ingot assembles the stablecoin control core: role-based
// access control, issuance control, transfer compliance and multisig
// governance over one or more permissioned ledger instances. Value
// movement itself is delegated to an external transfer-execution
// service supplied by the caller.
package ingot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/openstable-io/ingot/api"
	"github.com/openstable-io/ingot/audit"
	"github.com/openstable-io/ingot/compliance"
	"github.com/openstable-io/ingot/database"
	"github.com/openstable-io/ingot/event"
	"github.com/openstable-io/ingot/governance"
	"github.com/openstable-io/ingot/issuance"
	"github.com/openstable-io/ingot/roles"
)

// journaledEventTypes is the set of event types persisted by the audit
// journal
var journaledEventTypes = []event.EventType{
	event.MintEventType,
	event.BatchMintEventType,
	event.BurnEventType,
	event.PauseEventType,
	event.UnpauseEventType,
	event.FreezeEventType,
	event.ThawEventType,
	event.AuthorityEventType,
	event.QuotaEventType,
	event.FeaturesEventType,
	event.TransferEvaluatedEventType,
	event.SeizureEventType,
	event.ListEntryEventType,
	event.ComplianceConfigEventType,
	event.RoleGrantEventType,
	event.ProposalEventType,
}

// Ledger is the assembled control core. All engines share one database
// and one state mutex, so every operation is a serialized,
// all-or-nothing unit.
type Ledger struct {
	config        Config
	db            *database.Database
	eventBus      *event.EventBus
	journal       *audit.Journal
	roles         *roles.Registry
	issuance      *issuance.Controller
	compliance    *compliance.Engine
	governance    *governance.Coordinator
	api           *api.Api
	stateMutex    sync.Mutex
	shutdownOnce  sync.Once
	shutdownFuncs []func(context.Context) error
}

// New creates a Ledger from the given config
func New(cfg Config) (*Ledger, error) {
	if cfg.tokenService == nil {
		return nil, errors.New("no token service configured")
	}
	if cfg.clock == nil {
		return nil, errors.New("no clock configured")
	}
	l := &Ledger{
		config: cfg,
	}
	l.eventBus = event.NewEventBus(cfg.promRegistry, cfg.logger)
	db, err := database.New(&database.Config{
		DataDir:      cfg.dataDir,
		Logger:       cfg.logger,
		PromRegistry: cfg.promRegistry,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	l.db = db
	l.shutdownFuncs = append(
		l.shutdownFuncs,
		func(context.Context) error { return db.Close() },
	)
	if !cfg.auditDisabled {
		journal, err := audit.New(audit.JournalConfig{
			DataDir:      cfg.dataDir,
			Logger:       cfg.logger,
			PromRegistry: cfg.promRegistry,
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to open audit journal: %w", err)
		}
		l.journal = journal
		journal.Attach(l.eventBus, journaledEventTypes...)
		l.shutdownFuncs = append(
			l.shutdownFuncs,
			func(context.Context) error { return journal.Close() },
		)
	}
	l.roles = roles.NewRegistry(db, l.eventBus, cfg.logger, &l.stateMutex)
	l.issuance = issuance.NewController(issuance.ControllerConfig{
		Database:     db,
		Token:        cfg.tokenService,
		EventBus:     l.eventBus,
		Roles:        l.roles,
		Clock:        cfg.clock,
		Logger:       cfg.logger,
		PromRegistry: cfg.promRegistry,
		Mutex:        &l.stateMutex,
	})
	l.compliance = compliance.NewEngine(compliance.EngineConfig{
		Database:     db,
		Token:        cfg.tokenService,
		EventBus:     l.eventBus,
		Roles:        l.roles,
		Clock:        cfg.clock,
		Logger:       cfg.logger,
		PromRegistry: cfg.promRegistry,
		Mutex:        &l.stateMutex,
	})
	l.governance = governance.NewCoordinator(governance.CoordinatorConfig{
		Database:     db,
		EventBus:     l.eventBus,
		Roles:        l.roles,
		Clock:        cfg.clock,
		Logger:       cfg.logger,
		PromRegistry: cfg.promRegistry,
		Mutex:        &l.stateMutex,
	})
	return l, nil
}

// Start launches the REST API server if a listen address is
// configured. The server shuts down when the context is cancelled.
func (l *Ledger) Start(ctx context.Context) error {
	if l.config.apiListenAddress == "" {
		return nil
	}
	l.api = api.New(api.ApiConfig{
		ListenAddress: l.config.apiListenAddress,
		Logger:        l.config.logger,
		Database:      l.db,
		Issuance:      l.issuance,
		Compliance:    l.compliance,
		Governance:    l.governance,
		Roles:         l.roles,
		Journal:       l.journal,
	})
	if err := l.api.Start(ctx); err != nil {
		return err
	}
	l.shutdownFuncs = append(
		l.shutdownFuncs,
		func(ctx context.Context) error { return l.api.Stop(ctx) },
	)
	return nil
}

// Stop shuts down the API server, the audit journal, the event bus and
// the database. It is safe to call more than once.
func (l *Ledger) Stop(ctx context.Context) error {
	var err error
	l.shutdownOnce.Do(func() {
		// Shut down in reverse startup order
		for i := len(l.shutdownFuncs) - 1; i >= 0; i-- {
			err = errors.Join(err, l.shutdownFuncs[i](ctx))
		}
		l.eventBus.Stop()
	})
	return err
}

// Database returns the underlying metadata store
func (l *Ledger) Database() *database.Database {
	return l.db
}

// EventBus returns the event bus
func (l *Ledger) EventBus() *event.EventBus {
	return l.eventBus
}

// Journal returns the audit journal, or nil when auditing is disabled
func (l *Ledger) Journal() *audit.Journal {
	return l.journal
}

// Roles returns the role registry
func (l *Ledger) Roles() *roles.Registry {
	return l.roles
}

// Issuance returns the issuance controller
func (l *Ledger) Issuance() *issuance.Controller {
	return l.issuance
}

// Compliance returns the compliance engine
func (l *Ledger) Compliance() *compliance.Engine {
	return l.compliance
}

// Governance returns the governance coordinator
func (l *Ledger) Governance() *governance.Coordinator {
	return l.governance
}
