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

// Package api exposes the administrative surface of the control core
// over REST. Every request carries an already-authenticated caller
// identity; the API trusts it and leaves authorization decisions to
// the engines.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/openstable-io/ingot/audit"
	"github.com/openstable-io/ingot/compliance"
	"github.com/openstable-io/ingot/database"
	"github.com/openstable-io/ingot/governance"
	"github.com/openstable-io/ingot/issuance"
	"github.com/openstable-io/ingot/roles"
)

// Api is the REST API server for the control core
type Api struct {
	config     ApiConfig
	logger     *slog.Logger
	httpServer *http.Server
	mu         sync.Mutex
}

// ApiConfig holds the engines the API dispatches to
type ApiConfig struct {
	ListenAddress string
	Logger        *slog.Logger
	Database      *database.Database
	Issuance      *issuance.Controller
	Compliance    *compliance.Engine
	Governance    *governance.Coordinator
	Roles         *roles.Registry
	Journal       *audit.Journal
}

// New creates a new API server instance
func New(cfg ApiConfig) *Api {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	logger = logger.With("component", "api")
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":3000"
	}
	return &Api{
		config: cfg,
		logger: logger,
	}
}

// Start starts the HTTP server in a background goroutine. The server
// shuts down when the context is cancelled.
func (a *Api) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.httpServer != nil {
		a.mu.Unlock()
		return errors.New("server already started")
	}
	server := &http.Server{
		Addr:              a.config.ListenAddress,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 60 * time.Second,
	}
	a.httpServer = server
	a.mu.Unlock()

	// Bind the listening socket first so port conflicts are detected
	// immediately
	if err := a.startServer(server); err != nil {
		a.mu.Lock()
		a.httpServer = nil
		a.mu.Unlock()
		return err
	}

	a.logger.Info(
		"API listener started on " + a.config.ListenAddress,
	)

	go func() {
		<-ctx.Done()
		a.mu.Lock()
		srv := a.httpServer
		a.httpServer = nil
		a.mu.Unlock()
		if srv != nil {
			a.logger.Debug(
				"context cancelled, shutting down API server",
			)
			//nolint:contextcheck
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				30*time.Second,
			)
			defer cancel()
			//nolint:contextcheck
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error(
					"failed to shutdown API server on context cancellation",
					"error", err,
				)
			}
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server
func (a *Api) Stop(ctx context.Context) error {
	a.mu.Lock()
	srv := a.httpServer
	a.httpServer = nil
	a.mu.Unlock()
	if srv != nil {
		a.logger.Debug("shutting down API server")
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown API server: %w", err)
		}
	}
	return nil
}

// Handler returns the API's route multiplexer
func (a *Api) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", a.handleRoot)
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("POST /v1/ledgers", a.handleInitLedger)
	mux.HandleFunc("GET /v1/ledgers", a.handleListLedgers)
	mux.HandleFunc("GET /v1/ledgers/{ledger}", a.handleGetLedger)
	mux.HandleFunc("POST /v1/ledgers/{ledger}/mint", a.handleMint)
	mux.HandleFunc("POST /v1/ledgers/{ledger}/mint/batch", a.handleBatchMint)
	mux.HandleFunc("POST /v1/ledgers/{ledger}/burn", a.handleBurn)
	mux.HandleFunc("POST /v1/ledgers/{ledger}/freeze", a.handleFreeze)
	mux.HandleFunc("POST /v1/ledgers/{ledger}/thaw", a.handleThaw)
	mux.HandleFunc("POST /v1/ledgers/{ledger}/pause", a.handleSetPaused)
	mux.HandleFunc("POST /v1/ledgers/{ledger}/roles", a.handleGrantRole)
	mux.HandleFunc(
		"GET /v1/ledgers/{ledger}/roles/{identity}",
		a.handleGetRole,
	)
	mux.HandleFunc(
		"POST /v1/ledgers/{ledger}/quotas/minter",
		a.handleSetMinterQuota,
	)
	mux.HandleFunc(
		"POST /v1/ledgers/{ledger}/quotas/epoch",
		a.handleSetEpochQuota,
	)
	mux.HandleFunc(
		"POST /v1/ledgers/{ledger}/supply-cap",
		a.handleSetSupplyCap,
	)
	mux.HandleFunc(
		"POST /v1/ledgers/{ledger}/features",
		a.handleSetFeatures,
	)
	mux.HandleFunc(
		"POST /v1/ledgers/{ledger}/authority/initiate",
		a.handleInitiateAuthority,
	)
	mux.HandleFunc(
		"POST /v1/ledgers/{ledger}/authority/accept",
		a.handleAcceptAuthority,
	)
	mux.HandleFunc(
		"POST /v1/ledgers/{ledger}/compliance",
		a.handleInitCompliance,
	)
	mux.HandleFunc(
		"PUT /v1/ledgers/{ledger}/compliance",
		a.handleUpdateCompliance,
	)
	mux.HandleFunc(
		"GET /v1/ledgers/{ledger}/compliance",
		a.handleGetCompliance,
	)
	mux.HandleFunc(
		"POST /v1/ledgers/{ledger}/compliance/evaluate",
		a.handleEvaluateTransfer,
	)
	mux.HandleFunc(
		"POST /v1/ledgers/{ledger}/compliance/pause",
		a.handleCompliancePause,
	)
	mux.HandleFunc(
		"POST /v1/ledgers/{ledger}/blacklist",
		a.handleAddBlacklist,
	)
	mux.HandleFunc(
		"POST /v1/ledgers/{ledger}/blacklist/batch",
		a.handleBatchBlacklist,
	)
	mux.HandleFunc(
		"DELETE /v1/ledgers/{ledger}/blacklist/{target}",
		a.handleRemoveBlacklist,
	)
	mux.HandleFunc(
		"POST /v1/ledgers/{ledger}/whitelist",
		a.handleAddWhitelist,
	)
	mux.HandleFunc(
		"DELETE /v1/ledgers/{ledger}/whitelist/{target}",
		a.handleRemoveWhitelist,
	)
	mux.HandleFunc("POST /v1/ledgers/{ledger}/seize", a.handleSeize)
	mux.HandleFunc(
		"POST /v1/ledgers/{ledger}/multisig",
		a.handleInitMultisig,
	)
	mux.HandleFunc(
		"GET /v1/ledgers/{ledger}/multisig",
		a.handleGetMultisig,
	)
	mux.HandleFunc(
		"POST /v1/ledgers/{ledger}/proposals",
		a.handleCreateProposal,
	)
	mux.HandleFunc("GET /v1/proposals/{proposal}", a.handleGetProposal)
	mux.HandleFunc(
		"POST /v1/proposals/{proposal}/approve",
		a.handleApproveProposal,
	)
	mux.HandleFunc(
		"POST /v1/proposals/{proposal}/execute",
		a.handleExecuteProposal,
	)
	mux.HandleFunc("GET /v1/audit", a.handleAuditRecords)
	return mux
}

// startServer binds the listening socket, then serves in a background
// goroutine
func (a *Api) startServer(server *http.Server) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen for API server: %w", err)
	}
	go func() {
		if err := server.Serve(ln); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			a.logger.Error(
				"API server error",
				"error", err,
			)
		}
	}()
	return nil
}
