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

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/openstable-io/ingot/compliance"
	"github.com/openstable-io/ingot/database/models"
	"github.com/openstable-io/ingot/governance"
	"github.com/openstable-io/ingot/internal/checked"
	"github.com/openstable-io/ingot/internal/version"
	"github.com/openstable-io/ingot/issuance"
	"github.com/openstable-io/ingot/roles"
	"github.com/openstable-io/ingot/token"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response with the status text as the
// error string
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
	})
}

// writeEngineError maps a domain error onto an HTTP status code
func writeEngineError(w http.ResponseWriter, err error) {
	writeError(w, statusForError(err), err.Error())
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrLedgerNotFound),
		errors.Is(err, models.ErrComplianceConfigNotFound),
		errors.Is(err, models.ErrListEntryNotFound),
		errors.Is(err, models.ErrMultisigConfigNotFound),
		errors.Is(err, models.ErrProposalNotFound),
		errors.Is(err, models.ErrRoleNotFound):
		return http.StatusNotFound
	case errors.Is(err, roles.ErrUnauthorized),
		errors.Is(err, issuance.ErrNotAuthority),
		errors.Is(err, issuance.ErrNotPendingAuthority),
		errors.Is(err, compliance.ErrNotDelegate),
		errors.Is(err, governance.ErrNotSigner):
		return http.StatusForbidden
	case errors.Is(err, issuance.ErrPaused),
		errors.Is(err, issuance.ErrQuotaExceeded),
		errors.Is(err, issuance.ErrSupplyCapExceeded),
		errors.Is(err, issuance.ErrEpochQuotaExceeded),
		errors.Is(err, issuance.ErrLedgerExists),
		errors.Is(err, issuance.ErrCapBelowSupply),
		errors.Is(err, compliance.ErrHookPaused),
		errors.Is(err, compliance.ErrSourceBlacklisted),
		errors.Is(err, compliance.ErrDestinationBlacklisted),
		errors.Is(err, compliance.ErrConfigExists),
		errors.Is(err, compliance.ErrSelfSeizure),
		errors.Is(err, compliance.ErrSeizeAmount),
		errors.Is(err, compliance.ErrEmptyBalance),
		errors.Is(err, compliance.ErrNoDelegate),
		errors.Is(err, governance.ErrConfigExists),
		errors.Is(err, governance.ErrExpired),
		errors.Is(err, governance.ErrAlreadyExecuted),
		errors.Is(err, governance.ErrAlreadyApproved),
		errors.Is(err, governance.ErrThresholdNotMet):
		return http.StatusConflict
	case errors.Is(err, issuance.ErrZeroAmount),
		errors.Is(err, issuance.ErrBatchSize),
		errors.Is(err, issuance.ErrNameLength),
		errors.Is(err, issuance.ErrSymbolLength),
		errors.Is(err, compliance.ErrAmountTooLow),
		errors.Is(err, compliance.ErrInvalidFeeRate),
		errors.Is(err, compliance.ErrBatchSize),
		errors.Is(err, compliance.ErrBatchMismatch),
		errors.Is(err, compliance.ErrInvalidListKind),
		errors.Is(err, governance.ErrInvalidThreshold),
		errors.Is(err, governance.ErrDuplicateSigner),
		errors.Is(err, checked.ErrOverflow):
		return http.StatusBadRequest
	case errors.Is(err, token.ErrExecutionFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeRequest parses a JSON request body, writing a 400 response on
// failure
func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func ledgerResponse(ledger *models.Ledger) LedgerResponse {
	return LedgerResponse{
		LedgerID:         ledger.LedgerID,
		Name:             ledger.Name,
		Symbol:           ledger.Symbol,
		Decimals:         ledger.Decimals,
		Authority:        ledger.Authority,
		PendingAuthority: ledger.PendingAuthority,
		TotalSupply:      ledger.TotalSupply,
		Paused:           ledger.Paused,
		SupplyCap:        ledger.SupplyCap,
		EpochQuota:       ledger.EpochQuota,
		EpochMinted:      ledger.EpochMinted,
		EpochStart:       ledger.EpochStart,
		Features:         ledger.Features,
	}
}

func (a *Api) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Name:    "ingot",
		Version: version.GetVersionString(),
	})
}

func (a *Api) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{IsHealthy: true})
}

func (a *Api) handleInitLedger(w http.ResponseWriter, r *http.Request) {
	var req InitLedgerRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	err := a.config.Issuance.InitLedger(issuance.InitLedgerParams{
		LedgerID:   req.LedgerID,
		Name:       req.Name,
		Symbol:     req.Symbol,
		Decimals:   req.Decimals,
		Authority:  req.Authority,
		SupplyCap:  req.SupplyCap,
		EpochQuota: req.EpochQuota,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	ledger, err := a.config.Database.GetLedger(req.LedgerID, nil)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ledgerResponse(ledger))
}

func (a *Api) handleListLedgers(w http.ResponseWriter, _ *http.Request) {
	ledgers, err := a.config.Database.ListLedgers(nil)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	resp := make([]LedgerResponse, 0, len(ledgers))
	for i := range ledgers {
		resp = append(resp, ledgerResponse(&ledgers[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *Api) handleGetLedger(w http.ResponseWriter, r *http.Request) {
	ledger, err := a.config.Database.GetLedger(r.PathValue("ledger"), nil)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ledgerResponse(ledger))
}

func (a *Api) handleMint(w http.ResponseWriter, r *http.Request) {
	var req MintRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	err := a.config.Issuance.Mint(
		r.Context(),
		r.PathValue("ledger"),
		req.Caller,
		req.Destination,
		req.Amount,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "minted"})
}

func (a *Api) handleBatchMint(w http.ResponseWriter, r *http.Request) {
	var req BatchMintRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	entries := make([]issuance.MintEntry, 0, len(req.Entries))
	for _, entry := range req.Entries {
		entries = append(entries, issuance.MintEntry{
			Destination: entry.Destination,
			Amount:      entry.Amount,
		})
	}
	err := a.config.Issuance.BatchMint(
		r.Context(),
		r.PathValue("ledger"),
		req.Caller,
		entries,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "minted"})
}

func (a *Api) handleBurn(w http.ResponseWriter, r *http.Request) {
	var req BurnRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	err := a.config.Issuance.Burn(
		r.Context(),
		r.PathValue("ledger"),
		req.Caller,
		req.Source,
		req.Amount,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "burned"})
}

func (a *Api) handleFreeze(w http.ResponseWriter, r *http.Request) {
	var req AccountRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	err := a.config.Issuance.Freeze(
		r.Context(),
		r.PathValue("ledger"),
		req.Caller,
		req.Account,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "frozen"})
}

func (a *Api) handleThaw(w http.ResponseWriter, r *http.Request) {
	var req AccountRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	err := a.config.Issuance.Thaw(
		r.Context(),
		r.PathValue("ledger"),
		req.Caller,
		req.Account,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "thawed"})
}

func (a *Api) handleSetPaused(w http.ResponseWriter, r *http.Request) {
	var req SetPausedRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	err := a.config.Issuance.SetPaused(
		r.PathValue("ledger"),
		req.Caller,
		req.Paused,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": req.Paused})
}

func (a *Api) handleGrantRole(w http.ResponseWriter, r *http.Request) {
	var req GrantRoleRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	ledgerID := r.PathValue("ledger")
	err := a.config.Roles.Grant(
		ledgerID,
		req.Caller,
		req.Target,
		roles.Role(req.Roles),
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RoleResponse{
		LedgerID: ledgerID,
		Identity: req.Target,
		Roles:    req.Roles,
	})
}

func (a *Api) handleGetRole(w http.ResponseWriter, r *http.Request) {
	ledgerID := r.PathValue("ledger")
	identity := r.PathValue("identity")
	mask, err := a.config.Roles.Get(ledgerID, identity)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RoleResponse{
		LedgerID: ledgerID,
		Identity: identity,
		Roles:    uint8(mask),
	})
}

func (a *Api) handleSetMinterQuota(w http.ResponseWriter, r *http.Request) {
	var req SetMinterQuotaRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	err := a.config.Issuance.SetMinterQuota(
		r.PathValue("ledger"),
		req.Caller,
		req.Minter,
		req.Quota,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"quota": req.Quota})
}

func (a *Api) handleSetEpochQuota(w http.ResponseWriter, r *http.Request) {
	var req SetLimitRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	err := a.config.Issuance.SetEpochQuota(
		r.PathValue("ledger"),
		req.Caller,
		req.Value,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"epoch_quota": req.Value})
}

func (a *Api) handleSetSupplyCap(w http.ResponseWriter, r *http.Request) {
	var req SetLimitRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	err := a.config.Issuance.SetSupplyCap(
		r.PathValue("ledger"),
		req.Caller,
		req.Value,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"supply_cap": req.Value})
}

func (a *Api) handleSetFeatures(w http.ResponseWriter, r *http.Request) {
	var req SetFeaturesRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	err := a.config.Issuance.SetFeatures(
		r.PathValue("ledger"),
		req.Caller,
		req.Features,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint32{"features": req.Features})
}

func (a *Api) handleInitiateAuthority(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req AuthorityRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	err := a.config.Issuance.InitiateAuthorityTransfer(
		r.PathValue("ledger"),
		req.Caller,
		req.NewAuthority,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"pending_authority": req.NewAuthority,
	})
}

func (a *Api) handleAcceptAuthority(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req AuthorityRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	err := a.config.Issuance.AcceptAuthorityTransfer(
		r.PathValue("ledger"),
		req.Caller,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"authority": req.Caller,
	})
}

func complianceConfigResponse(
	config *models.ComplianceConfig,
) ComplianceConfigResponse {
	return ComplianceConfigResponse{
		LedgerID:           config.LedgerID,
		FeeBasisPoints:     config.FeeBasisPoints,
		MaxTransferFee:     config.MaxTransferFee,
		MinTransferAmount:  config.MinTransferAmount,
		TotalFeesCollected: config.TotalFeesCollected,
		Paused:             config.Paused,
		BlacklistEnabled:   config.BlacklistEnabled,
		PermanentDelegate:  config.PermanentDelegate,
	}
}

func (a *Api) handleInitCompliance(w http.ResponseWriter, r *http.Request) {
	var req ComplianceConfigRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	ledgerID := r.PathValue("ledger")
	err := a.config.Compliance.InitConfig(
		ledgerID,
		req.Caller,
		compliance.ConfigParams{
			FeeBasisPoints:    req.FeeBasisPoints,
			MaxTransferFee:    req.MaxTransferFee,
			MinTransferAmount: req.MinTransferAmount,
			BlacklistEnabled:  req.BlacklistEnabled,
			PermanentDelegate: req.PermanentDelegate,
		},
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	config, err := a.config.Compliance.Config(ledgerID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, complianceConfigResponse(config))
}

func (a *Api) handleUpdateCompliance(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req ComplianceConfigRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	ledgerID := r.PathValue("ledger")
	err := a.config.Compliance.UpdateConfig(
		ledgerID,
		req.Caller,
		compliance.ConfigParams{
			FeeBasisPoints:    req.FeeBasisPoints,
			MaxTransferFee:    req.MaxTransferFee,
			MinTransferAmount: req.MinTransferAmount,
			BlacklistEnabled:  req.BlacklistEnabled,
			PermanentDelegate: req.PermanentDelegate,
		},
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	config, err := a.config.Compliance.Config(ledgerID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, complianceConfigResponse(config))
}

func (a *Api) handleGetCompliance(w http.ResponseWriter, r *http.Request) {
	config, err := a.config.Compliance.Config(r.PathValue("ledger"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, complianceConfigResponse(config))
}

func (a *Api) handleEvaluateTransfer(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req EvaluateTransferRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	result, err := a.config.Compliance.EvaluateTransfer(
		r.PathValue("ledger"),
		req.Source,
		req.Destination,
		req.Amount,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EvaluateTransferResponse{
		Fee:       result.Fee,
		NetAmount: result.NetAmount,
		Bypass:    result.Bypass,
	})
}

func (a *Api) handleCompliancePause(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req SetPausedRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	err := a.config.Compliance.SetPaused(
		r.PathValue("ledger"),
		req.Caller,
		req.Paused,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": req.Paused})
}

func (a *Api) handleAddBlacklist(w http.ResponseWriter, r *http.Request) {
	var req ListEntryRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	err := a.config.Compliance.AddBlacklist(
		r.PathValue("ledger"),
		req.Caller,
		req.Target,
		req.Reason,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "blacklisted"})
}

func (a *Api) handleBatchBlacklist(w http.ResponseWriter, r *http.Request) {
	var req BatchBlacklistRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	err := a.config.Compliance.BatchBlacklist(
		r.PathValue("ledger"),
		req.Caller,
		req.Targets,
		req.Reasons,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"targets": len(req.Targets)})
}

func (a *Api) handleRemoveBlacklist(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req CallerRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	err := a.config.Compliance.RemoveBlacklist(
		r.PathValue("ledger"),
		req.Caller,
		r.PathValue("target"),
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (a *Api) handleAddWhitelist(w http.ResponseWriter, r *http.Request) {
	var req ListEntryRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	err := a.config.Compliance.AddWhitelist(
		r.PathValue("ledger"),
		req.Caller,
		req.Target,
		req.Kind,
		req.Reason,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "whitelisted"})
}

func (a *Api) handleRemoveWhitelist(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req ListEntryRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	err := a.config.Compliance.RemoveWhitelist(
		r.PathValue("ledger"),
		req.Caller,
		r.PathValue("target"),
		req.Kind,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (a *Api) handleSeize(w http.ResponseWriter, r *http.Request) {
	var req SeizeRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	seized, err := a.config.Compliance.Seize(
		r.Context(),
		r.PathValue("ledger"),
		req.Caller,
		req.Source,
		req.Treasury,
		req.Amount,
		req.Reason,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SeizeResponse{Amount: seized})
}

func (a *Api) handleInitMultisig(w http.ResponseWriter, r *http.Request) {
	var req InitMultisigRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	ledgerID := r.PathValue("ledger")
	err := a.config.Governance.InitConfig(
		ledgerID,
		req.Caller,
		req.Threshold,
		req.Signers,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MultisigConfigResponse{
		LedgerID:  ledgerID,
		Threshold: req.Threshold,
		Signers:   req.Signers,
	})
}

func (a *Api) handleGetMultisig(w http.ResponseWriter, r *http.Request) {
	ledgerID := r.PathValue("ledger")
	config, signers, err := a.config.Governance.Config(ledgerID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MultisigConfigResponse{
		LedgerID:  ledgerID,
		Threshold: config.Threshold,
		Signers:   signers,
	})
}

func (a *Api) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	var req CreateProposalRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.TTLSeconds < 0 {
		writeError(w, http.StatusBadRequest, "ttl_seconds must not be negative")
		return
	}
	proposalID, err := a.config.Governance.Propose(
		r.PathValue("ledger"),
		req.Caller,
		req.Payload,
		time.Duration(req.TTLSeconds)*time.Second,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"proposal_id": proposalID,
	})
}

func (a *Api) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	proposal, approvals, err := a.config.Governance.Proposal(
		r.PathValue("proposal"),
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProposalResponse{
		ProposalID: proposal.ProposalID,
		LedgerID:   proposal.LedgerID,
		Proposer:   proposal.Proposer,
		Payload:    proposal.Payload,
		Executed:   proposal.Executed,
		CreatedAt:  proposal.CreatedAt,
		ExpiresAt:  proposal.ExpiresAt,
		Approvals:  approvals,
	})
}

func (a *Api) handleApproveProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req ProposalRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	err := a.config.Governance.Approve(
		r.PathValue("proposal"),
		req.Caller,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

func (a *Api) handleExecuteProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req ProposalRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	err := a.config.Governance.Execute(
		r.PathValue("proposal"),
		req.Caller,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "executed"})
}

func (a *Api) handleAuditRecords(w http.ResponseWriter, r *http.Request) {
	if a.config.Journal == nil {
		writeError(w, http.StatusNotFound, "audit journal not enabled")
		return
	}
	var start uint64
	var limit int
	if s := r.URL.Query().Get("start"); s != "" {
		parsed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start parameter")
			return
		}
		start = parsed
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = parsed
	}
	records, err := a.config.Journal.Records(start, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, AuditRecordsResponse{
		Records: records,
		NextSeq: a.config.Journal.NextSeq(),
	})
}
