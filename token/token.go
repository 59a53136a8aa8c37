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

// Package token defines the interface to the external transfer-execution
// service. The control core validates and authorizes operations, then
// delegates the actual movement of value to this service, which is
// trusted to execute atomically once invoked.
package token

import (
	"context"
	"errors"
)

// ErrExecutionFailed wraps any failure reported by the transfer-execution
// service. Failures are opaque to the core and have no partial effect.
var ErrExecutionFailed = errors.New("external execution failed")

// Authority selects which authorization context an external call runs
// under
type Authority int

const (
	// AuthorityAdmin runs the call under the ledger's administrative
	// authority (privileged burner, freeze/thaw, delegate seizure)
	AuthorityAdmin Authority = iota
	// AuthorityOwner runs the call under the fund owner's own
	// authorization (self-burn, standard transfer)
	AuthorityOwner
)

func (a Authority) String() string {
	switch a {
	case AuthorityAdmin:
		return "admin"
	case AuthorityOwner:
		return "owner"
	default:
		return "unknown"
	}
}

// Service is the transfer-execution primitive. All calls are assumed
// atomic: they either fully apply or report an error with no effect.
type Service interface {
	// MintTo creates new supply in the destination account
	MintTo(ctx context.Context, ledgerID, destination string, amount uint64) error
	// BurnFrom destroys supply held by source under the given authority
	BurnFrom(ctx context.Context, ledgerID, source string, auth Authority, amount uint64) error
	// Transfer moves value between accounts under the given authority
	Transfer(ctx context.Context, ledgerID, source, destination string, auth Authority, amount uint64) error
	// Freeze blocks an account from transacting
	Freeze(ctx context.Context, ledgerID, account string) error
	// Thaw unblocks a frozen account
	Thaw(ctx context.Context, ledgerID, account string) error
	// Balance reports the current balance of an account
	Balance(ctx context.Context, ledgerID, account string) (uint64, error)
}
