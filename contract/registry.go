//----------------------------------------------------------------------
// This file is part of Anchor.
// Copyright (C) 2024-2026 Bernd Fix  >Y<
//
// Anchor is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// Anchor is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package contract

import (
	stderr "errors"

	"github.com/bfix/anchor/errors"
)

// ErrContractNotFound is returned for lookups of unknown contracts.
var ErrContractNotFound = stderr.New("contract not found")

// Registry resolves contract ids to deployed programs. The engine
// receives a synchronous view; persistence and replication live with
// the host.
type Registry interface {
	// Lookup returns the program deployed under a contract id.
	Lookup(contractID [32]byte) (*Program, error)
}

// MemoryRegistry is a map-backed registry for hosts and tests.
type MemoryRegistry struct {
	programs map[[32]byte]*Program
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		programs: make(map[[32]byte]*Program),
	}
}

// Register deploys a program under a contract id, replacing any
// previous deployment.
func (r *MemoryRegistry) Register(contractID [32]byte, p *Program) {
	r.programs[contractID] = p
}

// Lookup returns the program deployed under a contract id.
func (r *MemoryRegistry) Lookup(contractID [32]byte) (*Program, error) {
	p, ok := r.programs[contractID]
	if !ok {
		return nil, errors.New(ErrContractNotFound, "%x", contractID[:8])
	}
	return p, nil
}
