// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package description

import (
	"fmt"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/nodedb/sdam/address"
)

// Server is an immutable-by-replacement snapshot of one server as reported
// by its most recent handshake. A ServerDescription is never mutated after
// it's produced; a new handshake produces a new Server value that replaces
// the old one in the owning Topology.
type Server struct {
	ID   uint32
	Addr address.Address
	Kind ServerKind

	// RTT is the round-trip time observed for the handshake that produced
	// this description. Zero if the server has never answered.
	RTT time.Duration

	// SetName is the replica set name this server claims, if any.
	SetName string

	// CurrentPrimary is the address this server believes is primary, for
	// replica set members that are not themselves primary.
	CurrentPrimary address.Address

	// Hosts, Passives, and Arbiters are the replica-set member rosters this
	// server reports, used to discover and reconcile topology membership.
	Hosts    []address.Address
	Passives []address.Address
	Arbiters []address.Address

	WireVersion *VersionRange

	// LastError is the error, if any, that accompanied or produced this
	// description (a network or handshake failure downgrades a server to
	// Unknown; LastError records why).
	LastError error
}

// NewDefaultServer returns a Server in its initial Unknown state, as created
// the first time an address is seen (either as a seed or via a primary's
// roster).
func NewDefaultServer(id uint32, addr address.Address) Server {
	return Server{ID: id, Addr: addr, Kind: Unknown}
}

// HasRSMember returns true if addr appears in this server's reported hosts,
// passives, or arbiters rosters.
func (s Server) HasRSMember(addr address.Address) bool {
	for _, set := range [][]address.Address{s.Hosts, s.Passives, s.Arbiters} {
		for _, a := range set {
			if a == addr {
				return true
			}
		}
	}
	return false
}

// Members returns the union of Hosts, Passives, and Arbiters — every address
// this server considers part of its replica set.
func (s Server) Members() []address.Address {
	members := make([]address.Address, 0, len(s.Hosts)+len(s.Passives)+len(s.Arbiters))
	members = append(members, s.Hosts...)
	members = append(members, s.Passives...)
	members = append(members, s.Arbiters...)
	return members
}

// DataBearing returns true if this server kind can hold user data and thus
// participate in read/write selection.
func (s Server) DataBearing() bool {
	switch s.Kind {
	case Standalone, Mongos, RSPrimary, RSSecondary:
		return true
	default:
		return false
	}
}

// Equal reports whether two Server values describe the same observed state.
func (s Server) Equal(other Server) bool {
	return cmp.Equal(s, other,
		cmpopts.EquateEmpty(),
		cmp.Comparer(func(a, b error) bool {
			if a == nil || b == nil {
				return a == b
			}
			return a.Error() == b.Error()
		}),
	)
}

// String implements the Stringer interface.
func (s Server) String() string {
	str := fmt.Sprintf("Addr: %s, Type: %s", s.Addr, s.Kind)
	if s.SetName != "" {
		str += fmt.Sprintf(", Set Name: %s", s.SetName)
	}
	if s.RTT > 0 {
		str += fmt.Sprintf(", RTT: %s", s.RTT)
	}
	if s.LastError != nil {
		str += fmt.Sprintf(", Last error: %s", s.LastError)
	}
	return str
}
