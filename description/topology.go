// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package description

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/nodedb/sdam/address"
)

// Topology is an immutable snapshot of a deployment: its overall kind, the
// set of servers currently known, and whether the driver and deployment are
// compatible. It is produced by the sdam package and is safe to read
// concurrently; it is never mutated in place.
type Topology struct {
	Kind    TopologyKind
	SetName string
	Servers []Server

	// Compatible is false when a server's wire-protocol version range is
	// incompatible with this library; false disables selection entirely.
	Compatible       bool
	CompatibilityErr error

	// Stale hints to observers that this snapshot predates any handshake
	// landing (e.g. right after construction, before the first response).
	Stale bool
}

// Server returns the server for the given address, and whether it was found.
func (t Topology) Server(addr address.Address) (Server, bool) {
	for _, server := range t.Servers {
		if server.Addr == addr {
			return server, true
		}
	}
	return Server{}, false
}

// Primary returns the server with Kind == RSPrimary, if one exists.
func (t Topology) Primary() (Server, bool) {
	for _, server := range t.Servers {
		if server.Kind == RSPrimary {
			return server, true
		}
	}
	return Server{}, false
}

// TopologyDiff is the difference between two topology descriptions.
type TopologyDiff struct {
	Added   []Server
	Removed []Server
}

// DiffTopology compares two topology descriptions by server address and
// returns which servers were added and removed going from old to new.
func DiffTopology(old, new Topology) TopologyDiff {
	var diff TopologyDiff

	oldServers := make(map[address.Address]bool, len(old.Servers))
	for _, s := range old.Servers {
		oldServers[s.Addr] = true
	}

	for _, s := range new.Servers {
		if oldServers[s.Addr] {
			delete(oldServers, s.Addr)
		} else {
			diff.Added = append(diff.Added, s)
		}
	}

	for _, s := range old.Servers {
		if oldServers[s.Addr] {
			diff.Removed = append(diff.Removed, s)
		}
	}

	return diff
}

// HostlistDiff is the difference between a topology's current membership and
// a freshly reported host list.
type HostlistDiff struct {
	Added   []address.Address
	Removed []address.Address
}

// DiffHostlist compares the topology's current servers against hostlist and
// returns which addresses are new and which are no longer present.
func (t Topology) DiffHostlist(hostlist []address.Address) HostlistDiff {
	var diff HostlistDiff

	oldServers := make(map[address.Address]bool, len(t.Servers))
	for _, s := range t.Servers {
		oldServers[s.Addr] = true
	}

	for _, addr := range hostlist {
		if oldServers[addr] {
			delete(oldServers, addr)
		} else {
			diff.Added = append(diff.Added, addr)
		}
	}

	for addr := range oldServers {
		diff.Removed = append(diff.Removed, addr)
	}

	return diff
}

// String implements the Stringer interface.
func (t Topology) String() string {
	serversStr := ""
	for _, s := range t.Servers {
		serversStr += "{ " + s.String() + " }, "
	}
	return fmt.Sprintf("Type: %s, Servers: [%s]", t.Kind, serversStr)
}

// Equal reports whether two topology descriptions describe the same state,
// independent of server order.
func (t Topology) Equal(other Topology) bool {
	if t.Kind != other.Kind || t.SetName != other.SetName {
		return false
	}

	byAddr := func(servers []Server) map[address.Address]Server {
		m := make(map[address.Address]Server, len(servers))
		for _, s := range servers {
			m[s.Addr] = s
		}
		return m
	}

	return cmp.Equal(byAddr(t.Servers), byAddr(other.Servers), cmpopts.EquateEmpty(),
		cmp.Comparer(func(a, b Server) bool { return a.Equal(b) }))
}

// HasReadableServer returns true if the topology has a server available for
// reading under the given read preference mode. Single and sharded
// topologies only require an available server; replica sets require a
// member compatible with mode.
func (t Topology) HasReadableServer(mode ReadPrefMode) bool {
	switch t.Kind {
	case Single, Sharded:
		// Read preference is ignored for Single/Sharded (spec.md §4.5): any
		// data-bearing server (Standalone, Mongos) is available. This must
		// not route through hasAvailableServer's PrimaryMode case, which
		// only matches RSPrimary and would wrongly report no server
		// available for a healthy Standalone or Mongos.
		for _, s := range t.Servers {
			if s.DataBearing() {
				return true
			}
		}
		return false
	case RSWithPrimary:
		return hasAvailableServer(t.Servers, mode)
	case RSNoPrimary:
		if mode == PrimaryMode {
			return false
		}
		return hasAvailableServer(t.Servers, mode)
	}
	return false
}

// HasWritableServer returns true if the topology has a server available for
// writing.
func (t Topology) HasWritableServer() bool {
	return t.HasReadableServer(PrimaryMode)
}

func hasAvailableServer(servers []Server, mode ReadPrefMode) bool {
	switch mode {
	case PrimaryMode:
		for _, s := range servers {
			if s.Kind == RSPrimary {
				return true
			}
		}
		return false
	case PrimaryPreferredMode, SecondaryPreferredMode, NearestMode:
		for _, s := range servers {
			if s.Kind == RSPrimary || s.Kind == RSSecondary {
				return true
			}
		}
		return false
	case SecondaryMode:
		for _, s := range servers {
			if s.Kind == RSSecondary {
				return true
			}
		}
		return false
	}
	return false
}
