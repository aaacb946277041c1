// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package sdam

import (
	"github.com/nodedb/sdam/address"
	"github.com/nodedb/sdam/description"
)

// checkIfHasPrimary sets the topology kind to RSWithPrimary if a primary is
// present, RSNoPrimary otherwise. Transcribed from
// _mongoc_topology_description_check_if_has_primary.
func checkIfHasPrimary(t *Topology, _ uint32, _ description.Server) {
	if _, ok := t.Primary(); ok {
		t.kind = description.RSWithPrimary
	} else {
		t.kind = description.RSNoPrimary
	}
}

// remove drops the observed server from the set. Transcribed from
// _mongoc_topology_description_remove_server used directly as a transition.
func remove(t *Topology, _ uint32, s description.Server) {
	t.removeServer(s.Addr)
}

// removeAndCheckPrimary removes the observed server, then re-derives
// RSWithPrimary/RSNoPrimary. Transcribed from
// _mongoc_topology_description_remove_and_check_primary.
func removeAndCheckPrimary(t *Topology, id uint32, s description.Server) {
	t.removeServer(s.Addr)
	checkIfHasPrimary(t, id, s)
}

// setSharded sets the topology kind to Sharded. Transcribed from
// _mongoc_topology_description_set_topology_type_to_sharded.
func setSharded(t *Topology, _ uint32, _ description.Server) {
	t.kind = description.Sharded
}

// updStandalone handles an Unknown topology observing a Standalone server.
// If other servers are already known, a standalone cannot be a member of a
// multi-node deployment and is dropped; otherwise the topology collapses to
// Single. Transcribed from
// _mongoc_topology_description_update_unknown_with_standalone.
func updStandalone(t *Topology, _ uint32, s description.Server) {
	if len(t.servers) > 1 {
		t.removeServer(s.Addr)
		return
	}
	t.kind = description.Single
}

// toRSNoPrimary sets the topology kind to RSNoPrimary and then applies
// updateRSWithoutPrimary. Transcribed from
// _mongoc_topology_description_transition_unknown_to_rs_no_primary.
func toRSNoPrimary(t *Topology, id uint32, s description.Server) {
	t.kind = description.RSNoPrimary
	updateRSWithoutPrimary(t, id, s)
}

// updateRSWithoutPrimary reconciles topology state when a replica-set member
// reports in and there is no known primary. Transcribed from
// _mongoc_topology_description_update_rs_without_primary.
func updateRSWithoutPrimary(t *Topology, id uint32, s description.Server) {
	if s.SetName != "" {
		if t.setName == "" {
			t.setName = s.SetName
		} else if t.setName != s.SetName {
			t.removeServer(s.Addr)
			return
		}
	}

	monitorNewServers(t, s)

	if s.CurrentPrimary != "" {
		t.labelUnknownMember(s.CurrentPrimary, description.PossiblePrimary)
	}
}

// updateRSWithPrimaryFromMember reconciles topology state when a non-primary
// replica-set member reports in while the topology already believes it has
// a primary. Transcribed from
// _mongoc_topology_description_update_rs_with_primary_from_member.
func updateRSWithPrimaryFromMember(t *Topology, id uint32, s description.Server) {
	if t.setName != s.SetName {
		t.removeServer(s.Addr)
		return
	}

	if _, hasPrimary := t.Primary(); !hasPrimary && s.CurrentPrimary != "" {
		t.kind = description.RSNoPrimary
		t.labelUnknownMember(s.CurrentPrimary, description.PossiblePrimary)
	}
}

// updateRSFromPrimary handles a primary announcement. Rogue-primary
// rejection (step 1) runs before roster reconciliation (steps 2-4) so
// members of a wrong replica set are never added — this ordering is
// load-bearing (spec.md §4.3). Transcribed from
// _mongoc_topology_description_update_rs_from_primary.
func updateRSFromPrimary(t *Topology, id uint32, s description.Server) {
	if t.setName == "" {
		t.setName = s.SetName
	} else if t.setName != s.SetName {
		t.removeServer(s.Addr)
		checkIfHasPrimary(t, id, s)
		return
	}

	// Invalidate any other server still claiming to be primary.
	t.forEachServer(func(otherID uint32, other description.Server) bool {
		if otherID != id && other.Kind == description.RSPrimary {
			other.Kind = description.Unknown
			t.setServer(otherID, other)
		}
		return true
	})

	monitorNewServers(t, s)

	// Stop monitoring anything the primary doesn't know about.
	members := make(map[address.Address]bool, len(s.Hosts)+len(s.Passives)+len(s.Arbiters))
	for _, a := range s.Members() {
		members[a] = true
	}
	var stale []address.Address
	t.forEachServer(func(_ uint32, other description.Server) bool {
		if other.Addr != s.Addr && !members[other.Addr] {
			stale = append(stale, other.Addr)
		}
		return true
	})
	for _, addr := range stale {
		t.removeServer(addr)
	}

	t.kind = description.RSWithPrimary
}

// monitorNewServers begins monitoring any members s reports that the
// topology doesn't already know about. Transcribed from
// _mongoc_topology_description_monitor_new_servers.
func monitorNewServers(t *Topology, s description.Server) {
	for _, addr := range s.Members() {
		t.AddServer(addr)
	}
}

// labelUnknownMember relabels the member at addr, iff it is currently
// Unknown, to kind. A no-op if addr isn't a member or isn't Unknown.
// Transcribed from _mongoc_topology_description_label_unknown_member.
func (t *Topology) labelUnknownMember(addr address.Address, kind description.ServerKind) {
	addr = addr.Canonicalize()
	id, ok := t.addrToID[addr]
	if !ok {
		return
	}
	s := t.servers[id]
	if s.Kind != description.Unknown {
		return
	}
	s.Kind = kind
	t.servers[id] = s
}
