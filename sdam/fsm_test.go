// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package sdam

import (
	"testing"

	"github.com/nodedb/sdam/address"
	"github.com/nodedb/sdam/description"
	"github.com/nodedb/sdam/internal/testutil/assert"
)

func mustServer(t *testing.T, topo *Topology, addr address.Address) description.Server {
	t.Helper()
	s, _, ok := topo.ServerByAddr(addr.Canonicalize())
	if !ok {
		t.Fatalf("expected %s to be a member of the topology", addr)
	}
	return s
}

// TestStandaloneCollapse covers updStandalone's Single-collapse branch: with
// only one server ever known to the topology, a Standalone handshake from it
// collapses the topology to Single and the server survives.
func TestStandaloneCollapse(t *testing.T) {
	a := address.Address("a:27017")
	topo := New(description.TopologyUnknown, []address.Address{a})

	ok := topo.HandleHandshake(a, &HandshakeResponse{}, 5, nil)
	assert.True(t, ok, "expected handshake against a known address to be applied")

	assert.Equal(t, description.Single, topo.Kind(), "expected topology kind %v, got %v", description.Single, topo.Kind())

	srv, ok := topo.Select(description.Read, description.Primary(), 15)
	assert.True(t, ok, "expected a selectable server")
	assert.Equal(t, a.Canonicalize(), srv.Addr, "expected %s selected, got %s", a, srv.Addr)
}

// TestStandaloneRemovedWhenOtherServersKnown covers updStandalone's other
// branch: transitions.go removes the *observed* server, not some other
// known address, once more than one server is already known — matching
// mongoc-topology-description.c's
// _mongoc_topology_description_update_unknown_with_standalone, which always
// calls _mongoc_topology_description_remove_server on the server whose
// ismaster was just processed.
func TestStandaloneRemovedWhenOtherServersKnown(t *testing.T) {
	a, b := address.Address("a:27017"), address.Address("b:27017")
	topo := New(description.TopologyUnknown, []address.Address{a, b})

	ok := topo.HandleHandshake(a, &HandshakeResponse{}, 5, nil)
	assert.True(t, ok, "expected handshake against a known address to be applied")

	if _, _, ok := topo.ServerByAddr(a); ok {
		t.Fatalf("expected the observed server a to have been removed")
	}
	if _, _, ok := topo.ServerByAddr(b); !ok {
		t.Fatalf("expected b to remain in the topology")
	}
	assert.Equal(t, description.TopologyUnknown, topo.Kind(), "expected topology kind to remain %v, got %v", description.TopologyUnknown, topo.Kind())
}

func TestReplicaSetDiscovery(t *testing.T) {
	a := address.Address("a:27017")
	b, c := address.Address("b:27017"), address.Address("c:27017")
	topo := New(description.RSNoPrimary, []address.Address{a})

	ok := topo.HandleHandshake(a, &HandshakeResponse{
		Secondary: true,
		SetName:   "rs0",
		Hosts:     []address.Address{a, b, c},
		Primary:   b,
	}, 5, nil)
	assert.True(t, ok, "expected handshake to be applied")

	assert.Equal(t, description.RSNoPrimary, topo.Kind(), "expected topology kind %v, got %v", description.RSNoPrimary, topo.Kind())
	assert.Equal(t, "rs0", topo.SetName(), "expected set name rs0, got %s", topo.SetName())

	aDesc := mustServer(t, topo, a)
	assert.Equal(t, description.RSSecondary, aDesc.Kind, "expected a to be RSSecondary, got %v", aDesc.Kind)

	bDesc := mustServer(t, topo, b)
	assert.Equal(t, description.PossiblePrimary, bDesc.Kind, "expected b to be PossiblePrimary, got %v", bDesc.Kind)

	cDesc := mustServer(t, topo, c)
	assert.Equal(t, description.Unknown, cDesc.Kind, "expected c to be Unknown, got %v", cDesc.Kind)
}

func TestPrimaryPromotion(t *testing.T) {
	a := address.Address("a:27017")
	b, c := address.Address("b:27017"), address.Address("c:27017")
	topo := New(description.RSNoPrimary, []address.Address{a})
	topo.HandleHandshake(a, &HandshakeResponse{
		Secondary: true,
		SetName:   "rs0",
		Hosts:     []address.Address{a, b, c},
		Primary:   b,
	}, 5, nil)

	ok := topo.HandleHandshake(b, &HandshakeResponse{
		IsMaster: true,
		SetName:  "rs0",
		Hosts:    []address.Address{a, b, c},
	}, 5, nil)
	assert.True(t, ok, "expected handshake to be applied")

	bDesc := mustServer(t, topo, b)
	assert.Equal(t, description.RSPrimary, bDesc.Kind, "expected b to be RSPrimary, got %v", bDesc.Kind)
	assert.Equal(t, description.RSWithPrimary, topo.Kind(), "expected topology kind %v, got %v", description.RSWithPrimary, topo.Kind())

	cDesc := mustServer(t, topo, c)
	assert.Equal(t, description.Unknown, cDesc.Kind, "expected c to remain Unknown until its own handshake, got %v", cDesc.Kind)
}

func TestRoguePrimary(t *testing.T) {
	a := address.Address("a:27017")
	b, c, d := address.Address("b:27017"), address.Address("c:27017"), address.Address("d:27017")
	topo := New(description.RSNoPrimary, []address.Address{a})
	topo.HandleHandshake(a, &HandshakeResponse{
		Secondary: true,
		SetName:   "rs0",
		Hosts:     []address.Address{a, b, c},
		Primary:   b,
	}, 5, nil)
	topo.HandleHandshake(b, &HandshakeResponse{
		IsMaster: true,
		SetName:  "rs0",
		Hosts:    []address.Address{a, b, c},
	}, 5, nil)

	topo.AddServer(d)
	ok := topo.HandleHandshake(d, &HandshakeResponse{
		IsMaster: true,
		SetName:  "other",
	}, 5, nil)
	assert.True(t, ok, "expected handshake to be applied")

	if _, _, ok := topo.ServerByAddr(d); ok {
		t.Fatalf("expected rogue primary d to have been removed")
	}
	bDesc := mustServer(t, topo, b)
	assert.Equal(t, description.RSPrimary, bDesc.Kind, "expected b to remain primary, got %v", bDesc.Kind)
	assert.Equal(t, description.RSWithPrimary, topo.Kind(), "expected topology kind to remain %v, got %v", description.RSWithPrimary, topo.Kind())
}

func TestDualPrimary(t *testing.T) {
	a, b := address.Address("a:27017"), address.Address("b:27017")
	topo := New(description.RSWithPrimary, []address.Address{a, b}, WithSetName("rs0"))
	topo.HandleHandshake(a, &HandshakeResponse{IsMaster: true, SetName: "rs0", Hosts: []address.Address{a, b}}, 5, nil)

	ok := topo.HandleHandshake(b, &HandshakeResponse{IsMaster: true, SetName: "rs0", Hosts: []address.Address{a, b}}, 5, nil)
	assert.True(t, ok, "expected handshake to be applied")

	aDesc := mustServer(t, topo, a)
	assert.Equal(t, description.Unknown, aDesc.Kind, "expected a demoted to Unknown, got %v", aDesc.Kind)

	bDesc := mustServer(t, topo, b)
	assert.Equal(t, description.RSPrimary, bDesc.Kind, "expected b to be RSPrimary, got %v", bDesc.Kind)

	assert.Equal(t, description.RSWithPrimary, topo.Kind(), "expected topology kind to remain %v, got %v", description.RSWithPrimary, topo.Kind())
}

func TestAddServerIdempotent(t *testing.T) {
	addr := address.Address("a:27017")
	calls := 0
	topo := New(description.TopologyUnknown, nil, WithObservers(Observer{
		ServerAdded: func(ServerAddedEvent) { calls++ },
	}))

	id1 := topo.AddServer(addr)
	id2 := topo.AddServer(addr)
	assert.Equal(t, id1, id2, "expected idempotent AddServer to return the same id, got %d and %d", id1, id2)
	assert.Equal(t, 1, calls, "expected on_add to fire exactly once, fired %d times", calls)
}
