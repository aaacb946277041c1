// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package sdam

import (
	"math/rand"
	"testing"
	"time"

	"github.com/nodedb/sdam/address"
	"github.com/nodedb/sdam/description"
	"github.com/nodedb/sdam/internal/testutil/assert"
)

func TestLatencyWindow(t *testing.T) {
	topo := description.Topology{
		Kind: description.Sharded,
		Servers: []description.Server{
			{Addr: "m1:27017", Kind: description.Mongos, RTT: 15 * time.Millisecond},
			{Addr: "m2:27017", Kind: description.Mongos, RTT: 30 * time.Millisecond},
			{Addr: "m3:27017", Kind: description.Mongos, RTT: 90 * time.Millisecond},
		},
	}

	got := SuitableServers(topo, description.Read, description.ReadPref{Mode: description.NearestMode}, 20)
	if len(got) != 2 {
		t.Fatalf("expected 2 suitable servers, got %d: %v", len(got), got)
	}
	seen := map[address.Address]bool{}
	for _, s := range got {
		seen[s.Addr] = true
	}
	assert.True(t, seen["m1:27017"] && seen["m2:27017"], "expected m1 and m2 to be selected, got %v", got)
	assert.True(t, !seen["m3:27017"], "expected m3 to be excluded by the latency window")

	shardedTopo := New(description.TopologyUnknown, nil, WithRandSource(rand.NewSource(1)))
	shardedTopo.kind = description.Sharded
	for _, s := range topo.Servers {
		id := shardedTopo.AddServer(s.Addr)
		shardedTopo.setServer(id, s)
	}

	for i := 0; i < 20; i++ {
		srv, ok := shardedTopo.Select(description.Read, description.ReadPref{Mode: description.NearestMode}, 20)
		assert.True(t, ok, "expected a selection")
		if srv.RTT > 30*time.Millisecond {
			t.Fatalf("expected selection within the latency window, got rtt=%s", srv.RTT)
		}
	}
}

func TestIncompatibleTopologySelectsNothing(t *testing.T) {
	topo := New(description.Single, []address.Address{"a:27017"})
	topo.compatible = false

	_, ok := topo.Select(description.Read, description.Primary(), 15)
	assert.True(t, !ok, "expected Select to return nothing for an incompatible topology")

	_, err := topo.SelectWithError(description.Read, description.Primary(), 15)
	if err == nil {
		t.Fatalf("expected SelectWithError to report an error")
	}
}

func TestSelectionRespectsWriteDispatch(t *testing.T) {
	a, b := address.Address("a:27017"), address.Address("b:27017")
	topo := New(description.RSWithPrimary, []address.Address{a, b}, WithSetName("rs0"))
	topo.HandleHandshake(a, &HandshakeResponse{IsMaster: true, SetName: "rs0", Hosts: []address.Address{a, b}}, 5, nil)

	srv, ok := topo.Select(description.Write, description.Primary(), 15)
	assert.True(t, ok, "expected a write selection to succeed")
	assert.Equal(t, a.Canonicalize(), srv.Addr, "expected the primary to be selected for a write, got %s", srv.Addr)
}
