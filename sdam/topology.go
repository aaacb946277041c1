// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package sdam implements the Server Discovery and Monitoring topology
// core: the state machine that turns a stream of per-server handshake
// results into a live model of a deployment, plus the server-selection
// algorithm that picks a server for an operation and read preference.
//
// The package performs no network I/O and starts no goroutines of its own.
// Every exported method on Topology requires the caller to serialize access
// (spec.md §5): there is no internal locking here, by design — the
// surrounding driver owns one mutex per Topology and a monitor goroutine per
// known server feeds handshake results through it.
package sdam

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nodedb/sdam/address"
	"github.com/nodedb/sdam/description"
	"github.com/nodedb/sdam/internal/randutil"
)

// Topology is a live, mutable model of a deployment. It exclusively owns
// every ServerDescription it contains; all references returned by
// ServerByID or SuitableServers are valid only while the caller continues
// to hold whatever mutex protects this Topology (spec.md §5).
type Topology struct {
	id primitive.ObjectID

	kind             description.TopologyKind
	setName          string
	compatible       bool
	compatibilityErr error
	stale            bool

	servers     map[uint32]description.Server
	order       []uint32
	addrToID    map[address.Address]uint32
	maxServerID uint32

	observer *Observer
	rnd      *randutil.LockedRand
}

// ID returns the identifier stamped on this Topology at construction; it is
// stable for the life of the Topology and is surfaced on observer events so
// a caller monitoring several topologies can tell them apart.
func (t *Topology) ID() primitive.ObjectID { return t.id }

// New creates a Topology with the given initial kind (Unknown, Single, or
// RSNoPrimary per spec.md §3 Lifecycle) and seed list. Each seed is added as
// an Unknown server, same as topology_add_server.
func New(kind description.TopologyKind, seeds []address.Address, opts ...Option) *Topology {
	cfg := newConfig(opts...)

	t := &Topology{
		id:         primitive.NewObjectID(),
		kind:       kind,
		setName:    cfg.setName,
		compatible: true,
		stale:      true,
		servers:    make(map[uint32]description.Server),
		addrToID:   make(map[address.Address]uint32),
		observer:   cfg.observer,
		rnd:        cfg.rnd,
	}

	for _, seed := range seeds {
		t.AddServer(seed.Canonicalize())
	}

	return t
}

// Description returns an immutable snapshot of the topology's current state,
// suitable for handing to a ServerSelector or to an observer. Building it is
// O(servers); callers in a hot loop should cache the result for the
// duration they hold the lock.
func (t *Topology) Description() description.Topology {
	servers := make([]description.Server, 0, len(t.servers))
	for _, id := range t.order {
		if s, ok := t.servers[id]; ok {
			servers = append(servers, s)
		}
	}
	return description.Topology{
		Kind:             t.kind,
		SetName:          t.setName,
		Servers:          servers,
		Compatible:       t.compatible,
		CompatibilityErr: t.compatibilityErr,
		Stale:            t.stale,
	}
}

// Kind returns the topology's current kind.
func (t *Topology) Kind() description.TopologyKind { return t.kind }

// SetName returns the replica set name, if one has been adopted.
func (t *Topology) SetName() string { return t.setName }

// Primary returns the server with Kind == RSPrimary, if one exists.
func (t *Topology) Primary() (description.Server, bool) {
	for _, id := range t.order {
		if s, ok := t.servers[id]; ok && s.Kind == description.RSPrimary {
			return s, true
		}
	}
	return description.Server{}, false
}

// AddServer adds addr to the topology if it is not already a member and
// returns its id. If addr is already present, its existing id is returned
// and on_add is not fired again (spec.md §8 property 2).
func (t *Topology) AddServer(addr address.Address) uint32 {
	addr = addr.Canonicalize()
	if id, ok := t.addrToID[addr]; ok {
		return id
	}

	t.maxServerID++
	id := t.maxServerID
	desc := description.NewDefaultServer(id, addr)

	t.servers[id] = desc
	t.order = append(t.order, id)
	t.addrToID[addr] = id

	if t.observer != nil && t.observer.ServerAdded != nil {
		t.observer.ServerAdded(ServerAddedEvent{TopologyID: t.id, Server: desc})
	}

	return id
}

// ServerByID returns the server for the given id, or false if it's not
// present (spec.md §6 topology_server_by_id).
func (t *Topology) ServerByID(id uint32) (description.Server, bool) {
	s, ok := t.servers[id]
	return s, ok
}

// ServerByAddr returns the server for the given address, and its id.
func (t *Topology) ServerByAddr(addr address.Address) (description.Server, uint32, bool) {
	addr = addr.Canonicalize()
	id, ok := t.addrToID[addr]
	if !ok {
		return description.Server{}, 0, false
	}
	s := t.servers[id]
	return s, id, true
}

// hasServer reports whether addr is a current member of the topology.
func (t *Topology) hasServer(addr address.Address) bool {
	_, ok := t.addrToID[addr]
	return ok
}

// removeServer removes the server at addr from the set, firing on_remove.
// A no-op if addr is not present.
func (t *Topology) removeServer(addr address.Address) {
	id, ok := t.addrToID[addr]
	if !ok {
		return
	}
	removed := t.servers[id]
	delete(t.servers, id)
	delete(t.addrToID, addr)

	if t.observer != nil && t.observer.ServerRemoved != nil {
		t.observer.ServerRemoved(ServerRemovedEvent{TopologyID: t.id, Server: removed})
	}
}

// setServer replaces the stored description for id. The caller is
// responsible for ensuring id is already a member.
func (t *Topology) setServer(id uint32, desc description.Server) {
	t.servers[id] = desc
}

// forEachServer calls fn once per currently-present server, in stable
// insertion order. fn may remove the server it was just called with (via
// removeServer) — later iterations skip ids no longer present in the map —
// but must not add or remove any other server. Iteration stops early if fn
// returns false.
func (t *Topology) forEachServer(fn func(id uint32, s description.Server) bool) {
	// Snapshot the order slice: additions during iteration (which append to
	// t.order) are not visited in the same pass.
	ids := make([]uint32, len(t.order))
	copy(ids, t.order)

	for _, id := range ids {
		s, ok := t.servers[id]
		if !ok {
			continue // removed earlier in this same pass
		}
		if !fn(id, s) {
			return
		}
	}
}
