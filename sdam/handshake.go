// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package sdam

import "github.com/nodedb/sdam/address"

// HandleHandshake applies the result of a single handshake attempt against
// addr to the topology: classify and record the new server description, then
// run the matching transition from the table in fsm.go. It returns false
// without touching anything if addr is not currently a member of the
// topology — per spec.md §4.4 step 1, a response from a server that has
// already been removed (raced with a prior transition) is ignored outright,
// never partially applied.
//
// rttMS is the observed round-trip time in milliseconds; it is ignored when
// handshakeErr is non-nil. handshakeErr, when set, downgrades the server to
// Unknown regardless of what resp contains (resp may be nil in that case).
func (t *Topology) HandleHandshake(addr address.Address, resp *HandshakeResponse, rttMS int64, handshakeErr error) bool {
	addr = addr.Canonicalize()
	id, ok := t.addrToID[addr]
	if !ok {
		return false
	}

	prev := t.servers[id]
	next := applyHandshake(prev, resp, rttMS, handshakeErr)
	t.setServer(id, next)

	runTransition(t, id, next)
	t.stale = false

	return true
}

// InvalidateServer marks addr Unknown following a network or handshake
// failure observed outside of a handshake response — a dropped connection, a
// timeout, a cancelled request — and runs the matching transition. It is
// equivalent to HandleHandshake(addr, nil, 0, err). Returns false if addr is
// not a current member.
func (t *Topology) InvalidateServer(addr address.Address, err error) bool {
	return t.HandleHandshake(addr, nil, 0, err)
}
