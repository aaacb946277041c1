// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package sdam

import (
	"time"

	"github.com/nodedb/sdam/address"
	"github.com/nodedb/sdam/description"
)

// HandshakeResponse is the contract this package consumes from an external
// handshake-response parser (spec.md §6): the fields of an "ismaster"
// response relevant to SDAM classification. Parsing the wire response into
// this shape, issuing the handshake, and timing the round trip are all the
// caller's responsibility; this package only classifies and reacts.
type HandshakeResponse struct {
	// IsMaster is true when the responding server considers itself primary.
	IsMaster bool
	// Secondary is true when the responding server considers itself a
	// replica set secondary.
	Secondary bool
	// ArbiterOnly is true for a replica-set arbiter.
	ArbiterOnly bool
	// IsReplicaSet is true for a node not yet added to any replica set
	// (classified as RSGhost).
	IsReplicaSet bool
	// Msg is the server's self-reported role string; "isdbgrid" identifies a
	// mongos router.
	Msg string
	// SetName is the replica set name this server claims, empty if none.
	SetName string
	// Primary is the address this server believes is the current primary.
	Primary address.Address
	// Hosts, Passives, and Arbiters are the replica-set member rosters this
	// server reports.
	Hosts    []address.Address
	Passives []address.Address
	Arbiters []address.Address

	// MinWireVersion and MaxWireVersion bound the wire protocol versions the
	// server supports, used by CheckCompatibility.
	MinWireVersion int32
	MaxWireVersion int32
}

// classify derives a ServerKind from a handshake response, per the table in
// spec.md §4.1 (the standard SDAM classification).
func classify(resp *HandshakeResponse) description.ServerKind {
	switch {
	case resp.IsReplicaSet:
		return description.RSGhost
	case resp.Msg == "isdbgrid":
		return description.Mongos
	case resp.SetName == "":
		return description.Standalone
	case resp.IsMaster:
		return description.RSPrimary
	case resp.Secondary:
		return description.RSSecondary
	case resp.ArbiterOnly:
		return description.RSArbiter
	default:
		return description.RSOther
	}
}

// applyHandshake produces the Server that results from applying resp (the
// parsed handshake response), rtt, and handshakeErr to the server currently
// known as prev. If handshakeErr is non-nil or resp is nil, the result is
// Unknown with rosters cleared, per spec.md §4.1.
func applyHandshake(prev description.Server, resp *HandshakeResponse, rttMS int64, handshakeErr error) description.Server {
	next := description.Server{
		ID:   prev.ID,
		Addr: prev.Addr,
	}

	if handshakeErr != nil || resp == nil {
		next.Kind = description.Unknown
		next.LastError = handshakeErr
		return next
	}

	next.Kind = classify(resp)
	next.RTT = time.Duration(rttMS) * time.Millisecond
	next.SetName = resp.SetName
	next.CurrentPrimary = resp.Primary
	next.Hosts = canonicalizeAll(resp.Hosts)
	next.Passives = canonicalizeAll(resp.Passives)
	next.Arbiters = canonicalizeAll(resp.Arbiters)
	if resp.MaxWireVersion != 0 || resp.MinWireVersion != 0 {
		next.WireVersion = &description.VersionRange{Min: resp.MinWireVersion, Max: resp.MaxWireVersion}
	}
	return next
}

func canonicalizeAll(addrs []address.Address) []address.Address {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]address.Address, len(addrs))
	for i, a := range addrs {
		out[i] = a.Canonicalize()
	}
	return out
}
