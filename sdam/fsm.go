// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package sdam

import "github.com/nodedb/sdam/description"

// transitionFunc mutates t in response to having just observed s (already
// classified and stored at id) during a handshake. Transitions never fail;
// they move the topology toward a valid state (spec.md §7 Propagation).
type transitionFunc func(t *Topology, id uint32, s description.Server)

// transitionTable implements the table in spec.md §4.3: a static dispatch on
// (observed server kind, current topology kind) transcribed from
// mongoc-topology-description.c's gSDAMTransitionTable. TopologyKind Single
// has no column in the original table — once a topology is Single it never
// transitions again (spec.md §3 invariant 2) — so that column is left
// entirely nil below.
var transitionTable = [9][5]transitionFunc{
	description.Unknown: {
		description.TopologyUnknown: nil,
		description.Single:          nil,
		description.Sharded:         nil,
		description.RSNoPrimary:     nil,
		description.RSWithPrimary:   checkIfHasPrimary,
	},
	description.Standalone: {
		description.TopologyUnknown: updStandalone,
		description.Single:          nil,
		description.Sharded:         remove,
		description.RSNoPrimary:     remove,
		description.RSWithPrimary:   removeAndCheckPrimary,
	},
	description.Mongos: {
		description.TopologyUnknown: setSharded,
		description.Single:          nil,
		description.Sharded:         nil,
		description.RSNoPrimary:     remove,
		description.RSWithPrimary:   removeAndCheckPrimary,
	},
	description.PossiblePrimary: {
		description.TopologyUnknown: nil,
		description.Single:          nil,
		description.Sharded:         nil,
		description.RSNoPrimary:     nil,
		description.RSWithPrimary:   nil,
	},
	description.RSPrimary: {
		description.TopologyUnknown: updateRSFromPrimary,
		description.Single:          nil,
		description.Sharded:         remove,
		description.RSNoPrimary:     updateRSFromPrimary,
		description.RSWithPrimary:   updateRSFromPrimary,
	},
	description.RSSecondary: {
		description.TopologyUnknown: toRSNoPrimary,
		description.Single:          nil,
		description.Sharded:         remove,
		description.RSNoPrimary:     updateRSWithoutPrimary,
		description.RSWithPrimary:   updateRSWithPrimaryFromMember,
	},
	description.RSArbiter: {
		description.TopologyUnknown: toRSNoPrimary,
		description.Single:          nil,
		description.Sharded:         remove,
		description.RSNoPrimary:     updateRSWithoutPrimary,
		description.RSWithPrimary:   updateRSWithPrimaryFromMember,
	},
	description.RSOther: {
		description.TopologyUnknown: toRSNoPrimary,
		description.Single:          nil,
		description.Sharded:         remove,
		description.RSNoPrimary:     updateRSWithoutPrimary,
		description.RSWithPrimary:   updateRSWithPrimaryFromMember,
	},
	description.RSGhost: {
		description.TopologyUnknown: nil,
		description.Single:          nil,
		description.Sharded:         remove,
		description.RSNoPrimary:     nil,
		description.RSWithPrimary:   checkIfHasPrimary,
	},
}

// runTransition looks up and, if present, runs the transition for
// (s.Kind, t.kind).
func runTransition(t *Topology, id uint32, s description.Server) {
	if fn := transitionTable[s.Kind][t.kind]; fn != nil {
		fn(t, id, s)
	}
}
