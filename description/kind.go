// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package description

// ServerKind represents the kind of a single server, as derived from its
// most recent handshake response.
type ServerKind uint32

// These constants are the possible kinds of a server.
const (
	Unknown ServerKind = iota
	Standalone
	Mongos
	PossiblePrimary
	RSPrimary
	RSSecondary
	RSArbiter
	RSOther
	RSGhost
)

// String implements the Stringer interface.
func (k ServerKind) String() string {
	switch k {
	case Standalone:
		return "Standalone"
	case Mongos:
		return "Mongos"
	case PossiblePrimary:
		return "PossiblePrimary"
	case RSPrimary:
		return "RSPrimary"
	case RSSecondary:
		return "RSSecondary"
	case RSArbiter:
		return "RSArbiter"
	case RSOther:
		return "RSOther"
	case RSGhost:
		return "RSGhost"
	default:
		return "Unknown"
	}
}

// TopologyKind represents the overall shape of a deployment.
type TopologyKind uint32

// These constants are the possible kinds of a topology.
const (
	TopologyUnknown TopologyKind = iota
	Single
	Sharded
	RSNoPrimary
	RSWithPrimary
)

// String implements the Stringer interface.
func (k TopologyKind) String() string {
	switch k {
	case Single:
		return "Single"
	case Sharded:
		return "Sharded"
	case RSNoPrimary:
		return "ReplicaSetNoPrimary"
	case RSWithPrimary:
		return "ReplicaSetWithPrimary"
	default:
		return "Unknown"
	}
}
