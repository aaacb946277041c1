// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package sdam

import (
	"fmt"

	"github.com/nodedb/sdam/description"
)

// SupportedWireVersions is the range of wire protocol versions this package
// can speak to. It is not itself consulted anywhere in the transition table
// or selection engine — spec.md §9 Open Questions notes the core never sets
// Topology.compatible on its own; CheckCompatibility is the separate,
// optional pass a caller runs after each handshake to derive it.
var SupportedWireVersions = description.VersionRange{Min: 6, Max: 17}

// MinSupportedMongoDBVersion is the human-readable floor corresponding to
// SupportedWireVersions.Min, used only in CompatibilityErr text.
const MinSupportedMongoDBVersion = "3.6"

// CheckCompatibility walks every server currently in the topology and
// derives compatible/compatibilityErr from each one's reported wire version
// range against SupportedWireVersions. It stops at the first incompatible
// server found, in iteration order, mirroring the teacher's
// topology.go:updateOrRemoveServer version check.
func (t *Topology) CheckCompatibility() {
	t.compatible = true
	t.compatibilityErr = nil

	for _, id := range t.order {
		s, ok := t.servers[id]
		if !ok || s.WireVersion == nil {
			continue
		}

		if s.WireVersion.Max < SupportedWireVersions.Min {
			t.compatible = false
			t.compatibilityErr = fmt.Errorf(
				"server at %s reports wire version %d, but this version of the driver requires "+
					"at least %d (MongoDB %s)",
				s.Addr.String(),
				s.WireVersion.Max,
				SupportedWireVersions.Min,
				MinSupportedMongoDBVersion,
			)
			return
		}

		if s.WireVersion.Min > SupportedWireVersions.Max {
			t.compatible = false
			t.compatibilityErr = fmt.Errorf(
				"server at %s requires wire version %d, but this version of the driver only supports up to %d",
				s.Addr.String(),
				s.WireVersion.Min,
				SupportedWireVersions.Max,
			)
			return
		}
	}
}
