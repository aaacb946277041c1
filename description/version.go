// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package description

// VersionRange represents a range of wire protocol versions that a server
// supports, as reported in its handshake response.
type VersionRange struct {
	Min int32
	Max int32
}

// Includes returns true if the given version is within the range, inclusive.
func (vr VersionRange) Includes(v int32) bool {
	return v >= vr.Min && v <= vr.Max
}
