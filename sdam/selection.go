// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package sdam

import (
	"time"

	"github.com/nodedb/sdam/description"
)

// SuitableServers implements spec.md §4.5's suitable_servers: it narrows a
// topology snapshot down to the servers eligible for an operation of the
// given type and read preference, then applies the latency window.
func SuitableServers(topo description.Topology, opType description.OpType, rp description.ReadPref, localThresholdMS int64) []description.Server {
	switch topo.Kind {
	case description.Single:
		for _, s := range topo.Servers {
			if s.Kind == description.Standalone {
				return []description.Server{s}
			}
		}
		return nil

	case description.Sharded:
		candidates := filterByKind(topo.Servers, description.Mongos)
		return latencyWindow(candidates, localThresholdMS)

	case description.RSWithPrimary, description.RSNoPrimary:
		if opType == description.Write && topo.Kind == description.RSWithPrimary {
			if primary, ok := topo.Primary(); ok {
				return []description.Server{primary}
			}
			return nil
		}
		return latencyWindow(suitableReplicaSetRead(topo, rp), localThresholdMS)

	default:
		return nil
	}
}

// suitableReplicaSetRead implements the read branch of suitable_servers for
// RsWithPrimary and RsNoPrimary topologies.
func suitableReplicaSetRead(topo description.Topology, rp description.ReadPref) []description.Server {
	var wantKinds []description.ServerKind
	switch rp.Mode {
	case description.PrimaryMode:
		wantKinds = []description.ServerKind{description.RSPrimary, description.PossiblePrimary}
	case description.SecondaryMode:
		wantKinds = []description.ServerKind{description.RSSecondary}
	default: // PrimaryPreferred, SecondaryPreferred, Nearest
		wantKinds = []description.ServerKind{description.RSPrimary, description.PossiblePrimary, description.RSSecondary}
	}

	candidates := filterByKind(topo.Servers, wantKinds...)

	if rp.Mode == description.PrimaryPreferredMode {
		for _, s := range candidates {
			if s.Kind == description.RSPrimary {
				return []description.Server{s}
			}
		}
	}

	filtered := candidates
	if rp.FilterEligible != nil {
		filtered = rp.FilterEligible(candidates)
	}
	hasSecondary := anyKind(filtered, description.RSSecondary)
	work := filtered
	if len(filtered) == 0 {
		if rp.Mode == description.NearestMode {
			return nil
		}
		work = candidates
		hasSecondary = false
	}

	switch {
	case (rp.Mode == description.SecondaryMode || rp.Mode == description.SecondaryPreferredMode) && hasSecondary:
		work = stripKind(work, description.RSPrimary)
	case rp.Mode == description.SecondaryPreferredMode && !hasSecondary:
		if primary, ok := topo.Primary(); ok {
			return []description.Server{primary}
		}
	}

	return work
}

// latencyWindow keeps only the candidates within localThresholdMS of the
// fastest one among them (spec.md §4.5, §8 property 5).
func latencyWindow(candidates []description.Server, localThresholdMS int64) []description.Server {
	if len(candidates) == 0 {
		return nil
	}

	minRTT := candidates[0].RTT
	for _, s := range candidates[1:] {
		if s.RTT < minRTT {
			minRTT = s.RTT
		}
	}
	cutoff := minRTT + time.Duration(localThresholdMS)*time.Millisecond

	out := make([]description.Server, 0, len(candidates))
	for _, s := range candidates {
		if s.RTT <= cutoff {
			out = append(out, s)
		}
	}
	return out
}

func filterByKind(servers []description.Server, kinds ...description.ServerKind) []description.Server {
	want := make(map[description.ServerKind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	out := make([]description.Server, 0, len(servers))
	for _, s := range servers {
		if want[s.Kind] {
			out = append(out, s)
		}
	}
	return out
}

func anyKind(servers []description.Server, kind description.ServerKind) bool {
	for _, s := range servers {
		if s.Kind == kind {
			return true
		}
	}
	return false
}

func stripKind(servers []description.Server, kind description.ServerKind) []description.Server {
	out := make([]description.Server, 0, len(servers))
	for _, s := range servers {
		if s.Kind != kind {
			out = append(out, s)
		}
	}
	return out
}

// SuitableServers returns the servers of t's current snapshot eligible for
// opType/rp under localThresholdMS.
func (t *Topology) SuitableServers(opType description.OpType, rp description.ReadPref, localThresholdMS int64) []description.Server {
	return SuitableServers(t.Description(), opType, rp, localThresholdMS)
}

// Select implements spec.md §4.5's select: it returns null (ok == false)
// when the topology is marked incompatible or no suitable server exists,
// otherwise a uniformly random choice among the suitable set. Select never
// retries or sleeps — callers wrap it in their own timeout loop, re-reading
// the topology between attempts.
func (t *Topology) Select(opType description.OpType, rp description.ReadPref, localThresholdMS int64) (description.Server, bool) {
	desc := t.Description()
	if !desc.Compatible {
		return description.Server{}, false
	}
	candidates := SuitableServers(desc, opType, rp, localThresholdMS)
	if len(candidates) == 0 {
		return description.Server{}, false
	}
	return candidates[t.rnd.Intn(len(candidates))], true
}
