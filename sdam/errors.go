// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package sdam

import (
	"errors"
	"fmt"

	"github.com/nodedb/sdam/description"
)

// ErrIncompatible is wrapped by SelectionError when selection is attempted
// against a topology marked incompatible (Compatible == false) (spec.md §7: "Protocol
// mismatch"). This is the only condition SelectWithError reports as an
// error: spec.md §7 is explicit that "no suitable server" returns null with
// no error set, for the caller to interpret itself, so an empty suitable set
// is never wrapped here.
var ErrIncompatible = errors.New("topology is incompatible with this driver")

// SelectionError reports that selection was refused outright because the
// topology is incompatible, carrying the snapshot it consulted so a caller
// can log or inspect it without re-reading the topology under lock.
type SelectionError struct {
	Wrapped error
	Desc    description.Topology
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Wrapped, e.Desc)
}

func (e *SelectionError) Unwrap() error { return e.Wrapped }

// SelectWithError behaves like Select but reports an incompatible topology
// as a *SelectionError instead of folding it into ok == false the way
// Select does. An empty suitable set is still reported as (Server{}, nil),
// matching spec.md §7 — SelectWithError exists only to let a caller
// distinguish "give up, the deployment itself cannot be spoken to" from
// "nothing suitable right now," not to turn emptiness into an error.
func (t *Topology) SelectWithError(opType description.OpType, rp description.ReadPref, localThresholdMS int64) (description.Server, error) {
	desc := t.Description()

	if !desc.Compatible {
		return description.Server{}, &SelectionError{Wrapped: ErrIncompatible, Desc: desc}
	}

	candidates := SuitableServers(desc, opType, rp, localThresholdMS)
	if len(candidates) == 0 {
		return description.Server{}, nil
	}

	return candidates[t.rnd.Intn(len(candidates))], nil
}
