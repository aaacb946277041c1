// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package sdam

import (
	"math/rand"
	"time"

	"github.com/nodedb/sdam/internal/randutil"
)

// config holds the options resolved by New. Following the teacher's
// functional-options pattern (topology.New(opts ...Option) / newConfig in
// x/mongo/driver/topology/topology.go), options are applied in order and the
// zero-value config is always valid.
type config struct {
	setName  string
	observer *Observer
	rnd      *randutil.LockedRand
}

// Option configures a Topology at construction time.
type Option func(*config)

// WithSetName seeds the topology's replica set name before any handshake
// arrives. Equivalent to the connection string "replicaSet" option in the
// teacher's Connect(): it fixes the expected set name up front rather than
// adopting whatever the first primary reports.
func WithSetName(name string) Option {
	return func(c *config) { c.setName = name }
}

// WithObservers installs the on_add/on_remove observer callbacks described
// in spec.md §3 and §9.
func WithObservers(o Observer) Option {
	return func(c *config) { c.observer = &o }
}

// WithRandSource overrides the random source used for uniform selection
// among suitable servers. Tests should supply a seeded source for
// determinism, per spec.md §9.
func WithRandSource(src rand.Source) Option {
	return func(c *config) { c.rnd = randutil.NewLockedRand(src) }
}

func newConfig(opts ...Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.rnd == nil {
		c.rnd = randutil.NewLockedRand(rand.NewSource(time.Now().UnixNano()))
	}
	return c
}
