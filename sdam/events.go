// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package sdam

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nodedb/sdam/description"
)

// ServerAddedEvent is fired synchronously from AddServer the first time an
// address is seen.
type ServerAddedEvent struct {
	TopologyID primitive.ObjectID
	Server     description.Server
}

// ServerRemovedEvent is fired synchronously from a transition that drops a
// server from the set (a rogue primary, a ghost member, a remove_and_check,
// ...).
type ServerRemovedEvent struct {
	TopologyID primitive.ObjectID
	Server     description.Server
}

// Observer is the pair of callbacks spec.md §3 calls on_add/on_remove. Both
// are invoked synchronously inside whichever Topology method triggered them
// — AddServer or a transition function — while the caller's external mutex
// is held. Per spec.md §5, an Observer must not reenter the Topology (call
// any Topology method) or block; doing so deadlocks or corrupts the
// in-progress transition.
type Observer struct {
	ServerAdded   func(ServerAddedEvent)
	ServerRemoved func(ServerRemovedEvent)
}
