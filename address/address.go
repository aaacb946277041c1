// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package address provides the Address type, which represents the location
// of a server in a deployment.
package address

import "strings"

// Address is a host:port pair identifying a server. Equality is byte-wise
// after Canonicalize: two Addresses refer to the same server iff their
// canonical forms compare equal.
type Address string

// Canonicalize lowercases the address and fills in the default MongoDB port
// if one isn't present. It does not resolve hostnames.
func (a Address) Canonicalize() Address {
	s := strings.ToLower(strings.TrimSpace(string(a)))
	if s == "" {
		return Address(s)
	}
	if strings.HasPrefix(s, "/") {
		// Unix domain socket path; left as-is aside from trimming.
		return Address(s)
	}
	if !strings.Contains(s, ":") {
		s += ":27017"
	}
	return Address(s)
}

// String implements the Stringer interface.
func (a Address) String() string {
	return string(a)
}
