// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package assert provides small test-failure helpers in the style the
// driver's own test suite uses (assert.Equal(t, want, got, "msg %v", args)),
// with go-cmp diffs and spew dumps so a mismatched Topology/Server value is
// legible in failure output instead of a truncated %+v.
package assert

import (
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type equaler interface {
	Equal(interface{}) bool
}

func equal(want, got interface{}) bool {
	if e, ok := want.(equaler); ok {
		return e.Equal(got)
	}
	if cmp.Equal(want, got, cmpopts.EquateEmpty(), cmp.Exporter(func(reflect.Type) bool { return true })) {
		return true
	}
	return reflect.DeepEqual(want, got)
}

// Equal fails the test if want != got, reporting msg (a Printf-style format
// string) along with a diff and a full dump of both values.
func Equal(t *testing.T, want, got interface{}, msg string, args ...interface{}) {
	t.Helper()
	if equal(want, got) {
		return
	}
	t.Errorf(msg, args...)
	t.Errorf("want:\n%s\ngot:\n%s", spew.Sdump(want), spew.Sdump(got))
	t.Errorf("diff (-want +got):\n%s", cmp.Diff(want, got, cmpopts.EquateEmpty(), cmp.Exporter(func(reflect.Type) bool { return true })))
}

// Nil fails the test if got is a non-nil error.
func Nil(t *testing.T, got error, msg string, args ...interface{}) {
	t.Helper()
	if got != nil {
		t.Errorf(msg, args...)
	}
}

// True fails the test if cond is false.
func True(t *testing.T, cond bool, msg string, args ...interface{}) {
	t.Helper()
	if !cond {
		t.Errorf(msg, args...)
	}
}

// False fails the test if cond is true.
func False(t *testing.T, cond bool, msg string, args ...interface{}) {
	t.Helper()
	if cond {
		t.Errorf(msg, args...)
	}
}
