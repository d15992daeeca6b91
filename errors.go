// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assoc

import "errors"

// Errors reported by the containers. They are wrapped with the failing
// operation and key, so test for them with [errors.Is].
var (
	// ErrKeyNotFound is returned by ValueOf and Ref for a missing key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrInvalidIterator is returned when removing through, or stepping,
	// an iterator that is at the end, belongs to another container,
	// or refers to an entry that no longer exists.
	ErrInvalidIterator = errors.New("invalid iterator")

	// ErrDereference is returned when reading through an end iterator
	// or an invalidated one.
	ErrDereference = errors.New("dereference of end or invalid iterator")

	// ErrOutOfRange is returned when stepping forward from the end
	// or backward from the first entry.
	ErrOutOfRange = errors.New("iterator out of range")

	// ErrInvalidSize is returned when a hash map is created with no buckets.
	ErrInvalidSize = errors.New("invalid table size")
)
