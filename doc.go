// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package assoc holds what the associative containers in its
// subpackages have in common: the [Pair] type, the error kinds
// they report, and the value comparison used by their Equal methods.
//
// The containers themselves live in two packages:
//
//   - [github.com/jba/assoc/hashmap] is an unordered map made of a
//     fixed number of buckets, each heading a doubly linked chain.
//   - [github.com/jba/assoc/treemap] is an ordered map kept as an AVL tree.
//
// Both containers share one contract. Indexing with At returns a pointer
// to the value for a key, creating a zero value if the key is missing.
// ValueOf fails with [ErrKeyNotFound] instead of inserting.
// Find returns an iterator at the key, or the end iterator.
// Iterators are bidirectional, compare with ==, and are invalidated when
// the entry they refer to is removed; using an invalidated iterator
// returns an error rather than reading stale memory.
//
// Neither container is safe for concurrent use.
package assoc
