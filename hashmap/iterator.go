// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hashmap

import (
	"github.com/jba/assoc"
	"github.com/pkg/errors"
)

// An Iterator is a position in a [Map]: an entry, or the end.
// The end is the canonical position (nil entry, bucket TableSize),
// so two iterators are at the same position exactly when they are ==.
//
// An iterator becomes invalid when its entry is removed, or when its map is
// cleared or moved. Reading through an invalid iterator fails with
// [assoc.ErrDereference]; stepping it fails with [assoc.ErrInvalidIterator].
// The zero Iterator belongs to no map and is invalid.
type Iterator[K comparable, V any] struct {
	m   *Map[K, V]
	x   *node[K, V] // nil at the end
	b   int         // bucket of x
	gen uint64
}

// Begin returns an iterator at the first entry of m in bucket order,
// or [Map.End] if m is empty.
func (m *Map[K, V]) Begin() Iterator[K, V] {
	x, b := m.first(0)
	return Iterator[K, V]{m: m, x: x, b: b, gen: m.gen}
}

// End returns the iterator one past the last entry of m.
func (m *Map[K, V]) End() Iterator[K, V] {
	return Iterator[K, V]{m: m, b: len(m.buckets), gen: m.gen}
}

// valid reports whether it still refers to a live position of its map.
func (it Iterator[K, V]) valid() bool {
	return it.m != nil && it.gen == it.m.gen && (it.x == nil || !it.x.removed)
}

// IsEnd reports whether it is the end iterator of its map.
// It reports false for an invalid iterator, including the zero Iterator
// and an end iterator obtained before its map was cleared or moved.
func (it Iterator[K, V]) IsEnd() bool {
	return it.x == nil && it.valid()
}

func (it Iterator[K, V]) deref(op string) (*node[K, V], error) {
	if it.x == nil || !it.valid() {
		return nil, errors.Wrapf(assoc.ErrDereference, "hashmap: iterator %s", op)
	}
	return it.x, nil
}

// Key returns the key of the entry at it.
func (it Iterator[K, V]) Key() (K, error) {
	x, err := it.deref("key")
	if err != nil {
		var zero K
		return zero, err
	}
	return x.key, nil
}

// Value returns the value of the entry at it.
func (it Iterator[K, V]) Value() (V, error) {
	x, err := it.deref("value")
	if err != nil {
		var zero V
		return zero, err
	}
	return x.val, nil
}

// Ref returns a pointer to the value of the entry at it.
func (it Iterator[K, V]) Ref() (*V, error) {
	x, err := it.deref("ref")
	if err != nil {
		return nil, err
	}
	return &x.val, nil
}

// Next moves it to the following entry, crossing into the next
// non-empty bucket when its chain is exhausted, or to the end.
// It fails with [assoc.ErrOutOfRange] at the end.
func (it *Iterator[K, V]) Next() error {
	if !it.valid() {
		return errors.Wrap(assoc.ErrInvalidIterator, "hashmap: iterator next")
	}
	if it.x == nil {
		return errors.Wrap(assoc.ErrOutOfRange, "hashmap: iterator next: at end")
	}
	it.x, it.b = it.m.succ(it.x, it.b)
	return nil
}

// Prev moves it to the preceding entry. From the head of a chain, or from
// the end, it moves to the tail of the previous non-empty bucket.
// It fails with [assoc.ErrOutOfRange], leaving it unchanged, at the first entry.
func (it *Iterator[K, V]) Prev() error {
	if !it.valid() {
		return errors.Wrap(assoc.ErrInvalidIterator, "hashmap: iterator prev")
	}
	if it.x != nil && it.x.prev != nil {
		it.x = it.x.prev
		return nil
	}
	x, b := it.m.last(it.b)
	if x == nil {
		return errors.Wrap(assoc.ErrOutOfRange, "hashmap: iterator prev: at first entry")
	}
	it.x, it.b = x, b
	return nil
}
