// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package treemap

import (
	"iter"

	"github.com/jba/assoc"
	"github.com/pkg/errors"
)

// An Iterator is a position in a [Map] or [MapFunc]: an entry, or the end.
// Two iterators are at the same position exactly when they are ==.
//
// An iterator holds on to its entry's node, so it stays at the same entry
// while other entries are added or removed and the tree is rotated around it.
// It becomes invalid when its entry is removed, or when its map is cleared or
// moved. Reading through an invalid iterator fails with [assoc.ErrDereference];
// stepping it fails with [assoc.ErrInvalidIterator].
// The zero Iterator belongs to no map and is invalid.
type Iterator[K, V any] struct {
	m   omap[K, V]
	x   *node[K, V] // nil at the end
	gen uint64
}

// Begin returns an iterator at the entry with the smallest key,
// or [Map.End] if m is empty.
func (m *Map[K, V]) Begin() Iterator[K, V] { return begin(m) }

// Begin returns an iterator at the entry with the smallest key,
// or [MapFunc.End] if m is empty.
func (m *MapFunc[K, V]) Begin() Iterator[K, V] { return begin(m) }

func begin[K, V any](m omap[K, V]) Iterator[K, V] {
	it := end(m)
	if r := m.t()._root; r != nil {
		it.x = r.minNode()
	}
	return it
}

// End returns the iterator one past the entry with the largest key.
func (m *Map[K, V]) End() Iterator[K, V] { return end(m) }

// End returns the iterator one past the entry with the largest key.
func (m *MapFunc[K, V]) End() Iterator[K, V] { return end(m) }

func end[K, V any](m omap[K, V]) Iterator[K, V] {
	return Iterator[K, V]{m: m, gen: m.t().gen}
}

// Find returns an iterator at key, or [Map.End] if key is missing.
func (m *Map[K, V]) Find(key K) Iterator[K, V] { return find(m, key) }

// Find returns an iterator at key, or [MapFunc.End] if key is missing.
func (m *MapFunc[K, V]) Find(key K) Iterator[K, V] { return find(m, key) }

func find[K, V any](m omap[K, V], key K) Iterator[K, V] {
	it := end(m)
	pos, _ := m.find(key)
	it.x = *pos
	return it
}

// valid reports whether it still refers to a live position of its map.
func (it Iterator[K, V]) valid() bool {
	return it.m != nil && it.gen == it.m.t().gen && (it.x == nil || it.x.height != 0)
}

// IsEnd reports whether it is the end iterator of its map.
// It reports false for an invalid iterator, including the zero Iterator
// and an end iterator obtained before its map was cleared or moved.
func (it Iterator[K, V]) IsEnd() bool {
	return it.x == nil && it.valid()
}

func (it Iterator[K, V]) deref(op string) (*node[K, V], error) {
	if it.x == nil || !it.valid() {
		return nil, errors.Wrapf(assoc.ErrDereference, "treemap: iterator %s", op)
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

// Next moves it to the entry with the next larger key, or to the end.
// It fails with [assoc.ErrOutOfRange] at the end.
func (it *Iterator[K, V]) Next() error {
	if !it.valid() {
		return errors.Wrap(assoc.ErrInvalidIterator, "treemap: iterator next")
	}
	if it.x == nil {
		return errors.Wrap(assoc.ErrOutOfRange, "treemap: iterator next: at end")
	}
	it.x = it.x.succ()
	return nil
}

// Prev moves it to the entry with the next smaller key.
// From the end it moves to the entry with the largest key.
// It fails with [assoc.ErrOutOfRange], leaving it unchanged,
// at the first entry or in an empty map.
func (it *Iterator[K, V]) Prev() error {
	if !it.valid() {
		return errors.Wrap(assoc.ErrInvalidIterator, "treemap: iterator prev")
	}
	var x *node[K, V]
	if it.x == nil {
		if r := it.m.t()._root; r != nil {
			x = r.maxNode()
		}
	} else {
		x = it.x.pred()
	}
	if x == nil {
		return errors.Wrap(assoc.ErrOutOfRange, "treemap: iterator prev: at first entry")
	}
	it.x = x
	return nil
}

// All returns an iterator over the map m from smallest to largest key.
// If m is modified during the iteration, some keys may not be visited.
// No keys will be visited multiple times.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return all(m)
}

// All returns an iterator over the map m from smallest to largest key.
// If m is modified during the iteration, some keys may not be visited.
// No keys will be visited multiple times.
func (m *MapFunc[K, V]) All() iter.Seq2[K, V] {
	return all(m)
}

func all[K, V any](m omap[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		x := m.t()._root
		if x != nil {
			x = x.minNode()
		}
		for x != nil && yield(x.key, x.val) {
			x = x.next(m)
		}
	}
}

// Backward returns an iterator over the map m from largest to smallest key.
// If m is modified during the iteration, some keys may not be visited.
// No keys will be visited multiple times.
func (m *Map[K, V]) Backward() iter.Seq2[K, V] {
	return backward(m)
}

// Backward returns an iterator over the map m from largest to smallest key.
// If m is modified during the iteration, some keys may not be visited.
// No keys will be visited multiple times.
func (m *MapFunc[K, V]) Backward() iter.Seq2[K, V] {
	return backward(m)
}

func backward[K, V any](m omap[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		x := m.t()._root
		if x != nil {
			x = x.maxNode()
		}
		for x != nil && yield(x.key, x.val) {
			x = x.prev(m)
		}
	}
}
