// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hashmap implements an unordered map with separate chaining.
//
// A [Map] has a fixed number of buckets chosen when it is created.
// A key lives in bucket hash(key) mod the table size, in a doubly linked
// chain of the entries that share that bucket. The table is never resized,
// so chains grow without bound as entries are added.
//
// Iteration visits buckets in index order and each chain from head to
// tail. Two maps are [Map.Equal] only if they yield the same entries in
// that order, so equality depends on bucket layout and insertion order,
// not only on content.
package hashmap

import (
	"hash/maphash"
	"iter"

	"github.com/jba/assoc"
	"github.com/pkg/errors"
)

// DefaultTableSize is the table size used by callers that have no better choice.
const DefaultTableSize = 1000

// seed is shared by all maps so that equal keys land in equal buckets
// of equally sized tables.
var seed = maphash.MakeSeed()

// A Map is a map[K]V stored in a fixed-size table of chains.
// The zero value is not usable; create a Map with [New] or [NewFunc].
type Map[K comparable, V any] struct {
	buckets []*node[K, V]
	hash    func(K) uint64
	count   int
	// gen changes whenever every existing iterator must be invalidated.
	gen uint64
}

// A node is one entry of a chain.
// prev and next link nodes of the same bucket only.
type node[K comparable, V any] struct {
	prev    *node[K, V]
	next    *node[K, V]
	key     K
	val     V
	removed bool
}

// New returns an empty map with tableSize buckets that hashes keys with
// [maphash.Comparable]. It fails with [assoc.ErrInvalidSize] if tableSize
// is not positive.
func New[K comparable, V any](tableSize int) (*Map[K, V], error) {
	return NewFunc[K, V](tableSize, func(k K) uint64 {
		return maphash.Comparable(seed, k)
	})
}

// NewFunc is like [New] but places keys using hash.
// Keys that are equal must have equal hashes.
func NewFunc[K comparable, V any](tableSize int, hash func(K) uint64) (*Map[K, V], error) {
	if tableSize <= 0 {
		return nil, errors.Wrapf(assoc.ErrInvalidSize, "hashmap: new table of size %d", tableSize)
	}
	return &Map[K, V]{
		buckets: make([]*node[K, V], tableSize),
		hash:    hash,
	}, nil
}

// FromPairs returns a map with one bucket per pair holding the given entries.
// Pairs are stored in order, so for a repeated key the last value wins.
// An empty list yields a map with a single bucket.
func FromPairs[K comparable, V any](pairs ...assoc.Pair[K, V]) *Map[K, V] {
	m, err := New[K, V](max(len(pairs), 1))
	if err != nil {
		panic(err) // unreachable: size is at least 1
	}
	for _, p := range pairs {
		*m.At(p.Key) = p.Value
	}
	return m
}

// index returns the bucket of key.
func (m *Map[K, V]) index(key K) int {
	return int(m.hash(key) % uint64(len(m.buckets)))
}

// lookup searches bucket b for key.
// It returns the node holding key, or nil, and the last node of the chain
// it walked, which is where a new node for key should be attached.
func (m *Map[K, V]) lookup(b int, key K) (x, tail *node[K, V]) {
	for x = m.buckets[b]; x != nil; x = x.next {
		if x.key == key {
			return x, tail
		}
		tail = x
	}
	return nil, tail
}

// At returns a pointer to m[key].
// If key is missing, a zero value is added at the tail of its chain first.
// The pointer stays valid until the entry is removed.
func (m *Map[K, V]) At(key K) *V {
	b := m.index(key)
	x, tail := m.lookup(b, key)
	if x == nil {
		x = m.attach(b, tail, key)
	}
	return &x.val
}

// attach adds a new node for key after tail in bucket b.
// A nil tail means the bucket is empty.
func (m *Map[K, V]) attach(b int, tail *node[K, V], key K) *node[K, V] {
	x := &node[K, V]{key: key, prev: tail}
	if tail == nil {
		m.buckets[b] = x
	} else {
		tail.next = x
	}
	m.count++
	return x
}

// Get returns the value of m[key] and reports whether it exists.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if x, _ := m.lookup(m.index(key), key); x != nil {
		return x.val, true
	}
	var zero V
	return zero, false
}

// ValueOf returns the value of m[key].
// It fails with [assoc.ErrKeyNotFound] if key is missing.
func (m *Map[K, V]) ValueOf(key K) (V, error) {
	x, _ := m.lookup(m.index(key), key)
	if x == nil {
		var zero V
		return zero, errors.Wrapf(assoc.ErrKeyNotFound, "hashmap: value of %v", key)
	}
	return x.val, nil
}

// Ref returns a pointer to m[key] without inserting.
// It fails with [assoc.ErrKeyNotFound] if key is missing.
func (m *Map[K, V]) Ref(key K) (*V, error) {
	x, _ := m.lookup(m.index(key), key)
	if x == nil {
		return nil, errors.Wrapf(assoc.ErrKeyNotFound, "hashmap: ref of %v", key)
	}
	return &x.val, nil
}

// Set sets m[key] = val.
// If the entry was present, Set returns the former value and false.
// Otherwise it returns the zero value and true.
func (m *Map[K, V]) Set(key K, val V) (old V, added bool) {
	b := m.index(key)
	x, tail := m.lookup(b, key)
	if x != nil {
		old, x.val = x.val, val
		return old, false
	}
	m.attach(b, tail, key).val = val
	return old, true
}

// Find returns an iterator at key, or [Map.End] if key is missing.
func (m *Map[K, V]) Find(key K) Iterator[K, V] {
	b := m.index(key)
	if x, _ := m.lookup(b, key); x != nil {
		return Iterator[K, V]{m: m, x: x, b: b, gen: m.gen}
	}
	return m.End()
}

// Delete deletes m[key] if it exists and reports whether it did.
func (m *Map[K, V]) Delete(key K) bool {
	b := m.index(key)
	x, _ := m.lookup(b, key)
	if x == nil {
		return false
	}
	m.unlink(b, x)
	return true
}

// Remove deletes m[key].
// Removing a missing key is removing the end iterator, so it fails
// with [assoc.ErrInvalidIterator].
func (m *Map[K, V]) Remove(key K) error {
	if !m.Delete(key) {
		return errors.Wrapf(assoc.ErrInvalidIterator, "hashmap: remove %v: no such key", key)
	}
	return nil
}

// RemoveAt deletes the entry it refers to. It fails with
// [assoc.ErrInvalidIterator] if it is the end iterator, was obtained from
// another map, or refers to an entry that was already removed.
// Other iterators stay valid.
func (m *Map[K, V]) RemoveAt(it Iterator[K, V]) error {
	if it.m != m {
		return errors.Wrap(assoc.ErrInvalidIterator, "hashmap: remove: iterator belongs to another map")
	}
	if !it.valid() || it.x == nil {
		return errors.Wrap(assoc.ErrInvalidIterator, "hashmap: remove: end or stale iterator")
	}
	m.unlink(it.b, it.x)
	return nil
}

// unlink removes x from bucket b.
// x keeps its own links so that an iteration positioned at x can carry on
// along the chain.
func (m *Map[K, V]) unlink(b int, x *node[K, V]) {
	if x.prev == nil {
		m.buckets[b] = x.next
	} else {
		x.prev.next = x.next
	}
	if x.next != nil {
		x.next.prev = x.prev
	}
	x.removed = true
	m.count--
}

// Len returns the number of entries in m.
func (m *Map[K, V]) Len() int { return m.count }

// IsEmpty reports whether m has no entries.
func (m *Map[K, V]) IsEmpty() bool { return m.count == 0 }

// TableSize returns the number of buckets of m.
func (m *Map[K, V]) TableSize() int { return len(m.buckets) }

// first returns the head of the first non-empty bucket at or after b,
// and that bucket's index. At the end it returns nil and the table size.
func (m *Map[K, V]) first(b int) (*node[K, V], int) {
	for ; b < len(m.buckets); b++ {
		if x := m.buckets[b]; x != nil {
			return x, b
		}
	}
	return nil, len(m.buckets)
}

// last returns the tail of the last non-empty bucket before b,
// and that bucket's index, or nil and -1 if there is none.
func (m *Map[K, V]) last(b int) (*node[K, V], int) {
	for b--; b >= 0; b-- {
		if x := m.buckets[b]; x != nil {
			for x.next != nil {
				x = x.next
			}
			return x, b
		}
	}
	return nil, -1
}

// succ returns the entry after x, which is in bucket b.
func (m *Map[K, V]) succ(x *node[K, V], b int) (*node[K, V], int) {
	if x.next != nil {
		return x.next, b
	}
	return m.first(b + 1)
}

// All returns an iterator over the entries of m in bucket order.
// If m is modified during the iteration, some entries may not be visited.
// No entry will be visited more than once.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for x, b := m.first(0); x != nil; x, b = m.succ(x, b) {
			if !x.removed && !yield(x.key, x.val) {
				return
			}
		}
	}
}

// Backward returns an iterator over the entries of m in reverse bucket order.
// If m is modified during the iteration, some entries may not be visited.
// No entry will be visited more than once.
func (m *Map[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		x, b := m.last(len(m.buckets))
		for x != nil {
			if !x.removed && !yield(x.key, x.val) {
				return
			}
			if x.prev != nil {
				x = x.prev
			} else {
				x, b = m.last(b)
			}
		}
	}
}

// Equal reports whether m and m2 hold the same number of entries and
// yield pairwise equal entries in bucket order. Values are compared with
// [assoc.EqualValues].
//
// Equal depends on layout: maps with the same content but different
// table sizes, hash functions or insertion orders may compare unequal.
func (m *Map[K, V]) Equal(m2 *Map[K, V]) bool {
	if m == m2 {
		return true
	}
	if m.count != m2.count {
		return false
	}
	x, b := m.first(0)
	y, b2 := m2.first(0)
	for x != nil && y != nil {
		if x.key != y.key || !assoc.EqualValues(x.val, y.val) {
			return false
		}
		x, b = m.succ(x, b)
		y, b2 = m2.succ(y, b2)
	}
	return x == nil && y == nil
}

// Clone returns a copy of m with the same table size and hash function.
// The copy is built by inserting m's entries in iteration order,
// so it has the same layout and compares equal to m.
func (m *Map[K, V]) Clone() *Map[K, V] {
	m2 := &Map[K, V]{
		buckets: make([]*node[K, V], len(m.buckets)),
		hash:    m.hash,
	}
	for k, v := range m.All() {
		*m2.At(k) = v
	}
	return m2
}

// Clear deletes every entry of m. The table size is unchanged.
// Iterators obtained before Clear become invalid.
func (m *Map[K, V]) Clear() {
	for b, x := range m.buckets {
		for ; x != nil; x = x.next {
			x.removed = true
		}
		m.buckets[b] = nil
	}
	m.count = 0
	m.gen++
}

// Move replaces the contents of m with those of src, including its table
// size and hash function, and leaves src empty with a fresh table of its
// former size. Iterators of both maps obtained before Move become invalid.
func (m *Map[K, V]) Move(src *Map[K, V]) {
	if m == src {
		return
	}
	m.Clear()
	m.buckets, m.hash, m.count = src.buckets, src.hash, src.count
	src.buckets = make([]*node[K, V], len(m.buckets))
	src.count = 0
	src.gen++
}
