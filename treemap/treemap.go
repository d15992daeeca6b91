// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package treemap implements in-memory ordered maps.
// [Map][K, V] is suitable for ordered types K,
// while [MapFunc][K, V] supports arbitrary keys and comparison functions.
//
// Iteration, through [Map.All] or through an [Iterator], visits entries
// in increasing key order.
package treemap

// The implementation is an AVL tree with parent links. See:
// https://en.wikipedia.org/wiki/AVL_tree

import (
	"cmp"

	"github.com/jba/assoc"
	"github.com/pkg/errors"
)

// A Map is a map[K]V ordered according to K's standard Go ordering.
// The zero value of a Map is an empty Map ready to use.
type Map[K cmp.Ordered, V any] struct {
	tree[K, V]
}

// A MapFunc is a map[K]V ordered according to an arbitrary comparison function.
// The zero value of a MapFunc is not meaningful since it has no comparison function.
// Use [NewFunc] to create a [MapFunc].
type MapFunc[K, V any] struct {
	tree[K, V]
	cmp func(K, K) int
}

// tree is the state shared by Map and MapFunc.
type tree[K, V any] struct {
	_root *node[K, V]
	count int
	// gen changes whenever every existing iterator must be invalidated.
	gen uint64
}

// A node is a node in the AVL tree.
type node[K any, V any] struct {
	parent *node[K, V]
	left   *node[K, V]
	right  *node[K, V]
	key    K
	val    V
	// height of the subtree rooted here: 1 for a leaf,
	// 0 once the node has been removed from the tree.
	height int
}

// NewFunc returns a new MapFunc[K, V] ordered according to cmp.
func NewFunc[K, V any](cmp func(K, K) int) *MapFunc[K, V] {
	return &MapFunc[K, V]{cmp: cmp}
}

// FromPairs returns a Map holding the given entries.
// Pairs are inserted in order; a pair whose key is already present is
// discarded, so for a repeated key the first value wins.
func FromPairs[K cmp.Ordered, V any](pairs ...assoc.Pair[K, V]) *Map[K, V] {
	m := new(Map[K, V])
	for _, p := range pairs {
		insert(m, p.Key, p.Value)
	}
	return m
}

// FromPairsFunc is like [FromPairs] but orders keys with cmp.
func FromPairsFunc[K, V any](cmp func(K, K) int, pairs ...assoc.Pair[K, V]) *MapFunc[K, V] {
	m := NewFunc[K, V](cmp)
	for _, p := range pairs {
		insert(m, p.Key, p.Value)
	}
	return m
}

// omap is the interface implemented by both Map[K, V] and MapFunc[K, V]
// that enables a common implementation of the map operations.
type omap[K, V any] interface {
	// t returns the shared state; the caller can read or write it.
	t() *tree[K, V]

	// find reports where a node with the key would be: at *pos.
	// If *pos != nil, then key is present in the tree;
	// otherwise *pos is where a new node with the key should be attached.
	//
	// If parent != nil, then pos is either &parent.left or &parent.right
	// depending on how parent.key compares with key.
	// If parent == nil, then pos is &t()._root.
	find(key K) (pos **node[K, V], parent *node[K, V])

	// compare orders keys the way find does.
	compare(a, b K) int
}

func (m *Map[K, V]) t() *tree[K, V]     { return &m.tree }
func (m *MapFunc[K, V]) t() *tree[K, V] { return &m.tree }

func (m *Map[K, V]) compare(a, b K) int     { return cmp.Compare(a, b) }
func (m *MapFunc[K, V]) compare(a, b K) int { return m.cmp(a, b) }

// find looks up the key k in the map.
// It returns the parent of k as well as the position where k would be attached.
// *pos is non-nil if k is present, nil if k is missing.
// parent is nil if there are no nodes in the map, or if k is at the root.
func (m *Map[K, V]) find(k K) (pos **node[K, V], parent *node[K, V]) {
	pos = &m._root
	for x := *pos; x != nil; x = *pos {
		if x.key == k {
			break
		}
		parent = x
		if x.key > k {
			pos = &x.left
		} else {
			pos = &x.right
		}
	}
	return pos, parent
}

// find is the same as for Map[K, V] but using m.cmp.
func (m *MapFunc[K, V]) find(k K) (pos **node[K, V], parent *node[K, V]) {
	pos = &m._root
	for x := *pos; x != nil; x = *pos {
		cmp := m.cmp(x.key, k)
		if cmp == 0 {
			break
		}
		parent = x
		if cmp > 0 {
			pos = &x.left
		} else {
			pos = &x.right
		}
	}
	return pos, parent
}

// Len returns the number of entries in m.
func (t *tree[K, V]) Len() int { return t.count }

// IsEmpty reports whether m has no entries.
func (t *tree[K, V]) IsEmpty() bool { return t.count == 0 }

// Height returns the height of the tree: 0 if it is empty, 1 for a single entry.
func (t *tree[K, V]) Height() int { return t._root.h() }

// At returns a pointer to m[key].
// If key is missing, a node with the zero value is added first.
// The pointer stays valid until the entry is removed.
func (m *Map[K, V]) At(key K) *V {
	return at(m, key)
}

// At returns a pointer to m[key].
// If key is missing, a node with the zero value is added first.
// The pointer stays valid until the entry is removed.
func (m *MapFunc[K, V]) At(key K) *V {
	return at(m, key)
}

func at[K, V any](m omap[K, V], key K) *V {
	pos, parent := m.find(key)
	x := *pos
	if x == nil {
		x = attach(m, pos, parent, key)
	}
	return &x.val
}

// attach adds a leaf for key at *pos, below parent, and rebalances.
func attach[K, V any](m omap[K, V], pos **node[K, V], parent *node[K, V], key K) *node[K, V] {
	x := &node[K, V]{key: key, parent: parent, height: 1}
	*pos = x
	m.t().count++
	rebalance(m, parent)
	return x
}

// insert adds key with val unless key is already present.
func insert[K, V any](m omap[K, V], key K, val V) {
	pos, parent := m.find(key)
	if *pos == nil {
		attach(m, pos, parent, key).val = val
	}
}

// Get returns the value of m[key] and reports whether it exists.
func (m *Map[K, V]) Get(key K) (V, bool) {
	return get(m, key)
}

// Get returns the value of m[key] and reports whether it exists.
func (m *MapFunc[K, V]) Get(key K) (V, bool) {
	return get(m, key)
}

func get[K, V any](m omap[K, V], key K) (V, bool) {
	pos, _ := m.find(key)
	if x := *pos; x != nil {
		return x.val, true
	}
	var zero V
	return zero, false
}

// ValueOf returns the value of m[key].
// It fails with [assoc.ErrKeyNotFound] if key is missing.
func (m *Map[K, V]) ValueOf(key K) (V, error) {
	return valueOf(m, key)
}

// ValueOf returns the value of m[key].
// It fails with [assoc.ErrKeyNotFound] if key is missing.
func (m *MapFunc[K, V]) ValueOf(key K) (V, error) {
	return valueOf(m, key)
}

func valueOf[K, V any](m omap[K, V], key K) (V, error) {
	p, err := ref(m, key)
	if err != nil {
		var zero V
		return zero, err
	}
	return *p, nil
}

// Ref returns a pointer to m[key] without inserting.
// It fails with [assoc.ErrKeyNotFound] if key is missing.
func (m *Map[K, V]) Ref(key K) (*V, error) {
	return ref(m, key)
}

// Ref returns a pointer to m[key] without inserting.
// It fails with [assoc.ErrKeyNotFound] if key is missing.
func (m *MapFunc[K, V]) Ref(key K) (*V, error) {
	return ref(m, key)
}

func ref[K, V any](m omap[K, V], key K) (*V, error) {
	pos, _ := m.find(key)
	if x := *pos; x != nil {
		return &x.val, nil
	}
	return nil, errors.Wrapf(assoc.ErrKeyNotFound, "treemap: value of %v", key)
}

// Set sets m[key] = val.
// If the entry was present, Set returns the former value and false.
// Otherwise it returns the zero value and true.
func (m *Map[K, V]) Set(key K, val V) (old V, added bool) {
	return set(m, key, val)
}

// Set sets m[key] = val.
// If the entry was present, Set returns the former value and false.
// Otherwise it returns the zero value and true.
func (m *MapFunc[K, V]) Set(key K, val V) (old V, added bool) {
	return set(m, key, val)
}

func set[K, V any](m omap[K, V], key K, val V) (V, bool) {
	pos, parent := m.find(key)
	if x := *pos; x != nil {
		old := x.val
		x.val = val
		return old, false
	}
	attach(m, pos, parent, key).val = val
	var z V
	return z, true
}

// Delete deletes m[key] if it exists and reports whether it did.
func (m *Map[K, V]) Delete(key K) bool {
	return _delete(m, key)
}

// Delete deletes m[key] if it exists and reports whether it did.
func (m *MapFunc[K, V]) Delete(key K) bool {
	return _delete(m, key)
}

func _delete[K, V any](m omap[K, V], key K) bool {
	pos, _ := m.find(key)
	x := *pos
	if x == nil {
		return false
	}
	unlink(m, x)
	return true
}

// Remove deletes m[key].
// Removing a missing key is removing the end iterator, so it fails
// with [assoc.ErrInvalidIterator].
func (m *Map[K, V]) Remove(key K) error {
	return remove(m, key)
}

// Remove deletes m[key].
// Removing a missing key is removing the end iterator, so it fails
// with [assoc.ErrInvalidIterator].
func (m *MapFunc[K, V]) Remove(key K) error {
	return remove(m, key)
}

func remove[K, V any](m omap[K, V], key K) error {
	if !_delete(m, key) {
		return errors.Wrapf(assoc.ErrInvalidIterator, "treemap: remove %v: no such key", key)
	}
	return nil
}

// RemoveAt deletes the entry it refers to. It fails with
// [assoc.ErrInvalidIterator] if it is the end iterator, was obtained from
// another map, or refers to an entry that was already removed.
// Iterators at other entries stay valid.
func (m *Map[K, V]) RemoveAt(it Iterator[K, V]) error {
	return removeAt(m, it)
}

// RemoveAt deletes the entry it refers to. It fails with
// [assoc.ErrInvalidIterator] if it is the end iterator, was obtained from
// another map, or refers to an entry that was already removed.
// Iterators at other entries stay valid.
func (m *MapFunc[K, V]) RemoveAt(it Iterator[K, V]) error {
	return removeAt(m, it)
}

func removeAt[K, V any](m omap[K, V], it Iterator[K, V]) error {
	if it.m != m {
		return errors.Wrap(assoc.ErrInvalidIterator, "treemap: remove: iterator belongs to another map")
	}
	if !it.valid() || it.x == nil {
		return errors.Wrap(assoc.ErrInvalidIterator, "treemap: remove: end or stale iterator")
	}
	unlink(m, it.x)
	return nil
}

// Min returns the minimum key in m and true.
// If m is empty, the second return value is false.
func (m *Map[K, V]) Min() (K, bool) {
	return _min(m)
}

// Min returns the minimum key in m and true.
// If m is empty, the second return value is false.
func (m *MapFunc[K, V]) Min() (K, bool) {
	return _min(m)
}

func _min[K, V any](m omap[K, V]) (K, bool) {
	x := m.t()._root
	if x == nil {
		var z K
		return z, false
	}
	return x.minNode().key, true
}

// Max returns the maximum key in m and true.
// If m is empty, the second return value is false.
func (m *Map[K, V]) Max() (K, bool) {
	return _max(m)
}

// Max returns the maximum key in m and true.
// If m is empty, the second return value is false.
func (m *MapFunc[K, V]) Max() (K, bool) {
	return _max(m)
}

func _max[K, V any](m omap[K, V]) (K, bool) {
	x := m.t()._root
	if x == nil {
		var z K
		return z, false
	}
	return x.maxNode().key, true
}

// Equal reports whether m and m2 hold the same entries.
// Values are compared with [assoc.EqualValues].
// Unlike the hash map's Equal, the result does not depend on the shape of
// either tree, only on the keys and values.
func (m *Map[K, V]) Equal(m2 *Map[K, V]) bool {
	return equal(m, m2, func(a, b K) bool { return a == b })
}

// Equal reports whether m and m2 hold the same entries, comparing keys with
// m's comparison function and values with [assoc.EqualValues].
func (m *MapFunc[K, V]) Equal(m2 *MapFunc[K, V]) bool {
	return equal(m, m2, func(a, b K) bool { return m.cmp(a, b) == 0 })
}

func equal[K, V any](m, m2 omap[K, V], eqKey func(K, K) bool) bool {
	t, t2 := m.t(), m2.t()
	if t == t2 {
		return true
	}
	if t.count != t2.count {
		return false
	}
	if t.count == 0 {
		return true
	}
	x, y := t._root.minNode(), t2._root.minNode()
	for x != nil && y != nil {
		if !eqKey(x.key, y.key) || !assoc.EqualValues(x.val, y.val) {
			return false
		}
		x, y = x.succ(), y.succ()
	}
	return x == nil && y == nil
}

// Clear deletes every entry of m.
// Iterators obtained before Clear become invalid.
func (m *Map[K, V]) Clear() {
	m.tree.clear()
}

// Clear deletes every entry of m.
// Iterators obtained before Clear become invalid.
func (m *MapFunc[K, V]) Clear() {
	m.tree.clear()
}

// clear marks every node removed, without recursion, and drops the tree.
func (t *tree[K, V]) clear() {
	stack := []*node[K, V]{}
	if t._root != nil {
		stack = append(stack, t._root)
	}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if x.left != nil {
			stack = append(stack, x.left)
		}
		if x.right != nil {
			stack = append(stack, x.right)
		}
		x.height = 0 // mark deleted
	}
	t._root = nil
	t.count = 0
	t.gen++
}

// move transfers the tree of src to t, leaving src empty.
func (t *tree[K, V]) move(src *tree[K, V]) {
	if t == src {
		return
	}
	t.clear()
	t._root, t.count = src._root, src.count
	src._root, src.count = nil, 0
	src.gen++
}

// Move replaces the contents of m with those of src and leaves src empty.
// Iterators of both maps obtained before Move become invalid.
func (m *Map[K, V]) Move(src *Map[K, V]) {
	m.tree.move(&src.tree)
}

// Move replaces the contents of m with those of src, including its
// comparison function, and leaves src empty.
// Iterators of both maps obtained before Move become invalid.
func (m *MapFunc[K, V]) Move(src *MapFunc[K, V]) {
	m.tree.move(&src.tree)
	m.cmp = src.cmp
}

// Clone returns a copy of m, built by inserting m's entries in order.
func (m *Map[K, V]) Clone() *Map[K, V] {
	m2 := new(Map[K, V])
	copyInto(m2, m)
	return m2
}

// Clone returns a copy of m with the same comparison function,
// built by inserting m's entries in order.
func (m *MapFunc[K, V]) Clone() *MapFunc[K, V] {
	m2 := NewFunc[K, V](m.cmp)
	copyInto(m2, m)
	return m2
}

func copyInto[K, V any](dst, src omap[K, V]) {
	for k, v := range all(src) {
		insert(dst, k, v)
	}
}
