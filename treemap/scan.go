// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package treemap

import (
	"iter"

	"github.com/jba/assoc/rng"
)

// Scan returns an iterator over the entries of m whose keys are in r,
// in increasing key order, or decreasing order if r is backwards.
//
// If m is modified during the iteration, some keys may not be visited.
// No keys will be visited multiple times.
func (m *Map[K, V]) Scan(r rng.Range[K]) iter.Seq2[K, V] {
	return scan(m, r)
}

// Scan returns an iterator over the entries of m whose keys are in r,
// in m's order, or the reverse order if r is backwards.
//
// If m is modified during the iteration, some keys may not be visited.
// No keys will be visited multiple times.
func (m *MapFunc[K, V]) Scan(r rng.Range[K]) iter.Seq2[K, V] {
	return scan(m, r)
}

func scan[K, V any](m omap[K, V], r rng.Range[K]) iter.Seq2[K, V] {
	if r.IsBackwards() {
		return func(yield func(K, V) bool) {
			x := highNode(m, r)
			for x != nil && r.AboveLow(m.compare, x.key) && yield(x.key, x.val) {
				x = x.prev(m)
			}
		}
	}
	return func(yield func(K, V) bool) {
		x := lowNode(m, r)
		for x != nil && r.BelowHigh(m.compare, x.key) && yield(x.key, x.val) {
			x = x.next(m)
		}
	}
}

// lowNode returns the node with the smallest key inside r's low bound,
// ignoring the high bound, or nil.
func lowNode[K, V any](m omap[K, V], r rng.Range[K]) *node[K, V] {
	lo, inf, incl := r.Low()
	if inf {
		if x := m.t()._root; x != nil {
			return x.minNode()
		}
		return nil
	}
	x, eq := findGE(m, lo)
	if eq && !incl {
		x = x.succ()
	}
	return x
}

// highNode returns the node with the largest key inside r's high bound,
// ignoring the low bound, or nil.
func highNode[K, V any](m omap[K, V], r rng.Range[K]) *node[K, V] {
	hi, inf, incl := r.High()
	if inf {
		if x := m.t()._root; x != nil {
			return x.maxNode()
		}
		return nil
	}
	x, eq := findLE(m, hi)
	if eq && !incl {
		x = x.pred()
	}
	return x
}

// DeleteRange deletes the entries of m whose keys are in r
// and returns the number deleted. The direction of r is ignored.
// Iterators at the deleted entries become invalid.
func (m *Map[K, V]) DeleteRange(r rng.Range[K]) int {
	return deleteRange(m, r)
}

// DeleteRange deletes the entries of m whose keys are in r
// and returns the number deleted. The direction of r is ignored.
// Iterators at the deleted entries become invalid.
func (m *MapFunc[K, V]) DeleteRange(r rng.Range[K]) int {
	return deleteRange(m, r)
}

func deleteRange[K, V any](m omap[K, V], r rng.Range[K]) int {
	n := 0
	x := lowNode(m, r)
	for x != nil && r.BelowHigh(m.compare, x.key) {
		// Unlinking x moves nodes but does not free them, so next stays in the tree.
		next := x.succ()
		unlink(m, x)
		n++
		x = next
	}
	return n
}
