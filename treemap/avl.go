// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package treemap

// h returns the height of the subtree at x; a nil subtree has height 0.
func (x *node[K, V]) h() int {
	if x == nil {
		return 0
	}
	return x.height
}

// balance returns height(left) - height(right).
func (x *node[K, V]) balance() int {
	return x.left.h() - x.right.h()
}

// fix recomputes x's height from its children's.
func (x *node[K, V]) fix() {
	x.height = 1 + max(x.left.h(), x.right.h())
}

// rebalance walks from x to the root, restoring the AVL property
// and refreshing heights along the way.
func rebalance[K, V any](m omap[K, V], x *node[K, V]) {
	for ; x != nil; x = x.parent {
		switch b := x.balance(); {
		case b > 1:
			// Left-heavy. If the left child leans right, this is the
			// left-right case: turn it into left-left first.
			if x.left.balance() < 0 {
				rotateLeft(m, x.left)
			}
			x = rotateRight(m, x)
		case b < -1:
			if x.right.balance() > 0 {
				rotateRight(m, x.right)
			}
			x = rotateLeft(m, x)
		default:
			x.fix()
		}
	}
}

// unlink removes x from the tree and rebalances.
func unlink[K, V any](m omap[K, V], x *node[K, V]) {
	// start is the deepest node whose subtree lost height.
	var start *node[K, V]
	switch {
	case x.right == nil:
		start = x.parent
		replace(m, x, x.left)
	case x.left == nil:
		start = x.parent
		replace(m, x, x.right)
	default:
		// Two children: x's successor s, the leftmost node of its right
		// subtree, takes x's place.
		s := x.right.minNode()
		if s.parent == x {
			start = s
		} else {
			start = s.parent
			replace(m, s, s.right)
			s.right = x.right
			s.right.parent = s
		}
		replace(m, x, s)
		s.left = x.left
		s.left.parent = s
	}
	x.parent, x.left, x.right = nil, nil, nil
	x.height = 0 // mark deleted
	m.t().count--
	rebalance(m, start)
}

// replace puts y, which may be nil, where x hangs from x's parent.
// x's own links are left alone.
func replace[K, V any](m omap[K, V], x, y *node[K, V]) {
	p := x.parent
	switch {
	case p == nil:
		m.t()._root = y
	case p.left == x:
		p.left = y
	case p.right == x:
		p.right = y
	default:
		panic("corrupt tree")
	}
	if y != nil {
		y.parent = p
	}
}

// rotateLeft rotates the subtree rooted at node x,
// turning (x a (y b c)) into (y (x a b) c), and returns y.
func rotateLeft[K, V any](m omap[K, V], x *node[K, V]) *node[K, V] {
	// p -> (x a (y b c))
	y := x.right
	b := y.left

	replace(m, x, y)
	y.left = x
	x.parent = y
	x.right = b
	if b != nil {
		b.parent = x
	}

	x.fix()
	y.fix()
	return y
}

// rotateRight rotates the subtree rooted at node y,
// turning (y (x a b) c) into (x a (y b c)), and returns x.
func rotateRight[K, V any](m omap[K, V], y *node[K, V]) *node[K, V] {
	// p -> (y (x a b) c)
	x := y.left
	b := x.right

	replace(m, y, x)
	x.right = y
	y.parent = x
	y.left = b
	if b != nil {
		b.parent = y
	}

	y.fix()
	x.fix()
	return x
}

// minNode returns the node in x's subtree with the smallest key.
// x must not be nil.
func (x *node[K, V]) minNode() *node[K, V] {
	for x.left != nil {
		x = x.left
	}
	return x
}

// maxNode returns the node in x's subtree with the largest key.
// x must not be nil.
func (x *node[K, V]) maxNode() *node[K, V] {
	for x.right != nil {
		x = x.right
	}
	return x
}

// succ returns the in-order successor of x, or nil.
// x must be in the tree.
func (x *node[K, V]) succ() *node[K, V] {
	if x.right != nil {
		return x.right.minNode()
	}
	for x.parent != nil && x.parent.right == x {
		x = x.parent
	}
	return x.parent
}

// pred returns the in-order predecessor of x, or nil.
// x must be in the tree.
func (x *node[K, V]) pred() *node[K, V] {
	if x.left != nil {
		return x.left.maxNode()
	}
	for x.parent != nil && x.parent.left == x {
		x = x.parent
	}
	return x.parent
}

// next returns the successor node of x in the tree,
// even if x has been removed from the tree.
// x must not be nil.
func (x *node[K, V]) next(m omap[K, V]) *node[K, V] {
	if x.height == 0 {
		// x has been deleted.
		// Find where x.key would be in the current tree.
		var eq bool
		x, eq = findGE(m, x.key)
		if !eq {
			// The new x is already greater than the old x.key.
			return x
		}
	}
	return x.succ()
}

// prev returns the predecessor node of x in the tree,
// even if x has been removed from the tree.
// x must not be nil.
func (x *node[K, V]) prev(m omap[K, V]) *node[K, V] {
	if x.height == 0 {
		var eq bool
		x, eq = findLE(m, x.key)
		if !eq {
			return x
		}
	}
	return x.pred()
}

// findGE finds the node x in m with the least key k such that k ≥ key.
func findGE[K, V any](m omap[K, V], key K) (x *node[K, V], eq bool) {
	pos, parent := m.find(key)
	if *pos != nil {
		return *pos, true
	}
	if parent == nil {
		return nil, false
	}
	if pos == &parent.left {
		return parent, false
	}
	return parent.succ(), false
}

// findLE finds the node x in m with the greatest key k such that k ≤ key.
func findLE[K, V any](m omap[K, V], key K) (x *node[K, V], eq bool) {
	pos, parent := m.find(key)
	if *pos != nil {
		return *pos, true
	}
	if parent == nil {
		return nil, false
	}
	if pos == &parent.right {
		return parent, false
	}
	return parent.pred(), false
}
