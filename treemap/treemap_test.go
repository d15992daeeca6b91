// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package treemap

import (
	"bytes"
	"cmp"
	"fmt"
	"iter"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/jba/assoc"
	"github.com/stretchr/testify/require"
)

type Interface[K, V any] interface {
	All() iter.Seq2[K, V]
	Backward() iter.Seq2[K, V]
	At(key K) *V
	Delete(key K) bool
	Remove(key K) error
	RemoveAt(it Iterator[K, V]) error
	Get(key K) (V, bool)
	ValueOf(key K) (V, error)
	Ref(key K) (*V, error)
	Set(key K, val V) (V, bool)
	Find(key K) Iterator[K, V]
	Begin() Iterator[K, V]
	End() Iterator[K, V]
	Min() (K, bool)
	Max() (K, bool)
	Len() int
	IsEmpty() bool
	Height() int
	Clear()
	omap[K, V]
}

func permute(m Interface[int, int], n int) (perm, slice []int) {
	perm = rand.Perm(n)
	slice = make([]int, 2*n+1)
	for i, x := range perm {
		m.Set(2*x+1, i+1)
		slice[2*x+1] = i + 1
	}
	// Overwrite-Set half the entries.
	for i, x := range perm[:len(perm)/2] {
		old, added := m.Set(2*x+1, i+100)
		if added || old != i+1 {
			panic("bad Set")
		}
		slice[2*x+1] = i + 100
	}
	return perm, slice
}

func dump[K, V any](m omap[K, V]) string {
	var buf bytes.Buffer
	var walk func(*node[K, V])
	walk = func(x *node[K, V]) {
		if x == nil {
			fmt.Fprintf(&buf, "nil")
			return
		}
		fmt.Fprintf(&buf, "(%v[%d] ", x.key, x.height)
		walk(x.left)
		fmt.Fprintf(&buf, " ")
		walk(x.right)
		fmt.Fprintf(&buf, ")")
	}
	walk(m.t()._root)
	return buf.String()
}

func test(t *testing.T, f func(*testing.T, func() Interface[int, int])) {
	t.Run("Map", func(t *testing.T) {
		f(t, func() Interface[int, int] { return new(Map[int, int]) })
	})
	t.Run("MapFunc", func(t *testing.T) {
		f(t, func() Interface[int, int] { return NewFunc[int, int](cmp.Compare[int]) })
	})
}

// checkAVL verifies the structure of m: parent links, key order,
// cached heights, AVL balance and the entry count.
func checkAVL[K, V any](t *testing.T, m omap[K, V]) {
	t.Helper()
	tr := m.t()
	if r := tr._root; r != nil && r.parent != nil {
		t.Fatalf("root %v has parent %v", r.key, r.parent.key)
	}
	var n int
	var walk func(x *node[K, V]) int
	walk = func(x *node[K, V]) int {
		if x == nil {
			return 0
		}
		n++
		for _, c := range []*node[K, V]{x.left, x.right} {
			if c != nil && c.parent != x {
				t.Fatalf("child %v of %v has wrong parent\n%s", c.key, x.key, dump(m))
			}
		}
		if x.left != nil && m.compare(x.left.key, x.key) >= 0 {
			t.Fatalf("left child %v of %v out of order\n%s", x.left.key, x.key, dump(m))
		}
		if x.right != nil && m.compare(x.right.key, x.key) <= 0 {
			t.Fatalf("right child %v of %v out of order\n%s", x.right.key, x.key, dump(m))
		}
		hl, hr := walk(x.left), walk(x.right)
		if d := hl - hr; d < -1 || d > 1 {
			t.Fatalf("node %v unbalanced: heights %d, %d\n%s", x.key, hl, hr, dump(m))
		}
		h := 1 + max(hl, hr)
		if x.height != h {
			t.Fatalf("node %v: cached height %d, want %d\n%s", x.key, x.height, h, dump(m))
		}
		return h
	}
	walk(tr._root)
	if n != tr.count {
		t.Fatalf("count = %d, but tree has %d nodes", tr.count, n)
	}
	// In-order traversal must be strictly increasing.
	var prev *node[K, V]
	for x := range nodes(tr) {
		if prev != nil && m.compare(prev.key, x.key) >= 0 {
			t.Fatalf("in-order keys %v, %v not increasing", prev.key, x.key)
		}
		prev = x
	}
}

func nodes[K, V any](tr *tree[K, V]) iter.Seq[*node[K, V]] {
	return func(yield func(*node[K, V]) bool) {
		if tr._root == nil {
			return
		}
		for x := tr._root.minNode(); x != nil && yield(x); x = x.succ() {
		}
	}
}

func TestGet(t *testing.T) {
	test(t, func(t *testing.T, newMap func() Interface[int, int]) {
		for N := range 11 {
			m := newMap()
			_, slice := permute(m, N)
			checkAVL(t, m)
			for k, want := range slice {
				v, ok := m.Get(k)
				if v != want || ok != (want > 0) {
					t.Fatalf("Get(%d) = %d, %v, want %d, %v\nM: %v", k, v, ok, want, want > 0, dump(m))
				}
			}
		}
	})
}

func TestSet(t *testing.T) {
	test(t, func(t *testing.T, newMap func() Interface[int, int]) {
		check := func(gotOld int, gotAdded bool) func(int, bool) {
			return func(wantOld int, wantAdded bool) {
				t.Helper()
				if gotOld != wantOld || gotAdded != wantAdded {
					t.Errorf("got %d, %t, want %d, %t", gotOld, gotAdded, wantOld, wantAdded)
				}
			}
		}

		m := newMap()
		check(m.Set(1, 10))(0, true)
		check(m.Set(2, 20))(0, true)
		check(m.Set(1, 5))(10, false)
		check(m.Set(1, 8))(5, false)
		if m.Len() != 2 {
			t.Errorf("Len() = %d, want 2", m.Len())
		}
	})
}

func TestAt(t *testing.T) {
	test(t, func(t *testing.T, newMap func() Interface[int, int]) {
		m := newMap()
		p := m.At(7)
		if *p != 0 || m.Len() != 1 {
			t.Fatalf("At on missing key: got %d, Len %d; want 0, 1", *p, m.Len())
		}
		*p = 70
		// Grow the tree so 7 is rotated around; the pointer must follow the entry.
		for k := range 100 {
			*m.At(k + 10) = k
		}
		checkAVL(t, m)
		if *p != 70 {
			t.Errorf("*p = %d after inserts, want 70", *p)
		}
		*m.At(7)++
		if v, _ := m.Get(7); v != 71 {
			t.Errorf("Get(7) = %d, want 71", v)
		}
		if m.Len() != 101 {
			t.Errorf("Len() = %d, want 101", m.Len())
		}
	})
}

func TestValueOf(t *testing.T) {
	test(t, func(t *testing.T, newMap func() Interface[int, int]) {
		m := newMap()
		_, err := m.ValueOf(3)
		require.ErrorIs(t, err, assoc.ErrKeyNotFound)
		_, err = m.Ref(3)
		require.ErrorIs(t, err, assoc.ErrKeyNotFound)
		require.Equal(t, 0, m.Len(), "ValueOf must not insert")

		m.Set(3, 30)
		v, err := m.ValueOf(3)
		require.NoError(t, err)
		require.Equal(t, 30, v)

		p, err := m.Ref(3)
		require.NoError(t, err)
		*p = 31
		v, _ = m.Get(3)
		require.Equal(t, 31, v)
	})
}

func TestMin(t *testing.T) {
	test(t, func(t *testing.T, newMap func() Interface[int, int]) {
		for N := range 11 {
			m := newMap()
			permute(m, N)
			have, ok := m.Min()
			want := 1
			wok := true
			if N == 0 {
				want = 0
				wok = false
			}
			if have != want || ok != wok {
				t.Errorf("N=%d Min() returned %d, %t want %d, %t", N, have, ok, want, wok)
			}
		}
	})
}

func TestMax(t *testing.T) {
	test(t, func(t *testing.T, newMap func() Interface[int, int]) {
		for N := range 11 {
			m := newMap()
			permute(m, N)
			have, ok := m.Max()
			want := 2*N - 1
			wok := true
			if N == 0 {
				want = 0
				wok = false
			}
			if have != want || ok != wok {
				t.Errorf("N=%d Max() returned %d, %t want %d, %t", N, have, ok, want, wok)
			}
		}
	})
}

func TestAll(t *testing.T) {
	test(t, func(t *testing.T, newMap func() Interface[int, int]) {
		for N := range 11 {
			m := newMap()
			_, slice := permute(m, N)
			var have []int
			for k, v := range m.All() {
				if v != slice[k] {
					t.Errorf("All() returned %d, %d want %d, %d", k, v, k, slice[k])
				}
				have = append(have, k)
				if len(have) > N+5 { // too many; looping?
					break
				}
			}
			want := nonzeroIndexes(slice)
			if !slices.Equal(have, want) {
				t.Errorf("All() = %v, want %v", have, want)
			}
		}
	})
}

func TestBackward(t *testing.T) {
	test(t, func(t *testing.T, newMap func() Interface[int, int]) {
		for N := range 11 {
			m := newMap()
			_, slice := permute(m, N)
			var have []int
			for k, v := range m.Backward() {
				if v != slice[k] {
					t.Errorf("Backward() returned %d, %d want %d, %d", k, v, k, slice[k])
				}
				have = append(have, k)
				if len(have) > N+5 { // too many; looping?
					break
				}
			}
			want := nonzeroIndexes(slice)
			slices.Reverse(want)
			if !slices.Equal(have, want) {
				t.Errorf("Backward() = %v, want %v", have, want)
			}
		}
	})
}

func TestDelete(t *testing.T) {
	test(t, func(t *testing.T, newMap func() Interface[int, int]) {
		for N := range 11 {
			m := newMap()
			_, slice := permute(m, N)
			for _, x := range rand.Perm(len(slice)) {
				deleted := m.Delete(x)
				if deleted != (slice[x] != 0) {
					t.Fatalf("Delete(%d) = %t, want %t", x, deleted, slice[x] != 0)
				}
				slice[x] = 0
				checkAVL(t, m)
				var have []int
				for k := range m.All() {
					have = append(have, k)
				}
				want := nonzeroIndexes(slice)
				if !slices.Equal(have, want) {
					t.Errorf("after Delete(%v), All() = %v, want %v", x, have, want)
				}
			}
			if !m.IsEmpty() || m.Len() != 0 || m.Height() != 0 {
				t.Errorf("N=%d: after deleting everything, IsEmpty=%t Len=%d Height=%d",
					N, m.IsEmpty(), m.Len(), m.Height())
			}
		}
	})
}

func TestRandomInsertRemove(t *testing.T) {
	test(t, func(t *testing.T, newMap func() Interface[int, int]) {
		m := newMap()
		want := map[int]int{}
		for i := range 3000 {
			k := rand.IntN(200)
			if rand.IntN(3) == 0 {
				err := m.Remove(k)
				if _, ok := want[k]; ok {
					require.NoError(t, err)
					delete(want, k)
				} else {
					require.ErrorIs(t, err, assoc.ErrInvalidIterator)
				}
			} else {
				*m.At(k) = i
				want[k] = i
			}
			if i%50 == 0 {
				checkAVL(t, m)
			}
		}
		checkAVL(t, m)
		require.Equal(t, len(want), m.Len())
		for k, v := range m.All() {
			require.Equal(t, want[k], v, "key %d", k)
		}
	})
}

func TestAscendingInsertStaysBalanced(t *testing.T) {
	test(t, func(t *testing.T, newMap func() Interface[int, int]) {
		m := newMap()
		const n = 1 << 10
		for k := range n {
			m.At(k)
		}
		checkAVL(t, m)
		// An AVL tree with n nodes is at most about 1.44 log2(n) high.
		if h := m.Height(); h > 15 {
			t.Errorf("height %d for %d ascending keys", h, n)
		}
		for k := n - 1; k >= 0; k -= 2 {
			m.Delete(k)
		}
		checkAVL(t, m)
	})
}

func TestRootAfterThreeInserts(t *testing.T) {
	m := FromPairs(assoc.P(1, "a"), assoc.P(2, "b"), assoc.P(3, "c"))
	checkAVL(t, m)
	if got := m._root.key; got != 2 {
		t.Errorf("root = %d, want 2\n%s", got, dump(m))
	}
	var got []assoc.Pair[int, string]
	for k, v := range m.All() {
		got = append(got, assoc.P(k, v))
	}
	want := []assoc.Pair[int, string]{assoc.P(1, "a"), assoc.P(2, "b"), assoc.P(3, "c")}
	if !slices.Equal(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}
}

func TestRotations(t *testing.T) {
	for _, test := range []struct {
		keys []int
		want string
	}{
		// left-left: single right rotation
		{[]int{3, 2, 1}, "(2[2] (1[1] nil nil) (3[1] nil nil))"},
		// right-right: single left rotation
		{[]int{1, 2, 3}, "(2[2] (1[1] nil nil) (3[1] nil nil))"},
		// left-right: double rotation
		{[]int{3, 1, 2}, "(2[2] (1[1] nil nil) (3[1] nil nil))"},
		// right-left: double rotation
		{[]int{1, 3, 2}, "(2[2] (1[1] nil nil) (3[1] nil nil))"},
		{[]int{5, 3, 8, 2, 4, 1}, "(3[3] (2[2] (1[1] nil nil) nil) (5[2] (4[1] nil nil) (8[1] nil nil)))"},
	} {
		var m Map[int, int]
		for _, k := range test.keys {
			m.At(k)
		}
		checkAVL(t, &m)
		if got := dump(&m); got != test.want {
			t.Errorf("%v:\ngot  %s\nwant %s", test.keys, got, test.want)
		}
	}
}

func TestDeleteCases(t *testing.T) {
	build := func(keys ...int) *Map[int, int] {
		var m Map[int, int]
		for _, k := range keys {
			m.At(k)
		}
		return &m
	}
	for _, test := range []struct {
		name string
		keys []int
		del  int
		want string
	}{
		{
			name: "leaf",
			keys: []int{2, 1, 3},
			del:  1,
			want: "(2[2] nil (3[1] nil nil))",
		},
		{
			name: "no right child",
			keys: []int{3, 2, 4, 1},
			del:  2,
			want: "(3[2] (1[1] nil nil) (4[1] nil nil))",
		},
		{
			name: "no left child",
			keys: []int{2, 1, 3, 4},
			del:  3,
			want: "(2[2] (1[1] nil nil) (4[1] nil nil))",
		},
		{
			name: "two children, successor is right child",
			keys: []int{2, 1, 3},
			del:  2,
			want: "(3[2] (1[1] nil nil) nil)",
		},
		{
			name: "two children, successor deeper",
			keys: []int{4, 2, 6, 1, 3, 5, 7},
			del:  4,
			want: "(5[3] (2[2] (1[1] nil nil) (3[1] nil nil)) (6[2] nil (7[1] nil nil)))",
		},
		{
			name: "removal unbalances ancestor",
			keys: []int{2, 1, 3, 4},
			del:  1,
			want: "(3[2] (2[1] nil nil) (4[1] nil nil))",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			m := build(test.keys...)
			if err := m.Remove(test.del); err != nil {
				t.Fatal(err)
			}
			checkAVL(t, m)
			if got := dump(m); got != test.want {
				t.Errorf("got  %s\nwant %s", got, test.want)
			}
		})
	}
}

func TestClone(t *testing.T) {
	test(t, func(t *testing.T, newMap func() Interface[int, int]) {
		for N := range 11 {
			m := newMap()
			permute(m, N)
			var c Interface[int, int]
			switch m := m.(type) {
			case *Map[int, int]:
				c = m.Clone()
				if !m.Equal(c.(*Map[int, int])) {
					t.Errorf("N=%d: clone not equal", N)
				}
			case *MapFunc[int, int]:
				c = m.Clone()
				if !m.Equal(c.(*MapFunc[int, int])) {
					t.Errorf("N=%d: clone not equal", N)
				}
			}
			checkAVL(t, c)
			// The clone is independent of the original.
			*c.At(1000) = 1
			if _, ok := m.Get(1000); ok {
				t.Errorf("N=%d: insert into clone visible in original", N)
			}
			if N > 0 {
				*c.At(1) = -1
				if v, _ := m.Get(1); v == -1 {
					t.Errorf("N=%d: write to clone visible in original", N)
				}
			}
		}
	})
}

func TestCloneFunc(t *testing.T) {
	rev := func(a, b int) int { return cmp.Compare(b, a) }
	m := NewFunc[int, int](rev)
	for k := range 100 {
		m.Set(k, k)
	}
	c := m.Clone()
	checkAVL(t, c)
	require.Equal(t, m.Len(), c.Len())
	require.True(t, c.Equal(m))
	k, _ := c.Min()
	require.Equal(t, 99, k, "clone orders keys with the original's comparison")
	// A deleted entry in the original is not carried over.
	m.Delete(50)
	require.Equal(t, 99, m.Clone().Len())
}

func TestEqual(t *testing.T) {
	a := FromPairs(assoc.P(1, "a"), assoc.P(2, "b"), assoc.P(3, "c"))
	// Same content, different insertion order and therefore different shape.
	b := FromPairs(assoc.P(3, "c"), assoc.P(1, "a"))
	b.Set(2, "b")
	if !a.Equal(b) || !b.Equal(a) {
		t.Errorf("maps with equal content not Equal:\n%s\n%s", dump(a), dump(b))
	}
	b.Set(2, "x")
	if a.Equal(b) {
		t.Error("maps with different values Equal")
	}
	b.Set(2, "b")
	b.Set(4, "d")
	if a.Equal(b) {
		t.Error("maps with different sizes Equal")
	}
	if !new(Map[int, string]).Equal(new(Map[int, string])) {
		t.Error("empty maps not Equal")
	}

	f1 := FromPairsFunc(cmp.Compare[int], assoc.P(1, 1), assoc.P(2, 2))
	f2 := FromPairsFunc(cmp.Compare[int], assoc.P(2, 2), assoc.P(1, 1))
	if !f1.Equal(f2) {
		t.Error("MapFunc: maps with equal content not Equal")
	}
}

func TestFromPairsFirstWins(t *testing.T) {
	m := FromPairs(assoc.P(5, "x"), assoc.P(5, "y"))
	v, err := m.ValueOf(5)
	require.NoError(t, err)
	require.Equal(t, "x", v)
	require.Equal(t, 1, m.Len())

	// Index-access overwrites, like the hash map.
	*m.At(5) = "y"
	v, _ = m.ValueOf(5)
	require.Equal(t, "y", v)
}

func TestClear(t *testing.T) {
	test(t, func(t *testing.T, newMap func() Interface[int, int]) {
		m := newMap()
		permute(m, 10)
		it := m.Begin()
		m.Clear()
		checkAVL(t, m)
		require.True(t, m.IsEmpty())
		require.Equal(t, 0, m.Height())
		_, err := it.Key()
		require.ErrorIs(t, err, assoc.ErrDereference)
		require.ErrorIs(t, it.Next(), assoc.ErrInvalidIterator)
		m.Set(1, 1)
		require.Equal(t, 1, m.Len())
	})
}

func TestMove(t *testing.T) {
	var src, dst Map[int, int]
	for k := range 20 {
		src.Set(k, k*k)
	}
	dst.Set(100, 1)
	srcIt, dstIt := src.Find(3), dst.Find(100)

	dst.Move(&src)
	checkAVL(t, &dst)
	checkAVL(t, &src)
	require.Equal(t, 20, dst.Len())
	require.True(t, src.IsEmpty())
	_, ok := dst.Get(100)
	require.False(t, ok)
	v, err := dst.ValueOf(3)
	require.NoError(t, err)
	require.Equal(t, 9, v)

	_, err = srcIt.Value()
	require.ErrorIs(t, err, assoc.ErrDereference)
	_, err = dstIt.Value()
	require.ErrorIs(t, err, assoc.ErrDereference)

	// The source is still usable.
	src.Set(1, 1)
	require.Equal(t, 1, src.Len())

	f := NewFunc[int, int](cmp.Compare[int])
	g := FromPairsFunc(func(a, b int) int { return cmp.Compare(b, a) }, assoc.P(1, 1), assoc.P(2, 2))
	f.Move(g)
	var keys []int
	for k := range f.All() {
		keys = append(keys, k)
	}
	require.Equal(t, []int{2, 1}, keys, "Move takes the comparison function along")
}

func TestMapFuncOrder(t *testing.T) {
	m := NewFunc[string, int](func(a, b string) int { return cmp.Compare(len(a), len(b)) })
	for _, s := range []string{"ccc", "a", "bb", "dddd", "e"} {
		*m.At(s)++
	}
	checkAVL(t, m)
	var have []string
	for k := range m.All() {
		have = append(have, k)
	}
	// "e" has the same length as "a", so it is the same key.
	want := []string{"a", "bb", "ccc", "dddd"}
	if !slices.Equal(have, want) {
		t.Errorf("All() = %v, want %v", have, want)
	}
	if v, _ := m.Get("z"); v != 2 {
		t.Errorf(`Get("z") = %d, want 2`, v)
	}
}

func nonzeroIndexes(s []int) []int {
	var r []int
	for i, x := range s {
		if x != 0 {
			r = append(r, i)
		}
	}
	return r
}
