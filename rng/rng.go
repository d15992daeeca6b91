// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rng provides ranges: representations of sequences of ordered values.
// The ordered maps of [github.com/jba/assoc/treemap] scan them.
package rng

import (
	"fmt"
	"strings"
)

// Range is a range of values of type T.
// T need not be ordered; that is, it is not constrained by [cmp.Ordered].
// It is up to the user to assign an ordering, by passing a comparison
// function to the methods that need one; Range simply represents
// the bounds of the range.
//
// The zero Range is an empty range.
type Range[T any] struct {
	lo, hi         T
	inclLo, inclHi bool
	infLo, infHi   bool
	rev            bool
}

func (r Range[T]) String() string {
	var b strings.Builder
	if r.infLo {
		b.WriteString("(-∞")
	} else {
		if r.inclLo {
			b.WriteByte('[')
		} else {
			b.WriteByte('(')
		}
		fmt.Fprint(&b, r.lo)
	}
	b.WriteString(", ")
	if r.infHi {
		b.WriteString("∞)")
	} else {
		fmt.Fprint(&b, r.hi)
		if r.inclHi {
			b.WriteByte(']')
		} else {
			b.WriteByte(')')
		}
	}
	if r.rev {
		b.WriteString(" backwards")
	}
	return b.String()
}

func (r Range[T]) IsBackwards() bool { return r.rev }

func (r Range[T]) Low() (v T, infinite, includes bool) {
	return r.lo, r.infLo, r.inclLo
}

func (r Range[T]) High() (v T, infinite, includes bool) {
	return r.hi, r.infHi, r.inclHi
}

// (-inf, inf)
func All[T any]() Range[T] {
	return Range[T]{infLo: true, infHi: true}
}

// [t, inf)
func From[T any](t T) Range[T] {
	return Range[T]{lo: t, inclLo: true, infHi: true}
}

// (t, inf)
func Above[T any](t T) Range[T] {
	return Range[T]{lo: t, inclLo: false, infHi: true}
}

// (-inf, t]
func UpTo[T any](t T) Range[T] {
	return Range[T]{infLo: true, hi: t, inclHi: true}
}

// (-inf, t)
func Under[T any](t T) Range[T] {
	return Range[T]{infLo: true, hi: t, inclHi: false}
}

// ..., t)
func (r Range[T]) Below(t T) Range[T] {
	if !r.infHi {
		panic("uninitialized Range")
	}
	r.hi = t
	r.infHi = false
	r.inclHi = false
	return r
}

// ..., t]
func (r Range[T]) To(t T) Range[T] {
	if !r.infHi {
		panic("uninitialized Range")
	}
	r.hi = t
	r.infHi = false
	r.inclHi = true
	return r
}

func (r Range[T]) Backwards() Range[T] {
	r.rev = true
	return r
}

// AboveLow reports whether v is on the inner side of r's low bound,
// with values ordered by cmp.
func (r Range[T]) AboveLow(cmp func(T, T) int, v T) bool {
	if r.infLo {
		return true
	}
	c := cmp(v, r.lo)
	return c > 0 || c == 0 && r.inclLo
}

// BelowHigh reports whether v is on the inner side of r's high bound,
// with values ordered by cmp.
func (r Range[T]) BelowHigh(cmp func(T, T) int, v T) bool {
	if r.infHi {
		return true
	}
	c := cmp(v, r.hi)
	return c < 0 || c == 0 && r.inclHi
}

// Contains reports whether v is in r, with values ordered by cmp.
func (r Range[T]) Contains(cmp func(T, T) int, v T) bool {
	return r.AboveLow(cmp, v) && r.BelowHigh(cmp, v)
}
