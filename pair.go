// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assoc

import (
	"fmt"
	"reflect"
)

// A Pair is one entry of a container: a key and the value stored under it.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// P is shorthand for Pair[K, V]{k, v}.
func P[K, V any](k K, v V) Pair[K, V] {
	return Pair[K, V]{Key: k, Value: v}
}

func (p Pair[K, V]) String() string {
	return fmt.Sprintf("(%v, %v)", p.Key, p.Value)
}

// Equaler is implemented by values that decide their own equality.
// Container equality uses it in place of [reflect.DeepEqual].
type Equaler[V any] interface {
	Equal(other V) bool
}

// EqualValues reports whether v1 and v2 are equal.
// If V implements [Equaler][V], its Equal method decides;
// otherwise the values are compared with [reflect.DeepEqual].
func EqualValues[V any](v1, v2 V) bool {
	// you can't assert directly on a type parameter
	if e, ok := any(v1).(Equaler[V]); ok {
		return e.Equal(v2)
	}
	return reflect.DeepEqual(v1, v2)
}
