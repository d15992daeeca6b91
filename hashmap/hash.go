// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hashmap

import (
	"github.com/fxamacker/circlehash"
	"golang.org/x/exp/constraints"
)

// integerSeed is fixed so that IntegerHash is the same in every process.
const integerSeed = 0x9e3779b97f4a7c15

// IntegerHash hashes an integer key with CircleHash64.
// Unlike the default hash of [New], it does not depend on a per-process
// seed, so a map built with
//
//	NewFunc[int, V](size, IntegerHash[int])
//
// has the same bucket layout in every run.
func IntegerHash[K constraints.Integer](k K) uint64 {
	return circlehash.Hash64Uint64x2(uint64(k), 0, integerSeed)
}
