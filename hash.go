// Modifications copyright (c) Arista Networks, Inc. 2024
// Underlying
// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chainmap

import (
	"encoding/binary"
	"hash/maphash"
	"math"

	"golang.org/x/exp/constraints"
)

// HashInt hashes v with seed. It can serve as the hash function for any
// Map keyed on an integer type. For string keys use [maphash.String] and
// for []byte keys use [maphash.Bytes].
func HashInt[T constraints.Integer](seed maphash.Seed, v T) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	return maphash.Bytes(seed, buf[:])
}

// HashFloat hashes v with seed. It can serve as the hash function for a
// Map keyed on a float type. Note that NaN keys hash like any other key,
// but can never be found again when the equal function follows IEEE 754
// comparison rules.
func HashFloat[T constraints.Float](seed maphash.Seed, v T) uint64 {
	if v == 0 {
		v = 0 // +0 and -0 must hash alike
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(float64(v)))
	return maphash.Bytes(seed, buf[:])
}
