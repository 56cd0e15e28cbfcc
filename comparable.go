// Modifications copyright (c) Arista Networks, Inc. 2024
// Underlying
// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build go1.24

package chainmap

import "hash/maphash"

// NewComparable instantiates a new Map for a comparable key type,
// initialized with any KeyElems passed. Keys are compared with == and
// hashed with [maphash.Comparable], so no equal or hash functions need
// to be supplied. See the package comment for the care needed around
// NaN keys.
func NewComparable[K comparable, E any](kes ...KeyElem[K, E]) *Map[K, E] {
	return New[K, E](func(a, b K) bool { return a == b }, maphash.Comparable[K], kes...)
}

// NewComparableHint is [NewComparable] with a size hint: the returned
// Map holds hint entries without growing.
func NewComparableHint[K comparable, E any](hint int) *Map[K, E] {
	return NewHint[K, E](hint, func(a, b K) bool { return a == b }, maphash.Comparable[K])
}
