// Modifications copyright (c) Arista Networks, Inc. 2024
// Underlying
// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build go1.23

package chainmap

import (
	"hash/maphash"
	"iter"
)

// All returns an iterator over key-value pairs from m.
func (m *Map[K, E]) All() iter.Seq2[K, E] {
	return func(yield func(K, E) bool) {
		for it := m.Iter(); it.Next(); {
			if !yield(it.Key(), it.Elem()) {
				return
			}
		}
	}
}

// Keys returns an iterator over keys in m.
func (m *Map[K, E]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for it := m.Iter(); it.Next(); {
			if !yield(it.Key()) {
				return
			}
		}
	}
}

// Values returns an iterator over values in m.
func (m *Map[K, E]) Values() iter.Seq[E] {
	return func(yield func(E) bool) {
		for it := m.Iter(); it.Next(); {
			if !yield(it.Elem()) {
				return
			}
		}
	}
}

// Collect builds a Map from the key-value pairs in seq, arranging keys
// with equal and hash. If a key appears more than once, the value paired
// with its first occurrence wins.
func Collect[K, E any](
	seq iter.Seq2[K, E],
	equal func(a, b K) bool,
	hash func(maphash.Seed, K) uint64,
) *Map[K, E] {
	m := New[K, E](equal, hash)
	for k, e := range seq {
		m.Insert(k, e)
	}
	return m
}
