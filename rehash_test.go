// Modifications copyright (c) Arista Networks, Inc. 2024
// Underlying
// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chainmap

import (
	"hash/maphash"
	"testing"

	"github.com/stretchr/testify/require"
)

// The table starts at one bucket and grows to int(count*1.618033988)+1
// buckets whenever an insert brings count up to the bucket count.
func TestGrowth(t *testing.T) {
	m := New[int, int](func(a, b int) bool { return a == b }, HashInt[int])
	require.Equal(t, 1, len(m.buckets))

	checkpoints := map[int]int{
		1: 2, 2: 4, 3: 4, 4: 7, 7: 12, 12: 20, 20: 33,
		33: 54, 54: 88, 88: 143, 100: 143,
	}
	for i := 1; i <= 100; i++ {
		m.Insert(i, i)
		require.Lessf(t, m.count, len(m.buckets),
			"count reached the bucket count after %d inserts", i)
		if want, ok := checkpoints[i]; ok {
			require.Equalf(t, want, len(m.buckets),
				"bucket count after %d inserts", i)
		}
	}
}

// Deletes never hand back table space. Only Clear does.
func TestDeleteKeepsBuckets(t *testing.T) {
	m := New[int, int](func(a, b int) bool { return a == b }, HashInt[int])
	for i := 1; i <= 100; i++ {
		m.Insert(i, i)
	}
	require.Equal(t, 143, len(m.buckets))

	for i := 1; i <= 99; i++ {
		m.Delete(i)
	}
	require.Equal(t, 1, m.Len())
	require.Equal(t, 143, len(m.buckets))

	m.Clear()
	require.Equal(t, 1, len(m.buckets))
}

func TestGrowthFactor(t *testing.T) {
	eq := func(a, b int) bool { return a == b }

	t.Run("custom", func(t *testing.T) {
		m := NewWith[int, int](eq, HashInt[int], WithGrowthFactor(3))
		checkpoints := map[int]int{1: 4, 2: 4, 3: 4, 4: 13}
		for i := 1; i <= 4; i++ {
			m.Insert(i, i)
			require.Equalf(t, checkpoints[i], len(m.buckets),
				"bucket count after %d inserts", i)
		}
	})

	t.Run("ignored", func(t *testing.T) {
		for _, f := range []float64{1, 0.5, -2} {
			m := NewWith[int, int](eq, HashInt[int], WithGrowthFactor(f))
			m.Insert(1, 1)
			require.Equalf(t, 2, len(m.buckets),
				"factor %g should fall back to the default", f)
		}
	})
}

func TestPresize(t *testing.T) {
	eq := func(a, b int) bool { return a == b }

	m := NewWith[int, int](eq, HashInt[int], WithPresize(50))
	require.Equal(t, 81, len(m.buckets))
	for i := 0; i < 80; i++ {
		m.Insert(i, i)
	}
	require.Equal(t, 81, len(m.buckets), "80 entries fit without growing")
	m.Insert(80, 80)
	require.Equal(t, 132, len(m.buckets), "the 81st entry forces a grow")

	for _, hint := range []int{0, -5} {
		m := NewWith[int, int](eq, HashInt[int], WithPresize(hint))
		require.Equalf(t, 1, len(m.buckets), "hint %d should be ignored", hint)
	}

	t.Run("with-growth-factor", func(t *testing.T) {
		m := NewWith[int, int](eq, HashInt[int],
			WithPresize(10), WithGrowthFactor(2))
		require.Equal(t, 21, len(m.buckets))
		for i := 0; i < 21; i++ {
			m.Insert(i, i)
		}
		require.Equal(t, 43, len(m.buckets))
	})
}

func TestInsertEraseSequence(t *testing.T) {
	m := New[int, int](func(a, b int) bool { return a == b }, HashInt[int])
	for i := 1; i <= 100; i++ {
		m.Insert(i, 2*i)
	}
	require.Equal(t, 100, m.Len())

	for i := 1; i <= 50; i++ {
		m.Delete(i)
	}
	require.Equal(t, 50, m.Len())

	// Deleting absent keys changes nothing.
	for i := 1; i <= 50; i++ {
		m.Delete(i)
	}
	require.Equal(t, 50, m.Len())

	for i := 1; i <= 50; i++ {
		_, ok := m.Get(i)
		require.Falsef(t, ok, "key %d should have been deleted", i)
		_, err := m.At(i)
		require.ErrorIs(t, err, ErrNotFound)
	}
	for i := 51; i <= 100; i++ {
		v, err := m.At(i)
		require.NoErrorf(t, err, "key %d", i)
		require.Equal(t, 2*i, v)
	}
}

func TestNewKeepsFirstDuplicate(t *testing.T) {
	m := New(func(a, b int) bool { return a == b }, HashInt[int],
		KeyElem[int, string]{1, "a"},
		KeyElem[int, string]{2, "b"},
		KeyElem[int, string]{1, "c"},
	)
	require.Equal(t, 2, m.Len())
	v, err := m.At(1)
	require.NoError(t, err)
	require.Equal(t, "a", v)
}

// A pointer from Ref refers into the table it was taken from. After a
// rehash, writes through it no longer reach the map.
func TestStaleRefAfterGrow(t *testing.T) {
	m := New[int, int](func(a, b int) bool { return a == b }, HashInt[int])
	for i := 0; i < 3; i++ {
		m.Insert(i, i)
	}
	require.Equal(t, 4, len(m.buckets))

	p := m.Ref(0)
	m.Insert(3, 3) // grows to 7 buckets
	require.Equal(t, 7, len(m.buckets))

	*p = 42
	v, ok := m.Get(0)
	require.True(t, ok)
	require.Equal(t, 0, v)
}

func TestHashFunc(t *testing.T) {
	m := New[uint64, uint64](func(a, b uint64) bool { return a == b }, badIntHash)
	hf := m.HashFunc()
	require.NotNil(t, hf)
	var seed maphash.Seed
	require.Equal(t, uint64(7), hf(seed, 7))
}

func TestEmpty(t *testing.T) {
	m := New[int, int](func(a, b int) bool { return a == b }, HashInt[int])
	require.True(t, m.Empty())
	m.Insert(1, 1)
	require.False(t, m.Empty())
	m.Delete(1)
	require.True(t, m.Empty())
}
