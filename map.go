// Modifications copyright (c) Arista Networks, Inc. 2024
// Underlying
// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chainmap provides the Map type, a hash table built on
// separate chaining. Compared to Go's built-in map it lets users
// provide the equal and hash functions, control the growth policy, and
// walk entries with an explicit cursor that can update values in
// place. Iteration order is deterministic: bucket order, then
// insertion order within a bucket.
//
// The following requirements are the user's responsibility to follow:
//   - equal(a, b) => hash(a) == hash(b)
//   - equal(a, a) must be true for all values of a. Be careful around NaN
//     float values. Go's built-in `map` has special cases for handling
//     this, but `Map` does not.
//   - If a key in a `Map` contains references -- such as pointers, maps,
//     or slices -- modifying the referenced data in a way that affects
//     the result of the equal or hash functions will result in undefined
//     behavior.
//   - For good performance hash functions should return uniformly
//     distributed data across the entire 64-bits of the value.
package chainmap

// A map is just a hash table. The data is arranged into an array of
// buckets. Each bucket holds the head of a singly linked chain of
// entries; every key in a chain hashes to that bucket's index. Lookup
// hashes the key, takes the hash modulo the bucket count and walks one
// chain.
//
// When an insert brings the entry count up to the bucket count, the
// table grows: a new bucket array is allocated with the entry count
// scaled by the growth factor (the golden ratio unless configured
// otherwise) plus one, and every entry is rehashed into it in a single
// pass. Scaling by an irrational factor keeps successive table sizes
// from falling into step with patterned hash distributions. Delete
// checks the chain it just shortened against the live count scaled by
// the squared growth factor and would rehash through the same pass,
// but a chain cannot outnumber the live count, so the table keeps its
// bucket count through deletes until Clear resets it.
//
// There is no incremental evacuation: a rehash replaces the whole
// table before the triggering operation returns. Iterators and Ref
// pointers refer to the chain nodes of the table they were created
// against, so any rehash invalidates them.

import (
	"hash/maphash"

	"github.com/pkg/errors"
)

// defaultGrowthFactor scales the live entry count to produce the next
// bucket count on grow and shrink. The default is the golden ratio;
// WithGrowthFactor overrides it per Map.
const defaultGrowthFactor = 1.618033988

// hashWriting flags that a goroutine is writing to the map.
const hashWriting = 1

// ErrNotFound is returned by [Map.At] for keys with no entry in the
// Map.
var ErrNotFound = errors.New("key not found")

// Map implements a hash table with separate chaining.
type Map[K, E any] struct {
	count  int // # live entries == size of map
	flags  uint8
	growth float64 // bucket count scale factor, > 1

	// buckets[i] heads the chain of entries whose keys hash to i
	// modulo len(buckets). Constructors allocate at least one bucket,
	// so the modulus is always defined.
	buckets []*entry[K, E]

	seed maphash.Seed

	hash  func(maphash.Seed, K) uint64
	equal func(K, K) bool
}

// entry is one key/elem pair in a bucket's chain. The key is fixed at
// insertion; elem may be overwritten in place.
type entry[K, E any] struct {
	key  K
	elem E
	next *entry[K, E]
}

// KeyElem contains a Key and Elem.
type KeyElem[K, E any] struct {
	Key  K
	Elem E
}

// MapConfig defines configurable Map options accepted by [NewWith].
type MapConfig struct {
	sizeHint     int
	growthFactor float64
}

// WithPresize configures a new Map with enough buckets to hold
// sizeHint entries without growing. If sizeHint is zero or negative,
// the value is ignored.
func WithPresize(sizeHint int) func(*MapConfig) {
	return func(c *MapConfig) {
		c.sizeHint = sizeHint
	}
}

// WithGrowthFactor configures the factor by which a Map scales its
// bucket count when it grows or shrinks. The default is the golden
// ratio, 1.618033988. Factors less than or equal to 1 are ignored.
func WithGrowthFactor(f float64) func(*MapConfig) {
	return func(c *MapConfig) {
		if f > 1 {
			c.growthFactor = f
		}
	}
}

// New instantiates a new Map initialized with any KeyElems passed.
// The equal func must return true for two values of K that are equal
// and false otherwise. The hash func should return a uniformly
// distributed hash value. If equal(a, b) then hash(a) == hash(b). The
// hash function is passed a [hash/maphash.Seed], this is meant to be
// used with functions and types in the [hash/maphash] package, though
// can be ignored.
//
// The new Map starts with a single bucket and grows as the KeyElems
// are inserted. Duplicate keys in kes keep the first value, as with
// [Map.Insert].
func New[K, E any](
	equal func(a, b K) bool,
	hash func(maphash.Seed, K) uint64,
	kes ...KeyElem[K, E]) *Map[K, E] {

	m := newMap[K, E](1, equal, hash, defaultGrowthFactor)
	for _, ke := range kes {
		m.insert(ke.Key, ke.Elem)
	}
	return m
}

// NewHint instantiates a new Map sized so that hint entries can be
// inserted without growing the table. See [New] for discussion of the
// equal and hash arguments.
func NewHint[K, E any](
	hint int,
	equal func(a, b K) bool,
	hash func(maphash.Seed, K) uint64) *Map[K, E] {

	return newMap[K, E](bucketsFor(hint, defaultGrowthFactor), equal, hash, defaultGrowthFactor)
}

// NewWith instantiates a new Map configured by options. See [New] for
// discussion of the equal and hash arguments.
//
// Options:
//   - [WithPresize] for initial capacity
//   - [WithGrowthFactor] for the resize policy
func NewWith[K, E any](
	equal func(a, b K) bool,
	hash func(maphash.Seed, K) uint64,
	options ...func(*MapConfig)) *Map[K, E] {

	var cfg MapConfig
	for _, option := range options {
		option(&cfg)
	}
	growth := cfg.growthFactor
	if growth == 0 {
		growth = defaultGrowthFactor
	}
	return newMap[K, E](bucketsFor(cfg.sizeHint, growth), equal, hash, growth)
}

func newMap[K, E any](nbuckets int,
	equal func(a, b K) bool,
	hash func(maphash.Seed, K) uint64,
	growth float64) *Map[K, E] {

	return &Map[K, E]{
		growth:  growth,
		buckets: make([]*entry[K, E], nbuckets),
		seed:    maphash.MakeSeed(),
		hash:    hash,
		equal:   equal,
	}
}

// bucketsFor returns the bucket count for a table holding count
// entries: count scaled by the growth factor, plus one. The result
// always exceeds count, so reinserting count entries into a table of
// this size cannot trigger another grow. Never less than one bucket.
func bucketsFor(count int, growth float64) int {
	if count <= 0 {
		return 1
	}
	return int(float64(count)*growth) + 1
}

// Len returns the count of occupied entries in m.
func (m *Map[K, E]) Len() int {
	if m == nil {
		return 0
	}
	return m.count
}

// Empty reports whether m holds no entries.
func (m *Map[K, E]) Empty() bool {
	return m.Len() == 0
}

// HashFunc returns the hash function m was configured with.
func (m *Map[K, E]) HashFunc() func(maphash.Seed, K) uint64 {
	return m.hash
}

// bucketIndex returns the index of the chain that key belongs to.
func (m *Map[K, E]) bucketIndex(key K) uint64 {
	return m.hash(m.seed, key) % uint64(len(m.buckets))
}

// findEntry returns the entry holding key, or nil.
func (m *Map[K, E]) findEntry(key K) *entry[K, E] {
	for e := m.buckets[m.bucketIndex(key)]; e != nil; e = e.next {
		if m.equal(key, e.key) {
			return e
		}
	}
	return nil
}

// Get returns the element associated with key and true if that key is
// in the Map, otherwise it returns the zero value of E and false.
func (m *Map[K, E]) Get(key K) (E, bool) {
	var zeroE E
	if m == nil || m.count == 0 {
		return zeroE, false
	}
	if e := m.findEntry(key); e != nil {
		return e.elem, true
	}
	return zeroE, false
}

// At returns the element associated with key, or an error wrapping
// [ErrNotFound] when key is absent. At never inserts: it is the
// read-only counterpart of [Map.Ref].
func (m *Map[K, E]) At(key K) (E, error) {
	if m != nil && m.count != 0 {
		if e := m.findEntry(key); e != nil {
			return e.elem, nil
		}
	}
	var zeroE E
	return zeroE, errors.Wrapf(ErrNotFound, "key %v", key)
}

// Insert associates key with elem in m if the key is not already
// present and reports whether it inserted. An existing key keeps its
// current element: the first write wins. Use [Map.Set] or [Map.Update]
// to overwrite.
func (m *Map[K, E]) Insert(key K, elem E) bool {
	if m == nil {
		// We have to panic here rather than initialize an empty map
		// because we need the user to pass in hash and equal
		// functions
		panic("Insert called on nil map")
	}
	if m.flags&hashWriting != 0 {
		panic("concurrent map writes")
	}
	m.flags ^= hashWriting

	inserted := m.insert(key, elem)

	if m.flags&hashWriting == 0 {
		panic("concurrent map writes")
	}
	m.flags &^= hashWriting
	return inserted
}

// insert appends key/elem to its chain unless the key is already
// there, then grows the table if the live count reached the bucket
// count. rehash reinserts through this same path, which re-checks
// chain uniqueness even though entries from a valid Map cannot
// collide.
func (m *Map[K, E]) insert(key K, elem E) bool {
	b := m.bucketIndex(key)
	var last *entry[K, E]
	for e := m.buckets[b]; e != nil; e = e.next {
		if m.equal(key, e.key) {
			return false
		}
		last = e
	}

	ne := &entry[K, E]{key: key, elem: elem}
	if last == nil {
		m.buckets[b] = ne
	} else {
		last.next = ne
	}
	m.count++

	if m.count >= len(m.buckets) {
		m.rehash(bucketsFor(m.count, m.growth))
	}
	return true
}

// Ref returns a pointer to the element associated with key, inserting
// the zero value of E first when the key is absent. Writes through the
// pointer update the map in place. The pointer refers to a chain node
// of the current table: deleting the entry or any rehash invalidates
// it.
func (m *Map[K, E]) Ref(key K) *E {
	if m == nil {
		panic("Ref called on nil map")
	}
	if m.flags&hashWriting != 0 {
		panic("concurrent map writes")
	}
	m.flags ^= hashWriting

	e := m.findEntry(key)
	if e == nil {
		var zeroE E
		m.insert(key, zeroE)
		// The insert may have rehashed. Look the entry up again so
		// the pointer refers into the current table.
		e = m.findEntry(key)
	}

	if m.flags&hashWriting == 0 {
		panic("concurrent map writes")
	}
	m.flags &^= hashWriting
	return &e.elem
}

// Set associates key with elem in m, overwriting any existing element
// for key.
func (m *Map[K, E]) Set(key K, elem E) {
	*m.Ref(key) = elem
}

// Update applies f to the element stored for key and stores the
// result. An absent key is first inserted with the zero value of E,
// so f sees the zero value.
func (m *Map[K, E]) Update(key K, f func(cur E) E) {
	ref := m.Ref(key)
	*ref = f(*ref)
}

// Delete removes key and its associated element from the map.
func (m *Map[K, E]) Delete(key K) {
	if m == nil || m.count == 0 {
		return
	}
	if m.flags&hashWriting != 0 {
		panic("concurrent map writes")
	}
	m.flags ^= hashWriting

	b := m.bucketIndex(key)
	var prev *entry[K, E]
	for e := m.buckets[b]; e != nil; e = e.next {
		if m.equal(key, e.key) {
			if prev == nil {
				m.buckets[b] = e.next
			} else {
				prev.next = e.next
			}
			m.count--
			// Reset the hash seed to make it more difficult for
			// attackers to repeatedly trigger hash collisions. Only
			// safe while the map is empty: no live entry's bucket
			// position can go stale.
			if m.count == 0 {
				m.seed = maphash.MakeSeed()
			}
			if m.shrinkNeeded(b) {
				m.rehash(bucketsFor(m.count, m.growth))
			}
			break
		}
		prev = e
	}

	if m.flags&hashWriting == 0 {
		panic("concurrent map writes")
	}
	m.flags &^= hashWriting
}

// shrinkNeeded reports whether the delete that shortened the chain at
// bucket b left it longer than the live count scaled by the squared
// growth factor. A chain holds live entries only, so it can never
// outnumber the count and the bound does not trip while the growth
// factor exceeds 1: the table keeps its bucket count through deletes,
// and only Clear sizes it back down.
func (m *Map[K, E]) shrinkNeeded(b uint64) bool {
	n := 0
	for e := m.buckets[b]; e != nil; e = e.next {
		n++
	}
	return float64(m.count)*m.growth*m.growth < float64(n)
}

// rehash replaces the bucket array with one of newSize buckets and
// reinserts every live entry against the new size. Reinserted entries
// occupy fresh chain nodes, so pointers from Ref and any live
// iterators are invalidated.
func (m *Map[K, E]) rehash(newSize int) {
	old := m.buckets
	m.buckets = make([]*entry[K, E], newSize)
	m.count = 0
	for _, b := range old {
		for e := b; e != nil; e = e.next {
			m.insert(e.key, e.elem)
		}
	}
}

// Clear deletes all keys from m and resets it to a single empty
// bucket.
func (m *Map[K, E]) Clear() {
	if m == nil {
		return
	}
	if m.flags&hashWriting != 0 {
		panic("concurrent map writes")
	}
	m.flags ^= hashWriting

	m.buckets = make([]*entry[K, E], 1)
	m.count = 0
	m.seed = maphash.MakeSeed()

	if m.flags&hashWriting == 0 {
		panic("concurrent map writes")
	}
	m.flags &^= hashWriting
}

// Clone returns a copy of m with the same bucket count, seed, hash
// and equal functions, growth factor, and entries. Entries are
// reinserted in iteration order against the mirrored bucket count, so
// the clone also iterates in the same order as m.
func (m *Map[K, E]) Clone() *Map[K, E] {
	if m == nil {
		return nil
	}
	c := newMap[K, E](len(m.buckets), m.equal, m.hash, m.growth)
	// Keep the seed: with a fresh one the entries would settle into
	// different buckets and iterate in a different order.
	c.seed = m.seed
	for _, b := range m.buckets {
		for e := b; e != nil; e = e.next {
			c.insert(e.key, e.elem)
		}
	}
	return c
}

// Iterator walks a Map bucket by bucket, then chain entry by chain
// entry. It is instantiated by a call to [Map.Iter] or [Map.Find].
type Iterator[K, E any] struct {
	key  K
	elem E
	m    *Map[K, E]
	// buckets is the Map's bucket array from when the Iterator was
	// created. A rehash replaces the Map's array but not this one, so
	// a stale Iterator keeps walking the table it started on.
	buckets []*entry[K, E]
	bucket  int          // current chain; -1 before the first Next, len(buckets) at the end
	e       *entry[K, E] // current entry; nil before the first Next and at the end
}

// Iter instantiates an Iterator positioned before the first entry of
// m. Iteration is in bucket order: chains are visited from bucket 0
// upward, entries within a chain oldest first. The Iterator stays
// valid across element updates and deletes of entries other than its
// current one; any rehash (growth or shrink) or a delete of the
// current entry invalidates it.
func (m *Map[K, E]) Iter() *Iterator[K, E] {
	if m == nil {
		return &Iterator[K, E]{}
	}
	return &Iterator[K, E]{
		m:       m,
		buckets: m.buckets,
		bucket:  -1,
	}
}

// Find returns an Iterator positioned at the entry for key; Next
// continues from there over the remainder of the Map. When key is
// absent the end iterator is returned. [Iterator.Valid] distinguishes
// the two. Find is the mutable counterpart of [Map.Get]: SetElem on
// the result updates the found entry in place.
func (m *Map[K, E]) Find(key K) *Iterator[K, E] {
	if m == nil {
		return &Iterator[K, E]{}
	}
	it := &Iterator[K, E]{
		m:       m,
		buckets: m.buckets,
		bucket:  len(m.buckets),
	}
	if m.count == 0 {
		return it
	}
	b := m.bucketIndex(key)
	for e := m.buckets[b]; e != nil; e = e.next {
		if m.equal(key, e.key) {
			it.bucket = int(b)
			it.e = e
			it.key = e.key
			it.elem = e.elem
			break
		}
	}
	return it
}

// Next moves the iterator to the next entry, skipping empty buckets.
// Next returns false when the iterator is complete.
func (it *Iterator[K, E]) Next() bool {
	if it.m == nil {
		return false
	}
	if it.e != nil {
		it.e = it.e.next
	}
	for it.e == nil {
		it.bucket++
		if it.bucket >= len(it.buckets) {
			// end of iteration
			it.bucket = len(it.buckets)
			var zeroK K
			var zeroE E
			it.key = zeroK
			it.elem = zeroE
			return false
		}
		it.e = it.buckets[it.bucket]
	}
	it.key = it.e.key
	it.elem = it.e.elem
	return true
}

// Key returns the key at the iterator's current position. This is
// only valid after a call to Next that returns true, or a Find that
// located its key.
func (it *Iterator[K, E]) Key() K {
	return it.key
}

// Elem returns the element at the iterator's current position. This
// is only valid after a call to Next that returns true, or a Find
// that located its key.
func (it *Iterator[K, E]) Elem() E {
	return it.elem
}

// SetElem overwrites the element at the iterator's current position
// in place. It panics when the iterator is not positioned on an
// entry.
func (it *Iterator[K, E]) SetElem(elem E) {
	if it.e == nil {
		panic("SetElem called on iterator not positioned on an entry")
	}
	it.e.elem = elem
	it.elem = elem
}

// Valid reports whether the iterator is positioned on an entry.
func (it *Iterator[K, E]) Valid() bool {
	return it.e != nil
}

// Equal reports whether it and other are at the same position: the
// same bucket and the same entry. All end iterators of a Map compare
// equal to each other. Comparing iterators of different Maps is
// meaningless.
func (it *Iterator[K, E]) Equal(other *Iterator[K, E]) bool {
	return it.bucket == other.bucket && it.e == other.e
}
