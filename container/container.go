// Package container defines the ordered-collection contract (§4.1)
// shared by the btree, bplustree, and splay engines, and implements
// its "pure convenience" bulk operations once, generically, instead
// of once per engine.
//
// This generalizes the teacher's tree.Tree[K,V] interface and
// BaseTree shared base (collections/tree/tree.go) from "any tree" to
// "any ordered container", and drops the teacher's pluggable
// comp.Comparator[K] in favor of natural ordering only, per spec
// Non-goals.
//
// Go has no subscript/operator-overloading equivalent to the source
// system's `tree[k]` syntax; Upsert and Remove already provide that
// behavior (§8.7) under their own names, so no separate subscript
// method is declared here.
package container

import (
	"github.com/ielm/ordertree/ordered"
	"github.com/ielm/ordertree/res"
)

// Entry is a materialized (key, value) pair, replacing the teacher's
// tree.Node/KeyValue pair types as the bulk-read unit.
type Entry[K ordered.Ordered, V any] struct {
	Key   K
	Value V
}

// Visitor is applied to entries during a traversal; returning false
// stops the traversal early.
type Visitor[K ordered.Ordered, V any] func(Entry[K, V]) bool

// Iterator generalizes collections.Iterator[T] to key/value entries.
// Returned iterators borrow the tree; mutating the tree while an
// iterator is live is unsupported (§3, §9 "Iterator lifetime").
type Iterator[K ordered.Ordered, V any] interface {
	HasNext() bool
	Next() res.Option[Entry[K, V]]
}

// Container is the ordered-collection contract every engine
// implements (§4.1).
type Container[K ordered.Ordered, V any] interface {
	Search(key K) res.Option[V]
	Contains(key K) bool
	Insert(key K, value V) bool
	Update(key K, value V) res.Option[V]
	Upsert(key K, value V) res.Option[V]
	Remove(key K) res.Option[V]
	Clear()

	Count() int
	IsEmpty() bool

	Floor(key K) res.Option[Entry[K, V]]
	Ceiling(key K) res.Option[Entry[K, V]]
	Predecessor(key K) res.Option[Entry[K, V]]
	Successor(key K) res.Option[Entry[K, V]]
	Range(lo, hi K) []Entry[K, V]

	Min() res.Option[Entry[K, V]]
	Max() res.Option[Entry[K, V]]

	Keys() []K
	Values() []V
	Elements() []Entry[K, V]
	Reversed() []Entry[K, V]

	Traverse(visit Visitor[K, V])
	ReversedTraverse(visit Visitor[K, V])

	ElementsSequence() Iterator[K, V]
	ReversedSequence() Iterator[K, V]
}

// sliceIterator adapts a pre-materialized slice of entries to the
// Iterator interface. The three engines do not use it: each one's
// ElementsSequence/ReversedSequence returns its own lazy cursor.
type sliceIterator[K ordered.Ordered, V any] struct {
	entries []Entry[K, V]
	pos     int
}

// NewSliceIterator builds an Iterator over a pre-materialized,
// already-ordered slice of entries.
func NewSliceIterator[K ordered.Ordered, V any](entries []Entry[K, V]) Iterator[K, V] {
	return &sliceIterator[K, V]{entries: entries}
}

func (it *sliceIterator[K, V]) HasNext() bool {
	return it.pos < len(it.entries)
}

func (it *sliceIterator[K, V]) Next() res.Option[Entry[K, V]] {
	if !it.HasNext() {
		return res.None[Entry[K, V]]()
	}
	e := it.entries[it.pos]
	it.pos++
	return res.Some(e)
}

// Collect runs a Traverse-shaped function (ascending or descending)
// and materializes every visited entry into a slice. Keys, Values,
// Elements, and Reversed are all convenience projections over this.
func Collect[K ordered.Ordered, V any](traverse func(Visitor[K, V])) []Entry[K, V] {
	var out []Entry[K, V]
	traverse(func(e Entry[K, V]) bool {
		out = append(out, e)
		return true
	})
	return out
}

// CollectKeys projects Collect down to just the keys.
func CollectKeys[K ordered.Ordered, V any](traverse func(Visitor[K, V])) []K {
	entries := Collect(traverse)
	keys := make([]K, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// CollectValues projects Collect down to just the values.
func CollectValues[K ordered.Ordered, V any](traverse func(Visitor[K, V])) []V {
	entries := Collect(traverse)
	values := make([]V, len(entries))
	for i, e := range entries {
		values[i] = e.Value
	}
	return values
}

// MapEntries applies f to every entry visited by traverse, in order.
func MapEntries[K ordered.Ordered, V any, R any](traverse func(Visitor[K, V]), f func(Entry[K, V]) R) []R {
	var out []R
	traverse(func(e Entry[K, V]) bool {
		out = append(out, f(e))
		return true
	})
	return out
}

// CompactMap applies f to every entry visited by traverse, keeping
// only the results for which f reports ok.
func CompactMap[K ordered.Ordered, V any, R any](traverse func(Visitor[K, V]), f func(Entry[K, V]) (R, bool)) []R {
	var out []R
	traverse(func(e Entry[K, V]) bool {
		if r, ok := f(e); ok {
			out = append(out, r)
		}
		return true
	})
	return out
}

// Reduce folds every entry visited by traverse into an accumulator.
func Reduce[K ordered.Ordered, V any, R any](traverse func(Visitor[K, V]), init R, f func(R, Entry[K, V]) R) R {
	acc := init
	traverse(func(e Entry[K, V]) bool {
		acc = f(acc, e)
		return true
	})
	return acc
}
