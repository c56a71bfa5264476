// Package splay implements the self-adjusting Splay Tree variant of
// the ordered-collection contract (§4.4): plain binary search tree
// ordering, no balance invariant, and a top-down splay on every
// access that moves the last-touched key to the root.
//
// Nothing in the retrieval pack implements a splay tree, so the core
// algorithm here is built directly from the specification text rather
// than adapted from a source file. The node shape (key/value/left/right,
// no parent pointer) and the plain-recursive-descent style of its
// helpers are grounded on the two binary search tree examples in the
// pack (bst-tree.go, bst-bst.go), the closest structural analogs
// available, adapted to carry values and to splay instead of just search.
package splay

import (
	"github.com/ielm/ordertree/container"
	"github.com/ielm/ordertree/ordered"
	"github.com/ielm/ordertree/res"
)

type node[K ordered.Ordered, V any] struct {
	key         K
	value       V
	left, right *node[K, V]
}

// Splay is a self-adjusting binary search tree implementing
// container.Container[K, V]. It has no configurable parameters (§6).
type Splay[K ordered.Ordered, V any] struct {
	root  *node[K, V]
	count int
}

// New constructs an empty splay tree.
func New[K ordered.Ordered, V any]() *Splay[K, V] {
	return &Splay[K, V]{}
}

// splay is the top-down splay described in §4.4: a single sentinel's
// left/right children serve as the heads of the right/left trees
// assembled during descent, with leftTail/rightTail marking where the
// next node gets attached. After a successful call, t.root holds key
// if present, otherwise the last node visited on the descent path.
func (t *Splay[K, V]) splay(key K) {
	if t.root == nil {
		return
	}
	var sentinel node[K, V]
	leftTail, rightTail := &sentinel, &sentinel
	cur := t.root

	for {
		switch {
		case key < cur.key:
			if cur.left == nil {
				goto done
			}
			if key < cur.left.key {
				y := cur.left
				cur.left = y.right
				y.right = cur
				cur = y
				if cur.left == nil {
					goto done
				}
			}
			rightTail.left = cur
			rightTail = cur
			cur = cur.left
		case key > cur.key:
			if cur.right == nil {
				goto done
			}
			if key > cur.right.key {
				y := cur.right
				cur.right = y.left
				y.left = cur
				cur = y
				if cur.right == nil {
					goto done
				}
			}
			leftTail.right = cur
			leftTail = cur
			cur = cur.right
		default:
			goto done
		}
	}

done:
	leftTail.right = cur.left
	rightTail.left = cur.right
	cur.left = sentinel.right
	cur.right = sentinel.left
	t.root = cur
}

// Search splays key and reports its value if present (§4.4 "search").
func (t *Splay[K, V]) Search(key K) res.Option[V] {
	if t.root == nil {
		return res.None[V]()
	}
	t.splay(key)
	if t.root.key == key {
		return res.Some(t.root.value)
	}
	return res.None[V]()
}

// Contains reports whether key is present, splaying it regardless.
func (t *Splay[K, V]) Contains(key K) bool {
	return t.Search(key).IsSome()
}

func attachAsRoot[K ordered.Ordered, V any](key K, value V, old *node[K, V]) *node[K, V] {
	n := &node[K, V]{key: key, value: value}
	if key < old.key {
		n.left = old.left
		n.right = old
		old.left = nil
	} else {
		n.right = old.right
		n.left = old
		old.right = nil
	}
	return n
}

// Insert splays key; if it is already present the insert fails.
// Otherwise a new node is created with the old root attached on the
// side matching comparison (§4.4 "insert").
func (t *Splay[K, V]) Insert(key K, value V) bool {
	if t.root == nil {
		t.root = &node[K, V]{key: key, value: value}
		t.count++
		return true
	}
	t.splay(key)
	if t.root.key == key {
		return false
	}
	t.root = attachAsRoot(key, value, t.root)
	t.count++
	return true
}

// Update splays key and overwrites its value in place; it never inserts.
func (t *Splay[K, V]) Update(key K, value V) res.Option[V] {
	if t.root == nil {
		return res.None[V]()
	}
	t.splay(key)
	if t.root.key != key {
		return res.None[V]()
	}
	old := t.root.value
	t.root.value = value
	return res.Some(old)
}

// Upsert splays key, overwriting in place if present or inserting a
// new root otherwise.
func (t *Splay[K, V]) Upsert(key K, value V) res.Option[V] {
	if t.root == nil {
		t.root = &node[K, V]{key: key, value: value}
		t.count++
		return res.None[V]()
	}
	t.splay(key)
	if t.root.key == key {
		old := t.root.value
		t.root.value = value
		return res.Some(old)
	}
	t.root = attachAsRoot(key, value, t.root)
	t.count++
	return res.None[V]()
}

// Remove splays key; if it isn't the new root the key was absent.
// Otherwise the maximum node of the left subtree (found by rightmost
// descent) is detached and becomes the new root, with its right child
// set to the old root's right subtree (§4.4 "remove").
func (t *Splay[K, V]) Remove(key K) res.Option[V] {
	if t.root == nil {
		return res.None[V]()
	}
	t.splay(key)
	if t.root.key != key {
		return res.None[V]()
	}
	val := t.root.value
	oldRight := t.root.right

	if t.root.left == nil {
		t.root = oldRight
	} else if t.root.left.right == nil {
		newRoot := t.root.left
		newRoot.right = oldRight
		t.root = newRoot
	} else {
		parent := t.root.left
		cur := parent.right
		for cur.right != nil {
			parent = cur
			cur = cur.right
		}
		parent.right = cur.left
		cur.left = t.root.left
		cur.right = oldRight
		t.root = cur
	}
	t.count--
	return res.Some(val)
}

// Clear empties the tree.
func (t *Splay[K, V]) Clear() {
	t.root = nil
	t.count = 0
}

// Count returns the number of entries stored.
func (t *Splay[K, V]) Count() int { return t.count }

// IsEmpty reports whether the tree holds no entries.
func (t *Splay[K, V]) IsEmpty() bool { return t.count == 0 }

// Height returns the number of node levels from root to the deepest
// leaf, inclusive, or 0 for an empty tree. Not part of the shared
// contract; splay trees have no balance guarantee so this is exposed
// purely as a diagnostic.
func (t *Splay[K, V]) Height() int { return heightOf(t.root) }

func heightOf[K ordered.Ordered, V any](n *node[K, V]) int {
	if n == nil {
		return 0
	}
	l, r := heightOf(n.left), heightOf(n.right)
	if l > r {
		return l + 1
	}
	return r + 1
}

func maxOf[K ordered.Ordered, V any](n *node[K, V]) res.Option[container.Entry[K, V]] {
	if n == nil {
		return res.None[container.Entry[K, V]]()
	}
	for n.right != nil {
		n = n.right
	}
	return res.Some(container.Entry[K, V]{Key: n.key, Value: n.value})
}

func minOf[K ordered.Ordered, V any](n *node[K, V]) res.Option[container.Entry[K, V]] {
	if n == nil {
		return res.None[container.Entry[K, V]]()
	}
	for n.left != nil {
		n = n.left
	}
	return res.Some(container.Entry[K, V]{Key: n.key, Value: n.value})
}

// Min returns the smallest stored entry, splaying it to the root.
func (t *Splay[K, V]) Min() res.Option[container.Entry[K, V]] {
	if t.root == nil {
		return res.None[container.Entry[K, V]]()
	}
	n := t.root
	for n.left != nil {
		n = n.left
	}
	t.splay(n.key)
	return res.Some(container.Entry[K, V]{Key: t.root.key, Value: t.root.value})
}

// Max returns the largest stored entry, splaying it to the root.
func (t *Splay[K, V]) Max() res.Option[container.Entry[K, V]] {
	if t.root == nil {
		return res.None[container.Entry[K, V]]()
	}
	n := t.root
	for n.right != nil {
		n = n.right
	}
	t.splay(n.key)
	return res.Some(container.Entry[K, V]{Key: t.root.key, Value: t.root.value})
}

// Floor splays key and returns the new root if its key is <= key (key
// itself, or its predecessor when key is absent); otherwise the root is
// key's successor and the maximum of its left subtree is returned
// (§4.4 "Range / neighbor queries").
func (t *Splay[K, V]) Floor(key K) res.Option[container.Entry[K, V]] {
	if t.root == nil {
		return res.None[container.Entry[K, V]]()
	}
	t.splay(key)
	if t.root.key <= key {
		return res.Some(container.Entry[K, V]{Key: t.root.key, Value: t.root.value})
	}
	return maxOf(t.root.left)
}

// Ceiling splays key and returns the new root if its key is >= key (key
// itself, or its successor when key is absent); otherwise the root is
// key's predecessor and the minimum of its right subtree is returned.
func (t *Splay[K, V]) Ceiling(key K) res.Option[container.Entry[K, V]] {
	if t.root == nil {
		return res.None[container.Entry[K, V]]()
	}
	t.splay(key)
	if t.root.key >= key {
		return res.Some(container.Entry[K, V]{Key: t.root.key, Value: t.root.value})
	}
	return minOf(t.root.right)
}

// Predecessor splays key and returns the largest stored key strictly
// less than key.
func (t *Splay[K, V]) Predecessor(key K) res.Option[container.Entry[K, V]] {
	if t.root == nil {
		return res.None[container.Entry[K, V]]()
	}
	t.splay(key)
	if t.root.key < key {
		return res.Some(container.Entry[K, V]{Key: t.root.key, Value: t.root.value})
	}
	return maxOf(t.root.left)
}

// Successor splays key and returns the smallest stored key strictly
// greater than key.
func (t *Splay[K, V]) Successor(key K) res.Option[container.Entry[K, V]] {
	if t.root == nil {
		return res.None[container.Entry[K, V]]()
	}
	t.splay(key)
	if t.root.key > key {
		return res.Some(container.Entry[K, V]{Key: t.root.key, Value: t.root.value})
	}
	return minOf(t.root.right)
}

func inorderBounded[K ordered.Ordered, V any](n *node[K, V], hi K, out *[]container.Entry[K, V]) bool {
	if n == nil {
		return true
	}
	if !inorderBounded(n.left, hi, out) {
		return false
	}
	if n.key > hi {
		return false
	}
	*out = append(*out, container.Entry[K, V]{Key: n.key, Value: n.value})
	return inorderBounded(n.right, hi, out)
}

// Range splays lo, includes the resulting root if it falls in
// [lo, hi], then walks the right subtree in order, bounded by hi
// (§4.4 "Range / neighbor queries").
func (t *Splay[K, V]) Range(lo, hi K) []container.Entry[K, V] {
	if t.root == nil || hi < lo {
		return nil
	}
	t.splay(lo)
	var out []container.Entry[K, V]
	if t.root.key >= lo && t.root.key <= hi {
		out = append(out, container.Entry[K, V]{Key: t.root.key, Value: t.root.value})
	}
	inorderBounded(t.root.right, hi, &out)
	return out
}

func countNodes[K ordered.Ordered, V any](n *node[K, V]) int {
	if n == nil {
		return 0
	}
	return 1 + countNodes(n.left) + countNodes(n.right)
}

// Split splays k and cuts the tree at the root (§4.4 "split"): if the
// root key is less than k, the left result is the root with its right
// child removed and the right result is the former right subtree;
// otherwise the mirror. The receiver becomes empty.
func (t *Splay[K, V]) Split(k K) (*Splay[K, V], *Splay[K, V]) {
	if t.root == nil {
		return New[K, V](), New[K, V]()
	}
	t.splay(k)

	var left, right *Splay[K, V]
	if t.root.key < k {
		leftRoot := t.root
		rightRoot := leftRoot.right
		leftRoot.right = nil
		left = &Splay[K, V]{root: leftRoot}
		right = &Splay[K, V]{root: rightRoot}
	} else {
		rightRoot := t.root
		leftRoot := rightRoot.left
		rightRoot.left = nil
		left = &Splay[K, V]{root: leftRoot}
		right = &Splay[K, V]{root: rightRoot}
	}
	left.count = countNodes(left.root)
	right.count = countNodes(right.root)

	t.root = nil
	t.count = 0
	return left, right
}

// Join requires this tree's maximum key to be strictly less than
// other's minimum key. On success, this tree's maximum is splayed to
// its root and other's root is attached as its right child; other
// becomes empty. On precondition failure, neither tree is mutated
// (§4.4 "join").
func (t *Splay[K, V]) Join(other *Splay[K, V]) bool {
	if other == nil || other.root == nil {
		return true
	}
	if t.root == nil {
		t.root, t.count = other.root, other.count
		other.root, other.count = nil, 0
		return true
	}

	maxNode := t.root
	for maxNode.right != nil {
		maxNode = maxNode.right
	}
	minNode := other.root
	for minNode.left != nil {
		minNode = minNode.left
	}
	if !(maxNode.key < minNode.key) {
		return false
	}

	t.splay(maxNode.key)
	t.root.right = other.root
	t.count += other.count
	other.root, other.count = nil, 0
	return true
}

type ascIter[K ordered.Ordered, V any] struct {
	stack []*node[K, V]
}

func (it *ascIter[K, V]) pushLeftSpine(n *node[K, V]) {
	for n != nil {
		it.stack = append(it.stack, n)
		n = n.left
	}
}

func newAscIter[K ordered.Ordered, V any](root *node[K, V]) *ascIter[K, V] {
	it := &ascIter[K, V]{}
	it.pushLeftSpine(root)
	return it
}

func (it *ascIter[K, V]) HasNext() bool { return len(it.stack) > 0 }

func (it *ascIter[K, V]) Next() res.Option[container.Entry[K, V]] {
	if !it.HasNext() {
		return res.None[container.Entry[K, V]]()
	}
	n := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	it.pushLeftSpine(n.right)
	return res.Some(container.Entry[K, V]{Key: n.key, Value: n.value})
}

type descIter[K ordered.Ordered, V any] struct {
	stack []*node[K, V]
}

func (it *descIter[K, V]) pushRightSpine(n *node[K, V]) {
	for n != nil {
		it.stack = append(it.stack, n)
		n = n.right
	}
}

func newDescIter[K ordered.Ordered, V any](root *node[K, V]) *descIter[K, V] {
	it := &descIter[K, V]{}
	it.pushRightSpine(root)
	return it
}

func (it *descIter[K, V]) HasNext() bool { return len(it.stack) > 0 }

func (it *descIter[K, V]) Next() res.Option[container.Entry[K, V]] {
	if !it.HasNext() {
		return res.None[container.Entry[K, V]]()
	}
	n := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	it.pushRightSpine(n.left)
	return res.Some(container.Entry[K, V]{Key: n.key, Value: n.value})
}

// Traverse visits every entry in ascending order. It does not splay;
// the splay-on-read warning (§4.4) applies to the point queries, not
// full scans.
func (t *Splay[K, V]) Traverse(visit container.Visitor[K, V]) {
	it := newAscIter(t.root)
	for it.HasNext() {
		if !visit(it.Next().Unwrap()) {
			return
		}
	}
}

// ReversedTraverse visits every entry in descending order.
func (t *Splay[K, V]) ReversedTraverse(visit container.Visitor[K, V]) {
	it := newDescIter(t.root)
	for it.HasNext() {
		if !visit(it.Next().Unwrap()) {
			return
		}
	}
}

// Keys returns every key in ascending order.
func (t *Splay[K, V]) Keys() []K { return container.CollectKeys(t.Traverse) }

// Values returns every value in key-ascending order.
func (t *Splay[K, V]) Values() []V { return container.CollectValues(t.Traverse) }

// Elements returns every entry in ascending order.
func (t *Splay[K, V]) Elements() []container.Entry[K, V] { return container.Collect(t.Traverse) }

// Reversed returns every entry in descending order.
func (t *Splay[K, V]) Reversed() []container.Entry[K, V] {
	return container.Collect(t.ReversedTraverse)
}

// ElementsSequence returns a lazy ascending cursor.
func (t *Splay[K, V]) ElementsSequence() container.Iterator[K, V] {
	return newAscIter(t.root)
}

// ReversedSequence returns a lazy descending cursor.
func (t *Splay[K, V]) ReversedSequence() container.Iterator[K, V] {
	return newDescIter(t.root)
}

var _ container.Container[int, int] = (*Splay[int, int])(nil)
