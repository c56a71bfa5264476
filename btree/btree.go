// Package btree implements the classic Knuth order-m B-Tree variant of
// the ordered-collection contract (§4.2): every node, leaf or internal,
// carries real key/value pairs.
//
// The node and split/merge shape is ported from
// collections/tree/btree/btree.go and l00pss-treego/btree/btree.go,
// re-parameterized from a CLRS-style minimum degree t to an order m
// (MAX_KEYS = m-1, MIN_KEYS = ceil(m/2)-1) and generalized from a fixed
// key/value type to K/V type parameters. Recursive delete-with-rebalance
// follows the same borrow-left/borrow-right/merge policy as
// l00pss-treego's handleChildUnderflow; top-down insertion and the
// bottom-up delete variant have no direct source analog and are built
// from the operation descriptions in §4.2.
package btree

import (
	"github.com/ielm/ordertree/container"
	"github.com/ielm/ordertree/errors"
	"github.com/ielm/ordertree/ordered"
	"github.com/ielm/ordertree/res"
)

// node holds keys, values and (for internal nodes) children in lockstep.
// A node is a leaf exactly when children is empty; this keeps btree
// closer to its teacher sources, which use a single struct with an
// explicit leaf flag rather than distinct leaf/internal Go types.
type node[K ordered.Ordered, V any] struct {
	keys     []K
	values   []V
	children []*node[K, V]
}

func (n *node[K, V]) isLeaf() bool {
	return len(n.children) == 0
}

// BTree is an order-m B-Tree implementing container.Container[K, V].
type BTree[K ordered.Ordered, V any] struct {
	root       *node[K, V]
	count      int
	order      int
	maxKeys    int
	minKeys    int
	splitIndex int
}

// DefaultOrder is used by NewDefault, matching the default in §6.
const DefaultOrder = 16

// New constructs an empty B-Tree of the given order. order must be at
// least 3; a smaller order is a programmer error (§7) and panics.
func New[K ordered.Ordered, V any](order int) *BTree[K, V] {
	if order < 3 {
		panic(errors.New(errors.ErrInvalidOrder, "btree: order must be >= 3"))
	}
	minKeys := (order+1)/2 - 1
	return &BTree[K, V]{
		order:      order,
		maxKeys:    order - 1,
		minKeys:    minKeys,
		splitIndex: minKeys,
	}
}

// NewDefault constructs an empty B-Tree using DefaultOrder.
func NewDefault[K ordered.Ordered, V any]() *BTree[K, V] {
	return New[K, V](DefaultOrder)
}

func (t *BTree[K, V]) newLeafNode() *node[K, V] {
	return &node[K, V]{
		keys:   make([]K, 0, t.order),
		values: make([]V, 0, t.order),
	}
}

func (t *BTree[K, V]) newInternalNode() *node[K, V] {
	return &node[K, V]{
		keys:     make([]K, 0, t.order),
		values:   make([]V, 0, t.order),
		children: make([]*node[K, V], 0, t.order+1),
	}
}

func (t *BTree[K, V]) newNodeLike(n *node[K, V]) *node[K, V] {
	if n.isLeaf() {
		return t.newLeafNode()
	}
	return t.newInternalNode()
}

// BulkLoad builds a B-Tree from entries already sorted in strictly
// ascending key order (§4.2 "Bulk-load"). A non-ascending input is a
// programmer error and panics.
func BulkLoad[K ordered.Ordered, V any](order int, entries []container.Entry[K, V]) *BTree[K, V] {
	t := New[K, V](order)
	if len(entries) == 0 {
		return t
	}
	for i := 1; i < len(entries); i++ {
		if !(entries[i-1].Key < entries[i].Key) {
			panic(errors.New(errors.ErrUnorderedInput, "btree.BulkLoad: entries must be strictly ascending"))
		}
	}
	nodes, seps := t.buildLeafLevel(entries)
	for len(nodes) > 1 {
		nodes, seps = t.buildParentLevel(nodes, seps)
	}
	t.root = nodes[0]
	t.count = len(entries)
	return t
}

func (t *BTree[K, V]) buildLeafLevel(entries []container.Entry[K, V]) ([]*node[K, V], []container.Entry[K, V]) {
	n := len(entries)
	if n <= t.maxKeys {
		leaf := t.newLeafNode()
		for _, e := range entries {
			leaf.keys = append(leaf.keys, e.Key)
			leaf.values = append(leaf.values, e.Value)
		}
		return []*node[K, V]{leaf}, nil
	}

	g := (n + t.order - 1) / t.order
	if g < 2 {
		g = 2
	}
	// Nudge g until every leaf's data share lands within [minKeys, maxKeys].
	for iterations := 0; iterations < n; iterations++ {
		dataCount := n - (g - 1)
		base, extra := dataCount/g, dataCount%g
		maxSize, minSize := base, base
		if extra > 0 {
			maxSize = base + 1
		}
		if maxSize <= t.maxKeys && minSize >= t.minKeys {
			break
		}
		if maxSize > t.maxKeys {
			g++
			continue
		}
		if minSize < t.minKeys && g > 1 {
			g--
			continue
		}
		break
	}

	dataCount := n - (g - 1)
	base, extra := dataCount/g, dataCount%g

	var leaves []*node[K, V]
	var seps []container.Entry[K, V]
	i := 0
	for j := 0; j < g; j++ {
		size := base
		if j < extra {
			size++
		}
		leaf := t.newLeafNode()
		for _, e := range entries[i : i+size] {
			leaf.keys = append(leaf.keys, e.Key)
			leaf.values = append(leaf.values, e.Value)
		}
		leaves = append(leaves, leaf)
		i += size
		if j < g-1 {
			seps = append(seps, entries[i])
			i++
		}
	}
	return leaves, seps
}

func (t *BTree[K, V]) buildParentLevel(children []*node[K, V], seps []container.Entry[K, V]) ([]*node[K, V], []container.Entry[K, V]) {
	g := len(children)
	if g <= t.order {
		parent := t.newInternalNode()
		parent.children = append(parent.children, children...)
		for _, s := range seps {
			parent.keys = append(parent.keys, s.Key)
			parent.values = append(parent.values, s.Value)
		}
		return []*node[K, V]{parent}, nil
	}

	p := (g + t.order - 1) / t.order
	base, extra := g/p, g%p

	var parents []*node[K, V]
	var newSeps []container.Entry[K, V]
	ci, si := 0, 0
	for j := 0; j < p; j++ {
		childCount := base
		if j < extra {
			childCount++
		}
		parent := t.newInternalNode()
		parent.children = append(parent.children, children[ci:ci+childCount]...)
		keyCount := childCount - 1
		for k := 0; k < keyCount; k++ {
			parent.keys = append(parent.keys, seps[si+k].Key)
			parent.values = append(parent.values, seps[si+k].Value)
		}
		parents = append(parents, parent)
		ci += childCount
		si += keyCount
		if j < p-1 {
			newSeps = append(newSeps, seps[si])
			si++
		}
	}
	return parents, newSeps
}

// Search returns the value stored under key, if any.
func (t *BTree[K, V]) Search(key K) res.Option[V] {
	n := t.root
	for n != nil {
		idx := ordered.LowerBound(n.keys, key)
		if idx < len(n.keys) && n.keys[idx] == key {
			return res.Some(n.values[idx])
		}
		if n.isLeaf() {
			return res.None[V]()
		}
		n = n.children[idx]
	}
	return res.None[V]()
}

// Contains reports whether key is present.
func (t *BTree[K, V]) Contains(key K) bool {
	return t.Search(key).IsSome()
}

func (t *BTree[K, V]) findNodeIdx(key K) (*node[K, V], int, bool) {
	n := t.root
	for n != nil {
		idx := ordered.LowerBound(n.keys, key)
		if idx < len(n.keys) && n.keys[idx] == key {
			return n, idx, true
		}
		if n.isLeaf() {
			return nil, 0, false
		}
		n = n.children[idx]
	}
	return nil, 0, false
}

// Update replaces the value for an existing key, reporting the prior
// value. It does not insert; a missing key returns None unchanged.
func (t *BTree[K, V]) Update(key K, value V) res.Option[V] {
	n, idx, found := t.findNodeIdx(key)
	if !found {
		return res.None[V]()
	}
	old := n.values[idx]
	n.values[idx] = value
	return res.Some(old)
}

// Upsert inserts key/value if key is absent, or replaces the value if
// present, returning the replaced value when one existed.
func (t *BTree[K, V]) Upsert(key K, value V) res.Option[V] {
	n, idx, found := t.findNodeIdx(key)
	if found {
		old := n.values[idx]
		n.values[idx] = value
		return res.Some(old)
	}
	t.Insert(key, value)
	return res.None[V]()
}

type frame[K ordered.Ordered, V any] struct {
	node *node[K, V]
	idx  int
}

func insertAt[K ordered.Ordered, V any](n *node[K, V], idx int, key K, value V) {
	var zeroK K
	var zeroV V
	n.keys = append(n.keys, zeroK)
	n.values = append(n.values, zeroV)
	copy(n.keys[idx+1:], n.keys[idx:])
	copy(n.values[idx+1:], n.values[idx:])
	n.keys[idx] = key
	n.values[idx] = value
}

func removeAt[K ordered.Ordered, V any](n *node[K, V], idx int) (K, V) {
	key, value := n.keys[idx], n.values[idx]
	copy(n.keys[idx:], n.keys[idx+1:])
	copy(n.values[idx:], n.values[idx+1:])
	n.keys = n.keys[:len(n.keys)-1]
	n.values = n.values[:len(n.values)-1]
	return key, value
}

func insertChildAt[K ordered.Ordered, V any](n *node[K, V], idx int, child *node[K, V]) {
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = child
}

func removeChildAt[K ordered.Ordered, V any](n *node[K, V], idx int) {
	copy(n.children[idx:], n.children[idx+1:])
	n.children = n.children[:len(n.children)-1]
}

// splitNode splits n in place: n keeps the left half, a freshly
// allocated right sibling receives the right half, and the middle
// entry (index splitIndex) is returned to be promoted into the parent.
func (t *BTree[K, V]) splitNode(n *node[K, V]) (*node[K, V], K, V) {
	mid := t.splitIndex
	midKey, midVal := n.keys[mid], n.values[mid]

	right := t.newNodeLike(n)
	right.keys = append(right.keys, n.keys[mid+1:]...)
	right.values = append(right.values, n.values[mid+1:]...)
	if !n.isLeaf() {
		right.children = append(right.children, n.children[mid+1:]...)
		n.children = n.children[:mid+1]
	}
	n.keys = n.keys[:mid]
	n.values = n.values[:mid]
	return right, midKey, midVal
}

// Insert adds key/value using bottom-up insertion: descend to a leaf,
// insert, then split back up the recorded ancestor path while a node
// overflows (§4.2 "Insertion, default"). Returns false if key already
// exists.
func (t *BTree[K, V]) Insert(key K, value V) bool {
	if t.root == nil {
		t.root = t.newLeafNode()
		t.root.keys = append(t.root.keys, key)
		t.root.values = append(t.root.values, value)
		t.count++
		return true
	}

	var path []frame[K, V]
	cur := t.root
	for {
		idx := ordered.LowerBound(cur.keys, key)
		if idx < len(cur.keys) && cur.keys[idx] == key {
			return false
		}
		if cur.isLeaf() {
			insertAt(cur, idx, key, value)
			break
		}
		path = append(path, frame[K, V]{cur, idx})
		cur = cur.children[idx]
	}
	t.count++

	child := cur
	for len(child.keys) > t.maxKeys {
		right, midKey, midVal := t.splitNode(child)
		if len(path) == 0 {
			newRoot := t.newInternalNode()
			newRoot.keys = append(newRoot.keys, midKey)
			newRoot.values = append(newRoot.values, midVal)
			newRoot.children = append(newRoot.children, child, right)
			t.root = newRoot
			break
		}
		top := path[len(path)-1]
		path = path[:len(path)-1]
		insertAt(top.node, top.idx, midKey, midVal)
		insertChildAt(top.node, top.idx+1, right)
		child = top.node
	}
	return true
}

// InsertTopDown adds key/value using preemptive splitting: any full
// node encountered on the way down is split before the descent steps
// into it, so the recursion never needs to climb back up (§4.2
// "Insertion, top-down alternate").
func (t *BTree[K, V]) InsertTopDown(key K, value V) bool {
	if t.root == nil {
		t.root = t.newLeafNode()
		t.root.keys = append(t.root.keys, key)
		t.root.values = append(t.root.values, value)
		t.count++
		return true
	}
	if len(t.root.keys) >= t.maxKeys {
		right, midKey, midVal := t.splitNode(t.root)
		newRoot := t.newInternalNode()
		newRoot.keys = append(newRoot.keys, midKey)
		newRoot.values = append(newRoot.values, midVal)
		newRoot.children = append(newRoot.children, t.root, right)
		t.root = newRoot
	}
	inserted := t.insertNonFull(t.root, key, value)
	if inserted {
		t.count++
	}
	return inserted
}

func (t *BTree[K, V]) insertNonFull(n *node[K, V], key K, value V) bool {
	idx := ordered.LowerBound(n.keys, key)
	if idx < len(n.keys) && n.keys[idx] == key {
		return false
	}
	if n.isLeaf() {
		insertAt(n, idx, key, value)
		return true
	}
	child := n.children[idx]
	if len(child.keys) >= t.maxKeys {
		right, midKey, midVal := t.splitNode(child)
		insertAt(n, idx, midKey, midVal)
		insertChildAt(n, idx+1, right)
		switch {
		case key == midKey:
			return false
		case key > midKey:
			idx++
		}
		child = n.children[idx]
	}
	return t.insertNonFull(child, key, value)
}

// borrowFromLeft rotates one entry from children[idx-1] through the
// parent separator into children[idx].
func (t *BTree[K, V]) borrowFromLeft(parent *node[K, V], idx int) {
	child := parent.children[idx]
	left := parent.children[idx-1]

	insertAt(child, 0, parent.keys[idx-1], parent.values[idx-1])
	lastIdx := len(left.keys) - 1
	parent.keys[idx-1], parent.values[idx-1] = left.keys[lastIdx], left.values[lastIdx]
	removeAt(left, lastIdx)
	if !child.isLeaf() {
		insertChildAt(child, 0, left.children[len(left.children)-1])
		removeChildAt(left, len(left.children)-1)
	}
}

// borrowFromRight mirrors borrowFromLeft using children[idx+1].
func (t *BTree[K, V]) borrowFromRight(parent *node[K, V], idx int) {
	child := parent.children[idx]
	right := parent.children[idx+1]

	child.keys = append(child.keys, parent.keys[idx])
	child.values = append(child.values, parent.values[idx])
	parent.keys[idx], parent.values[idx] = right.keys[0], right.values[0]
	removeAt(right, 0)
	if !child.isLeaf() {
		child.children = append(child.children, right.children[0])
		removeChildAt(right, 0)
	}
}

// mergeChildren folds parent.keys[idx] and children[idx+1] into
// children[idx], removing the separator and the right child from
// parent.
func (t *BTree[K, V]) mergeChildren(parent *node[K, V], idx int) {
	left := parent.children[idx]
	right := parent.children[idx+1]

	left.keys = append(left.keys, parent.keys[idx])
	left.values = append(left.values, parent.values[idx])
	left.keys = append(left.keys, right.keys...)
	left.values = append(left.values, right.values...)
	if !left.isLeaf() {
		left.children = append(left.children, right.children...)
	}
	removeAt(parent, idx)
	removeChildAt(parent, idx+1)
}

func (t *BTree[K, V]) maxEntry(n *node[K, V]) (K, V) {
	for !n.isLeaf() {
		n = n.children[len(n.children)-1]
	}
	last := len(n.keys) - 1
	return n.keys[last], n.values[last]
}

func (t *BTree[K, V]) minEntry(n *node[K, V]) (K, V) {
	for !n.isLeaf() {
		n = n.children[0]
	}
	return n.keys[0], n.values[0]
}

// Remove deletes key using the top-down discipline: before stepping
// into any child, ensure it holds more than MIN_KEYS keys by borrowing
// from a sibling or merging, so the recursive call never has to climb
// back up to fix an underflow (§4.2 "Deletion, default").
func (t *BTree[K, V]) Remove(key K) res.Option[V] {
	if t.root == nil {
		return res.None[V]()
	}
	val, found := t.deleteFromNode(t.root, key)
	if t.root != nil && len(t.root.keys) == 0 {
		if t.root.isLeaf() {
			t.root = nil
		} else {
			t.root = t.root.children[0]
		}
	}
	if !found {
		return res.None[V]()
	}
	t.count--
	return res.Some(val)
}

func (t *BTree[K, V]) deleteFromNode(n *node[K, V], key K) (V, bool) {
	idx := ordered.LowerBound(n.keys, key)
	if idx < len(n.keys) && n.keys[idx] == key {
		if n.isLeaf() {
			_, v := removeAt(n, idx)
			return v, true
		}
		return t.deleteFromInternalNode(n, idx, key)
	}
	if n.isLeaf() {
		var zero V
		return zero, false
	}
	if len(n.children[idx].keys) <= t.minKeys {
		t.handleChildUnderflow(n, idx)
		return t.deleteFromNode(n, key)
	}
	return t.deleteFromNode(n.children[idx], key)
}

func (t *BTree[K, V]) deleteFromInternalNode(n *node[K, V], idx int, key K) (V, bool) {
	removedValue := n.values[idx]
	left, right := n.children[idx], n.children[idx+1]

	switch {
	case len(left.keys) > t.minKeys:
		predKey, predVal := t.maxEntry(left)
		n.keys[idx], n.values[idx] = predKey, predVal
		t.deleteFromNode(left, predKey)
	case len(right.keys) > t.minKeys:
		succKey, succVal := t.minEntry(right)
		n.keys[idx], n.values[idx] = succKey, succVal
		t.deleteFromNode(right, succKey)
	default:
		t.mergeChildren(n, idx)
		t.deleteFromNode(n.children[idx], key)
	}
	return removedValue, true
}

func (t *BTree[K, V]) handleChildUnderflow(n *node[K, V], idx int) {
	if idx > 0 && len(n.children[idx-1].keys) > t.minKeys {
		t.borrowFromLeft(n, idx)
		return
	}
	if idx < len(n.children)-1 && len(n.children[idx+1].keys) > t.minKeys {
		t.borrowFromRight(n, idx)
		return
	}
	if idx > 0 {
		t.mergeChildren(n, idx-1)
		return
	}
	t.mergeChildren(n, idx)
}

// RemoveBottomUp deletes key by descending straight to the leaf that
// holds it (swapping with a predecessor first if key lives in an
// internal node), recording the ancestor path, then walking that path
// back up performing borrows/merges wherever a node is left deficient
// (§4.2 "Deletion, bottom-up alternate").
func (t *BTree[K, V]) RemoveBottomUp(key K) res.Option[V] {
	if t.root == nil {
		return res.None[V]()
	}
	var path []frame[K, V]
	cur := t.root
	var removedValue V
	found := false

	for {
		idx := ordered.LowerBound(cur.keys, key)
		if idx < len(cur.keys) && cur.keys[idx] == key {
			removedValue = cur.values[idx]
			if cur.isLeaf() {
				removeAt(cur, idx)
				found = true
				t.fixupBottomUp(path, cur)
				break
			}
			path = append(path, frame[K, V]{cur, idx})
			n := cur.children[idx]
			for !n.isLeaf() {
				path = append(path, frame[K, V]{n, len(n.children) - 1})
				n = n.children[len(n.children)-1]
			}
			lastIdx := len(n.keys) - 1
			cur.keys[idx], cur.values[idx] = n.keys[lastIdx], n.values[lastIdx]
			removeAt(n, lastIdx)
			found = true
			t.fixupBottomUp(path, n)
			break
		}
		if cur.isLeaf() {
			break
		}
		path = append(path, frame[K, V]{cur, idx})
		cur = cur.children[idx]
	}

	if t.root != nil && len(t.root.keys) == 0 {
		if t.root.isLeaf() {
			t.root = nil
		} else {
			t.root = t.root.children[0]
		}
	}
	if !found {
		return res.None[V]()
	}
	t.count--
	return res.Some(removedValue)
}

func (t *BTree[K, V]) fixupBottomUp(path []frame[K, V], deficient *node[K, V]) {
	node := deficient
	for len(node.keys) < t.minKeys && len(path) > 0 {
		top := path[len(path)-1]
		path = path[:len(path)-1]
		parent, idx := top.node, top.idx
		switch {
		case idx > 0 && len(parent.children[idx-1].keys) > t.minKeys:
			t.borrowFromLeft(parent, idx)
		case idx < len(parent.children)-1 && len(parent.children[idx+1].keys) > t.minKeys:
			t.borrowFromRight(parent, idx)
		case idx > 0:
			t.mergeChildren(parent, idx-1)
		default:
			t.mergeChildren(parent, idx)
		}
		node = parent
	}
}

// Clear empties the tree.
func (t *BTree[K, V]) Clear() {
	t.root = nil
	t.count = 0
}

// Count returns the number of entries stored.
func (t *BTree[K, V]) Count() int {
	return t.count
}

// IsEmpty reports whether the tree holds no entries.
func (t *BTree[K, V]) IsEmpty() bool {
	return t.count == 0
}

// Height returns the number of node levels from root to leaf,
// inclusive, or 0 for an empty tree.
func (t *BTree[K, V]) Height() int {
	h := 0
	for n := t.root; n != nil; n = firstChildOrNil(n) {
		h++
		if n.isLeaf() {
			break
		}
	}
	return h
}

func firstChildOrNil[K ordered.Ordered, V any](n *node[K, V]) *node[K, V] {
	if n.isLeaf() {
		return nil
	}
	return n.children[0]
}

func (t *BTree[K, V]) descend(key K) ([]frame[K, V], *node[K, V], int, bool) {
	var path []frame[K, V]
	n := t.root
	for {
		idx := ordered.LowerBound(n.keys, key)
		path = append(path, frame[K, V]{n, idx})
		if idx < len(n.keys) && n.keys[idx] == key {
			return path, n, idx, true
		}
		if n.isLeaf() {
			return path, n, idx, false
		}
		n = n.children[idx]
	}
}

func (t *BTree[K, V]) minOf(n *node[K, V]) container.Entry[K, V] {
	for !n.isLeaf() {
		n = n.children[0]
	}
	return container.Entry[K, V]{Key: n.keys[0], Value: n.values[0]}
}

func (t *BTree[K, V]) maxOf(n *node[K, V]) container.Entry[K, V] {
	for !n.isLeaf() {
		n = n.children[len(n.children)-1]
	}
	last := len(n.keys) - 1
	return container.Entry[K, V]{Key: n.keys[last], Value: n.values[last]}
}

// Predecessor returns the largest stored key strictly less than key,
// using the deepest "left parent" recorded during a single descent
// (§4.2 "Floor/Ceiling/Predecessor/Successor").
func (t *BTree[K, V]) Predecessor(key K) res.Option[container.Entry[K, V]] {
	if t.root == nil {
		return res.None[container.Entry[K, V]]()
	}
	path, found, idx, exists := t.descend(key)
	if exists && !found.isLeaf() {
		return res.Some(t.maxOf(found.children[idx]))
	}
	last := path[len(path)-1]
	if last.idx > 0 {
		return res.Some(container.Entry[K, V]{Key: last.node.keys[last.idx-1], Value: last.node.values[last.idx-1]})
	}
	for i := len(path) - 2; i >= 0; i-- {
		if path[i].idx > 0 {
			n := path[i].node
			return res.Some(container.Entry[K, V]{Key: n.keys[path[i].idx-1], Value: n.values[path[i].idx-1]})
		}
	}
	return res.None[container.Entry[K, V]]()
}

// Successor returns the smallest stored key strictly greater than key.
func (t *BTree[K, V]) Successor(key K) res.Option[container.Entry[K, V]] {
	if t.root == nil {
		return res.None[container.Entry[K, V]]()
	}
	path, found, idx, exists := t.descend(key)
	if exists && !found.isLeaf() {
		return res.Some(t.minOf(found.children[idx+1]))
	}
	last := path[len(path)-1]
	pos := last.idx
	if exists {
		pos++
	}
	if pos < len(last.node.keys) {
		return res.Some(container.Entry[K, V]{Key: last.node.keys[pos], Value: last.node.values[pos]})
	}
	for i := len(path) - 2; i >= 0; i-- {
		if path[i].idx < len(path[i].node.keys) {
			n := path[i].node
			return res.Some(container.Entry[K, V]{Key: n.keys[path[i].idx], Value: n.values[path[i].idx]})
		}
	}
	return res.None[container.Entry[K, V]]()
}

// Floor returns key's entry if present, otherwise its Predecessor.
func (t *BTree[K, V]) Floor(key K) res.Option[container.Entry[K, V]] {
	if v := t.Search(key); v.IsSome() {
		return res.Some(container.Entry[K, V]{Key: key, Value: v.Unwrap()})
	}
	return t.Predecessor(key)
}

// Ceiling returns key's entry if present, otherwise its Successor.
func (t *BTree[K, V]) Ceiling(key K) res.Option[container.Entry[K, V]] {
	if v := t.Search(key); v.IsSome() {
		return res.Some(container.Entry[K, V]{Key: key, Value: v.Unwrap()})
	}
	return t.Successor(key)
}

// Min returns the smallest stored entry.
func (t *BTree[K, V]) Min() res.Option[container.Entry[K, V]] {
	if t.root == nil || t.count == 0 {
		return res.None[container.Entry[K, V]]()
	}
	return res.Some(t.minOf(t.root))
}

// Max returns the largest stored entry.
func (t *BTree[K, V]) Max() res.Option[container.Entry[K, V]] {
	if t.root == nil || t.count == 0 {
		return res.None[container.Entry[K, V]]()
	}
	return res.Some(t.maxOf(t.root))
}

// ascFrame is one level of the explicit stack driving in-order
// traversal; descended tracks whether children[idx] has already been
// pushed for the current idx (§4.2 "Iteration").
type ascFrame[K ordered.Ordered, V any] struct {
	node      *node[K, V]
	idx       int
	descended bool
}

type ascIter[K ordered.Ordered, V any] struct {
	stack  []ascFrame[K, V]
	cached *container.Entry[K, V]
}

func (t *BTree[K, V]) newAscIter() *ascIter[K, V] {
	if t.root == nil {
		return &ascIter[K, V]{}
	}
	return &ascIter[K, V]{stack: []ascFrame[K, V]{{node: t.root}}}
}

func (it *ascIter[K, V]) rawNext() res.Option[container.Entry[K, V]] {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if !top.node.isLeaf() && !top.descended {
			top.descended = true
			if top.idx < len(top.node.children) {
				it.stack = append(it.stack, ascFrame[K, V]{node: top.node.children[top.idx]})
				continue
			}
		}
		if top.idx < len(top.node.keys) {
			e := container.Entry[K, V]{Key: top.node.keys[top.idx], Value: top.node.values[top.idx]}
			top.idx++
			top.descended = false
			return res.Some(e)
		}
		it.stack = it.stack[:len(it.stack)-1]
	}
	return res.None[container.Entry[K, V]]()
}

func (it *ascIter[K, V]) fill() {
	if it.cached != nil {
		return
	}
	if opt := it.rawNext(); opt.IsSome() {
		e := opt.Unwrap()
		it.cached = &e
	}
}

func (it *ascIter[K, V]) HasNext() bool {
	it.fill()
	return it.cached != nil
}

func (it *ascIter[K, V]) Next() res.Option[container.Entry[K, V]] {
	it.fill()
	if it.cached == nil {
		return res.None[container.Entry[K, V]]()
	}
	e := *it.cached
	it.cached = nil
	return res.Some(e)
}

// descFrame mirrors ascFrame, walking children right-to-left.
type descFrame[K ordered.Ordered, V any] struct {
	idx       int
	node      *node[K, V]
	descended bool
}

type descIter[K ordered.Ordered, V any] struct {
	stack  []descFrame[K, V]
	cached *container.Entry[K, V]
}

func (t *BTree[K, V]) newDescIter() *descIter[K, V] {
	if t.root == nil {
		return &descIter[K, V]{}
	}
	return &descIter[K, V]{stack: []descFrame[K, V]{{node: t.root, idx: len(t.root.keys)}}}
}

func (it *descIter[K, V]) rawNext() res.Option[container.Entry[K, V]] {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if !top.node.isLeaf() && !top.descended {
			top.descended = true
			if top.idx >= 0 && top.idx < len(top.node.children) {
				child := top.node.children[top.idx]
				it.stack = append(it.stack, descFrame[K, V]{node: child, idx: len(child.keys)})
				continue
			}
		}
		if top.idx > 0 {
			e := container.Entry[K, V]{Key: top.node.keys[top.idx-1], Value: top.node.values[top.idx-1]}
			top.idx--
			top.descended = false
			return res.Some(e)
		}
		it.stack = it.stack[:len(it.stack)-1]
	}
	return res.None[container.Entry[K, V]]()
}

func (it *descIter[K, V]) fill() {
	if it.cached != nil {
		return
	}
	if opt := it.rawNext(); opt.IsSome() {
		e := opt.Unwrap()
		it.cached = &e
	}
}

func (it *descIter[K, V]) HasNext() bool {
	it.fill()
	return it.cached != nil
}

func (it *descIter[K, V]) Next() res.Option[container.Entry[K, V]] {
	it.fill()
	if it.cached == nil {
		return res.None[container.Entry[K, V]]()
	}
	e := *it.cached
	it.cached = nil
	return res.Some(e)
}

// Traverse visits every entry in ascending order, stopping early if
// visit returns false.
func (t *BTree[K, V]) Traverse(visit container.Visitor[K, V]) {
	it := t.newAscIter()
	for it.HasNext() {
		if !visit(it.Next().Unwrap()) {
			return
		}
	}
}

// ReversedTraverse visits every entry in descending order.
func (t *BTree[K, V]) ReversedTraverse(visit container.Visitor[K, V]) {
	it := t.newDescIter()
	for it.HasNext() {
		if !visit(it.Next().Unwrap()) {
			return
		}
	}
}

// ElementsSequence returns a lazy ascending cursor over the tree.
func (t *BTree[K, V]) ElementsSequence() container.Iterator[K, V] {
	return t.newAscIter()
}

// ReversedSequence returns a lazy descending cursor over the tree.
func (t *BTree[K, V]) ReversedSequence() container.Iterator[K, V] {
	return t.newDescIter()
}

// Keys returns every key in ascending order.
func (t *BTree[K, V]) Keys() []K {
	return container.CollectKeys(t.Traverse)
}

// Values returns every value in key-ascending order.
func (t *BTree[K, V]) Values() []V {
	return container.CollectValues(t.Traverse)
}

// Elements returns every entry in ascending order.
func (t *BTree[K, V]) Elements() []container.Entry[K, V] {
	return container.Collect(t.Traverse)
}

// Reversed returns every entry in descending order.
func (t *BTree[K, V]) Reversed() []container.Entry[K, V] {
	return container.Collect(t.ReversedTraverse)
}

// Range returns every entry with lo <= key <= hi, found by descending
// once toward lo and resuming in-order traversal from there (§4.2
// "Range").
func (t *BTree[K, V]) Range(lo, hi K) []container.Entry[K, V] {
	if t.root == nil || hi < lo {
		return nil
	}
	path, _, _, _ := t.descend(lo)
	stack := make([]ascFrame[K, V], len(path))
	for i, p := range path {
		stack[i] = ascFrame[K, V]{node: p.node, idx: p.idx, descended: true}
	}
	it := &ascIter[K, V]{stack: stack}

	var out []container.Entry[K, V]
	for {
		opt := it.rawNext()
		if opt.IsNone() {
			break
		}
		e := opt.Unwrap()
		if e.Key < lo {
			continue
		}
		if e.Key > hi {
			break
		}
		out = append(out, e)
	}
	return out
}

var _ container.Container[int, int] = (*BTree[int, int])(nil)
