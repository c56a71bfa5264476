package btree

import (
	"math/rand"
	"testing"

	"github.com/ielm/ordertree/container"
)

func entriesAscending(t *BTree[int, string]) []container.Entry[int, string] {
	return t.Elements()
}

func assertAscending(t *testing.T, entries []container.Entry[int, string]) {
	t.Helper()
	for i := 1; i < len(entries); i++ {
		if !(entries[i-1].Key < entries[i].Key) {
			t.Fatalf("entries not strictly ascending at %d: %v <= %v", i, entries[i-1].Key, entries[i].Key)
		}
	}
}

// assertBalanced checks §8.10-12: every leaf sits at the same depth,
// internal nodes hold between MIN_KEYS and MAX_KEYS keys (root
// excepted), and len(children) == len(keys)+1 everywhere.
func assertBalanced(t *testing.T, bt *BTree[int, string]) {
	t.Helper()
	if bt.root == nil {
		return
	}
	leafDepth := -1
	var walk func(n *node[int, string], depth int, isRoot bool)
	walk = func(n *node[int, string], depth int, isRoot bool) {
		if !n.isLeaf() {
			if len(n.children) != len(n.keys)+1 {
				t.Fatalf("node has %d children and %d keys", len(n.children), len(n.keys))
			}
			if !isRoot && len(n.keys) < bt.minKeys {
				t.Fatalf("internal node underflowed: %d keys < min %d", len(n.keys), bt.minKeys)
			}
		}
		if len(n.keys) > bt.maxKeys {
			t.Fatalf("node overflowed: %d keys > max %d", len(n.keys), bt.maxKeys)
		}
		if !isRoot && len(n.keys) < bt.minKeys && n.isLeaf() {
			t.Fatalf("leaf underflowed: %d keys < min %d", len(n.keys), bt.minKeys)
		}
		for i := 1; i < len(n.keys); i++ {
			if !(n.keys[i-1] < n.keys[i]) {
				t.Fatalf("keys not ascending within node")
			}
		}
		if n.isLeaf() {
			if leafDepth == -1 {
				leafDepth = depth
			} else if leafDepth != depth {
				t.Fatalf("leaf depth mismatch: %d vs %d", leafDepth, depth)
			}
			return
		}
		for _, c := range n.children {
			walk(c, depth+1, false)
		}
	}
	walk(bt.root, 0, true)
}

func TestInsertSearchBasic(t *testing.T) {
	bt := New[int, string](4)
	if !bt.Insert(5, "five") {
		t.Fatal("expected fresh insert to succeed")
	}
	if bt.Insert(5, "five-again") {
		t.Fatal("expected duplicate insert to fail")
	}
	if got := bt.Search(5); got.IsNone() || got.Unwrap() != "five" {
		t.Fatalf("search returned %v, want five", got)
	}
	if bt.Search(99).IsSome() {
		t.Fatal("search for absent key should be None")
	}
	if !bt.Contains(5) || bt.Contains(99) {
		t.Fatal("Contains mismatch")
	}
}

func TestInsertAscendingThenRemove(t *testing.T) {
	bt := New[int, string](4)
	for i := 1; i <= 10; i++ {
		if !bt.Insert(i, "v") {
			t.Fatalf("insert %d failed", i)
		}
	}
	assertAscending(t, entriesAscending(bt))
	assertBalanced(t, bt)
	if bt.Count() != 10 {
		t.Fatalf("count = %d, want 10", bt.Count())
	}

	v := bt.Remove(10)
	if v.IsNone() || v.Unwrap() != "v" {
		t.Fatalf("remove(10) = %v", v)
	}
	if bt.Count() != 9 {
		t.Fatalf("count after remove = %d, want 9", bt.Count())
	}
	if bt.Contains(10) {
		t.Fatal("10 should be gone")
	}
	assertBalanced(t, bt)
}

func TestUpdateUpsert(t *testing.T) {
	bt := New[int, string](4)
	if got := bt.Update(1, "x"); got.IsSome() {
		t.Fatal("update on missing key should return None")
	}
	if bt.Contains(1) {
		t.Fatal("update must not insert")
	}
	bt.Insert(1, "a")
	old := bt.Update(1, "b")
	if old.IsNone() || old.Unwrap() != "a" {
		t.Fatalf("update returned %v, want Some(a)", old)
	}
	if bt.Search(1).Unwrap() != "b" {
		t.Fatal("update did not replace value")
	}

	old = bt.Upsert(1, "c")
	if old.IsNone() || old.Unwrap() != "b" {
		t.Fatalf("upsert-replace returned %v", old)
	}
	old = bt.Upsert(2, "new")
	if old.IsSome() {
		t.Fatal("upsert-insert should return None")
	}
	if !bt.Contains(2) {
		t.Fatal("upsert should have inserted key 2")
	}
}

func TestFloorCeilingPredecessorSuccessor(t *testing.T) {
	bt := New[int, string](4)
	for _, k := range []int{10, 20, 30, 40, 50} {
		bt.Insert(k, "v")
	}

	if v := bt.Floor(25); v.IsNone() || v.Unwrap().Key != 20 {
		t.Fatalf("Floor(25) = %v, want 20", v)
	}
	if v := bt.Floor(10); v.IsNone() || v.Unwrap().Key != 10 {
		t.Fatalf("Floor(10) = %v, want 10 (exact)", v)
	}
	if v := bt.Floor(5); v.IsSome() {
		t.Fatalf("Floor(5) = %v, want None", v)
	}
	if v := bt.Ceiling(25); v.IsNone() || v.Unwrap().Key != 30 {
		t.Fatalf("Ceiling(25) = %v, want 30", v)
	}
	if v := bt.Ceiling(50); v.IsNone() || v.Unwrap().Key != 50 {
		t.Fatalf("Ceiling(50) = %v, want 50 (exact)", v)
	}
	if v := bt.Ceiling(55); v.IsSome() {
		t.Fatalf("Ceiling(55) = %v, want None", v)
	}
	if v := bt.Predecessor(30); v.IsNone() || v.Unwrap().Key != 20 {
		t.Fatalf("Predecessor(30) = %v, want 20", v)
	}
	if v := bt.Predecessor(10); v.IsSome() {
		t.Fatalf("Predecessor(10) = %v, want None", v)
	}
	if v := bt.Successor(30); v.IsNone() || v.Unwrap().Key != 40 {
		t.Fatalf("Successor(30) = %v, want 40", v)
	}
	if v := bt.Successor(50); v.IsSome() {
		t.Fatalf("Successor(50) = %v, want None", v)
	}
}

func TestMinMaxRange(t *testing.T) {
	bt := New[int, string](4)
	if bt.Min().IsSome() || bt.Max().IsSome() {
		t.Fatal("empty tree should have no min/max")
	}
	for _, k := range []int{7, 2, 9, 4, 1, 8, 3, 6, 5} {
		bt.Insert(k, "v")
	}
	if bt.Min().Unwrap().Key != 1 {
		t.Fatalf("Min = %v, want 1", bt.Min())
	}
	if bt.Max().Unwrap().Key != 9 {
		t.Fatalf("Max = %v, want 9", bt.Max())
	}
	r := bt.Range(3, 6)
	want := []int{3, 4, 5, 6}
	if len(r) != len(want) {
		t.Fatalf("Range(3,6) = %v, want keys %v", r, want)
	}
	for i, e := range r {
		if e.Key != want[i] {
			t.Fatalf("Range(3,6)[%d] = %d, want %d", i, e.Key, want[i])
		}
	}
	if out := bt.Range(100, 200); out != nil {
		t.Fatalf("Range outside domain = %v, want nil", out)
	}
}

func TestTraverseEarlyStop(t *testing.T) {
	bt := New[int, string](4)
	for i := 1; i <= 20; i++ {
		bt.Insert(i, "v")
	}
	var seen []int
	bt.Traverse(func(e container.Entry[int, string]) bool {
		seen = append(seen, e.Key)
		return e.Key < 5
	})
	if len(seen) != 5 {
		t.Fatalf("early-stop traverse visited %d entries, want 5", len(seen))
	}

	var rev []int
	bt.ReversedTraverse(func(e container.Entry[int, string]) bool {
		rev = append(rev, e.Key)
		return len(rev) < 3
	})
	if len(rev) != 3 || rev[0] != 20 || rev[1] != 19 || rev[2] != 18 {
		t.Fatalf("reversed early-stop = %v", rev)
	}
}

func TestElementsSequenceMatchesElements(t *testing.T) {
	bt := New[int, string](4)
	for i := 1; i <= 30; i++ {
		bt.Insert(i, "v")
	}
	var fromSeq []int
	it := bt.ElementsSequence()
	for it.HasNext() {
		fromSeq = append(fromSeq, it.Next().Unwrap().Key)
	}
	var fromElements []int
	for _, e := range bt.Elements() {
		fromElements = append(fromElements, e.Key)
	}
	if len(fromSeq) != len(fromElements) {
		t.Fatalf("lengths differ: %d vs %d", len(fromSeq), len(fromElements))
	}
	for i := range fromSeq {
		if fromSeq[i] != fromElements[i] {
			t.Fatalf("mismatch at %d: %d vs %d", i, fromSeq[i], fromElements[i])
		}
	}

	rit := bt.ReversedSequence()
	if rit.Next().Unwrap().Key != 30 {
		t.Fatal("reversed sequence should start at max")
	}
}

func TestBulkLoad(t *testing.T) {
	entries := make([]container.Entry[int, string], 0, 50)
	for i := 0; i < 50; i++ {
		entries = append(entries, container.Entry[int, string]{Key: i, Value: "v"})
	}
	bt := BulkLoad[int, string](4, entries)
	assertAscending(t, bt.Elements())
	assertBalanced(t, bt)
	if bt.Count() != 50 {
		t.Fatalf("count = %d, want 50", bt.Count())
	}
	for i := 0; i < 50; i++ {
		if !bt.Contains(i) {
			t.Fatalf("bulk-loaded tree missing key %d", i)
		}
	}
}

func TestBulkLoadRejectsUnordered(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on unordered bulk-load input")
		}
	}()
	BulkLoad[int, string](4, []container.Entry[int, string]{
		{Key: 2, Value: "a"},
		{Key: 1, Value: "b"},
	})
}

func TestNewRejectsSmallOrder(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for order < 3")
		}
	}()
	New[int, string](2)
}

// TestRandomizedInsertRemoveProperties exercises both insertion
// strategies and both removal strategies against a reference map,
// checking structural invariants and result parity (§8 universal
// invariants, §9 "scenario S6" style property checking).
func TestRandomizedInsertRemoveProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, order := range []int{3, 4, 5, 8} {
		bt := New[int, int](order)
		reference := map[int]int{}

		for i := 0; i < 500; i++ {
			key := rng.Intn(200)
			value := rng.Intn(1000)
			op := rng.Intn(3)
			switch op {
			case 0, 1:
				var ok bool
				if rng.Intn(2) == 0 {
					ok = bt.Insert(key, value)
				} else {
					ok = bt.InsertTopDown(key, value)
				}
				_, existed := reference[key]
				if ok == existed {
					t.Fatalf("order %d: insert(%d) ok=%v, existed=%v", order, key, ok, existed)
				}
				if !existed {
					reference[key] = value
				}
			case 2:
				var v int
				var found bool
				if rng.Intn(2) == 0 {
					opt := bt.Remove(key)
					found = opt.IsSome()
					if found {
						v = opt.Unwrap()
					}
				} else {
					opt := bt.RemoveBottomUp(key)
					found = opt.IsSome()
					if found {
						v = opt.Unwrap()
					}
				}
				refVal, existed := reference[key]
				if found != existed {
					t.Fatalf("order %d: remove(%d) found=%v, existed=%v", order, key, found, existed)
				}
				if found && v != refVal {
					t.Fatalf("order %d: remove(%d) = %d, want %d", order, key, v, refVal)
				}
				delete(reference, key)
			}
		}

		if bt.Count() != len(reference) {
			t.Fatalf("order %d: count = %d, want %d", order, bt.Count(), len(reference))
		}
		for k, v := range reference {
			got := bt.Search(k)
			if got.IsNone() || got.Unwrap() != v {
				t.Fatalf("order %d: search(%d) = %v, want %d", order, k, got, v)
			}
		}
		elements := bt.Elements()
		if len(elements) != len(reference) {
			t.Fatalf("order %d: Elements length = %d, want %d", order, len(elements), len(reference))
		}
		for i := 1; i < len(elements); i++ {
			if !(elements[i-1].Key < elements[i].Key) {
				t.Fatalf("order %d: Elements not ascending", order)
			}
		}
	}
}
