package archon

import (
	"iter"
	"unsafe"

	"github.com/TheBitDrifter/bark"
)

// Without resolves T's component id for use as a query exclusion. It is
// the Go stand-in for the spec's compile-time Without<T> tag: the type
// is still fixed at the call site, only the plumbing into a variadic
// argument list is done at runtime.
func Without[T any](w *World) ComponentID {
	return componentID[T](w)
}

// chunkView is the lightweight, construction-time-only record a query
// keeps per matched, non-empty chunk: the chunk itself, its live count,
// and one cached column index per inclusion type in declared order. The
// iteration methods below never consult archetype or chunk metadata
// beyond this.
type chunkView struct {
	chunk *chunk
	count int
	cols  []int
}

func matchSignature(include, exclude Signature) func(Signature) bool {
	return func(sig Signature) bool {
		return sig.ContainsAll(include) && sig.Disjoint(exclude)
	}
}

func gatherViews(w *World, match func(Signature) bool, colIDs []ComponentID) []chunkView {
	var views []chunkView
	for sig, a := range w.archetypes {
		if !match(sig) {
			continue
		}
		for _, c := range a.chunks {
			if c.count == 0 {
				continue
			}
			cols := make([]int, len(colIDs))
			for i, id := range colIDs {
				cols[i] = c.colIdx(id)
			}
			views = append(views, chunkView{chunk: c, count: c.count, cols: cols})
		}
	}
	return views
}

func checkOverlap(include, exclude Signature) {
	if overlap := include & exclude; overlap != 0 {
		panic(bark.AddTrace(FilterOverlapError{Overlap: overlap}))
	}
}

func componentSize[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

// Query1 is a compile-time-typed view over every live entity carrying
// T1 (and none of its declared exclusions).
type Query1[T1 any] struct {
	world *World
	views []chunkView
	bit   uint32
}

// Match1 is one entity-and-pointer pair yielded by Query1.All.
type Match1[T1 any] struct {
	Entity Entity
	C1     *T1
}

// NewQuery1 constructs a Query1, scanning the archetype table once.
// excludes names component ids (via Without[T](w)) this query must not
// match; passing the same type as both T1 and an exclusion panics.
func NewQuery1[T1 any](w *World, excludes ...ComponentID) *Query1[T1] {
	id1 := componentID[T1](w)
	include := Signature(0).With(id1)
	var exclude Signature
	for _, id := range excludes {
		exclude = exclude.With(id)
	}
	checkOverlap(include, exclude)

	views := gatherViews(w, matchSignature(include, exclude), []ComponentID{id1})
	return &Query1[T1]{world: w, views: views, bit: w.beginBorrow()}
}

// Close releases the query's borrow on the World. Callers must not use
// the query, or perform structural mutation on the World while any
// query remains open, until every open query is closed.
func (q *Query1[T1]) Close() { q.world.endBorrow(q.bit) }

// Len returns the total number of entities this query matches.
func (q *Query1[T1]) Len() int {
	n := 0
	for _, v := range q.views {
		n += v.count
	}
	return n
}

// ForEach visits every matched entity exactly once, in slot-ascending
// order within each chunk, archetype order unspecified.
func (q *Query1[T1]) ForEach(fn func(Entity, *T1)) {
	size1 := componentSize[T1]()
	for _, v := range q.views {
		base1 := v.chunk.columnBase(v.cols[0])
		for i := 0; i < v.count; i++ {
			p1 := (*T1)(unsafe.Add(base1, uintptr(i)*size1))
			fn(v.chunk.entities[i], p1)
		}
	}
}

// All returns a range-for iterator equivalent to ForEach.
func (q *Query1[T1]) All() iter.Seq[Match1[T1]] {
	return func(yield func(Match1[T1]) bool) {
		size1 := componentSize[T1]()
		for _, v := range q.views {
			base1 := v.chunk.columnBase(v.cols[0])
			for i := 0; i < v.count; i++ {
				p1 := (*T1)(unsafe.Add(base1, uintptr(i)*size1))
				if !yield(Match1[T1]{Entity: v.chunk.entities[i], C1: p1}) {
					return
				}
			}
		}
	}
}

// Collect copies every matched T1 value into a freshly-owned slice.
func (q *Query1[T1]) Collect() []T1 {
	out := make([]T1, 0, q.Len())
	q.ForEach(func(_ Entity, p1 *T1) { out = append(out, *p1) })
	return out
}

// Query2 is a compile-time-typed view over every live entity carrying
// both T1 and T2 (and none of its declared exclusions).
type Query2[T1, T2 any] struct {
	world *World
	views []chunkView
	bit   uint32
}

// Match2 is one entity-and-pointers triple yielded by Query2.All.
type Match2[T1, T2 any] struct {
	Entity Entity
	C1     *T1
	C2     *T2
}

func NewQuery2[T1, T2 any](w *World, excludes ...ComponentID) *Query2[T1, T2] {
	id1 := componentID[T1](w)
	id2 := componentID[T2](w)
	include := Signature(0).With(id1).With(id2)
	var exclude Signature
	for _, id := range excludes {
		exclude = exclude.With(id)
	}
	checkOverlap(include, exclude)

	views := gatherViews(w, matchSignature(include, exclude), []ComponentID{id1, id2})
	return &Query2[T1, T2]{world: w, views: views, bit: w.beginBorrow()}
}

func (q *Query2[T1, T2]) Close() { q.world.endBorrow(q.bit) }

func (q *Query2[T1, T2]) Len() int {
	n := 0
	for _, v := range q.views {
		n += v.count
	}
	return n
}

func (q *Query2[T1, T2]) ForEach(fn func(Entity, *T1, *T2)) {
	size1, size2 := componentSize[T1](), componentSize[T2]()
	for _, v := range q.views {
		base1 := v.chunk.columnBase(v.cols[0])
		base2 := v.chunk.columnBase(v.cols[1])
		for i := 0; i < v.count; i++ {
			p1 := (*T1)(unsafe.Add(base1, uintptr(i)*size1))
			p2 := (*T2)(unsafe.Add(base2, uintptr(i)*size2))
			fn(v.chunk.entities[i], p1, p2)
		}
	}
}

func (q *Query2[T1, T2]) All() iter.Seq[Match2[T1, T2]] {
	return func(yield func(Match2[T1, T2]) bool) {
		size1, size2 := componentSize[T1](), componentSize[T2]()
		for _, v := range q.views {
			base1 := v.chunk.columnBase(v.cols[0])
			base2 := v.chunk.columnBase(v.cols[1])
			for i := 0; i < v.count; i++ {
				p1 := (*T1)(unsafe.Add(base1, uintptr(i)*size1))
				p2 := (*T2)(unsafe.Add(base2, uintptr(i)*size2))
				if !yield(Match2[T1, T2]{Entity: v.chunk.entities[i], C1: p1, C2: p2}) {
					return
				}
			}
		}
	}
}

// Tuple2 is the value-copy shape Query2.Collect materialises per entity.
type Tuple2[T1, T2 any] struct {
	C1 T1
	C2 T2
}

func (q *Query2[T1, T2]) Collect() []Tuple2[T1, T2] {
	out := make([]Tuple2[T1, T2], 0, q.Len())
	q.ForEach(func(_ Entity, p1 *T1, p2 *T2) {
		out = append(out, Tuple2[T1, T2]{C1: *p1, C2: *p2})
	})
	return out
}

// Query3 is a compile-time-typed view over every live entity carrying
// T1, T2, and T3 (and none of its declared exclusions).
type Query3[T1, T2, T3 any] struct {
	world *World
	views []chunkView
	bit   uint32
}

// Match3 is one entity-and-pointers group yielded by Query3.All.
type Match3[T1, T2, T3 any] struct {
	Entity Entity
	C1     *T1
	C2     *T2
	C3     *T3
}

func NewQuery3[T1, T2, T3 any](w *World, excludes ...ComponentID) *Query3[T1, T2, T3] {
	id1 := componentID[T1](w)
	id2 := componentID[T2](w)
	id3 := componentID[T3](w)
	include := Signature(0).With(id1).With(id2).With(id3)
	var exclude Signature
	for _, id := range excludes {
		exclude = exclude.With(id)
	}
	checkOverlap(include, exclude)

	views := gatherViews(w, matchSignature(include, exclude), []ComponentID{id1, id2, id3})
	return &Query3[T1, T2, T3]{world: w, views: views, bit: w.beginBorrow()}
}

func (q *Query3[T1, T2, T3]) Close() { q.world.endBorrow(q.bit) }

func (q *Query3[T1, T2, T3]) Len() int {
	n := 0
	for _, v := range q.views {
		n += v.count
	}
	return n
}

func (q *Query3[T1, T2, T3]) ForEach(fn func(Entity, *T1, *T2, *T3)) {
	size1, size2, size3 := componentSize[T1](), componentSize[T2](), componentSize[T3]()
	for _, v := range q.views {
		base1 := v.chunk.columnBase(v.cols[0])
		base2 := v.chunk.columnBase(v.cols[1])
		base3 := v.chunk.columnBase(v.cols[2])
		for i := 0; i < v.count; i++ {
			p1 := (*T1)(unsafe.Add(base1, uintptr(i)*size1))
			p2 := (*T2)(unsafe.Add(base2, uintptr(i)*size2))
			p3 := (*T3)(unsafe.Add(base3, uintptr(i)*size3))
			fn(v.chunk.entities[i], p1, p2, p3)
		}
	}
}

func (q *Query3[T1, T2, T3]) All() iter.Seq[Match3[T1, T2, T3]] {
	return func(yield func(Match3[T1, T2, T3]) bool) {
		size1, size2, size3 := componentSize[T1](), componentSize[T2](), componentSize[T3]()
		for _, v := range q.views {
			base1 := v.chunk.columnBase(v.cols[0])
			base2 := v.chunk.columnBase(v.cols[1])
			base3 := v.chunk.columnBase(v.cols[2])
			for i := 0; i < v.count; i++ {
				p1 := (*T1)(unsafe.Add(base1, uintptr(i)*size1))
				p2 := (*T2)(unsafe.Add(base2, uintptr(i)*size2))
				p3 := (*T3)(unsafe.Add(base3, uintptr(i)*size3))
				if !yield(Match3[T1, T2, T3]{Entity: v.chunk.entities[i], C1: p1, C2: p2, C3: p3}) {
					return
				}
			}
		}
	}
}

// Tuple3 is the value-copy shape Query3.Collect materialises per entity.
type Tuple3[T1, T2, T3 any] struct {
	C1 T1
	C2 T2
	C3 T3
}

func (q *Query3[T1, T2, T3]) Collect() []Tuple3[T1, T2, T3] {
	out := make([]Tuple3[T1, T2, T3], 0, q.Len())
	q.ForEach(func(_ Entity, p1 *T1, p2 *T2, p3 *T3) {
		out = append(out, Tuple3[T1, T2, T3]{C1: *p1, C2: *p2, C3: *p3})
	})
	return out
}
