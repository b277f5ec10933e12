package archon

import "testing"

func TestQueryCollect(t *testing.T) {
	w := NewWorld()
	CreateEntity1(w, Position{X: 1})
	CreateEntity1(w, Position{X: 2})
	CreateEntity1(w, Position{X: 3})

	q := NewQuery1[Position](w)
	defer q.Close()

	values := q.Collect()
	if len(values) != 3 {
		t.Fatalf("Collect() returned %d values, want 3", len(values))
	}

	sum := 0.0
	for _, v := range values {
		sum += v.X
	}
	if sum != 6 {
		t.Fatalf("sum of collected X = %v, want 6", sum)
	}
}

func TestQueryAllIterator(t *testing.T) {
	w := NewWorld()
	e1 := CreateEntity1(w, Position{X: 1})
	e2 := CreateEntity1(w, Position{X: 2})

	q := NewQuery1[Position](w)
	defer q.Close()

	seen := map[Entity]float64{}
	for m := range q.All() {
		seen[m.Entity] = m.C1.X
	}

	if len(seen) != 2 {
		t.Fatalf("All() yielded %d entities, want 2", len(seen))
	}
	if seen[e1] != 1 || seen[e2] != 2 {
		t.Fatalf("All() values = %v, want {%v:1 %v:2}", seen, e1, e2)
	}
}

func TestQueryAllEarlyExit(t *testing.T) {
	w := NewWorld()
	for i := 0; i < 10; i++ {
		CreateEntity1(w, Position{X: float64(i)})
	}

	q := NewQuery1[Position](w)
	defer q.Close()

	count := 0
	for range q.All() {
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Fatalf("early break should stop the iterator at 3, got %d", count)
	}
}

func TestQueryLenMatchesForEachVisits(t *testing.T) {
	w := NewWorld()
	for i := 0; i < 37; i++ {
		CreateEntity2(w, Position{}, Velocity{})
	}

	q := NewQuery2[Position, Velocity](w)
	defer q.Close()

	visited := 0
	q.ForEach(func(Entity, *Position, *Velocity) { visited++ })

	if q.Len() != visited {
		t.Fatalf("Len() = %d, ForEach visited %d", q.Len(), visited)
	}
}

func TestQueryEmptyResultHasZeroLen(t *testing.T) {
	w := NewWorld()
	CreateEntity1(w, Velocity{})

	q := NewQuery1[Position](w)
	defer q.Close()

	if q.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 for a query matching nothing", q.Len())
	}
}
