package archon

import (
	"reflect"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/mask"
)

// World is the Coordinator: the sole public surface for creating and
// destroying entities, adding/removing/reading components, and
// constructing queries. It owns the entity directory and the archetype
// table keyed by signature.
type World struct {
	reg        *registry
	dir        entityDirectory
	archetypes map[Signature]*archetype

	borrows        mask.Mask256
	nextBorrow     uint32
	freeBorrowBits []uint32
}

// NewWorld constructs an empty World ready for use.
func NewWorld() *World {
	return &World{
		reg:        newRegistry(),
		archetypes: make(map[Signature]*archetype),
	}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func componentID[T any](w *World) ComponentID {
	return w.reg.idFor(typeOf[T]())
}

// ComponentName returns the registered name for a component id, for
// debugging and error messages.
func (w *World) ComponentName(id ComponentID) string {
	return w.reg.meta(id).name
}

// ComponentByName returns the id registered under a type's name, for
// debug tooling that only has a name string in hand. False if no
// component with that name has been registered yet.
func (w *World) ComponentByName(name string) (ComponentID, bool) {
	return w.reg.lookupByName(name)
}

// EntityCount returns the total number of live entities across every
// archetype.
func (w *World) EntityCount() int {
	n := 0
	for _, a := range w.archetypes {
		n += a.entityCount()
	}
	return n
}

// ArchetypeCount returns the number of distinct signatures that have
// ever been touched in this World.
func (w *World) ArchetypeCount() int {
	return len(w.archetypes)
}

func (w *World) archetypeFor(sig Signature) *archetype {
	if a, ok := w.archetypes[sig]; ok {
		return a
	}
	a := newArchetype(sig, w.reg)
	w.archetypes[sig] = a
	return a
}

func (w *World) location(e Entity) (entityLocation, bool) {
	if !w.dir.isLive(e) {
		return entityLocation{}, false
	}
	loc, _ := w.dir.location(e.ID)
	return loc, true
}

// requireMutable panics if any Query currently borrows this World.
// Called at the start of every structural mutation.
func (w *World) requireMutable() {
	if !w.borrows.IsEmpty() {
		panic(bark.AddTrace(WorldBorrowedError{}))
	}
}

// beginBorrow allocates a lock bit for a Query and marks it held,
// reusing a bit freed by a since-closed Query when one is available.
func (w *World) beginBorrow() uint32 {
	if n := len(w.freeBorrowBits); n > 0 {
		bit := w.freeBorrowBits[n-1]
		w.freeBorrowBits = w.freeBorrowBits[:n-1]
		w.borrows.Mark(bit)
		return bit
	}
	bit := w.nextBorrow
	w.nextBorrow++
	w.borrows.Mark(bit)
	return bit
}

// endBorrow releases a Query's lock bit back to the pool.
func (w *World) endBorrow(bit uint32) {
	w.borrows.Unmark(bit)
	w.freeBorrowBits = append(w.freeBorrowBits, bit)
}

// NewEntity creates an entity with no components, placed in the
// empty-signature archetype.
func (w *World) NewEntity() Entity {
	w.requireMutable()
	e := w.dir.allocate()
	a := w.archetypeFor(0)
	c, slot := a.allocSlot(e)
	w.dir.setLocation(e.ID, entityLocation{archetype: a, chunk: c, slot: slot})
	return e
}

// DestroyEntity frees e. A no-op if e is already dead or invalid.
func (w *World) DestroyEntity(e Entity) {
	if !w.dir.isLive(e) {
		return
	}
	w.requireMutable()
	loc, _ := w.dir.location(e.ID)
	moved, ok := loc.archetype.remove(loc.chunk, loc.slot)
	if ok {
		w.dir.setLocation(moved.ID, entityLocation{archetype: loc.archetype, chunk: loc.chunk, slot: loc.slot})
	}
	w.dir.free(e)
}

// AddComponent attaches T to e, migrating it to the archetype for
// old_sig | bit(T) and preserving every component it already had. If e
// already carries T, the existing value is overwritten in place and no
// migration happens. Returns a pointer to the stored value.
func AddComponent[T any](w *World, e Entity, value T) *T {
	id := componentID[T](w)
	loc, live := w.location(e)
	if !live {
		panic(bark.AddTrace(DeadEntityError{Entity: e}))
	}

	oldSig := loc.archetype.signature
	if oldSig.Has(id) {
		w.requireMutable()
		ptr := (*T)(loc.chunk.componentPtr(id, loc.slot))
		*ptr = value
		return ptr
	}
	w.requireMutable()

	newSig := oldSig.With(id)
	dst := w.archetypeFor(newSig)
	dstChunk, dstSlot := dst.allocSlot(e)
	loc.chunk.copySlotTo(loc.slot, dstChunk, dstSlot)
	ptr := (*T)(dstChunk.componentPtr(id, dstSlot))
	*ptr = value

	moved, ok := loc.archetype.remove(loc.chunk, loc.slot)
	if ok {
		w.dir.setLocation(moved.ID, entityLocation{archetype: loc.archetype, chunk: loc.chunk, slot: loc.slot})
	}
	w.dir.setLocation(e.ID, entityLocation{archetype: dst, chunk: dstChunk, slot: dstSlot})
	return ptr
}

// RemoveComponent detaches T from e, migrating it to the archetype for
// old_sig &^ bit(T). A no-op if e does not carry T.
func RemoveComponent[T any](w *World, e Entity) {
	id := componentID[T](w)
	loc, live := w.location(e)
	if !live {
		panic(bark.AddTrace(DeadEntityError{Entity: e}))
	}
	if !loc.archetype.signature.Has(id) {
		return
	}
	w.requireMutable()

	newSig := loc.archetype.signature.Without(id)
	dst := w.archetypeFor(newSig)
	dstChunk, dstSlot := dst.allocSlot(e)
	loc.chunk.copySlotTo(loc.slot, dstChunk, dstSlot)

	moved, ok := loc.archetype.remove(loc.chunk, loc.slot)
	if ok {
		w.dir.setLocation(moved.ID, entityLocation{archetype: loc.archetype, chunk: loc.chunk, slot: loc.slot})
	}
	w.dir.setLocation(e.ID, entityLocation{archetype: dst, chunk: dstChunk, slot: dstSlot})
}

// GetComponent returns a pointer to e's T value. Panics if e is not
// live or does not carry T.
func GetComponent[T any](w *World, e Entity) *T {
	id := componentID[T](w)
	loc, live := w.location(e)
	if !live {
		panic(bark.AddTrace(DeadEntityError{Entity: e}))
	}
	if !loc.archetype.signature.Has(id) {
		panic(bark.AddTrace(MissingComponentError{Entity: e, Component: w.reg.meta(id).name}))
	}
	return (*T)(loc.chunk.componentPtr(id, loc.slot))
}

// HasComponent reports whether e currently carries T. False for a dead
// or invalid entity.
func HasComponent[T any](w *World, e Entity) bool {
	id := componentID[T](w)
	loc, live := w.location(e)
	if !live {
		return false
	}
	return loc.archetype.signature.Has(id)
}

// createEntity resolves sig's archetype once, allocates a slot for a
// fresh entity directly in it, and hands the slot to fill to populate
// every component in place — no sequential single-component migration
// and no throwaway archetype per signature prefix.
func (w *World) createEntity(sig Signature, fill func(c *chunk, slot int)) Entity {
	w.requireMutable()
	e := w.dir.allocate()
	a := w.archetypeFor(sig)
	c, slot := a.allocSlot(e)
	fill(c, slot)
	w.dir.setLocation(e.ID, entityLocation{archetype: a, chunk: c, slot: slot})
	return e
}

// CreateEntity1 creates an entity carrying a single component.
func CreateEntity1[T1 any](w *World, c1 T1) Entity {
	id1 := componentID[T1](w)
	sig := Signature(0).With(id1)
	return w.createEntity(sig, func(c *chunk, slot int) {
		*(*T1)(c.componentPtr(id1, slot)) = c1
	})
}

// CreateEntity2 creates an entity carrying two components.
func CreateEntity2[T1, T2 any](w *World, c1 T1, c2 T2) Entity {
	id1 := componentID[T1](w)
	id2 := componentID[T2](w)
	sig := Signature(0).With(id1).With(id2)
	return w.createEntity(sig, func(c *chunk, slot int) {
		*(*T1)(c.componentPtr(id1, slot)) = c1
		*(*T2)(c.componentPtr(id2, slot)) = c2
	})
}

// CreateEntity3 creates an entity carrying three components.
func CreateEntity3[T1, T2, T3 any](w *World, c1 T1, c2 T2, c3 T3) Entity {
	id1 := componentID[T1](w)
	id2 := componentID[T2](w)
	id3 := componentID[T3](w)
	sig := Signature(0).With(id1).With(id2).With(id3)
	return w.createEntity(sig, func(c *chunk, slot int) {
		*(*T1)(c.componentPtr(id1, slot)) = c1
		*(*T2)(c.componentPtr(id2, slot)) = c2
		*(*T3)(c.componentPtr(id3, slot)) = c3
	})
}

// CreateEntity4 creates an entity carrying four components.
func CreateEntity4[T1, T2, T3, T4 any](w *World, c1 T1, c2 T2, c3 T3, c4 T4) Entity {
	id1 := componentID[T1](w)
	id2 := componentID[T2](w)
	id3 := componentID[T3](w)
	id4 := componentID[T4](w)
	sig := Signature(0).With(id1).With(id2).With(id3).With(id4)
	return w.createEntity(sig, func(c *chunk, slot int) {
		*(*T1)(c.componentPtr(id1, slot)) = c1
		*(*T2)(c.componentPtr(id2, slot)) = c2
		*(*T3)(c.componentPtr(id3, slot)) = c3
		*(*T4)(c.componentPtr(id4, slot)) = c4
	})
}
