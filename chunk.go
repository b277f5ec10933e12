package archon

import (
	"strconv"
	"unsafe"
)

// chunkColumn is one component's contiguous storage region within a
// chunk: capacity*size bytes, one value per slot, addressed directly by
// slot*size.
type chunkColumn struct {
	id   ComponentID
	meta *componentMeta
	data []byte
}

// chunk is the fixed-byte-capacity SoA slab described in the spec: one
// column per component type in its signature, a dense entity array, and
// a capacity computed once at construction that never changes. A chunk
// is never resized; when it fills, its archetype appends a new one.
type chunk struct {
	signature  Signature
	capacity   int
	count      int
	entities   []Entity
	columns    []chunkColumn
	colIndex   [256]int8 // ComponentID -> index into columns, or -1
	allTrivial bool
}

// newChunk builds a chunk for signature sig, sizing its capacity from
// Config.ChunkSizeBytes and never going below
// Config.MinEntitiesPerChunk entities even when that means enlarging
// the byte capacity beyond the configured target.
func newChunk(sig Signature, reg *registry) *chunk {
	ids := sig.components()

	var stride uintptr
	for _, id := range ids {
		stride += reg.meta(id).size
	}

	capacity := Config.MinEntitiesPerChunk
	if stride > 0 {
		if natural := Config.ChunkSizeBytes / int(stride); natural > capacity {
			capacity = natural
		}
	}

	c := &chunk{
		signature:  sig,
		capacity:   capacity,
		entities:   make([]Entity, capacity),
		columns:    make([]chunkColumn, len(ids)),
		allTrivial: true,
	}
	for i := range c.colIndex {
		c.colIndex[i] = -1
	}
	for i, id := range ids {
		meta := reg.meta(id)
		c.columns[i] = chunkColumn{
			id:   id,
			meta: meta,
			data: make([]byte, capacity*int(meta.size)),
		}
		c.colIndex[id] = int8(i)
		if !meta.trivial {
			c.allTrivial = false
		}
	}
	return c
}

// hasSpace reports whether the chunk can accept one more entity.
func (c *chunk) hasSpace() bool {
	return c.count < c.capacity
}

// append writes e into the next free slot, leaving its component
// columns at that slot uninitialised, and returns the slot index.
func (c *chunk) append(e Entity) int {
	slot := c.count
	c.entities[slot] = e
	c.count++
	return slot
}

// swapRemove removes the entity at slot. If a different entity occupied
// the last live slot, it is moved into the freed one and returned as
// (movedEntity, true) so the caller (the Coordinator) can fix up that
// entity's directory row. Returns (zero Entity, false) when the removed
// slot was already the last one, so nothing moved.
func (c *chunk) swapRemove(slot int) (Entity, bool) {
	last := c.count - 1
	if slot == last {
		c.clearSlot(last)
		c.count--
		return Entity{}, false
	}

	moved := c.entities[last]
	c.entities[slot] = moved
	for i := range c.columns {
		col := &c.columns[i]
		sz := int(col.meta.size)
		dst := col.data[slot*sz : slot*sz+sz]
		src := col.data[last*sz : last*sz+sz]
		if col.meta.copyFn != nil {
			col.meta.copyFn(dst, src)
		} else {
			copy(dst, src)
		}
	}
	c.clearSlot(last)
	c.count--
	return moved, true
}

// clearSlot releases any GC reference held by slot's non-trivial
// columns. Trivial columns are left as-is; nothing in them needs
// collecting and the spec only requires slots below count be defined.
func (c *chunk) clearSlot(slot int) {
	for i := range c.columns {
		col := &c.columns[i]
		if col.meta.dropFn == nil {
			continue
		}
		sz := int(col.meta.size)
		col.meta.dropFn(col.data[slot*sz : slot*sz+sz])
	}
}

// colIdx returns the column index for a component id within this
// chunk's signature, or -1 if the chunk's signature does not include it.
func (c *chunk) colIdx(id ComponentID) int {
	return int(c.colIndex[id])
}

// slotBytes returns the byte range backing one component value.
func (c *chunk) slotBytes(colIdx, slot int) []byte {
	col := &c.columns[colIdx]
	sz := int(col.meta.size)
	return col.data[slot*sz : slot*sz+sz]
}

// componentPtr returns an O(1) pointer to component id's value at slot.
// Panics if id is not part of this chunk's signature — callers (Get/Add/
// RemoveComponent, query construction) are required to check
// HasComponent/signature membership first.
func (c *chunk) componentPtr(id ComponentID, slot int) unsafe.Pointer {
	idx := c.colIdx(id)
	if idx < 0 {
		panic(MissingComponentError{Component: "component_id " + strconv.Itoa(int(id))})
	}
	b := c.slotBytes(idx, slot)
	return unsafe.Pointer(unsafe.SliceData(b))
}

// columnBase returns a pointer to the first element of a column, for
// callers (the query engine) that advance through a whole chunk with
// pointer arithmetic rather than re-deriving an offset per slot.
func (c *chunk) columnBase(colIdx int) unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(c.columns[colIdx].data))
}

// copySlotTo copies every component this chunk and dst have in common
// from srcSlot into dstSlot. Components present only in dst are left
// untouched (the caller must write them); components present only in
// this chunk are not copied. This is the migration primitive that
// preserves component values across a signature transition.
func (c *chunk) copySlotTo(srcSlot int, dst *chunk, dstSlot int) {
	for i := range c.columns {
		col := &c.columns[i]
		dstIdx := dst.colIdx(col.id)
		if dstIdx < 0 {
			continue
		}
		src := c.slotBytes(i, srcSlot)
		dstBytes := dst.slotBytes(dstIdx, dstSlot)
		if col.meta.copyFn != nil {
			col.meta.copyFn(dstBytes, src)
		} else {
			copy(dstBytes, src)
		}
	}
}
