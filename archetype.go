package archon

// archetype groups every entity sharing one exact component signature
// into an ordered list of chunks. Chunks are append-only: a full chunk
// is never compacted or reclaimed, a new one is appended behind it, and
// an archetype is never left with zero chunks once constructed.
type archetype struct {
	signature Signature
	chunks    []*chunk
	reg       *registry
}

func newArchetype(sig Signature, reg *registry) *archetype {
	a := &archetype{signature: sig, reg: reg}
	a.chunks = append(a.chunks, newChunk(sig, reg))
	return a
}

// allocSlot returns a chunk with room for one more entity, appending the
// entity and returning (chunk, slot). A new chunk is appended whenever
// the last one is full.
func (a *archetype) allocSlot(e Entity) (*chunk, int) {
	last := a.chunks[len(a.chunks)-1]
	if !last.hasSpace() {
		last = newChunk(a.signature, a.reg)
		a.chunks = append(a.chunks, last)
	}
	slot := last.append(e)
	return last, slot
}

// remove deletes the entity at (c, slot) via swap-remove. If a
// different entity occupied the chunk's last live slot, it is reported
// back so the caller can fix up its directory row.
func (a *archetype) remove(c *chunk, slot int) (Entity, bool) {
	return c.swapRemove(slot)
}

// entityCount sums live entities across every chunk.
func (a *archetype) entityCount() int {
	n := 0
	for _, c := range a.chunks {
		n += c.count
	}
	return n
}
