package archon

// entityRecord is one row of the entity directory: the generation
// counter for this id slot, whether the slot currently names a live
// entity, and (if live) where its component data is stored.
type entityRecord struct {
	generation uint32
	live       bool
	loc        entityLocation
}

// entityDirectory allocates entity identities, tracks liveness, recycles
// freed ids, and maps id -> location. It is the directory component
// from the spec: every other piece of the Coordinator routes through it
// to find out where an entity's data actually lives.
type entityDirectory struct {
	records []entityRecord
	recycle []uint32
}

// allocate returns a fresh Entity. A recycled id is reused as-is: its
// generation was already bumped by the free() that retired it, so
// reuse hands back that generation rather than bumping it again —
// bumping in both places would mean an id recycled once comes back at
// generation 2, not 1. A brand-new id starts at generation 0.
func (d *entityDirectory) allocate() Entity {
	if n := len(d.recycle); n > 0 {
		id := d.recycle[n-1]
		d.recycle = d.recycle[:n-1]
		rec := &d.records[id-1]
		rec.live = true
		rec.loc = entityLocation{}
		return Entity{ID: id, Generation: rec.generation}
	}
	d.records = append(d.records, entityRecord{generation: 0, live: true})
	id := uint32(len(d.records))
	return Entity{ID: id, Generation: 0}
}

// free marks e's slot not live, bumps its stored generation so any
// lingering copy of e compares unequal to whatever is allocated next
// for this id, and pushes the id onto the recycle stack. A no-op for an
// invalid or already-dead Entity.
func (d *entityDirectory) free(e Entity) {
	if !d.isLive(e) {
		return
	}
	rec := &d.records[e.ID-1]
	rec.live = false
	rec.generation++
	rec.loc = entityLocation{}
	d.recycle = append(d.recycle, e.ID)
}

// isLive reports whether e.ID is in range, its slot is live, and its
// stored generation matches e.Generation exactly.
func (d *entityDirectory) isLive(e Entity) bool {
	if e.ID == 0 || int(e.ID) > len(d.records) {
		return false
	}
	rec := &d.records[e.ID-1]
	return rec.live && rec.generation == e.Generation
}

// setLocation updates the directory row for a live id.
func (d *entityDirectory) setLocation(id uint32, loc entityLocation) {
	d.records[id-1].loc = loc
}

// location returns the current location for id and whether that row is
// live. Invalid or out-of-range ids return the zero location and false.
func (d *entityDirectory) location(id uint32) (entityLocation, bool) {
	if id == 0 || int(id) > len(d.records) {
		return entityLocation{}, false
	}
	rec := &d.records[id-1]
	return rec.loc, rec.live
}
