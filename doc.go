/*
Package archon provides an archetype-based Entity-Component-System (ECS)
storage and query engine for games and simulations.

Archon partitions entities by the exact set of component types they
carry (their "signature") and stores each partition as an ordered list
of fixed-capacity, column-oriented chunks, so that iterating a query
walks contiguous memory instead of chasing pointers.

Core Concepts:

  - Entity: a (id, generation) handle naming a game object; holds no data.
  - Component: a value type attached to an entity, registered on first use.
  - Archetype: the storage partition for every entity sharing one signature.
  - Chunk: a fixed-capacity slab of component columns within an archetype.
  - Query: a compile-time-typed, filtered view over matching chunks.

Basic Usage:

	world := archon.Factory.NewWorld()

	e := archon.CreateEntity2(world, Position{X: 1}, Velocity{X: 1})

	query := archon.NewQuery2[Position, Velocity](world)
	defer query.Close()
	query.ForEach(func(e archon.Entity, pos *Position, vel *Velocity) {
		pos.X += vel.X
	})

Archon is the underlying ECS for a larger engine but also works as a
standalone library.
*/
package archon
