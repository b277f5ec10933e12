package archon_test

import (
	"fmt"

	"github.com/kestrelforge/archon"
)

type Position struct{ X, Y float64 }
type Velocity struct{ X, Y float64 }
type Name struct{ Value string }

// Example_basic shows basic archon usage with entity creation and queries.
func Example_basic() {
	world := archon.Factory.NewWorld()

	for i := 0; i < 5; i++ {
		archon.CreateEntity1(world, Position{})
	}
	for i := 0; i < 3; i++ {
		archon.CreateEntity2(world, Position{}, Velocity{})
	}

	named := archon.CreateEntity3(world, Position{X: 10, Y: 20}, Velocity{X: 1, Y: 2}, Name{Value: "Player"})

	moving := archon.NewQuery2[Position, Velocity](world)
	fmt.Printf("Found %d entities with position and velocity\n", moving.Len())
	moving.Close()

	namedQuery := archon.NewQuery1[Name](world)
	namedQuery.ForEach(func(e archon.Entity, n *Name) {
		if e != named {
			return
		}
		pos := archon.GetComponent[Position](world, e)
		vel := archon.GetComponent[Velocity](world, e)
		pos.X += vel.X
		pos.Y += vel.Y
		fmt.Printf("Updated %s to position (%.1f, %.1f)\n", n.Value, pos.X, pos.Y)
	})
	namedQuery.Close()

	// Output:
	// Found 4 entities with position and velocity
	// Updated Player to position (11.0, 22.0)
}
