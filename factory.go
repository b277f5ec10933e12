package archon

// factory implements the factory pattern for archon's top-level types.
type factory struct{}

// Factory is the global factory instance for constructing a World.
var Factory factory

// NewWorld constructs an empty World.
func (f factory) NewWorld() *World {
	return NewWorld()
}
