package order

// IDGenerator hands out client order ids: strictly increasing, never reused,
// starting at 1. Each Manager owns its own generator.
type IDGenerator struct {
	last uint64
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns the next unused id.
func (g *IDGenerator) Next() uint64 {
	g.last++
	return g.last
}

// Last returns the most recently issued id, 0 if none.
func (g *IDGenerator) Last() uint64 { return g.last }
