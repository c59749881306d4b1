package memory

import (
	"fmt"
	"sync/atomic"
)

// SequenceGenerator generates predictable IDs, for tests.
type SequenceGenerator struct {
	prefix string
	next   atomic.Int64
}

// NewSequenceGenerator creates a generator producing prefix-1, prefix-2, ...
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

// Generate returns the next ID.
func (g *SequenceGenerator) Generate() string {
	return fmt.Sprintf("%s-%06d", g.prefix, g.next.Add(1))
}
