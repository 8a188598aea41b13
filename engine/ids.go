package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator produces run record ids.
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator issues UUIDv7 ids. Time-ordered ids keep records
// roughly sorted on disk even across engines.
type UUIDGenerator struct{}

func (UUIDGenerator) Generate() string {
	// NewV7 only fails if the entropy source does, which should
	// never happen.
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns a generator that yields the given ids in
// order. Panics when all ids have been consumed. Intended for tests.
func FixedGenerator(ids ...string) IDGenerator {
	return &fixedGenerator{ids: ids}
}

type fixedGenerator struct {
	ids []string
	n   int
}

func (g *fixedGenerator) Generate() string {
	if g.n >= len(g.ids) {
		panic(fmt.Sprintf("fixed generator exhausted after %d ids", len(g.ids)))
	}
	id := g.ids[g.n]
	g.n++
	return id
}
