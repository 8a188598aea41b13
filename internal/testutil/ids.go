package testutil

import "fmt"

// SequenceIDs hands out "prefix-0001", "prefix-0002", and so on.
// Readable run ids keep stored fixtures and golden files easy to scan.
// Not safe for concurrent use; fixture runs are sequential.
type SequenceIDs struct {
	Prefix string
	n      int
}

// Generate returns the next id in the sequence.
func (g *SequenceIDs) Generate() string {
	g.n++
	return fmt.Sprintf("%s-%04d", g.Prefix, g.n)
}
