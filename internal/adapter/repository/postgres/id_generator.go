package postgres

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// ULIDGenerator issues entry IDs. ULIDs sort by creation time, which keeps
// the id tiebreaker of listings roughly chronological.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate returns a new lowercase ULID.
func (g *ULIDGenerator) Generate() string {
	return strings.ToLower(ulid.Make().String())
}
