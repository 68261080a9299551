package ident

import (
	"strconv"

	"github.com/google/uuid"
)

// Generator supplies unique identifiers for members, ledger entries, and
// embedded records.
type Generator interface {
	New() string
}

// UUID generates random version 4 identifiers.
type UUID struct{}

func (UUID) New() string { return uuid.NewString() }

// Sequence hands out "prefix-1", "prefix-2", ... for deterministic tests.
type Sequence struct {
	Prefix string
	n      int
}

func (s *Sequence) New() string {
	s.n++
	return s.Prefix + "-" + strconv.Itoa(s.n)
}
