// Package sequence issues human-readable document numbers for circulation
// records: a type prefix, the current calendar year and a zero-padded
// ordinal, e.g. BR20250001.
//
// Counters live in process memory and restart at zero with the process;
// uniqueness is only guaranteed within a single process lifetime.
package sequence

import (
	"fmt"
	"sync/atomic"
	"time"
)

const (
	borrowPrefix  = "BR"
	reservePrefix = "RS"
	memberPrefix  = "LIB"
)

// Generator hands out monotonically increasing numbers per prefix.
// Safe for concurrent use.
type Generator struct {
	borrowSeq  atomic.Int64
	reserveSeq atomic.Int64
	memberSeq  atomic.Int64

	now func() time.Time
}

// NewGenerator creates a Generator with all counters at zero.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// NewGeneratorAt creates a Generator whose year component is taken from the
// given clock. Used by tests to pin the year.
func NewGeneratorAt(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// SeedMemberSeq advances the member counter so the next member number starts
// after the given count. Called at startup with the stored member count,
// matching how member numbers continue across restarts.
func (g *Generator) SeedMemberSeq(count int64) {
	g.memberSeq.Store(count)
}

// NextBorrowNumber returns the next borrowing number, e.g. BR20250001.
func (g *Generator) NextBorrowNumber() string {
	return fmt.Sprintf("%s%d%04d", borrowPrefix, g.now().Year(), g.borrowSeq.Add(1))
}

// NextReserveNumber returns the next reservation number, e.g. RS20250001.
func (g *Generator) NextReserveNumber() string {
	return fmt.Sprintf("%s%d%04d", reservePrefix, g.now().Year(), g.reserveSeq.Add(1))
}

// NextMemberNumber returns the next member card number, e.g. LIB2025001.
func (g *Generator) NextMemberNumber() string {
	return fmt.Sprintf("%s%d%03d", memberPrefix, g.now().Year(), g.memberSeq.Add(1))
}
