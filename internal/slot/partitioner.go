// Package slot implements the capacity-aware record partitioner: admission
// of new records into two bounded text slots (splitting a record across both
// when it is too large for the main slot's headroom) and the inverse
// consolidation that re-merges split records whenever capacity allows.
package slot

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/slotstash/backend/internal/models"
)

// DefaultCapacity is the persisted-field limit of the host environment:
// 1,000,000 characters of serialized text per slot.
const DefaultCapacity = 1_000_000

// Partitioner owns the ordered record sequences of the two slots. All
// methods are synchronous and single-threaded; callers serialize access.
type Partitioner struct {
	capacity int
	main     []models.FileRecord
	overflow []models.FileRecord
}

// NewPartitioner creates an empty Partitioner with the given slot capacity
// (characters of serialized text per slot). Non-positive capacities fall
// back to DefaultCapacity.
func NewPartitioner(capacity int) *Partitioner {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Partitioner{capacity: capacity}
}

// Capacity returns the per-slot limit the partitioner was built with.
func (p *Partitioner) Capacity() int {
	return p.capacity
}

// Load replaces the store with the parsed contents of the two persisted
// slots, main first then overflow. A parse failure of either slot resets
// the whole store to empty; the failure is logged, never returned.
func (p *Partitioner) Load(mainText, overflowText string) {
	main, err := decodeRecords(mainText)
	if err != nil {
		fmt.Printf("[Slot] Warning: resetting store, main slot unreadable: %v\n", err)
		p.main, p.overflow = nil, nil
		return
	}
	overflow, err := decodeRecords(overflowText)
	if err != nil {
		fmt.Printf("[Slot] Warning: resetting store, overflow slot unreadable: %v\n", err)
		p.main, p.overflow = nil, nil
		return
	}
	p.main = main
	p.overflow = overflow
}

// Records returns the full ordered sequence: main slot records followed by
// overflow slot records. The returned slice is a copy.
func (p *Partitioner) Records() []models.FileRecord {
	all := make([]models.FileRecord, 0, len(p.main)+len(p.overflow))
	all = append(all, p.main...)
	all = append(all, p.overflow...)
	return all
}

// MainRecords returns a copy of the main slot's record sequence.
func (p *Partitioner) MainRecords() []models.FileRecord {
	return append([]models.FileRecord(nil), p.main...)
}

// OverflowRecords returns a copy of the overflow slot's record sequence.
func (p *Partitioner) OverflowRecords() []models.FileRecord {
	return append([]models.FileRecord(nil), p.overflow...)
}

// Admit accepts a newly encoded record into the store, splitting it across
// main and overflow when it alone is too large for the main slot's
// remaining headroom. On failure the store is left unmodified and a
// *CapacityExceededError is returned.
func (p *Partitioner) Admit(rec models.FileRecord) error {
	// Whole-record fit in main.
	if serializedLenWith(p.main, rec) <= p.capacity {
		p.main = append(p.main, rec)
		return nil
	}

	headroom := p.capacity - serializedLen(p.main)
	if headroom > 0 {
		parts := splitForBudgets(rec.Data, []int{headroom / 2})
		if parts != nil {
			group := uuid.New().String()
			part1 := models.FileRecord{Name: rec.Name, Data: parts[0], Group: group}
			part2 := models.FileRecord{Name: rec.Name, Data: parts[1], Group: group}
			if serializedLenWith(p.main, part1) <= p.capacity &&
				serializedLenWith(p.overflow, part2) <= p.capacity {
				p.main = append(p.main, part1)
				p.overflow = append(p.overflow, part2)
				return nil
			}
		}
	}

	return &CapacityExceededError{
		Name:      rec.Name,
		Needed:    serializedLenWith(nil, rec),
		Available: headroom,
	}
}

// RemoveByName deletes every record whose name equals name, from both
// slots, removing an entire split group in one step. Returns the number of
// records removed.
func (p *Partitioner) RemoveByName(name string) int {
	removed := 0
	filter := func(in []models.FileRecord) []models.FileRecord {
		out := in[:0]
		for _, r := range in {
			if r.Name == name {
				removed++
				continue
			}
			out = append(out, r)
		}
		return out
	}
	p.main = filter(p.main)
	p.overflow = filter(p.overflow)
	return removed
}

// Usage reports the current serialized footprint of both slots.
func (p *Partitioner) Usage() models.SlotUsage {
	u := models.SlotUsage{
		Capacity:    p.capacity,
		MainSize:    serializedLen(p.main),
		RecordCount: len(p.main) + len(p.overflow),
	}
	if len(p.overflow) > 0 {
		u.HasOverflow = true
		u.OverflowSize = serializedLen(p.overflow)
	}
	return u
}

// splitForBudgets divides data into consecutive parts where part i holds
// budgets[i] characters and the final part takes the remainder. Budgets are
// clamped so that no part is empty; nil is returned when data is too short
// to split at all.
func splitForBudgets(data string, budgets []int) []string {
	if len(data) < len(budgets)+1 {
		return nil
	}
	parts := make([]string, 0, len(budgets)+1)
	rest := data
	for i, budget := range budgets {
		// Leave at least one character per remaining part.
		limit := len(rest) - (len(budgets) - i)
		at := budget
		if at < 1 {
			at = 1
		}
		if at > limit {
			at = limit
		}
		parts = append(parts, rest[:at])
		rest = rest[at:]
	}
	return append(parts, rest)
}
