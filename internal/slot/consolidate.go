// consolidate.go - outgoing consolidation: re-merge split groups where
// capacity allows, then repack everything into the two slot texts.
package slot

import (
	"strings"

	"github.com/google/uuid"
	"github.com/slotstash/backend/internal/models"
)

type recordGroup struct {
	key     string
	records []models.FileRecord
}

// groupRecords groups records by group key, preserving first-seen order of
// groups and within-group order.
func groupRecords(records []models.FileRecord) []recordGroup {
	index := make(map[string]int)
	var groups []recordGroup
	for _, r := range records {
		key := r.GroupKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, recordGroup{key: key})
		}
		groups[i].records = append(groups[i].records, r)
	}
	return groups
}

// mergeGroup concatenates a group's payloads back into one whole record.
// The group tag is dropped: a merged record is no longer a fragment.
func mergeGroup(g recordGroup) models.FileRecord {
	if len(g.records) == 1 {
		whole := g.records[0]
		whole.Group = ""
		return whole
	}
	var data strings.Builder
	for _, r := range g.records {
		data.WriteString(r.Data)
	}
	return models.FileRecord{Name: g.records[0].Name, Data: data.String()}
}

// Serialize produces the two slot texts to persist, re-merging split groups
// wherever capacity allows to keep storage compact. The partitioner's
// internal sequences are replaced with the packed result, so subsequent
// admissions see the consolidated layout. An empty overflow is returned as
// the empty string, which callers persist as an absent field.
//
// Serialize never fails: it always emits some valid two-slot layout for the
// records admitted so far.
func (p *Partitioner) Serialize() (mainText, overflowText string) {
	groups := groupRecords(p.Records())

	// Decide, per group, whether its merged form fits a growing merged
	// sequence. Groups that do not stay split.
	var merged []models.FileRecord
	var stillSplit []models.FileRecord
	for _, g := range groups {
		candidate := mergeGroup(g)
		if serializedLenWith(merged, candidate) <= p.capacity {
			merged = append(merged, candidate)
		} else {
			stillSplit = append(stillSplit, g.records...)
		}
	}

	// Greedy pack: merged records first, then the still-split remainder.
	// When the repacked sequence cannot be laid out within both slot
	// budgets, keep the current layout instead.
	main, overflow, ok := packRecords(append(merged, stillSplit...), p.capacity)
	if !ok {
		main, overflow = p.main, p.overflow
	}

	p.main = main
	p.overflow = overflow

	mainText = encodeRecords(main)
	if len(overflow) > 0 {
		overflowText = encodeRecords(overflow)
	}
	return mainText, overflowText
}

// packRecords lays the sequence out across the two slot budgets: main fills
// first, the record on the boundary is split across both slots when that
// lets it fit, and the remainder spills in order into overflow. Both slots
// stay within capacity; ok is false when no such layout exists for this
// sequence.
func packRecords(records []models.FileRecord, capacity int) (main, overflow []models.FileRecord, ok bool) {
	for _, rec := range records {
		if len(overflow) == 0 {
			if serializedLenWith(main, rec) <= capacity {
				main = append(main, rec)
				continue
			}
			if part1, part2, split := splitAcross(main, rec, capacity); split {
				main = append(main, part1)
				overflow = append(overflow, part2)
				continue
			}
		}
		if serializedLenWith(overflow, rec) > capacity {
			return nil, nil, false
		}
		overflow = append(overflow, rec)
	}
	return main, overflow, true
}

// splitAcross divides the record on the main/overflow boundary so that the
// first part tops up main and the second opens overflow. The parts share a
// group tag, reusing rec's own when it is already a fragment. ok is false
// when main has no headroom left for a payload character or the tail part
// would not fit an empty overflow slot.
func splitAcross(main []models.FileRecord, rec models.FileRecord, capacity int) (part1, part2 models.FileRecord, ok bool) {
	group := rec.Group
	if group == "" {
		group = uuid.New().String()
	}
	shell := models.FileRecord{Name: rec.Name, Group: group}
	budget := capacity - serializedLenWith(main, shell)
	if budget < 1 {
		return part1, part2, false
	}
	parts := splitForBudgets(rec.Data, []int{budget})
	if parts == nil {
		return part1, part2, false
	}
	part1 = models.FileRecord{Name: rec.Name, Data: parts[0], Group: group}
	part2 = models.FileRecord{Name: rec.Name, Data: parts[1], Group: group}
	if serializedLenWith(nil, part2) > capacity {
		return part1, part2, false
	}
	return part1, part2, true
}
