// codec.go - JSON encoding of the two persisted slot texts
package slot

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/slotstash/backend/internal/models"
)

// encodeRecords serializes a record sequence to the persisted slot form:
// a JSON array of {name,data} objects. An empty sequence encodes as "[]".
func encodeRecords(records []models.FileRecord) string {
	if len(records) == 0 {
		return "[]"
	}
	b, err := json.Marshal(records)
	if err != nil {
		// FileRecord contains only strings; Marshal cannot fail on it.
		panic(fmt.Sprintf("slot: marshal records: %v", err))
	}
	return string(b)
}

// decodeRecords parses one persisted slot text. An absent or blank slot is
// treated as an empty sequence, not an error.
func decodeRecords(text string) ([]models.FileRecord, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	var records []models.FileRecord
	if err := json.Unmarshal([]byte(text), &records); err != nil {
		return nil, fmt.Errorf("parsing slot text: %w", err)
	}
	return records, nil
}

// serializedLen returns the character length of the persisted form of a
// record sequence. This is the quantity the capacity limits bound.
func serializedLen(records []models.FileRecord) int {
	return len(encodeRecords(records))
}

// serializedLenWith returns the serialized length of records with extra
// appended, without mutating records.
func serializedLenWith(records []models.FileRecord, extra models.FileRecord) int {
	combined := make([]models.FileRecord, 0, len(records)+1)
	combined = append(combined, records...)
	combined = append(combined, extra)
	return serializedLen(combined)
}
