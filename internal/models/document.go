package models

import "time"

// DocumentInfo represents metadata about a stored document (one pair of
// persisted slots).
type DocumentInfo struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	RecordCount  int       `json:"recordCount"`
	MainSize     int       `json:"mainSize"`
	OverflowSize int       `json:"overflowSize"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SlotUsage reports how full a document's two slots are.
type SlotUsage struct {
	Capacity     int  `json:"capacity"`
	MainSize     int  `json:"mainSize"`
	OverflowSize int  `json:"overflowSize"`
	HasOverflow  bool `json:"hasOverflow"`
	RecordCount  int  `json:"recordCount"`
}
