// Package models contains the domain types of the slot stash: file records,
// documents and slot usage.
package models

// FileRecord is one stored unit of an uploaded file: a display name plus a
// data-URL payload. A large file may be represented by several records
// forming a split group; concatenating their Data fields in storage order
// reproduces the original payload string exactly.
type FileRecord struct {
	Name string `json:"name"`
	Data string `json:"data"`
	// Group is a synthetic identifier minted when a record is split, so
	// that unrelated files sharing a name are never merged together.
	// Whole records omit it and keep the plain {name,data} shape.
	Group string `json:"group,omitempty"`
}

// GroupKey returns the key used to reassemble split groups: the synthetic
// group id when present, otherwise the file name (legacy slots written
// before group tags existed).
func (r FileRecord) GroupKey() string {
	if r.Group != "" {
		return r.Group
	}
	return r.Name
}

// RecordEntry is the grouped listing view of one logical file: how many
// parts it is currently stored as and the combined payload length.
type RecordEntry struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Parts       int    `json:"parts"`
	PayloadSize int    `json:"payloadSize"`
	InOverflow  bool   `json:"inOverflow"`
}
