package slot

import "fmt"

// CapacityExceededError is returned by Admit when a record fits neither
// whole in the main slot nor split across main and overflow. It is the only
// error the admission path raises; the store is left unmodified.
type CapacityExceededError struct {
	Name      string // record that could not be admitted
	Needed    int    // serialized length the record would have required
	Available int    // headroom left in the main slot
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("capacity exceeded admitting %q: need %d, %d available", e.Name, e.Needed, e.Available)
}
