package domain

import "time"

// Supplier is reference data kept in the directory, outside the event log.
// Product creation resolves the supplier name once and embeds it into the
// creation event.
type Supplier struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
