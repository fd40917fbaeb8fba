package domain

import "time"

// Snapshot is a freshly decoded document handed to downstream publishers.
type Snapshot struct {
	Resource  string
	Station   string
	Payload   any
	DecodedAt time.Time
}
