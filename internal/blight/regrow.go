package blight

import "time"

// RegrowingPoint remembers a single corrupted block and what it turns back
// into once the regeneration delay elapses. An empty Target means the
// block is removed instead of replaced.
type RegrowingPoint struct {
	Pos       Pos       `json:"pos"`
	Target    Kind      `json:"target,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}
