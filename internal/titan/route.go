package titan

import "titan-siege/server/internal/geom"

// Checkpoint is one stop on a route. The final checkpoint of every route is
// the End sentinel and carries no position.
type Checkpoint struct {
	Position geom.Vec3 `json:"position"`
	End      bool      `json:"end,omitempty"`
}

// EndCheckpoint marks the end of a route.
var EndCheckpoint = Checkpoint{End: true}

// RushBehavior walks a titan through an ordered list of checkpoints.
type RushBehavior struct {
	checkpoints []Checkpoint
	index       int
}

// NewRushBehavior takes ownership of the checkpoints. A missing End sentinel
// is appended.
func NewRushBehavior(checkpoints []Checkpoint) *RushBehavior {
	owned := make([]Checkpoint, len(checkpoints), len(checkpoints)+1)
	copy(owned, checkpoints)
	if len(owned) == 0 || !owned[len(owned)-1].End {
		owned = append(owned, EndCheckpoint)
	}
	return &RushBehavior{checkpoints: owned}
}

func (b *RushBehavior) Name() string {
	return "rush"
}

// Checkpoints returns a copy of the route including the End sentinel.
func (b *RushBehavior) Checkpoints() []Checkpoint {
	return append([]Checkpoint(nil), b.checkpoints...)
}

// Current returns the checkpoint the titan is heading to.
func (b *RushBehavior) Current() Checkpoint {
	return b.checkpoints[b.index]
}

// Advance moves to the next checkpoint and reports whether the route is
// finished.
func (b *RushBehavior) Advance() bool {
	if b.checkpoints[b.index].End {
		return true
	}
	b.index++
	return b.checkpoints[b.index].End
}

// Reached reports whether position is within radius of the current
// checkpoint. The End sentinel is never reached.
func (b *RushBehavior) Reached(position geom.Vec3, radius float64) bool {
	current := b.Current()
	if current.End {
		return false
	}
	return geom.Distance(position, current.Position) <= radius
}
