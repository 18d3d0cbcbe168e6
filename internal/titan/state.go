package titan

// State is the AI state of a spawned titan.
type State uint8

const (
	StateIdle State = iota
	StateWandering
	StateChase
	StateAttacking
	StateRecovering
	StateDead
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWandering:
		return "wandering"
	case StateChase:
		return "chase"
	case StateAttacking:
		return "attacking"
	case StateRecovering:
		return "recovering"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Kind separates mindless titans from scripted bosses.
type Kind uint8

const (
	KindMindless Kind = iota
	// KindFemale is the boss whose presence keeps a round alive.
	KindFemale
	KindColossal
)

func (k Kind) String() string {
	switch k {
	case KindMindless:
		return "mindless"
	case KindFemale:
		return "female"
	case KindColossal:
		return "colossal"
	default:
		return "unknown"
	}
}
