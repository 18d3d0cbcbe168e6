package titan

// Attack is an attack capability a titan can perform.
type Attack string

const (
	AttackKick     Attack = "kick"
	AttackSlap     Attack = "slap"
	AttackSlapFace Attack = "slap_face"
	AttackBite     Attack = "bite"
	AttackBodySlam Attack = "body_slam"
	AttackGrab     Attack = "grab"
)

// PlayerAttacks is the fixed ensemble granted to player controlled titans.
func PlayerAttacks() []Attack {
	return []Attack{AttackKick, AttackSlap, AttackSlapFace, AttackBite, AttackBodySlam, AttackGrab}
}

// Behavior is a steering behavior attached to a titan before it spawns.
type Behavior interface {
	Name() string
}

// Configuration describes one titan to spawn. Only Behaviors and Attacks may
// be extended, and only before the configuration is handed to a spawner.
type Configuration struct {
	Health       int        `json:"health"`
	Damage       int        `json:"damage"`
	ViewDistance int        `json:"viewDistance"`
	Speed        float64    `json:"speed"`
	Size         float64    `json:"size"`
	Type         Archetype  `json:"type"`
	Behaviors    []Behavior `json:"-"`
	Attacks      []Attack   `json:"attacks,omitempty"`
}

// NewConfiguration builds a configuration without behaviors or attacks.
func NewConfiguration(health, damage, viewDistance int, speed, size float64, archetype Archetype) Configuration {
	return Configuration{
		Health:       health,
		Damage:       damage,
		ViewDistance: viewDistance,
		Speed:        speed,
		Size:         size,
		Type:         archetype,
	}
}

// WithBehavior returns a copy with the behavior appended.
func (c Configuration) WithBehavior(b Behavior) Configuration {
	behaviors := make([]Behavior, 0, len(c.Behaviors)+1)
	behaviors = append(behaviors, c.Behaviors...)
	c.Behaviors = append(behaviors, b)
	return c
}

// HasAttack reports whether the attack is part of the configuration.
func (c Configuration) HasAttack(a Attack) bool {
	for _, existing := range c.Attacks {
		if existing == a {
			return true
		}
	}
	return false
}
