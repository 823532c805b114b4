// Package gamestate carries the per-frame observation handed to decision
// code. A Snapshot is a plain value: producers fill it from whatever source
// they have (emulator RAM, a simulation, a replay) and consumers must not
// retain references across frames.
package gamestate

// Snapshot is one frame of the fight as seen by a single agent. Positions
// are horizontal/vertical coordinates in game units with X growing to the
// right; Player is always the agent's own character and Enemy the opponent,
// so the same tree can drive either side.
type Snapshot struct {
	Frame uint64 `json:"frame"`

	PlayerX      int `json:"player_x"`
	PlayerY      int `json:"player_y"`
	PlayerHealth int `json:"player_health"`

	EnemyX      int `json:"enemy_x"`
	EnemyY      int `json:"enemy_y"`
	EnemyHealth int `json:"enemy_health"`

	RoundOver bool `json:"round_over"`
	// Winner is 0 while the round is live, 1 or 2 once RoundOver is set.
	Winner int `json:"winner,omitempty"`
}

// DistanceX reports the absolute horizontal gap between the two fighters.
func (s Snapshot) DistanceX() int {
	d := s.EnemyX - s.PlayerX
	if d < 0 {
		return -d
	}
	return d
}

// Mirrored returns the snapshot with the player and enemy roles swapped,
// letting one environment observation serve both sides of the match.
func (s Snapshot) Mirrored() Snapshot {
	m := s
	m.PlayerX, m.EnemyX = s.EnemyX, s.PlayerX
	m.PlayerY, m.EnemyY = s.EnemyY, s.PlayerY
	m.PlayerHealth, m.EnemyHealth = s.EnemyHealth, s.PlayerHealth
	if s.Winner == 1 {
		m.Winner = 2
	} else if s.Winner == 2 {
		m.Winner = 1
	}
	return m
}
