// internal/models/game_type.go
package models

// GameType is the kind of game a room is set up for. Arenas are matched to
// rooms by game type.
type GameType string

const (
	GameTypeBedWars      GameType = "bed_wars"
	GameTypeSpleef       GameType = "spleef"
	GameTypeTNTRun       GameType = "tnt_run"
	GameTypeTowerDefence GameType = "tower_defence"
)

var validGameTypes = map[GameType]bool{
	GameTypeBedWars:      true,
	GameTypeSpleef:       true,
	GameTypeTNTRun:       true,
	GameTypeTowerDefence: true,
}

// Valid reports whether t is a known game type.
func (t GameType) Valid() bool {
	return validGameTypes[t]
}
