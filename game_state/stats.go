package game_state

import "math"

// CharacterStats mirrors the player game data block starting at the vigor attribute
type CharacterStats struct {
	Vigor        int32
	Attunement   int32
	Endurance    int32
	Strength     int32
	Dexterity    int32
	Intelligence int32
	Faith        int32
	Luck         int32
	_            [2]int32
	Vitality     int32
	Level        int32
	Souls        int32
}

const (
	MinAttribute = 1
	MaxAttribute = 99
)

func clamp(v, lo, hi int32) int32 {
	return min(max(v, lo), hi)
}

// Clamped limits attributes to [1,99], level to [1,MaxInt32] and souls to [0,MaxInt32]
func (s CharacterStats) Clamped() CharacterStats {
	for _, p := range s.Attributes() {
		*p.Value = clamp(*p.Value, MinAttribute, MaxAttribute)
	}
	s.Level = clamp(s.Level, 1, math.MaxInt32)
	s.Souls = clamp(s.Souls, 0, math.MaxInt32)
	return s
}

// Attribute names one editable field of a stats snapshot
type Attribute struct {
	Name  string
	Value *int32
}

// Attributes lists the nine attribute fields of s in menu order
func (s *CharacterStats) Attributes() []Attribute {
	return []Attribute{
		{"Vigor", &s.Vigor},
		{"Attunement", &s.Attunement},
		{"Endurance", &s.Endurance},
		{"Vitality", &s.Vitality},
		{"Strength", &s.Strength},
		{"Dexterity", &s.Dexterity},
		{"Intelligence", &s.Intelligence},
		{"Faith", &s.Faith},
		{"Luck", &s.Luck},
	}
}
