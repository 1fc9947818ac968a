package game_state

import "fmt"

// Version of the game executable
type Version struct {
	Major, Minor, Patch uint32
}

// ParseVersion reads "major.minor.patch"
func ParseVersion(s string) (Version, error) {
	var v Version
	if _, err := fmt.Sscanf(s, "%d.%d.%d", &v.Major, &v.Minor, &v.Patch); err != nil {
		return Version{}, fmt.Errorf("bad version %q: %w", s, err)
	}
	return v, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%02d.%d", v.Major, v.Minor, v.Patch)
}

// Label is the game-version indicator text
func (v Version) Label() string {
	if v == (Version{}) {
		return "Game version unknown"
	}
	return "Game version " + v.String()
}
