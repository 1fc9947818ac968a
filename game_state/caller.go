package game_state

import (
	"errors"

	"practicetool/process"
)

var ErrNoFunction = errors.New("function address not resolved")

// Caller invokes a function resident in the game. Pointer arguments must stay reachable
// (runtime.KeepAlive) until Call returns.
type Caller interface {
	Call(fn process.ProcessMemoryAddress, args ...uintptr) (uintptr, error)
}
