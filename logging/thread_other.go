//go:build !windows && !linux

package logging

func threadID() int {
	return 0
}
