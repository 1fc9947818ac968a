//go:build linux

package process_linux

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"practicetool/process"
)

// commLen is the kernel's TASK_COMM_LEN minus the terminator
const commLen = 15

// ListByName returns all processes whose comm, exe basename or argv[0] basename equals name.
// argv[0] catches Wine, where exe is the preloader and the game path only shows in the command line.
func ListByName(name string) ([]process.ProcessInfo, error) {
	if name == "" {
		return nil, errors.New("empty name")
	}

	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, fmt.Errorf("read /proc: %w", err)
	}

	selfPID := os.Getpid()
	var out []process.ProcessInfo

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 || pid == selfPID {
			continue
		}

		exe, _ := os.Readlink(filepath.Join("/proc", e.Name(), "exe"))
		info := process.ProcessInfo{PID: process.ProcessID(pid), Name: name, Exe: exe}

		comm, _ := os.ReadFile(filepath.Join("/proc", e.Name(), "comm"))
		c := strings.TrimSpace(string(comm))
		if c == name || (len(name) > commLen && c == name[:commLen]) {
			out = append(out, info)
			continue
		}

		if exe != "" && filepath.Base(exe) == name {
			out = append(out, info)
			continue
		}

		cmdline, _ := os.ReadFile(filepath.Join("/proc", e.Name(), "cmdline"))
		argv0, _, _ := strings.Cut(string(cmdline), "\x00")
		argv0 = strings.ReplaceAll(argv0, `\`, "/")
		if argv0 != "" && strings.EqualFold(filepath.Base(argv0), name) {
			out = append(out, info)
		}
	}

	return out, nil
}

// OneByName returns the first match for name (lowest PID), or os.ErrNotExist if none.
func OneByName(name string) (process.ProcessInfo, error) {
	ps, err := ListByName(name)
	if err != nil {
		return process.ProcessInfo{}, err
	}
	if len(ps) == 0 {
		return process.ProcessInfo{}, fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}
	// pick the lowest PID for determinism
	minIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i].PID < ps[minIdx].PID {
			minIdx = i
		}
	}
	return ps[minIdx], nil
}
