//go:build linux

package main

import (
	"practicetool/process"
	"practicetool/process_linux"
)

// openProcess also finds the game under Wine, where only argv[0] carries the exe name
func openProcess(pid int, name string) (target, error) {
	if pid == 0 {
		info, err := process_linux.OneByName(name)
		if err != nil {
			return nil, err
		}
		pid = int(info.PID)
	}
	return process_linux.NewWithPID(process.ProcessID(pid))
}
