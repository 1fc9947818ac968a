//go:build windows

package main

import (
	"fmt"
	"strings"

	"practicetool/process"
	"practicetool/process_windows"

	gopsprocess "github.com/shirou/gopsutil/v3/process"
)

func openProcess(pid int, name string) (target, error) {
	if pid == 0 {
		procs, err := gopsprocess.Processes()
		if err != nil {
			return nil, err
		}
		for _, p := range procs {
			if n, err := p.Name(); err == nil && strings.EqualFold(n, name) {
				pid = int(p.Pid)
				break
			}
		}
		if pid == 0 {
			return nil, fmt.Errorf("no process named %s", name)
		}
	}
	return process_windows.NewWithPID(process.ProcessID(pid))
}
