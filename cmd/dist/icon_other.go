//go:build !windows

package main

import (
	"fmt"
	"os"
)

// stampIcon only validates the icon; resource editing needs the Windows API
func stampIcon(exe, ico string) error {
	data, err := os.ReadFile(ico)
	if err != nil {
		return err
	}
	if _, err := parseICO(data); err != nil {
		return fmt.Errorf("%s: %w", ico, err)
	}
	log.Warnf("icon not stamped into %s: resources can only be updated on windows", exe)
	return nil
}
