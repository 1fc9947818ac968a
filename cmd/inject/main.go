//go:build windows

// Command inject loads the tool's DLL into a running game:
//
//	inject "DARK SOULS III" practicetool.dll
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"practicetool/logging"
	"practicetool/process"
	"practicetool/process_windows"

	"github.com/lxn/win"
	gopsprocess "github.com/shirou/gopsutil/v3/process"
	"golang.org/x/sys/windows"
)

var log = logging.New("inject")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <window-title> <dll-path>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	if err := inject(flag.Arg(0), flag.Arg(1)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func inject(title, dll string) error {
	path, size, err := remotePath(dll)
	if err != nil {
		return err
	}

	titleW, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return err
	}
	hwnd := win.FindWindow(nil, titleW)
	if hwnd == 0 {
		return fmt.Errorf("FindWindow(%q): %w", title, windows.GetLastError())
	}

	var pid uint32
	win.GetWindowThreadProcessId(hwnd, &pid)
	if pid == 0 {
		return fmt.Errorf("GetWindowThreadProcessId(%q): %w", title, windows.GetLastError())
	}
	describe(pid)

	proc, err := process_windows.NewWithPID(process.ProcessID(pid))
	if err != nil {
		return err
	}
	defer proc.Close()

	remote, err := proc.Alloc(size)
	if err != nil {
		return err
	}
	defer func() {
		if err := proc.Free(remote); err != nil {
			log.Warnf("free: %v", err)
		}
	}()
	if err := process.WriteUTF16(proc, remote, path, size); err != nil {
		return err
	}
	log.Debugf("dll path at %s", remote.ToString())

	// kernel32 is mapped at the same address in every process of the session
	loadLibrary := windows.NewLazySystemDLL("kernel32.dll").NewProc("LoadLibraryW")
	if err := loadLibrary.Find(); err != nil {
		return err
	}
	module, err := proc.RunThread(loadLibrary.Addr(), uintptr(remote))
	if err != nil {
		return err
	}
	if module == 0 {
		return fmt.Errorf("LoadLibraryW(%s) failed inside process %d", path, pid)
	}

	log.Infof("loaded %s into process %d", filepath.Base(path), pid)
	return nil
}

// describe logs what we are about to inject into; it is informational only
func describe(pid uint32) {
	p, err := gopsprocess.NewProcess(int32(pid))
	if err != nil {
		log.Infof("target pid %d", pid)
		return
	}
	name, _ := p.Name()
	exe, _ := p.Exe()
	log.Infof("target %s (%s) pid %d", name, exe, pid)
}
