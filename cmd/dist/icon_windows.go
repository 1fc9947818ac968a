//go:build windows

package main

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modkernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procBeginUpdateResource = modkernel32.NewProc("BeginUpdateResourceW")
	procUpdateResource      = modkernel32.NewProc("UpdateResourceW")
	procEndUpdateResource   = modkernel32.NewProc("EndUpdateResourceW")
)

const (
	rtIcon      = 3
	rtGroupIcon = 14
)

// stampIcon replaces the executable's icon resources with the images of ico
func stampIcon(exe, ico string) error {
	data, err := os.ReadFile(ico)
	if err != nil {
		return err
	}
	res, err := parseICO(data)
	if err != nil {
		return fmt.Errorf("%s: %w", ico, err)
	}

	exeW, err := windows.UTF16PtrFromString(exe)
	if err != nil {
		return err
	}
	h, _, err := procBeginUpdateResource.Call(uintptr(unsafe.Pointer(exeW)), 0)
	if h == 0 {
		return fmt.Errorf("BeginUpdateResourceW(%s): %w", exe, err)
	}

	committed := false
	defer func() {
		if !committed {
			procEndUpdateResource.Call(h, 1)
		}
	}()

	for i, img := range res.Images {
		if err := update(h, rtIcon, uintptr(i+1), img); err != nil {
			return fmt.Errorf("icon %d: %w", i+1, err)
		}
	}
	name, _ := windows.UTF16PtrFromString(GroupIconName)
	if err := update(h, rtGroupIcon, uintptr(unsafe.Pointer(name)), res.Group); err != nil {
		return fmt.Errorf("icon group: %w", err)
	}

	committed = true
	if r, _, err := procEndUpdateResource.Call(h, 0); r == 0 {
		return fmt.Errorf("EndUpdateResourceW(%s): %w", exe, err)
	}
	log.Infof("stamped %d icon images into %s", len(res.Images), exe)
	return nil
}

func update(h, typ, name uintptr, data []byte) error {
	r, _, err := procUpdateResource.Call(h, typ, name, langEnglishUS, uintptr(unsafe.Pointer(&data[0])), uintptr(len(data)))
	if r == 0 {
		return fmt.Errorf("UpdateResourceW: %w", err)
	}
	return nil
}
