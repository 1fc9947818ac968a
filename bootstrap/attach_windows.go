//go:build windows

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
	"unsafe"

	"practicetool/d3d11"
	"practicetool/game_state"
	"practicetool/hook"
	"practicetool/imui"
	"practicetool/input"
	"practicetool/process_windows"
	"practicetool/render"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

var (
	modkernel32      = windows.NewLazySystemDLL("kernel32.dll")
	procAllocConsole = modkernel32.NewProc("AllocConsole")
)

// anchor lives in the DLL's data section; its address identifies our module
var anchor byte

// Attach starts the tool. It runs inside the DLL's initialisation, so everything that may wait
// on the loader lock happens on a goroutine.
func Attach() {
	go func() {
		defer log.Recover("attach")
		if err := attach(); err != nil {
			log.Errorf("attach failed: %v", err)
			eject(nil)
		}
	}()
}

// modulePath is the path of the DLL this code was loaded from
func modulePath() (string, error) {
	var h windows.Handle
	flags := uint32(windows.GET_MODULE_HANDLE_EX_FLAG_FROM_ADDRESS | windows.GET_MODULE_HANDLE_EX_FLAG_UNCHANGED_REFCOUNT)
	if err := windows.GetModuleHandleEx(flags, (*uint16)(unsafe.Pointer(&anchor)), &h); err != nil {
		return "", fmt.Errorf("GetModuleHandleEx: %w", err)
	}
	buf := make([]uint16, windows.MAX_LONG_PATH)
	n, err := windows.GetModuleFileName(h, &buf[0], uint32(len(buf)))
	if err != nil {
		return "", fmt.Errorf("GetModuleFileName: %w", err)
	}
	return windows.UTF16ToString(buf[:n]), nil
}

// showConsole gives the game a console window and points stdout and stderr at it
func showConsole() error {
	if r, _, err := procAllocConsole.Call(); r == 0 {
		return fmt.Errorf("AllocConsole: %w", err)
	}
	out, err := os.OpenFile("CONOUT$", os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	os.Stdout = out
	os.Stderr = out
	return nil
}

func attach() error {
	dll, err := modulePath()
	if err != nil {
		return err
	}
	paths := PathsFor(dll)
	if _, err := StartLogging(paths); err != nil {
		log.Warnf("log file: %v", err)
	}

	cfg := LoadConfig(paths)
	if cfg.Settings.ShowConsole {
		if err := showConsole(); err != nil {
			log.Warnf("console: %v", err)
		}
	}

	self := process_windows.Self()
	exe, err := self.FindModule("")
	if err != nil {
		return err
	}
	mm, err := self.GetMemoryMap()
	if err != nil {
		log.Warnf("memory map: %v; scanning the live image", err)
		mm = nil
	}
	game := ResolveGame(self, mm, exe, game_state.DefaultLocators)
	if s, err := process_windows.FileVersion(exe.Path); err != nil {
		log.Warnf("game version: %v", err)
	} else if game.Version, err = game_state.ParseVersion(s); err != nil {
		log.Warnf("game version: %v", err)
	}

	sampler := input.NewWindowsSampler(0)
	fonts := render.NewFonts("")
	sess := NewSession(Options{
		Config:   cfg,
		Game:     game,
		Sampler:  sampler,
		Caller:   game_state.NativeCaller{},
		Savefile: Savefile(),
		Faces:    fonts.Face,
	})
	log.Infoln(Describe(paths, game))

	hooks := hook.New()
	backend := render.NewBackend()
	slots := hook.ProtectedSlots{Mem: self}

	var subclass sync.Once
	var lastErr string
	dx := &hook.DX11{
		Hooks: hooks,
		OnPresent: func(sc d3d11.SwapChain) {
			desc, err := sc.Desc()
			if err != nil {
				return
			}
			hwnd := win.HWND(desc.OutputWindow)
			subclass.Do(func() {
				sampler.SetWindow(hwnd)
				// Add takes the install lock, which an eject may hold while it waits for us
				go func() {
					if err := hooks.Add(hook.NewWndProc(hooks, hwnd, sess.Window)); err != nil {
						log.Warnf("window procedure: %v", err)
					}
				}()
			})

			size := imui.Vec2{X: float32(desc.BufferDesc.Width), Y: float32(desc.BufferDesc.Height)}
			img, changed := sess.Frame(time.Now(), size)
			if err := backend.Draw(sc, img, changed); err != nil {
				if msg := err.Error(); msg != lastErr {
					log.Errorf("draw: %v", err)
					lastErr = msg
				}
			}
		},
		OnResize: func(d3d11.SwapChain) {
			backend.ReleaseTarget()
		},
	}

	sess.Eject = func() {
		if eject(hooks) {
			backend.Release()
		}
	}

	patches, err := dx.Patches(slots)
	if err != nil {
		return fmt.Errorf("locate swap chain: %w", err)
	}
	if x, err := hook.NewXInput(hooks, slots, self, exe.Base); err != nil {
		log.Warnf("gamepad suppression unavailable: %v", err)
	} else {
		patches = append(patches, x.Patch())
	}
	if err := hooks.Install(patches...); err != nil {
		return fmt.Errorf("install hooks: %w", err)
	}
	log.Infof("hooks installed")

	go func() {
		defer log.Recover("params")
		if err := sess.FixupParams(context.Background()); err != nil {
			log.Warnf("item icon: %v", err)
		}
	}()
	return nil
}

// eject removes the hooks and reports whether nothing of ours can run any more. The Go runtime
// cannot be unloaded, so the DLL stays mapped and dormant either way: there is deliberately no
// FreeLibraryAndExitThread, unmapping under live runtime threads would crash the game.
func eject(hooks *hook.Hooks) bool {
	if hooks != nil && hooks.State() == hook.StateInstalled {
		err := hooks.Uninstall(UninstallTimeout)
		if errors.Is(err, hook.ErrInFlightTimeout) {
			log.Errorf("uninstall: %v", err)
			return false
		}
		if err != nil {
			log.Warnf("uninstall: %v", err)
		}
	}
	input.SuppressGamepad(false)
	log.Infof("ejected; the module stays resident until the game exits")
	return true
}
