// Package hook redirects function pointers of the game to our interceptors and puts them back.
// Every patch records the original pointer before writing; Uninstall restores all of them and
// then waits for interceptors still running to return.
package hook

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"practicetool/logging"
	"practicetool/process"
)

var (
	ErrNotInstalled     = errors.New("hooks are not installed")
	ErrAlreadyInstalled = errors.New("hooks are already installed")
	ErrInFlightTimeout  = errors.New("interceptors still running after uninstall")
	ErrSlotChanged      = errors.New("slot no longer holds our pointer")
)

type State int32

const (
	StateUninstalled State = iota
	StateInstalling
	StateInstalled
	StateUninstalling
)

func (s State) String() string {
	switch s {
	case StateUninstalled:
		return "uninstalled"
	case StateInstalling:
		return "installing"
	case StateInstalled:
		return "installed"
	case StateUninstalling:
		return "uninstalling"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Patch is one redirection
type Patch interface {
	Name() string
	Apply() error
	Restore() error
}

// SlotWriter stores pointer-sized values into slots of the game's memory
type SlotWriter interface {
	ReadSlot(addr process.ProcessMemoryAddress) (uintptr, error)
	WriteSlot(addr process.ProcessMemoryAddress, v uintptr) error
}

// MemorySlots writes slots through a process.Memory
type MemorySlots struct {
	Mem process.Memory
}

func (m MemorySlots) ReadSlot(addr process.ProcessMemoryAddress) (uintptr, error) {
	return process.Read[uintptr](m.Mem, addr)
}

func (m MemorySlots) WriteSlot(addr process.ProcessMemoryAddress, v uintptr) error {
	return process.Write(m.Mem, addr, v)
}

// SlotPatch swaps the function pointer stored at Addr (a vtable entry or an import slot)
type SlotPatch struct {
	Label       string
	Addr        process.ProcessMemoryAddress
	Replacement uintptr

	writer   SlotWriter
	original atomic.Uintptr
}

func NewSlotPatch(label string, w SlotWriter, addr process.ProcessMemoryAddress, replacement uintptr) *SlotPatch {
	return &SlotPatch{Label: label, Addr: addr, Replacement: replacement, writer: w}
}

func (p *SlotPatch) Name() string { return p.Label }

// Original is the pointer the slot held before Apply; interceptors chain-call it
func (p *SlotPatch) Original() uintptr { return p.original.Load() }

func (p *SlotPatch) Apply() error {
	cur, err := p.writer.ReadSlot(p.Addr)
	if err != nil {
		return fmt.Errorf("read %s slot at %s: %w", p.Label, p.Addr.ToString(), err)
	}
	if cur == 0 {
		return fmt.Errorf("%s slot at %s: %w", p.Label, p.Addr.ToString(), process.ErrNullPointer)
	}
	if cur == p.Replacement {
		return fmt.Errorf("%s slot at %s: %w", p.Label, p.Addr.ToString(), ErrAlreadyInstalled)
	}
	p.original.Store(cur)
	if err := p.writer.WriteSlot(p.Addr, p.Replacement); err != nil {
		return fmt.Errorf("patch %s slot at %s: %w", p.Label, p.Addr.ToString(), err)
	}
	return nil
}

// Restore puts the original back, unless someone else has replaced our pointer since
func (p *SlotPatch) Restore() error {
	cur, err := p.writer.ReadSlot(p.Addr)
	if err != nil {
		return fmt.Errorf("read %s slot at %s: %w", p.Label, p.Addr.ToString(), err)
	}
	if cur != p.Replacement {
		return fmt.Errorf("%s slot at %s: %w", p.Label, p.Addr.ToString(), ErrSlotChanged)
	}
	return p.writer.WriteSlot(p.Addr, p.original.Load())
}

// Guard counts interceptors currently executing
type Guard struct {
	n atomic.Int64
}

func (g *Guard) InFlight() int64 { return g.n.Load() }

var log = logging.New("hook")

// installMu serialises every install and uninstall in the process
var installMu sync.Mutex

// Hooks is the set of patches installed together
type Hooks struct {
	state   atomic.Int32
	guard   Guard
	patches []Patch
	log     *logging.Logger
}

func New() *Hooks {
	return &Hooks{log: log}
}

func (h *Hooks) State() State { return State(h.state.Load()) }

func (h *Hooks) InFlight() int64 { return h.guard.InFlight() }

// Enter must open every interceptor, paired with a deferred Exit. It reports whether the
// interceptor should do its work; when false it only chain-calls the original.
func (h *Hooks) Enter() bool {
	h.guard.n.Add(1)
	return h.State() == StateInstalled
}

func (h *Hooks) Exit() { h.guard.n.Add(-1) }

// Install applies every patch or none
func (h *Hooks) Install(patches ...Patch) error {
	installMu.Lock()
	defer installMu.Unlock()

	if !h.state.CompareAndSwap(int32(StateUninstalled), int32(StateInstalling)) {
		return ErrAlreadyInstalled
	}
	h.patches = h.patches[:0]
	for _, p := range patches {
		if err := p.Apply(); err != nil {
			h.log.Errorf("install %s: %v", p.Name(), err)
			h.restoreAll()
			h.state.Store(int32(StateUninstalled))
			return err
		}
		h.log.Debugf("installed %s", p.Name())
		h.patches = append(h.patches, p)
	}
	h.state.Store(int32(StateInstalled))
	return nil
}

// Add applies a patch while installed; the window procedure is only known after the first frame
func (h *Hooks) Add(p Patch) error {
	installMu.Lock()
	defer installMu.Unlock()

	if h.State() != StateInstalled {
		return ErrNotInstalled
	}
	if err := p.Apply(); err != nil {
		return err
	}
	h.log.Debugf("installed %s", p.Name())
	h.patches = append(h.patches, p)
	return nil
}

func (h *Hooks) restoreAll() error {
	var errs []error
	for i := len(h.patches) - 1; i >= 0; i-- {
		p := h.patches[i]
		if err := p.Restore(); err != nil {
			h.log.Warnf("restore %s: %v", p.Name(), err)
			errs = append(errs, err)
			continue
		}
		h.log.Debugf("restored %s", p.Name())
	}
	h.patches = h.patches[:0]
	return errors.Join(errs...)
}

// Uninstall restores every slot, then spins until no interceptor is running. When that takes
// longer than timeout it returns ErrInFlightTimeout and the module must stay loaded.
func (h *Hooks) Uninstall(timeout time.Duration) error {
	installMu.Lock()
	defer installMu.Unlock()

	if !h.state.CompareAndSwap(int32(StateInstalled), int32(StateUninstalling)) {
		return ErrNotInstalled
	}
	restoreErr := h.restoreAll()

	deadline := time.Now().Add(timeout)
	for h.guard.InFlight() > 0 {
		if time.Now().After(deadline) {
			h.log.Errorf("%d interceptors still running after %s", h.guard.InFlight(), timeout)
			h.state.Store(int32(StateUninstalled))
			return ErrInFlightTimeout
		}
		time.Sleep(time.Millisecond)
	}
	h.state.Store(int32(StateUninstalled))
	return restoreErr
}
