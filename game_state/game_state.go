// Package game_state is the catalogue of named, typed cells of the game.
//
// Every cell is a pointer chain rooted at one of a handful of static addresses inside the main
// image. Those roots are located once at attach, either by an AOB pattern whose match holds a
// RIP-relative reference to the root, or by a fixed RVA. The catalogue itself holds no logic.
package game_state

import (
	"errors"
	"fmt"

	"practicetool/logging"
	"practicetool/process"
	"practicetool/process/memory_map"
	"practicetool/process_blob"
)

// Base names a static root inside the main image
type Base int

const (
	BaseGameDataMan Base = iota
	BaseWorldChrMan
	BaseChrDbgFlags
	BaseGroupMask
	BaseDebugRender
	BaseDbgEventMan
	BaseMenuMan
	BaseFlipper
	BaseLockTgtMan
	BaseParamRepository
	BaseMapItemMan
	BaseSpawnItem
	BaseTravelMenu
	BaseAttuneMenu

	baseCount
)

var baseNames = [baseCount]string{
	"GameDataMan", "WorldChrMan", "ChrDbgFlags", "GroupMask", "DebugRender", "DbgEventMan",
	"MenuMan", "Flipper", "LockTgtMan", "ParamRepository", "MapItemMan", "SpawnItem",
	"TravelMenu", "AttuneMenu",
}

func (b Base) String() string {
	if b < 0 || b >= baseCount {
		return fmt.Sprintf("Base(%d)", int(b))
	}
	return baseNames[b]
}

// Locator finds one base. With a pattern, the match is either the base itself (DispOffset < 0,
// used for function entry points) or an instruction whose RIP-relative operand is the base.
// Without a pattern the base is the module base plus RVA.
type Locator struct {
	Base       Base
	Pattern    string
	DispOffset int
	InstrLen   int
	RVA        process.ProcessMemorySize
}

// DefaultLocators is the static table for the supported game build. Patterns are checked
// against a running game with cmd/process_aob.
var DefaultLocators = []Locator{
	{Base: BaseGameDataMan, Pattern: "48 8B 05 ?? ?? ?? ?? 48 85 C0 ?? ?? 48 8B 40 ?? C3", DispOffset: 3, InstrLen: 7},
	{Base: BaseWorldChrMan, Pattern: "48 8B 1D ?? ?? ?? 04 48 8B F9 48 85 DB ?? ?? 8B 11 85 D2 ?? ?? 8D", DispOffset: 3, InstrLen: 7},
	{Base: BaseChrDbgFlags, Pattern: "80 3D ?? ?? ?? ?? 00 0F 85 ?? ?? ?? ?? 32 C0 48", DispOffset: 2, InstrLen: 7},
	{Base: BaseGroupMask, Pattern: "80 3D ?? ?? ?? ?? 00 0F 10 00 0F 11 45 D0 0F 84 ?? ?? ?? ?? 80 3D", DispOffset: 2, InstrLen: 7},
	{Base: BaseDebugRender, Pattern: "0F B6 25 ?? ?? ?? ?? 44 0F B6 3D ?? ?? ?? ?? E8 ?? ?? ?? ?? 0F B6 F8", DispOffset: 3, InstrLen: 7},
	{Base: BaseDbgEventMan, Pattern: "48 8B 0D ?? ?? ?? ?? 48 85 C9 74 ?? 48 8B 49 ?? 48 85 C9 74 ?? 48 83 C4 20", DispOffset: 3, InstrLen: 7},
	{Base: BaseMenuMan, Pattern: "48 8B 15 ?? ?? ?? ?? 89 82 7C 08 00 00", DispOffset: 3, InstrLen: 7},
	{Base: BaseFlipper, Pattern: "48 8B 0D ?? ?? ?? ?? 80 BB D7 00 00 00 00 0F 84 CE 00 00 00 48 85 C9 75 2E", DispOffset: 3, InstrLen: 7},
	{Base: BaseLockTgtMan, Pattern: "48 8B 0D ?? ?? ?? ?? 48 85 C9 74 ?? 48 8B 01 FF 50 ?? 48 8B D8 48 85 C0 74", DispOffset: 3, InstrLen: 7},
	{Base: BaseParamRepository, Pattern: "48 8B 0D ?? ?? ?? ?? 48 85 C9 74 0B 4C 8B C0 48 8B D7", DispOffset: 3, InstrLen: 7},
	{Base: BaseMapItemMan, Pattern: "48 8B 0D ?? ?? ?? ?? 41 B8 ?? ?? ?? ?? 48 8D 54 24 ?? E8", DispOffset: 3, InstrLen: 7},
	{Base: BaseSpawnItem, Pattern: "48 8B C4 56 57 41 56 48 81 EC ?? ?? ?? ?? 48 C7 44 24 ?? FE FF FF FF", DispOffset: -1},
	{Base: BaseTravelMenu, Pattern: "48 89 5C 24 08 57 48 83 EC 20 48 8B D9 E8 ?? ?? ?? ?? 48 8B 0D ?? ?? ?? ?? 33 FF", DispOffset: -1},
	{Base: BaseAttuneMenu, Pattern: "40 53 48 83 EC 20 48 8B D9 48 8B 0D ?? ?? ?? ?? 48 85 C9 74 ?? E8 ?? ?? ?? ?? 48 8B 0D", DispOffset: -1},
}

// BaseAddresses holds the resolved roots; a zero entry was not found
type BaseAddresses [baseCount]process.ProcessMemoryAddress

func (b *BaseAddresses) Get(base Base) process.ProcessMemoryAddress {
	if base < 0 || base >= baseCount {
		return 0
	}
	return b[base]
}

var log = logging.New("game-state")

// Locate resolves one locator inside mod
func Locate(mem process.Memory, mod process.Module, l Locator) (process.ProcessMemoryAddress, error) {
	if l.Pattern == "" {
		if l.RVA == 0 || l.RVA >= mod.Size {
			return 0, fmt.Errorf("%s: RVA %#x outside %s", l.Base, uint(l.RVA), mod)
		}
		return mod.Base.Add(l.RVA), nil
	}

	aob, err := process.ParseAOB(l.Pattern)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", l.Base, err)
	}
	at, err := process.ScanFirstRange(mem, mod.Base, mod.Size, aob)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", l.Base, err)
	}
	if l.DispOffset < 0 {
		return at, nil
	}
	target, err := process.RIPRelative(mem, at, l.DispOffset, l.InstrLen)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", l.Base, err)
	}
	return target, nil
}

// ResolveBases runs every locator. Missing roots are reported together in the error while the
// others are still returned, so the cells that depend on them stay usable.
func ResolveBases(mem process.Memory, mod process.Module, locators []Locator) (BaseAddresses, error) {
	var bases BaseAddresses
	var errs []error
	for _, l := range locators {
		addr, err := Locate(mem, mod, l)
		if err != nil {
			log.Warnf("base not found: %v", err)
			errs = append(errs, err)
			continue
		}
		log.Debugf("%-16s %s", l.Base, addr.ToString())
		bases[l.Base] = addr
	}
	return bases, errors.Join(errs...)
}

// SnapshotModule copies the readable regions of mod into a read-only blob so the locators
// scan local memory instead of issuing a read per page per pattern.
func SnapshotModule(mem process.Memory, mm []memory_map.MemoryMapItem, mod process.Module) (*process_blob.ProcessBlob, error) {
	blob := &process_blob.ProcessBlob{}
	start, end := uint64(mod.Base), uint64(mod.Base.Add(mod.Size))
	copied := 0
	for _, item := range mm {
		if !item.IsReadable() || item.End() <= start || item.Address >= end {
			continue
		}
		from, to := max(item.Address, start), min(item.End(), end)
		data, err := mem.ReadMemory(process.ProcessMemoryAddress(from), process.ProcessMemorySize(to-from))
		if err != nil {
			log.Debugf("snapshot: skipping 0x%x: %v", from, err)
			continue
		}
		if err := blob.MapData(process.ProcessMemoryAddress(from), data, true); err != nil {
			return nil, err
		}
		copied += len(data)
	}
	if copied == 0 {
		return nil, fmt.Errorf("snapshot of %s: %w", mod, process.ErrAddressNotMapped)
	}
	log.Debugf("snapshot of %s: %d bytes", mod.Name, copied)
	return blob, nil
}
