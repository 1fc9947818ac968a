package game_state

import (
	"practicetool/chain"
	"practicetool/process"
)

// Position is the player's world coordinates
type Position [3]float32

// PointerChains is the cell catalogue. It is built once at attach and never reassigned.
type PointerChains struct {
	Position      chain.PointerChain[Position]
	Angle         chain.PointerChain[float32]
	Stats         chain.PointerChain[CharacterStats]
	Souls         chain.PointerChain[int32]
	IGT           chain.PointerChain[uint32]
	FPS           chain.PointerChain[float32]
	CurAnim       chain.PointerChain[int32]
	CurAnimTime   chain.PointerChain[float32]
	CurAnimLength chain.PointerChain[float32]
	Speed         chain.PointerChain[float32]
	Quitout       chain.PointerChain[uint8]
	CursorShow    chain.Bitflag[uint8]

	// CurrentTarget is the character the player is locked on to; CameraLock is the camera's
	// own target slot, rewritten every frame while the lock widget is active.
	CurrentTarget chain.PointerChain[process.ProcessMemoryAddress]
	CameraLock    chain.PointerChain[process.ProcessMemoryAddress]

	Flags [FlagCount]chain.Bitflag[uint8]

	// resident functions and the static slot of their receiver
	SpawnItemFunc   process.ProcessMemoryAddress
	MapItemMan      process.ProcessMemoryAddress
	TravelMenuFunc  process.ProcessMemoryAddress
	AttuneMenuFunc  process.ProcessMemoryAddress
	ParamRepository process.ProcessMemoryAddress
}

// NewPointerChains composes every cell from the resolved roots
func NewPointerChains(mem process.Memory, bases BaseAddresses) *PointerChains {
	gameData := bases.Get(BaseGameDataMan)
	worldChr := bases.Get(BaseWorldChrMan)
	menu := bases.Get(BaseMenuMan)

	pc := &PointerChains{
		Position:      chain.New[Position](mem, worldChr, 0, 0x40, 0x28, 0x80),
		Angle:         chain.New[float32](mem, worldChr, 0, 0x40, 0x28, 0x74),
		Stats:         chain.New[CharacterStats](mem, gameData, 0, 0x10, 0x44),
		Souls:         chain.New[int32](mem, gameData, 0, 0x10, 0x74),
		IGT:           chain.New[uint32](mem, gameData, 0, 0xA4),
		FPS:           chain.New[float32](mem, bases.Get(BaseFlipper), 0, 0x354),
		CurAnim:       chain.New[int32](mem, worldChr, 0, 0x80, 0x1F90, 0x28, 0x898),
		CurAnimTime:   chain.New[float32](mem, worldChr, 0, 0x80, 0x1F90, 0x10, 0x24),
		CurAnimLength: chain.New[float32](mem, worldChr, 0, 0x80, 0x1F90, 0x10, 0x2C),
		Speed:         chain.New[float32](mem, worldChr, 0, 0x80, 0x1F90, 0x28, 0xA58),
		Quitout:       chain.New[uint8](mem, menu, 0, 0x250),
		CursorShow:    chain.NewBitflag(chain.New[uint8](mem, menu, 0, 0x8E), 1),

		CurrentTarget: chain.New[process.ProcessMemoryAddress](mem, bases.Get(BaseLockTgtMan), 0, 0x2830),
		CameraLock:    chain.New[process.ProcessMemoryAddress](mem, bases.Get(BaseLockTgtMan), 0, 0x2838),

		SpawnItemFunc:   bases.Get(BaseSpawnItem),
		MapItemMan:      bases.Get(BaseMapItemMan),
		TravelMenuFunc:  bases.Get(BaseTravelMenu),
		AttuneMenuFunc:  bases.Get(BaseAttuneMenu),
		ParamRepository: bases.Get(BaseParamRepository),
	}

	for i, spec := range flagTable {
		pc.Flags[i] = chain.NewBitflag(chain.New[uint8](mem, bases.Get(spec.base), spec.offsets...), spec.mask)
	}
	return pc
}

// Flag returns the accessor for f
func (pc *PointerChains) Flag(f Flag) chain.Bitflag[uint8] {
	if !f.valid() {
		return chain.Bitflag[uint8]{}
	}
	return pc.Flags[f]
}

// Gravity doubles as the in-game sentinel: it only resolves while a player character exists
func (pc *PointerChains) Gravity() chain.Bitflag[uint8] {
	return pc.Flags[FlagGravity]
}

// TargetHP reads the current and maximum HP of the locked-on character
func (pc *PointerChains) TargetHP(mem process.Memory) (hp, maxHP int32, ok bool) {
	target, ok := pc.CurrentTarget.Read()
	if !ok || target == 0 {
		return 0, 0, false
	}
	data := chain.New[[2]int32](mem, target, 0x1F90, 0x18, 0xD8)
	v, ok := data.Read()
	if !ok {
		return 0, 0, false
	}
	return v[0], v[1], true
}
