package game_state

import (
	"fmt"

	"practicetool/process"
)

// Flag is one of the boolean cells a flag widget can toggle
type Flag int

const (
	FlagAllNoDamage Flag = iota
	FlagInfStamina
	FlagInfFocus
	FlagInfConsumables
	FlagDeathcam
	FlagNoDeath
	FlagOneShot
	FlagEvtDraw
	FlagEvtDisable
	FlagAIDisable
	FlagRendChr
	FlagRendObj
	FlagRendMap
	FlagRendMeshHi
	FlagRendMeshLo
	FlagRendMeshHit
	FlagDebugDraw
	FlagHurtbox
	FlagAllDrawHit
	FlagIKFootRay
	FlagDebugSphere1
	FlagDebugSphere2
	FlagGravity

	FlagCount
)

type flagSpec struct {
	name    string
	label   string
	base    Base
	offsets []process.ProcessMemorySize
	mask    uint8
}

// flagTable is indexed by Flag. Bytes of the static debug blocks take a single offset, flags on
// heap objects a leading 0 to dereference the static slot first.
var flagTable = [FlagCount]flagSpec{
	FlagAllNoDamage:    {"all_no_damage", "All no damage", BaseChrDbgFlags, offs(0x09), 1},
	FlagInfStamina:     {"inf_stamina", "Infinite stamina", BaseChrDbgFlags, offs(0x02), 1},
	FlagInfFocus:       {"inf_focus", "Infinite focus", BaseChrDbgFlags, offs(0x03), 1},
	FlagInfConsumables: {"inf_consumables", "Infinite consumables", BaseChrDbgFlags, offs(0x04), 1},
	FlagDeathcam:       {"deathcam", "Deathcam", BaseWorldChrMan, offs(0, 0x90), 1},
	FlagNoDeath:        {"no_death", "No death", BaseChrDbgFlags, offs(0x00), 1},
	FlagOneShot:        {"one_shot", "One shot", BaseChrDbgFlags, offs(0x01), 1},
	FlagEvtDraw:        {"evt_draw", "Event draw", BaseDbgEventMan, offs(0, 0xA8), 1},
	FlagEvtDisable:     {"evt_disable", "Event disable", BaseDbgEventMan, offs(0, 0xD4), 1},
	FlagAIDisable:      {"ai_disable", "AI disable", BaseChrDbgFlags, offs(0x0D), 1},
	FlagRendChr:        {"rend_chr", "Render characters", BaseGroupMask, offs(0x02), 1},
	FlagRendObj:        {"rend_obj", "Render objects", BaseGroupMask, offs(0x01), 1},
	FlagRendMap:        {"rend_map", "Render map", BaseGroupMask, offs(0x00), 1},
	FlagRendMeshHi:     {"rend_mesh_hi", "Collision mesh (hi)", BaseDebugRender, offs(0x09), 1},
	FlagRendMeshLo:     {"rend_mesh_lo", "Collision mesh (lo)", BaseDebugRender, offs(0x0A), 1},
	FlagRendMeshHit:    {"rend_mesh_hit", "Hit collision mesh", BaseDebugRender, offs(0x0B), 1},
	FlagDebugDraw:      {"debug_draw", "Debug draw", BaseDebugRender, offs(0x00), 1},
	FlagHurtbox:        {"hurtbox", "Hurtbox (needs debug draw)", BaseDebugRender, offs(0x01), 1},
	FlagAllDrawHit:     {"all_draw_hit", "Draw all hitboxes", BaseDebugRender, offs(0x02), 1},
	FlagIKFootRay:      {"ik_foot_ray", "Foot IK rays", BaseDebugRender, offs(0x05), 1},
	FlagDebugSphere1:   {"debug_sphere_1", "Debug sphere 1", BaseDebugRender, offs(0x06), 1},
	FlagDebugSphere2:   {"debug_sphere_2", "Debug sphere 2", BaseDebugRender, offs(0x07), 1},
	FlagGravity:        {"gravity", "No gravity", BaseWorldChrMan, offs(0, 0x80, 0x1A08), 0x40},
}

func offs(o ...process.ProcessMemorySize) []process.ProcessMemorySize { return o }

// ParseFlag maps a configuration name such as "inf_stamina" to its Flag
func ParseFlag(name string) (Flag, error) {
	for i := range flagTable {
		if flagTable[i].name == name {
			return Flag(i), nil
		}
	}
	return 0, fmt.Errorf("%q is not a valid flag specifier", name)
}

func (f Flag) valid() bool { return f >= 0 && f < FlagCount }

// String is the configuration name
func (f Flag) String() string {
	if !f.valid() {
		return fmt.Sprintf("Flag(%d)", int(f))
	}
	return flagTable[f].name
}

// Label is the text shown next to the checkbox
func (f Flag) Label() string {
	if !f.valid() {
		return f.String()
	}
	return flagTable[f].label
}

func (f *Flag) UnmarshalText(text []byte) error {
	v, err := ParseFlag(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f Flag) MarshalText() ([]byte, error) {
	if !f.valid() {
		return nil, fmt.Errorf("invalid flag %d", int(f))
	}
	return []byte(f.String()), nil
}
