package config

import (
	"fmt"
	"slices"
	"strings"

	"practicetool/game_state"
	"practicetool/hotkey"
	"practicetool/widget"

	"github.com/BurntSushi/toml"
)

// Command is one [[commands]] entry. The concrete type is picked by the first discriminating key
// found, in the order of the variants table.
type Command interface {
	commandName() string
}

type SavefileManager struct {
	HotkeyLoad hotkey.Hotkey  `toml:"savefile_manager"`
	HotkeyOpen *hotkey.Hotkey `toml:"hotkey_open"`
}

type ItemSpawner struct {
	HotkeyLoad hotkey.Hotkey `toml:"item_spawner"`
}

type Flag struct {
	Flag   game_state.Flag `toml:"flag"`
	Hotkey *hotkey.Hotkey  `toml:"hotkey"`
}

type Position struct {
	Hotkey   hotkey.Hotkey `toml:"position"`
	Modifier hotkey.Key    `toml:"modifier"`
}

type CycleSpeed struct {
	Values []float32     `toml:"cycle_speed"`
	Hotkey hotkey.Hotkey `toml:"hotkey"`
}

type CharacterStats struct {
	HotkeyOpen hotkey.Hotkey `toml:"character_stats"`
}

type Souls struct {
	Amount uint32        `toml:"souls"`
	Hotkey hotkey.Hotkey `toml:"hotkey"`
}

type OpenMenu struct {
	Kind   widget.MenuKind `toml:"open_menu"`
	Hotkey *hotkey.Hotkey  `toml:"hotkey"`
}

type Quitout struct {
	Hotkey hotkey.Hotkey `toml:"quitout"`
}

type Target struct {
	Hotkey hotkey.Hotkey `toml:"target"`
}

type Nudge struct {
	Amount float32       `toml:"nudge"`
	Up     hotkey.Hotkey `toml:"nudge_up"`
	Down   hotkey.Hotkey `toml:"nudge_down"`
}

type Group struct {
	Label    string
	Commands []Command
}

func (SavefileManager) commandName() string { return "savefile_manager" }
func (ItemSpawner) commandName() string     { return "item_spawner" }
func (Flag) commandName() string            { return "flag" }
func (Position) commandName() string        { return "position" }
func (CycleSpeed) commandName() string      { return "cycle_speed" }
func (CharacterStats) commandName() string  { return "character_stats" }
func (Souls) commandName() string           { return "souls" }
func (OpenMenu) commandName() string        { return "open_menu" }
func (Quitout) commandName() string         { return "quitout" }
func (Target) commandName() string          { return "target" }
func (Nudge) commandName() string           { return "nudge" }
func (Group) commandName() string           { return "group" }

type rawGroup struct {
	Label    string           `toml:"group"`
	Commands []toml.Primitive `toml:"commands"`
}

type variant struct {
	key      string
	required []string
	decode   func(md *toml.MetaData, prim toml.Primitive, path string) (Command, error)
}

func plain[T Command]() func(*toml.MetaData, toml.Primitive, string) (Command, error) {
	return func(md *toml.MetaData, prim toml.Primitive, _ string) (Command, error) {
		var v T
		if err := md.PrimitiveDecode(prim, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

var variants []variant

func init() {
	variants = []variant{
		{"savefile_manager", nil, plain[SavefileManager]()},
		{"item_spawner", nil, plain[ItemSpawner]()},
		{"flag", nil, plain[Flag]()},
		{"position", []string{"modifier"}, plain[Position]()},
		{"cycle_speed", []string{"hotkey"}, decodeCycleSpeed},
		{"character_stats", nil, plain[CharacterStats]()},
		{"souls", []string{"hotkey"}, plain[Souls]()},
		{"open_menu", nil, plain[OpenMenu]()},
		{"quitout", nil, plain[Quitout]()},
		{"target", nil, plain[Target]()},
		{"nudge", []string{"nudge_up", "nudge_down"}, plain[Nudge]()},
		{"group", []string{"commands"}, decodeGroup},
	}
}

func decodeCycleSpeed(md *toml.MetaData, prim toml.Primitive, path string) (Command, error) {
	var v CycleSpeed
	if err := md.PrimitiveDecode(prim, &v); err != nil {
		return nil, err
	}
	if len(v.Values) == 0 {
		return nil, fmt.Errorf("%s: cycle_speed needs at least one value", path)
	}
	return v, nil
}

func decodeGroup(md *toml.MetaData, prim toml.Primitive, path string) (Command, error) {
	var raw rawGroup
	if err := md.PrimitiveDecode(prim, &raw); err != nil {
		return nil, err
	}
	children, err := decodeCommands(md, raw.Commands, path+".commands")
	if err != nil {
		return nil, err
	}
	return Group{Label: raw.Label, Commands: children}, nil
}

// decodeCommands discriminates every entry by the keys it carries
func decodeCommands(md *toml.MetaData, prims []toml.Primitive, path string) ([]Command, error) {
	out := make([]Command, 0, len(prims))
	for i, prim := range prims {
		at := fmt.Sprintf("%s[%d]", path, i)

		var keys map[string]any
		if err := md.PrimitiveDecode(prim, &keys); err != nil {
			return nil, fmt.Errorf("%s: %w", at, err)
		}

		v, ok := discriminate(keys)
		if !ok {
			return nil, fmt.Errorf("%s: unknown command with keys [%s]", at, strings.Join(sortedKeys(keys), ", "))
		}
		for _, req := range v.required {
			if _, ok := keys[req]; !ok {
				return nil, fmt.Errorf("%s: %s command is missing %q", at, v.key, req)
			}
		}
		cmd, err := v.decode(md, prim, at)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", at, err)
		}
		out = append(out, cmd)
	}
	return out, nil
}

func discriminate(keys map[string]any) (variant, bool) {
	for _, v := range variants {
		if _, ok := keys[v.key]; ok {
			return v, true
		}
	}
	return variant{}, false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
