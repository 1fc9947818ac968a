package config

import (
	"practicetool/game_state"
	"practicetool/process"
	"practicetool/widget"
)

// Env is what the commands are materialized against
type Env struct {
	Mem      process.Memory
	Chains   *game_state.PointerChains
	Caller   game_state.Caller
	Savefile string
}

// Widgets builds one widget per command, in configuration order. Modals close on the display
// hotkey.
func (c *Config) Widgets(env Env) []widget.Widget {
	return c.build(env, c.Commands)
}

func (c *Config) build(env Env, cmds []Command) []widget.Widget {
	ch := env.Chains
	hkClose := c.Settings.Display

	out := make([]widget.Widget, 0, len(cmds))
	for _, cmd := range cmds {
		var w widget.Widget
		switch cmd := cmd.(type) {
		case SavefileManager:
			w = widget.NewSavefileManager(env.Savefile, cmd.HotkeyLoad, cmd.HotkeyOpen, hkClose)
		case ItemSpawner:
			w = widget.NewItemSpawner(env.Mem, env.Caller, ch, cmd.HotkeyLoad, hkClose)
		case Flag:
			w = widget.NewFlag(cmd.Flag.Label(), ch.Flag(cmd.Flag), cmd.Hotkey)
		case Position:
			w = widget.NewSavePosition(ch.Position, ch.Angle, cmd.Hotkey, cmd.Modifier)
		case CycleSpeed:
			w = widget.NewCycleSpeed(cmd.Values, ch.Speed, cmd.Hotkey)
		case CharacterStats:
			w = widget.NewCharacterStats(ch.Stats, cmd.HotkeyOpen, hkClose)
		case Souls:
			w = widget.NewSouls(cmd.Amount, ch.Souls, cmd.Hotkey)
		case OpenMenu:
			w = widget.NewOpenMenu(cmd.Kind, ch.TravelMenuFunc, ch.AttuneMenuFunc, env.Caller, cmd.Hotkey)
		case Quitout:
			w = widget.NewQuitout(ch.Quitout, cmd.Hotkey)
		case Target:
			w = widget.NewTarget(env.Mem, ch, cmd.Hotkey)
		case Nudge:
			w = widget.NewNudge(ch.Position, cmd.Amount, cmd.Up, cmd.Down)
		case Group:
			w = widget.NewGroup(cmd.Label, hkClose, c.build(env, cmd.Commands))
		default:
			log.Warnf("no widget for %s command", cmd.commandName())
			continue
		}
		out = append(out, w)
	}
	return out
}
