package config

import (
	"os"
	"path/filepath"
	"testing"

	"practicetool/game_state"
	"practicetool/hotkey"
	"practicetool/logging"
	"practicetool/process_blob"
	"practicetool/widget"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleFlag(t *testing.T) {
	cfg, err := Parse("[settings]\nlog_level=\"DEBUG\"\ndisplay=\"0\"\n[[commands]]\nflag=\"gravity\"\nhotkey=\"g\"\n")
	require.NoError(t, err)

	assert.Equal(t, logging.LevelDebug, cfg.Settings.LogLevel)
	assert.Equal(t, hotkey.MustParse("0"), cfg.Settings.Display)
	assert.False(t, cfg.Settings.ShowConsole)
	assert.Equal(t, DefaultIndicators(), cfg.Settings.Indicators)

	require.Len(t, cfg.Commands, 1)
	g := hotkey.MustParse("g")
	assert.Equal(t, Flag{Flag: game_state.FlagGravity, Hotkey: &g}, cfg.Commands[0])
}

func TestParseBadFlag(t *testing.T) {
	_, err := Parse(`
[settings]
log_level = "INFO"
display = "0"

[[commands]]
flag = "nonesuch"
hotkey = "g"
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonesuch")
	assert.Contains(t, err.Error(), "commands[0]")
}

const full = `
[settings]
log_level = "warn"
display = "ctrl+0"
show_console = true
indicators = [
  { indicator = "igt", enabled = true },
  { indicator = "position", enabled = false },
]

[[commands]]
savefile_manager = "f9"
hotkey_open = "shift+f9"

[[commands]]
item_spawner = "f10"

[[commands]]
flag = "inf_stamina"

[[commands]]
position = "f1"
modifier = "lshift"

[[commands]]
cycle_speed = [1.0, 2, 0.5]
hotkey = "f2"

[[commands]]
character_stats = "f3"

[[commands]]
souls = 10000
hotkey = "f4"

[[commands]]
open_menu = "warp"

[[commands]]
quitout = "ctrl+q"

[[commands]]
target = "f5"

[[commands]]
nudge = 1.5
nudge_up = "pageup"
nudge_down = "pagedown"

[[commands]]
group = "Render"
commands = [
  { flag = "rend_chr" },
  { flag = "rend_map", hotkey = "f6" },
]

[[radial_menu]]
label = "Quitout"
key = "ctrl+q"
`

func TestParseEveryVariant(t *testing.T) {
	cfg, err := Parse(full)
	require.NoError(t, err)

	assert.Equal(t, logging.LevelWarn, cfg.Settings.LogLevel)
	assert.Equal(t, "Ctrl+0", cfg.Settings.Display.String())
	assert.True(t, cfg.Settings.ShowConsole)
	assert.Equal(t, []Indicator{{IndicatorIGT, true}, {IndicatorPosition, false}}, cfg.Settings.Indicators)

	names := make([]string, len(cfg.Commands))
	for i, c := range cfg.Commands {
		names[i] = c.commandName()
	}
	assert.Equal(t, []string{
		"savefile_manager", "item_spawner", "flag", "position", "cycle_speed", "character_stats",
		"souls", "open_menu", "quitout", "target", "nudge", "group",
	}, names)

	open := hotkey.MustParse("shift+f9")
	assert.Equal(t, SavefileManager{HotkeyLoad: hotkey.MustParse("f9"), HotkeyOpen: &open}, cfg.Commands[0])
	assert.Equal(t, Flag{Flag: game_state.FlagInfStamina}, cfg.Commands[2])
	assert.Equal(t, Position{Hotkey: hotkey.MustParse("f1"), Modifier: hotkey.KeyLShift}, cfg.Commands[3])
	assert.Equal(t, []float32{1, 2, 0.5}, cfg.Commands[4].(CycleSpeed).Values)
	assert.Equal(t, uint32(10000), cfg.Commands[6].(Souls).Amount)
	assert.Equal(t, widget.MenuTravel, cfg.Commands[7].(OpenMenu).Kind)
	assert.Equal(t, float32(1.5), cfg.Commands[10].(Nudge).Amount)

	group := cfg.Commands[11].(Group)
	assert.Equal(t, "Render", group.Label)
	require.Len(t, group.Commands, 2)
	assert.Equal(t, game_state.FlagRendMap, group.Commands[1].(Flag).Flag)

	require.Len(t, cfg.RadialItems(), 1)
	assert.Equal(t, "Quitout", cfg.RadialItems()[0].Label)
	assert.Equal(t, hotkey.MustParse("ctrl+q"), cfg.RadialItems()[0].Hotkey)
}

func TestParseErrors(t *testing.T) {
	const settings = "[settings]\nlog_level = \"INFO\"\ndisplay = \"0\"\n"
	tests := []struct {
		name string
		text string
		want string
	}{
		{"syntax", "[settings", "parse error"},
		{"missing display", "[settings]\nlog_level = \"INFO\"\n", "settings.display"},
		{"bad level", "[settings]\nlog_level = \"LOUD\"\ndisplay = \"0\"\n", "LOUD"},
		{"bad hotkey", settings + "[[commands]]\nquitout = \"ctrl+nope\"\n", "nope"},
		{"unknown command", settings + "[[commands]]\nteleport = 1\nwhere = 2\n", "[teleport, where]"},
		{"missing required", settings + "[[commands]]\nsouls = 5\n", `"hotkey"`},
		{"empty speeds", settings + "[[commands]]\ncycle_speed = []\nhotkey = \"f1\"\n", "at least one"},
		{"nested", settings + "[[commands]]\ngroup = \"g\"\ncommands = [{ flag = \"bad\" }]\n", "commands[0].commands[0]"},
		{"radial without key", settings + "[[radial_menu]]\nlabel = \"x\"\n", "radial_menu[0]"},
		{"bad indicator", "[settings]\nlog_level = \"INFO\"\ndisplay = \"0\"\nindicators = [{ indicator = \"hp\" }]\n", "hp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()

	cfg := LoadOrDefault(filepath.Join(dir, FileName))
	assert.Equal(t, Default(), cfg)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[settings]\nlog_level=\"DEBUG\"\ndisplay=\"0\"\n[[commands]]\nflag=\"nonesuch\"\n"), 0o644))
	assert.Equal(t, Default(), LoadOrDefault(bad))

	good := filepath.Join(dir, "good.toml")
	require.NoError(t, os.WriteFile(good, []byte(full), 0o644))
	cfg = LoadOrDefault(good)
	assert.Len(t, cfg.Commands, 12)
}

func TestWidgetsFollowCommandOrder(t *testing.T) {
	cfg, err := Parse(full)
	require.NoError(t, err)

	mem := process_blob.NewProcessBlob(0x140000000, make([]byte, 0x100))
	chains := game_state.NewPointerChains(mem, game_state.BaseAddresses{})
	ws := cfg.Widgets(Env{Mem: mem, Chains: chains, Caller: game_state.NativeCaller{}})

	require.Len(t, ws, 12)
	assert.IsType(t, &widget.SavefileManager{}, ws[0])
	assert.IsType(t, &widget.ItemSpawner{}, ws[1])
	assert.IsType(t, &widget.Flag{}, ws[2])
	assert.IsType(t, &widget.SavePosition{}, ws[3])
	assert.IsType(t, &widget.CycleSpeed{}, ws[4])
	assert.IsType(t, &widget.CharacterStats{}, ws[5])
	assert.IsType(t, &widget.Souls{}, ws[6])
	assert.IsType(t, &widget.OpenMenu{}, ws[7])
	assert.IsType(t, &widget.Quitout{}, ws[8])
	assert.IsType(t, &widget.Target{}, ws[9])
	assert.IsType(t, &widget.Nudge{}, ws[10])
	require.IsType(t, &widget.Group{}, ws[11])
	assert.Len(t, ws[11].(*widget.Group).Children(), 2)
}
