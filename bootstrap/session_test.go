package bootstrap

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"practicetool/config"
	"practicetool/game_state"
	"practicetool/imui"
	"practicetool/input"
	"practicetool/logging"
	"practicetool/overlay"
	"practicetool/process"
	"practicetool/process_blob"
	"practicetool/widget"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const imageBase = process.ProcessMemoryAddress(0x140000000)

func fakeGame(t *testing.T) (*process_blob.ProcessBlob, process.Module) {
	t.Helper()
	mem := process_blob.NewProcessBlob(imageBase, make([]byte, 0x1000))
	// mov rbx, [rip+0xF9] at +0x200 refers to +0x300
	require.NoError(t, mem.WriteMemory(imageBase+0x200, []byte{0x48, 0x8B, 0x1D, 0xF9, 0x00, 0x00, 0x00}))
	return mem, process.Module{Name: "DarkSoulsIII.exe", Base: imageBase, Size: 0x1000}
}

func TestPathsFor(t *testing.T) {
	p := PathsFor(filepath.Join("games", "DS3", "practicetool.dll"))
	assert.Equal(t, filepath.Join("games", "DS3"), p.Dir)
	assert.Equal(t, filepath.Join("games", "DS3", "practicetool.toml"), p.Config)
	assert.Equal(t, filepath.Join("games", "DS3", "practicetool.log"), p.Log)
}

func TestResolveGameKeepsWhatWasFound(t *testing.T) {
	mem, mod := fakeGame(t)
	g := ResolveGame(mem, nil, mod, []game_state.Locator{
		{Base: game_state.BaseMenuMan, RVA: 0x100},
		{Base: game_state.BaseWorldChrMan, Pattern: "48 8B 1D ?? ?? ?? ??", DispOffset: 3, InstrLen: 7},
		{Base: game_state.BaseLockTgtMan, Pattern: "DE AD BE EF"},
	})

	assert.Equal(t, imageBase+0x100, g.Bases.Get(game_state.BaseMenuMan))
	assert.Equal(t, imageBase+0x300, g.Bases.Get(game_state.BaseWorldChrMan))
	assert.Zero(t, g.Bases.Get(game_state.BaseLockTgtMan))
	assert.NotNil(t, g.Chains)
	assert.Equal(t, mod, g.Module)
}

func TestLoadConfigAppliesLevel(t *testing.T) {
	prev := logging.CurrentLevel()
	defer logging.SetLevel(prev)

	dir := t.TempDir()
	toml := "[settings]\nlog_level = \"WARN\"\ndisplay = \"f1\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(toml), 0o644))

	cfg := LoadConfig(PathsFor(filepath.Join(dir, "practicetool.dll")))
	assert.Equal(t, logging.LevelWarn, logging.CurrentLevel())
	assert.Equal(t, config.DefaultIndicators(), cfg.Settings.Indicators)
}

func newSession(t *testing.T) *Session {
	t.Helper()
	mem, mod := fakeGame(t)
	g := ResolveGame(mem, nil, mod, nil)
	return NewSession(Options{
		Config:  config.Default(),
		Game:    g,
		Sampler: input.NullSampler{},
		Caller:  game_state.NativeCaller{},
	})
}

func TestSessionFrame(t *testing.T) {
	s := newSession(t)
	now := time.Unix(1000, 0)

	img, changed := s.Frame(now, imui.Vec2{X: 640, Y: 360})
	require.NotNil(t, img)
	assert.True(t, changed)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 360, img.Bounds().Dy())
	assert.False(t, s.Window.Capturing())

	s.Overlay.SetMode(overlay.ModeMenuOpen)
	s.Frame(now.Add(16*time.Millisecond), imui.Vec2{X: 640, Y: 360})
	assert.True(t, s.Window.Capturing())

	s.Overlay.SetMode(overlay.ModeHidden)
	s.Frame(now.Add(32*time.Millisecond), imui.Vec2{X: 640, Y: 360})
	assert.False(t, s.Window.Capturing())
}

func TestUnloadEjectsOnce(t *testing.T) {
	s := newSession(t)
	ejected := 0
	s.Eject = func() { ejected++ }

	s.requestUnload()
	s.requestUnload()
	select {
	case <-s.Unloaded():
	case <-time.After(time.Second):
		t.Fatal("eject did not finish")
	}
	assert.Equal(t, 1, ejected)
}

func TestRestoreParamsWithoutRepository(t *testing.T) {
	s := newSession(t)
	assert.Error(t, s.RestoreParams())
}

type brokenWidget struct{}

func (brokenWidget) Interact(*widget.Frame)      { panic("boom") }
func (brokenWidget) RenderActive(*widget.Frame)  {}
func (brokenWidget) RenderPassive(*widget.Frame) {}
func (brokenWidget) DrainLog() []string          { return nil }

func TestSessionFrameAfterWidgetPanic(t *testing.T) {
	s := newSession(t)
	s.Overlay = overlay.New(overlay.Options{
		Settings: s.Config.Settings,
		Widgets:  []widget.Widget{brokenWidget{}},
		Router:   s.Router,
		Mem:      s.Game.Mem,
		Chains:   s.Game.Chains,
	})

	var img *image.RGBA
	require.NotPanics(t, func() {
		img, _ = s.Frame(time.Unix(1000, 0), imui.Vec2{X: 64, Y: 64})
	})
	require.NotNil(t, img)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, color.RGBA{}, img.RGBAAt(32, 32))
}
