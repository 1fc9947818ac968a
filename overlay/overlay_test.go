package overlay

import (
	"strings"
	"testing"
	"time"

	"practicetool/config"
	"practicetool/game_state"
	"practicetool/hotkey"
	"practicetool/imui"
	"practicetool/input"
	"practicetool/process"
	"practicetool/process_blob"
	"practicetool/widget"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	static = process.ProcessMemoryAddress(0x140000000)
	heap   = process.ProcessMemoryAddress(0x7FF400000000)
)

func TestNextMode(t *testing.T) {
	tests := []struct {
		cur   Mode
		shift bool
		want  Mode
	}{
		{ModeHidden, false, ModeClosed},
		{ModeHidden, true, ModeClosed},
		{ModeMenuOpen, true, ModeHidden},
		{ModeClosed, true, ModeHidden},
		{ModeMenuOpen, false, ModeClosed},
		{ModeClosed, false, ModeMenuOpen},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NextMode(tt.cur, tt.shift), "%s shift=%t", tt.cur, tt.shift)
	}

	m := ModeClosed
	m = NextMode(m, false)
	assert.Equal(t, ModeMenuOpen, m)
	m = NextMode(m, false)
	assert.Equal(t, ModeClosed, m)
}

func TestFormatIGT(t *testing.T) {
	assert.Equal(t, "IGT 01:02:05.12", FormatIGT(3725123))
	assert.Equal(t, "IGT 00:00:00.00", FormatIGT(0))
	assert.Equal(t, "IGT 00:00:59.99", FormatIGT(59999))
	assert.Equal(t, "IGT 100:00:00.00", FormatIGT(360000000))
}

func TestFontSize(t *testing.T) {
	assert.Equal(t, 24.0, FontSize(2560))
	assert.Equal(t, 18.0, FontSize(1920))
	assert.Equal(t, 11.0, FontSize(1200))
}

func TestFrameLogEviction(t *testing.T) {
	t0 := time.Unix(1000, 0)
	var l FrameLog
	l.Push(t0, "a", "b")
	l.Push(t0.Add(3*time.Second), "c", "d")

	assert.Equal(t, []string{"b", "c", "d"}, texts(l.Visible()))

	l.Evict(t0.Add(5 * time.Second))
	assert.Len(t, l.Entries(), 4)

	now := t0.Add(5500 * time.Millisecond)
	l.Evict(now)
	assert.Equal(t, []string{"c", "d"}, texts(l.Entries()))
	for _, e := range l.Entries() {
		assert.LessOrEqual(t, now.Sub(e.At), LogLifetime)
	}

	l.Evict(t0.Add(10 * time.Second))
	assert.Empty(t, l.Entries())
}

func texts(es []LogEntry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Text
	}
	return out
}

type fakeSampler struct {
	down map[hotkey.Key]bool
}

func (s *fakeSampler) Keyboard(keys *[256]bool) {
	for k, v := range s.down {
		keys[k] = v
	}
}
func (s *fakeSampler) Gamepad() (input.GamepadState, bool) { return input.GamepadState{}, false }
func (s *fakeSampler) Mouse() input.MouseState             { return input.MouseState{} }

// recorder logs every call it sees
type recorder struct {
	name  string
	calls *[]string
	logs  []string
}

func (r *recorder) Interact(*widget.Frame)      { *r.calls = append(*r.calls, r.name+".interact") }
func (r *recorder) RenderActive(*widget.Frame)  { *r.calls = append(*r.calls, r.name+".active") }
func (r *recorder) RenderPassive(*widget.Frame) { *r.calls = append(*r.calls, r.name+".passive") }
func (r *recorder) DrainLog() []string {
	l := r.logs
	r.logs = nil
	return l
}

type harness struct {
	mem     *process_blob.ProcessBlob
	sampler *fakeSampler
	ov      *Overlay
	calls   []string
	now     time.Time
}

func newHarness(t *testing.T, widgets ...*recorder) *harness {
	t.Helper()
	h := &harness{sampler: &fakeSampler{down: map[hotkey.Key]bool{}}, now: time.Unix(1000, 0)}

	h.mem = process_blob.NewProcessBlob(static, make([]byte, 0x1000))
	require.NoError(t, h.mem.Map(heap, 0x1000))
	require.NoError(t, process.Write(h.mem, static, heap))
	var bases game_state.BaseAddresses
	bases[game_state.BaseMenuMan] = static
	bases[game_state.BaseWorldChrMan] = static

	ws := make([]widget.Widget, len(widgets))
	for i, w := range widgets {
		w.calls = &h.calls
		ws[i] = w
	}
	settings := config.Default().Settings
	h.ov = New(Options{
		Settings: settings,
		Widgets:  ws,
		Router:   input.NewRouter(h.sampler, nil),
		Mem:      h.mem,
		Chains:   game_state.NewPointerChains(h.mem, bases),
	})
	return h
}

func (h *harness) tick() *imui.DrawList {
	h.now = h.now.Add(16 * time.Millisecond)
	return h.ov.Tick(h.now, imui.IO{DisplaySize: imui.Vec2{X: 1280, Y: 720}})
}

// press holds k for one frame and releases it on the next
func (h *harness) press(k hotkey.Key) {
	h.sampler.down[k] = true
	h.tick()
	delete(h.sampler.down, k)
	h.tick()
}

func (h *harness) cursor(t *testing.T) byte {
	b, err := h.mem.ReadMemory(heap+0x8E, 1)
	require.NoError(t, err)
	return b[0]
}

func TestDisplayHotkeyCyclesModes(t *testing.T) {
	h := newHarness(t)
	display := hotkey.MustParse("0").Key

	assert.Equal(t, ModeClosed, h.ov.Mode())
	h.press(display)
	assert.Equal(t, ModeMenuOpen, h.ov.Mode())
	assert.Equal(t, byte(1), h.cursor(t))
	assert.True(t, h.ov.WantCaptureInput())

	h.press(display)
	assert.Equal(t, ModeClosed, h.ov.Mode())
	assert.Equal(t, byte(0), h.cursor(t))

	h.press(display)
	h.sampler.down[hotkey.KeyRShift] = true
	h.press(display)
	assert.Equal(t, ModeHidden, h.ov.Mode())
	assert.Equal(t, byte(0), h.cursor(t))

	h.press(display)
	assert.Equal(t, ModeClosed, h.ov.Mode())
}

func TestWidgetOrderPerMode(t *testing.T) {
	a, b := &recorder{name: "a"}, &recorder{name: "b"}
	h := newHarness(t, a, b)

	h.tick()
	assert.Equal(t, []string{"a.interact", "b.interact", "a.passive", "b.passive"}, h.calls)

	h.ov.SetMode(ModeMenuOpen)
	h.calls = nil
	h.tick()
	assert.Equal(t, []string{"a.interact", "b.interact", "a.active", "b.active"}, h.calls)

	h.ov.SetMode(ModeHidden)
	h.calls = nil
	h.tick()
	assert.Equal(t, []string{"a.interact", "b.interact"}, h.calls)
}

func TestWidgetLogsShowForFiveSeconds(t *testing.T) {
	w := &recorder{name: "w", logs: []string{"Cannot spawn items while not in game"}}
	h := newHarness(t, w)

	dl := h.tick()
	require.Len(t, h.ov.Log().Entries(), 1)
	assert.True(t, hasText(dl, "Cannot spawn items"))

	h.now = h.now.Add(LogLifetime)
	dl = h.tick()
	assert.Empty(t, h.ov.Log().Entries())
	assert.False(t, hasText(dl, "Cannot spawn items"))
}

func TestIndicators(t *testing.T) {
	h := newHarness(t)
	// GameDataMan is not mapped: IGT shows a placeholder
	dl := h.tick()
	assert.True(t, hasText(dl, "IGT -"))
	assert.True(t, hasText(dl, "Game version unknown"))
	assert.False(t, hasText(dl, "Frames"))

	for i := range h.ov.Indicators() {
		h.ov.Indicators()[i].Enabled = true
	}
	// WorldChrMan -> +0x40 -> +0x28 -> position at +0x80
	require.NoError(t, process.Write(h.mem, heap+0x40, heap+0x100))
	require.NoError(t, process.Write(h.mem, heap+0x128, heap+0x200))
	require.NoError(t, process.Write(h.mem, heap+0x280, game_state.Position{1, 2, 3}))
	h.tick()
	require.NoError(t, process.Write(h.mem, heap+0x280, game_state.Position{4, 6, 7}))
	dl = h.tick()

	assert.True(t, hasText(dl, "4.000"))
	assert.True(t, hasText(dl, "[XYZ] 6.403124 | [XZ] 5.000000 | [Y] 4.000000"))
	assert.True(t, hasText(dl, "Frames 2"))
}

func hasText(dl *imui.DrawList, sub string) bool {
	for _, c := range dl.Cmds {
		if c.Kind == imui.CmdText && strings.Contains(c.Text, sub) {
			return true
		}
	}
	return false
}

type panicky struct{ recorder }

func (p *panicky) Interact(*widget.Frame) { panic("boom") }

func TestTickSurvivesWidgetPanic(t *testing.T) {
	h := newHarness(t)
	h.ov.opt.Widgets = []widget.Widget{&panicky{}}

	dl := h.tick()
	require.NotNil(t, dl)
	assert.Empty(t, dl.Cmds)
	assert.Equal(t, imui.Vec2{X: 1280, Y: 720}, dl.DisplaySize)

	// the next frame starts clean
	h.ov.opt.Widgets = nil
	dl = h.tick()
	require.NotNil(t, dl)
	assert.NotEmpty(t, dl.Cmds)
}
