// Package bootstrap brings the tool up inside the game: logging next to the DLL, the
// configuration, the game's static roots, the widgets and finally the hooks. Attach returns
// immediately and does all of that on a worker goroutine.
package bootstrap

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"practicetool/config"
	"practicetool/game_state"
	"practicetool/hook"
	"practicetool/imui"
	"practicetool/input"
	"practicetool/logging"
	"practicetool/overlay"
	"practicetool/params"
	"practicetool/process"
	"practicetool/process/memory_map"
	"practicetool/render"
	"practicetool/widget"

	"golang.org/x/image/font"
)

const (
	LogFileName = "practicetool.log"

	// UninstallTimeout bounds the wait for interceptors still running at eject
	UninstallTimeout = 2 * time.Second
)

var log = logging.New("bootstrap")

// Paths are the files kept next to the DLL
type Paths struct {
	Dir    string
	Config string
	Log    string
}

func PathsFor(module string) Paths {
	dir := filepath.Dir(module)
	return Paths{
		Dir:    dir,
		Config: filepath.Join(dir, config.FileName),
		Log:    filepath.Join(dir, LogFileName),
	}
}

// StartLogging truncates the log file, routes every record and any fatal crash report to it
func StartLogging(p Paths) (*logging.Sink, error) {
	sink, err := logging.OpenSink(p.Log)
	if err != nil {
		return nil, err
	}
	logging.SetSink(sink)
	if err := debug.SetCrashOutput(sink.File(), debug.CrashOptions{}); err != nil {
		log.Warnf("crash output: %v", err)
	}
	return sink, nil
}

// Game is what attach found out about the running game
type Game struct {
	Mem     process.Memory
	Module  process.Module
	Bases   game_state.BaseAddresses
	Chains  *game_state.PointerChains
	Version game_state.Version
}

// ResolveGame locates the static roots of mod. With a memory map the patterns are scanned in a
// snapshot of the image. Roots that are not found only disable the cells built on them.
func ResolveGame(mem process.Memory, mm []memory_map.MemoryMapItem, mod process.Module, locators []game_state.Locator) *Game {
	var scan process.Memory = mem
	if mm != nil {
		if snap, err := game_state.SnapshotModule(mem, mm, mod); err != nil {
			log.Warnf("snapshot of %s: %v", mod.Name, err)
		} else {
			scan = snap
		}
	}

	bases, err := game_state.ResolveBases(scan, mod, locators)
	if err != nil {
		log.Warnf("some game structures were not found, their commands stay inactive: %v", err)
	}
	return &Game{
		Mem:    mem,
		Module: mod,
		Bases:  bases,
		Chains: game_state.NewPointerChains(mem, bases),
	}
}

// Options for NewSession
type Options struct {
	Config   *config.Config
	Game     *Game
	Sampler  input.Sampler
	Caller   game_state.Caller
	Savefile string
	Faces    func(px float64) font.Face
}

// Session is one attach: the frame state the render thread owns plus the hooks bookkeeping
type Session struct {
	Config  *config.Config
	Game    *Game
	Router  *input.Router
	Overlay *overlay.Overlay
	Params  *params.Repository
	Window  *hook.WindowInput

	raster *render.Rasterizer

	// Eject runs on its own goroutine after the unload button; it must not be called from an
	// interceptor because uninstalling waits for interceptors
	Eject func()

	unloadOnce sync.Once
	unloaded   chan struct{}
}

func NewSession(opt Options) *Session {
	cfg, g := opt.Config, opt.Game
	s := &Session{
		Config:   cfg,
		Game:     g,
		Router:   input.NewRouter(opt.Sampler, cfg.RadialItems()),
		Params:   params.NewRepository(g.Mem, g.Bases.Get(game_state.BaseParamRepository)),
		Window:   &hook.WindowInput{},
		raster:   render.NewRasterizer(),
		unloaded: make(chan struct{}),
	}

	widgets := cfg.Widgets(config.Env{
		Mem:      g.Mem,
		Chains:   g.Chains,
		Caller:   opt.Caller,
		Savefile: opt.Savefile,
	})
	log.Infof("%d widgets from %d commands", len(widgets), len(cfg.Commands))

	s.Overlay = overlay.New(overlay.Options{
		Settings: cfg.Settings,
		Widgets:  widgets,
		Router:   s.Router,
		Mem:      g.Mem,
		Chains:   g.Chains,
		Version:  g.Version,
		Faces:    opt.Faces,
		OnUnload: s.requestUnload,
	})
	return s
}

// Frame runs one overlay tick for a display of size and rasterises it. The second result is
// false when the frame is pixel-identical to the previous one.
func (s *Session) Frame(now time.Time, size imui.Vec2) (*image.RGBA, bool) {
	io := imui.IO{DisplaySize: size}
	s.Window.Drain(&io)
	dl := s.Overlay.Tick(now, io)
	s.Window.SetCapture(s.Overlay.WantCaptureInput())

	s.raster.SetFace(s.Overlay.UI().Face)
	return s.raster.Render(dl)
}

// FixupParams waits for the parameter tables and marks the tool's presence on item 117's icon
func (s *Session) FixupParams(ctx context.Context) error {
	return s.Params.SetGoodsIcon(ctx, params.DarksignID, params.DarksignIconActive, params.PollTimeout)
}

// RestoreParams puts item 117's icon back
func (s *Session) RestoreParams() error {
	return s.Params.SetGoodsIcon(context.Background(), params.DarksignID, params.DarksignIconNormal, 0)
}

func (s *Session) requestUnload() {
	s.unloadOnce.Do(func() {
		log.Infof("unload requested")
		if err := s.RestoreParams(); err != nil {
			log.Warnf("restore item icon: %v", err)
		}
		go func() {
			defer log.Recover("eject")
			defer close(s.unloaded)
			if s.Eject != nil {
				s.Eject()
			}
		}()
	})
}

// Unloaded is closed once the eject after the unload button has finished
func (s *Session) Unloaded() <-chan struct{} { return s.unloaded }

// LoadConfig reads the configuration next to the DLL and applies its log level
func LoadConfig(p Paths) *config.Config {
	cfg := config.LoadOrDefault(p.Config)
	logging.SetLevel(cfg.Settings.LogLevel)
	return cfg
}

// Savefile finds the game's save for the savefile manager; an empty path disables browsing
func Savefile() string {
	path, err := widget.FindSavefile()
	if err != nil {
		log.Warnf("savefile: %v", err)
		return ""
	}
	return path
}

// Describe is the startup banner
func Describe(p Paths, g *Game) string {
	exe, _ := os.Executable()
	return fmt.Sprintf("attached to %s (%s, %s) from %s", filepath.Base(exe), g.Module.Name, g.Version.Label(), p.Dir)
}
