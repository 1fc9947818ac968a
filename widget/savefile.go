package widget

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"practicetool/hotkey"
	"practicetool/imui"
)

const (
	SavefileName  = "DS30000.sl2"
	savefilePopup = "##savefile-manager"
)

var ErrNoSavefile = errors.New("savefile not found")

// FindSavefile looks for the game's save under %APPDATA%\DarkSoulsIII\<account id>
func FindSavefile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	matches, err := filepath.Glob(filepath.Join(dir, "DarkSoulsIII", "*", SavefileName))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", ErrNoSavefile
	}
	return matches[0], nil
}

type dirEntry struct {
	name string
	dir  bool
}

// SavefileManager browses backups kept next to the live save, imports one over it and exports
// the live save as a new backup
type SavefileManager struct {
	passive
	logBuffer

	savefile string
	root     string
	dir      string
	entries  []dirEntry
	selected string

	hotkeyLoad  hotkey.Hotkey
	hotkeyOpen  *hotkey.Hotkey
	hotkeyClose hotkey.Hotkey
	labelLoad   string
	labelOpen   string
	wantOpen    bool
}

// NewSavefileManager manages savefile; an empty path means no save was found and every action
// only logs.
func NewSavefileManager(savefile string, hkLoad hotkey.Hotkey, hkOpen *hotkey.Hotkey, hkClose hotkey.Hotkey) *SavefileManager {
	w := &SavefileManager{
		savefile:    savefile,
		hotkeyLoad:  hkLoad,
		hotkeyOpen:  hkOpen,
		hotkeyClose: hkClose,
		labelLoad:   hotkey.Label("Import savefile", &hkLoad),
		labelOpen:   hotkey.Label("Savefile manager", hkOpen),
	}
	if savefile != "" {
		w.root = filepath.Dir(savefile)
		w.Navigate(w.root)
	}
	return w
}

func (w *SavefileManager) Dir() string { return w.dir }

func (w *SavefileManager) Selected() string { return w.selected }

// Navigate lists dir; it refuses to leave the directory holding the save
func (w *SavefileManager) Navigate(dir string) {
	dir = filepath.Clean(dir)
	if rel, err := filepath.Rel(w.root, dir); err != nil || strings.HasPrefix(rel, "..") {
		return
	}
	list, err := os.ReadDir(dir)
	if err != nil {
		w.logf("Cannot open %s: %v", dir, err)
		return
	}
	w.dir = dir
	w.selected = ""
	w.entries = w.entries[:0]
	for _, e := range list {
		if e.IsDir() || (e.Type().IsRegular() && e.Name() != SavefileName) {
			w.entries = append(w.entries, dirEntry{name: e.Name(), dir: e.IsDir()})
		}
	}
	slices.SortFunc(w.entries, func(a, b dirEntry) int {
		if a.dir != b.dir {
			if a.dir {
				return -1
			}
			return 1
		}
		return strings.Compare(a.name, b.name)
	})
}

// Select marks a file of the current directory for import
func (w *SavefileManager) Select(name string) { w.selected = filepath.Join(w.dir, name) }

// Import copies the selected backup over the live save
func (w *SavefileManager) Import() error {
	if w.savefile == "" {
		w.logf("Savefile not found")
		return ErrNoSavefile
	}
	if w.selected == "" {
		w.logf("No savefile selected")
		return fs.ErrNotExist
	}
	if err := copyFile(w.selected, w.savefile); err != nil {
		w.logf("Import failed: %v", err)
		return err
	}
	w.logf("Imported %s", filepath.Base(w.selected))
	return nil
}

// Export copies the live save into the current directory under a timestamped name
func (w *SavefileManager) Export(now time.Time) (string, error) {
	if w.savefile == "" {
		w.logf("Savefile not found")
		return "", ErrNoSavefile
	}
	dst := filepath.Join(w.dir, fmt.Sprintf("%s-%s", now.Format("20060102-150405"), SavefileName))
	if err := copyFile(w.savefile, dst); err != nil {
		w.logf("Export failed: %v", err)
		return "", err
	}
	w.logf("Exported %s", filepath.Base(dst))
	w.Navigate(w.dir)
	return dst, nil
}

// copyFile replaces dst through a temporary file in the same directory
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func (w *SavefileManager) Interact(f *Frame) {
	if f.UI.AnyItemActive() {
		return
	}
	if w.hotkeyLoad.KeyUp(f.Keys) {
		w.Import()
	}
	if w.hotkeyOpen != nil && w.hotkeyOpen.KeyUp(f.Keys) {
		w.wantOpen = true
	}
}

func (w *SavefileManager) RenderActive(f *Frame) {
	ui := f.UI
	at := ui.CursorScreenPos()
	if ui.Button(w.labelOpen, imui.Vec2{X: ui.ButtonWidth()}) || w.wantOpen {
		w.wantOpen = false
		if w.dir != "" {
			w.Navigate(w.dir)
		}
		ui.OpenPopup(savefilePopup)
	}
	if !ui.BeginPopupModal(savefilePopup, popupPos(ui, at)) {
		return
	}
	defer ui.EndPopup()

	wide := 400 * ui.Scale
	if w.savefile == "" {
		ui.TextDisabled("Savefile not found")
	} else {
		rel, _ := filepath.Rel(w.root, w.dir)
		ui.TextDisabled(filepath.Join(filepath.Base(w.root), rel))
		ui.BeginChild("##savefile-list", imui.Vec2{X: wide, Y: 200 * ui.Scale})
		next := ""
		if w.dir != w.root && ui.Selectable("..", false) {
			next = filepath.Dir(w.dir)
		}
		for _, e := range w.entries {
			path := filepath.Join(w.dir, e.name)
			switch {
			case e.dir:
				if ui.Selectable(e.name+"/", false) {
					next = path
				}
			case ui.Selectable(e.name, path == w.selected):
				w.selected = path
			}
		}
		ui.EndChild()
		if next != "" {
			w.Navigate(next)
		}

		if ui.Button(w.labelLoad, imui.Vec2{X: wide}) {
			w.Import()
		}
		if ui.Button("Export current savefile", imui.Vec2{X: wide}) {
			w.Export(time.Now())
		}
	}
	if closeRequested(f, "Close", w.hotkeyClose) {
		ui.CloseCurrentPopup()
	}
}
