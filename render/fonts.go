package render

import (
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontCandidates are tried in order before the bundled Go font
var FontCandidates = []string{"segoeui.ttf", "tahoma.ttf", "arial.ttf"}

// Fonts loads UI faces by pixel size and caches them. Faces are not safe for concurrent use;
// the render thread owns them.
type Fonts struct {
	dir   string
	cache map[float64]font.Face
}

// NewFonts looks for system fonts in dir; empty means %WINDIR%\Fonts
func NewFonts(dir string) *Fonts {
	if dir == "" {
		if windir := os.Getenv("WINDIR"); windir != "" {
			dir = filepath.Join(windir, "Fonts")
		}
	}
	return &Fonts{dir: dir, cache: map[float64]font.Face{}}
}

// Face never returns nil: without any usable font it falls back to the fixed 7x13 face
func (f *Fonts) Face(px float64) font.Face {
	if face, ok := f.cache[px]; ok {
		return face
	}
	face := f.load(px)
	f.cache[px] = face
	return face
}

func (f *Fonts) load(px float64) font.Face {
	if f.dir != "" {
		for _, name := range FontCandidates {
			face, err := gg.LoadFontFace(filepath.Join(f.dir, name), px)
			if err == nil {
				log.Debugf("font %s at %.0fpx", name, px)
				return face
			}
		}
	}

	ttf, err := opentype.Parse(goregular.TTF)
	if err == nil {
		var face font.Face
		face, err = opentype.NewFace(ttf, &opentype.FaceOptions{Size: px, DPI: 72, Hinting: font.HintingFull})
		if err == nil {
			log.Debugf("bundled Go font at %.0fpx", px)
			return face
		}
	}
	log.Warnf("no scalable font (%v), using the fixed face", err)
	return basicfont.Face7x13
}
