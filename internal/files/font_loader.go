package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

// FontLoader resolves a font family name to a face at a point size.
type FontLoader interface {
	LoadFace(name string, size float64) (font.Face, error)
}

// DirFontLoader reads TrueType files from a directory. Parsed fonts are kept
// per file name; faces are built fresh on every call since a truetype face
// must not be shared between goroutines.
type DirFontLoader struct {
	dir string

	mu     sync.Mutex
	parsed map[string]*truetype.Font
}

func NewDirFontLoader(dir string) *DirFontLoader {
	return &DirFontLoader{
		dir:    dir,
		parsed: make(map[string]*truetype.Font),
	}
}

func (l *DirFontLoader) LoadFace(name string, size float64) (font.Face, error) {
	f, err := l.font(name)
	if err != nil {
		return nil, err
	}
	return newFace(f, size), nil
}

func (l *DirFontLoader) font(name string) (*truetype.Font, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if f, ok := l.parsed[name]; ok {
		return f, nil
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.dir, name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", name, err)
	}

	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}

	l.parsed[name] = f
	return f, nil
}

var defaultFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

// DefaultFace returns the built-in Go Regular face at size, or the fixed
// 7x13 bitmap face if that cannot be parsed.
func DefaultFace(size float64) font.Face {
	f, err := defaultFont()
	if err != nil || size <= 0 {
		return basicfont.Face7x13
	}
	return newFace(f, size)
}

func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
