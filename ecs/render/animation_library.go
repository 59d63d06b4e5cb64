package render

import (
	"bytes"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Strip is an ordered run of animation frames.
type Strip struct {
	Name         string
	Frames       []Sprite
	FrameLatency float64
	Loop         bool
}

// AnimationLibrary stores frame strips by key.
type AnimationLibrary struct {
	strips map[string]Strip
}

// NewAnimationLibrary creates an empty library.
func NewAnimationLibrary() *AnimationLibrary {
	return &AnimationLibrary{strips: make(map[string]Strip)}
}

// Register adds a strip to the library.
func (l *AnimationLibrary) Register(key string, strip Strip) {
	if l == nil || key == "" || len(strip.Frames) == 0 {
		return
	}
	l.strips[key] = strip
}

// Get returns a strip by key.
func (l *AnimationLibrary) Get(key string) (Strip, bool) {
	if l == nil || key == "" {
		return Strip{}, false
	}
	strip, ok := l.strips[key]
	return strip, ok
}

// LoadStripFromDir builds a strip where each image file in dir is one frame.
// Files are ordered naturally, so frame2.png comes before frame10.png.
func LoadStripFromDir(src ImageSource, dir string, latency float64) (Strip, error) {
	strip, err := LoadStrip(src, os.DirFS(dir), ".", latency)
	strip.Name = filepath.Base(dir)
	return strip, err
}

// LoadStrip is LoadStripFromDir over any file system, such as the embedded
// assets.
func LoadStrip(src ImageSource, fsys fs.FS, dir string, latency float64) (Strip, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return Strip{}, fmt.Errorf("render: read frames %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.SliceStable(names, func(i, j int) bool { return NaturalLess(names[i], names[j]) })

	strip := Strip{Name: path.Base(dir), FrameLatency: latency, Loop: true}
	for _, name := range names {
		b, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return Strip{}, fmt.Errorf("render: read frame %s: %w", name, err)
		}
		img, _, err := image.Decode(bytes.NewReader(b))
		if err != nil {
			return Strip{}, fmt.Errorf("render: decode frame %s: %w", name, err)
		}
		strip.Frames = append(strip.Frames, src.Decode(img))
	}
	return strip, nil
}

// NaturalLess compares strings case-insensitively, treating runs of digits
// as numbers.
func NaturalLess(a, b string) bool {
	ca, cb := naturalChunks(a), naturalChunks(b)
	for i := 0; i < len(ca) && i < len(cb); i++ {
		x, y := ca[i], cb[i]
		nx, errX := strconv.Atoi(x)
		ny, errY := strconv.Atoi(y)
		if errX == nil && errY == nil {
			if nx != ny {
				return nx < ny
			}
			continue
		}
		lx, ly := strings.ToLower(x), strings.ToLower(y)
		if lx != ly {
			return lx < ly
		}
	}
	return len(ca) < len(cb)
}

func naturalChunks(s string) []string {
	var chunks []string
	var cur strings.Builder
	digits := false
	for i, r := range s {
		isDigit := unicode.IsDigit(r)
		if i > 0 && isDigit != digits {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		digits = isDigit
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}
