package render

import (
	"image"
	"image/color"
	"slices"
	"sort"
	"testing"

	"github.com/milk9111/nybble/assets"
)

func TestDrawListRecordsInOrder(t *testing.T) {
	d := NewDrawList(64, 32)
	sprite := HeadlessImages{}.Solid(4, 4, color.White)

	d.DrawSprite(sprite, 1, 2)
	d.DrawSprite(nil, 0, 0)
	d.StrokeLine(0, 0, 5, 5, color.Black)
	d.FillCircle(3, 3, 2, color.White)
	d.DrawText("", 0, 0, color.White)
	d.DrawText("score", 4, 4, color.White)

	var kinds []OpKind
	for _, op := range d.Ops() {
		kinds = append(kinds, op.Kind)
	}
	want := []OpKind{OpSprite, OpLine, OpFillCircle, OpText}
	if !slices.Equal(kinds, want) {
		t.Fatalf("expected ops %v, got %v", want, kinds)
	}
	if w, h := d.Size(); w != 64 || h != 32 {
		t.Fatalf("unexpected size %dx%d", w, h)
	}

	d.Reset()
	if len(d.Ops()) != 0 {
		t.Fatalf("reset should clear the list")
	}
}

func TestSpriteSize(t *testing.T) {
	w, h := SpriteSize(HeadlessImages{}.Solid(7, 3, color.Black))
	if w != 7 || h != 3 {
		t.Fatalf("expected 7x3, got %vx%v", w, h)
	}
	if w, h := SpriteSize(nil); w != 0 || h != 0 {
		t.Fatalf("nil sprite should have no size")
	}
}

func TestNaturalLess(t *testing.T) {
	names := []string{"run10.png", "run2.png", "Run1.png", "run1b.png"}
	sort.SliceStable(names, func(i, j int) bool { return NaturalLess(names[i], names[j]) })
	want := []string{"Run1.png", "run1b.png", "run2.png", "run10.png"}
	if !slices.Equal(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
}

func TestLoadStripFromAssets(t *testing.T) {
	strip, err := LoadStrip(HeadlessImages{}, assets.FS(), "player/run", 0.1)
	if err != nil {
		t.Fatalf("load strip: %v", err)
	}
	if strip.Name != "run" || len(strip.Frames) != 3 {
		t.Fatalf("expected 3 frames named run, got %d named %q", len(strip.Frames), strip.Name)
	}

	// Frames brighten from run1 to run10.
	var reds []uint32
	for _, f := range strip.Frames {
		r, _, _, _ := f.(image.Image).At(5, 5).RGBA()
		reds = append(reds, r)
	}
	if !(reds[0] < reds[1] && reds[1] < reds[2]) {
		t.Fatalf("frames not in natural order: %v", reds)
	}

	lib := NewAnimationLibrary()
	lib.Register("player.run", strip)
	if _, ok := lib.Get("player.run"); !ok {
		t.Fatalf("expected strip registered")
	}
	lib.Register("empty", Strip{})
	if _, ok := lib.Get("empty"); ok {
		t.Fatalf("empty strips are not registered")
	}
}

func TestLoadImageCaches(t *testing.T) {
	first, err := LoadImage(HeadlessImages{}, "ball.png")
	if err != nil {
		t.Fatalf("load image: %v", err)
	}
	second, err := LoadImage(HeadlessImages{}, "ball.png")
	if err != nil {
		t.Fatalf("load image again: %v", err)
	}
	if first != second {
		t.Fatalf("expected cached sprite")
	}
	if w, h := SpriteSize(first); w != 12 || h != 12 {
		t.Fatalf("expected 12x12 ball, got %vx%v", w, h)
	}
	if _, err := LoadImage(HeadlessImages{}, "missing.png"); err == nil {
		t.Fatalf("expected error for missing image")
	}
}
