package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/nybble/assets"
)

// ImageSource creates sprites. The GPU source backs a running game; the
// headless source serves tools and tests that never open a window.
type ImageSource interface {
	Solid(width, height int, clr color.Color) Sprite
	Decode(img image.Image) Sprite
}

// GPUImages creates *ebiten.Image sprites.
type GPUImages struct{}

func (GPUImages) Solid(width, height int, clr color.Color) Sprite {
	img := ebiten.NewImage(max(width, 1), max(height, 1))
	img.Fill(clr)
	return img
}

func (GPUImages) Decode(img image.Image) Sprite {
	return ebiten.NewImageFromImage(img)
}

// HeadlessImages creates in-memory RGBA sprites.
type HeadlessImages struct{}

func (HeadlessImages) Solid(width, height int, clr color.Color) Sprite {
	img := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: clr}, image.Point{}, draw.Src)
	return img
}

func (HeadlessImages) Decode(img image.Image) Sprite {
	return img
}

// LoadImage loads an image from assets or filesystem and caches it by key.
func LoadImage(src ImageSource, key string) (Sprite, error) {
	if key == "" {
		return nil, fmt.Errorf("empty image key")
	}
	if img := GetImage(key); img != nil {
		return img, nil
	}
	decoded, err := decodeFromAssetsOrFS(key)
	if err != nil {
		return nil, err
	}
	img := src.Decode(decoded)
	RegisterImage(key, img)
	return img, nil
}

func decodeFromAssetsOrFS(path string) (image.Image, error) {
	if img, err := assets.DecodeImage(path); err == nil {
		return img, nil
	}
	tried := []string{path, filepath.Join("assets", path), filepath.Base(path)}
	for _, p := range tried {
		if b, err := os.ReadFile(p); err == nil {
			if im, _, err := image.Decode(bytes.NewReader(b)); err == nil {
				return im, nil
			}
		}
	}
	return nil, fmt.Errorf("failed to load image %s", path)
}
