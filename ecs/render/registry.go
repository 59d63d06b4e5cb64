package render

import "sync"

var (
	imagesMu sync.RWMutex
	images   = map[string]Sprite{}
)

// RegisterImage stores an image by key.
func RegisterImage(key string, img Sprite) {
	if key == "" || img == nil {
		return
	}
	imagesMu.Lock()
	images[key] = img
	imagesMu.Unlock()
}

// GetImage returns a cached image by key.
func GetImage(key string) Sprite {
	if key == "" {
		return nil
	}
	imagesMu.RLock()
	defer imagesMu.RUnlock()
	return images[key]
}
