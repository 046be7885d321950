package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ImageCache provides thread-safe caching of decoded images to avoid
// redundant disk reads when several filters are tried on the same upload.
//
// Images are keyed by the exact path string passed to Load. Each entry
// remembers the file's modification time and size; when either changes on
// disk the entry is evicted and the file decoded again, so an image
// overwritten in place is never served stale. Decoding goes through
// imaging.Open with EXIF auto-orientation, so a photo taken in portrait mode
// is cached upright. PNG, JPEG, GIF, BMP, TIFF and WebP are supported.
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/photo.jpg")
//	if err != nil {
//	    log.Fatal(err)
//	}
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cacheEntry
}

type cacheEntry struct {
	img     image.Image
	modTime time.Time
	size    int64
}

func (e cacheEntry) matches(fi os.FileInfo) bool {
	return e.size == fi.Size() && e.modTime.Equal(fi.ModTime())
}

// NewImageCache creates an empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]cacheEntry),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
//
// The returned image must be treated as read-only; it is shared by every
// caller that loads the same unchanged file.
func (c *ImageCache) Load(path string) (image.Image, error) {
	e, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return e.img, nil
}

func (c *ImageCache) load(path string) (cacheEntry, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return cacheEntry{}, fmt.Errorf("failed to open image: %w", err)
	}

	c.mu.RLock()
	e, ok := c.images[path]
	c.mu.RUnlock()
	if ok {
		if e.matches(fi) {
			return e, nil
		}
		c.Evict(path)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return cacheEntry{}, fmt.Errorf("failed to decode image: %w", err)
	}

	e = cacheEntry{img: img, modTime: fi.ModTime(), size: fi.Size()}
	c.mu.Lock()
	c.images[path] = e
	c.mu.Unlock()

	return e, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Evict removes a specific image from the cache by its path. It does
// nothing if the path is not cached.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels, after auto-orientation.
	Width int `json:"width"`

	// Height is the image height in pixels, after auto-orientation.
	Height int `json:"height"`

	// Format is the format implied by the file extension: "png", "jpeg",
	// "gif", "bmp", "tiff", "webp", or "unknown".
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// Grayscale is true when the decoded image has a single gray channel.
	Grayscale bool `json:"grayscale"`

	// HasAlpha indicates whether the decoded image carries an alpha channel.
	// Alpha is discarded when the image is filtered.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// Intensity summarizes the luma distribution.
	Intensity *IntensityStats `json:"intensity"`
}

// LoadImageInfo loads an image into the cache (if not already cached) and
// returns its metadata.
//
// Color depth and alpha are derived from the decoded Go image type:
//   - *image.Gray, *image.Gray16 -> grayscale
//   - *image.RGBA64, *image.NRGBA64, *image.Gray16 -> "16-bit"
//   - *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64 -> alpha
//
// Auto-orientation re-encodes rotated images as *image.NRGBA, so a rotated
// JPEG reports HasAlpha even though every pixel is opaque.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	e, err := cache.load(path)
	if err != nil {
		return nil, err
	}
	img := e.img

	info := &ImageInfo{
		Width:         img.Bounds().Dx(),
		Height:        img.Bounds().Dy(),
		Format:        formatFromExt(path),
		ColorDepth:    "8-bit",
		FileSizeBytes: e.size,
	}

	buf, err := ToBuffer(img)
	if err != nil {
		return nil, err
	}
	if info.Intensity, err = Stats(buf); err != nil {
		return nil, err
	}

	switch img.(type) {
	case *image.Gray:
		info.Grayscale = true
	case *image.Gray16:
		info.Grayscale = true
		info.ColorDepth = "16-bit"
	case *image.RGBA, *image.NRGBA:
		info.HasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		info.HasAlpha = true
		info.ColorDepth = "16-bit"
	}

	return info, nil
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".webp":
		return "webp"
	}
	return "unknown"
}
