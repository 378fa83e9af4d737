package forms

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"time"

	"takeoffadmin/internal/logging"

	"github.com/patrickmn/go-cache"
)

// Preview is an image file rendered as a data URI.
type Preview struct {
	Path     string
	MimeType string
	Size     int64
	DataURI  string
}

// Previewer reads chosen image files and memoises their data URIs.
// A file is re-read when its size or modification time changes.
type Previewer struct {
	cache *cache.Cache
}

// NewPreviewer creates a previewer whose entries expire after ttl.
func NewPreviewer(ttl time.Duration) *Previewer {
	return &Previewer{cache: cache.New(ttl, 2*ttl)}
}

// Preview returns the data URI preview of the file at path.
func (p *Previewer) Preview(path string) (Preview, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Preview{}, fmt.Errorf("preview %s: %w", path, err)
	}
	if info.IsDir() {
		return Preview{}, fmt.Errorf("preview %s: is a directory", path)
	}

	key := fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
	if v, ok := p.cache.Get(key); ok {
		return v.(Preview), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Preview{}, fmt.Errorf("preview %s: %w", path, err)
	}
	mimeType := http.DetectContentType(data)
	pv := Preview{
		Path:     path,
		MimeType: mimeType,
		Size:     int64(len(data)),
		DataURI:  "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data),
	}
	p.cache.Set(key, pv, cache.DefaultExpiration)
	logging.UIDebug("preview cached for %s (%s, %d bytes)", path, mimeType, pv.Size)
	return pv, nil
}

// Len reports the number of cached previews.
func (p *Previewer) Len() int {
	return p.cache.ItemCount()
}
