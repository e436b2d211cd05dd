// Package preview keeps the revocable preview handles created for staged
// images, the terminal counterpart of browser object URLs.
package preview

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"github.com/google/uuid"
	"github.com/smartlib/libreg/internal/logger"
	"github.com/smartlib/libreg/internal/wizard"
)

// scheme prefixes every handle.
const scheme = "blob:libreg/"

// Info is what a presentation layer can show for a handle.
type Info struct {
	Name      string
	MediaType string
	Size      int
	Width     int // 0 when the format could not be decoded
	Height    int
}

// Registry allocates and revokes preview handles.
// It is safe for concurrent use; the MCP server and TUI may share one.
type Registry struct {
	mu      sync.Mutex
	entries map[wizard.PreviewHandle]Info
	created int
	revoked int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[wizard.PreviewHandle]Info)}
}

// Create allocates a handle for a.
func (r *Registry) Create(a wizard.Asset) (wizard.PreviewHandle, error) {
	if len(a.Data) == 0 {
		return "", fmt.Errorf("preview of %q: empty file", a.Name)
	}

	info := Info{Name: a.Name, MediaType: a.MediaType, Size: len(a.Data)}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(a.Data)); err == nil {
		info.Width, info.Height = cfg.Width, cfg.Height
	}

	h := wizard.PreviewHandle(scheme + uuid.NewString())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[h] = info
	r.created++
	logger.Debug("Preview created: %s (%s, %d bytes)", h, a.Name, info.Size)
	return h, nil
}

// Revoke releases a handle. Unknown handles are ignored.
func (r *Registry) Revoke(h wizard.PreviewHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[h]; !ok {
		logger.Warn("Revoke of unknown preview handle %s", h)
		return
	}
	delete(r.entries, h)
	r.revoked++
	logger.Debug("Preview revoked: %s", h)
}

// Lookup returns the info of a live handle.
func (r *Registry) Lookup(h wizard.PreviewHandle) (Info, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.entries[h]
	return info, ok
}

// Live returns the number of handles not yet revoked.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Stats returns how many handles were created and revoked in total.
func (r *Registry) Stats() (created, revoked int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.created, r.revoked
}
