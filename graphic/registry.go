package graphic

import (
	"bytes"
	"strings"
	"sync"
)

// Format describes one registered image format.
type Format struct {
	// Ext is the extension token the format is keyed by, lower case and
	// without a leading dot ("jp2").
	Ext string

	// Name is the human-readable format name ("JPEG2000").
	Name string

	// Magic holds signature prefixes used by Detect. A format with no
	// magic entries is never matched by sniffing.
	Magic [][]byte

	// New constructs a fresh graphic object for this format.
	New func() Graphic
}

// Registry maps extension tokens and format names to Format entries.
// Registration and deregistration are explicit calls made by the host at
// startup and shutdown; nothing registers itself from package init.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]*Format
	order   []*Format // registration order, drives Detect and List
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{formats: make(map[string]*Format)}
}

var defaultRegistry = NewRegistry()

// Register adds f to the default registry.
func Register(f Format) { defaultRegistry.Register(f) }

// Unregister removes the format keyed by ext from the default registry.
func Unregister(ext string) { defaultRegistry.Unregister(ext) }

// Get retrieves a format from the default registry by extension or name.
func Get(extOrName string) (*Format, error) { return defaultRegistry.Get(extOrName) }

// Detect finds the format in the default registry whose signature matches data.
func Detect(data []byte) (*Format, error) { return defaultRegistry.Detect(data) }

// List returns the default registry's formats in registration order.
func List() []*Format { return defaultRegistry.List() }

// Register adds f to the registry under both its extension and its name.
// Re-registering an extension replaces the previous entry.
func (r *Registry) Register(f Format) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeLocked(f.Ext)
	r.removeLocked(f.Name)
	entry := &f
	r.formats[key(f.Ext)] = entry
	r.formats[key(f.Name)] = entry
	r.order = append(r.order, entry)
}

// Unregister removes the format keyed by ext, along with its name alias.
// Unknown extensions are ignored.
func (r *Registry) Unregister(ext string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(ext)
}

func (r *Registry) removeLocked(ext string) {
	entry, ok := r.formats[key(ext)]
	if !ok {
		return
	}
	delete(r.formats, key(entry.Ext))
	delete(r.formats, key(entry.Name))
	for i, e := range r.order {
		if e == entry {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get retrieves a format by extension token or format name,
// case-insensitively.
func (r *Registry) Get(extOrName string) (*Format, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formats[key(extOrName)]
	if !ok {
		return nil, ErrFormatNotFound
	}
	return f, nil
}

// Detect returns the first registered format whose signature prefix matches
// data, in registration order.
func (r *Registry) Detect(data []byte) (*Format, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.order {
		for _, magic := range f.Magic {
			if len(magic) > 0 && bytes.HasPrefix(data, magic) {
				return f, nil
			}
		}
	}
	return nil, ErrUnknownFormat
}

// List returns all registered formats in registration order.
func (r *Registry) List() []*Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Format, len(r.order))
	copy(out, r.order)
	return out
}

func key(s string) string { return strings.ToLower(s) }
