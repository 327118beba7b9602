package encoder

import (
	"fmt"
	"path/filepath"
	"strings"
)

// priority is the display order of formats.
var priority = []string{"png", "jpeg", "bmp", "tiff"}

// Registry maps format names and file extensions to encoders.
type Registry struct {
	encoders map[string]Encoder
	byExt    map[string]Encoder
}

// NewRegistry creates a registry holding every built-in encoder.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
		byExt:    make(map[string]Encoder),
	}

	all := []Encoder{
		&PNGEncoder{},
		&JPEGEncoder{},
		&BMPEncoder{},
		&TIFFEncoder{},
	}

	for _, enc := range all {
		r.encoders[enc.Format()] = enc
		for _, ext := range enc.Extensions() {
			r.byExt[ext] = enc
		}
	}

	return r
}

// Get returns an encoder for the given format, or nil if unknown.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[strings.ToLower(format)]
}

// ForPath picks the encoder matching path's extension.
func (r *Registry) ForPath(path string) (Encoder, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return nil, fmt.Errorf("%s has no extension; use one of %s", path, r)
	}
	enc, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("no encoder for .%s; use one of %s", ext, r)
	}
	return enc, nil
}

// Available returns all format names in priority order.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range priority {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return strings.Join(avail, ", ")
}
