// Package shader reads compiled shader files.
package shader

//go:generate glslc ../../shaders/shader.vert -o ../../shaders/vert.spv
//go:generate glslc ../../shaders/shader.frag -o ../../shaders/frag.spv

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/gobuffalo/packr"
)

// Loader reads whole files out of a packr box. During development the box reads straight from disk.
type Loader struct {
	box packr.Box
}

func NewLoader(directory string) (*Loader, error) {
	abs, err := filepath.Abs(directory)
	if err != nil {
		return nil, errors.Wrapf(err, "shader directory %s", directory)
	}
	return &Loader{box: packr.NewBox(abs)}, nil
}

// Load returns the entire contents of name.
func (l *Loader) Load(name string) ([]byte, error) {
	data, err := l.box.Find(name)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open file %s", name)
	}
	return data, nil
}
