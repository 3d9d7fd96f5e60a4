package parse

import (
	"context"
	"os"
	"path/filepath"

	"github.com/viant/afs"
	"golang.org/x/mod/modfile"
)

// Source is one loaded source file together with its originating unit.
type Source struct {
	Location string
	Data     []byte
	Unit     string // module path from the enclosing go.mod, when found
}

// Loader reads source files through the abstract file storage service and
// derives the originating unit identifier from the enclosing module file.
type Loader struct {
	fs afs.Service
}

// NewLoader creates a loader backed by the default afs service.
func NewLoader() *Loader {
	return &Loader{fs: afs.New()}
}

// Load downloads the source at the given location and resolves its unit
// identifier by searching parent directories for a go.mod. A missing module
// file is not an error; the unit is simply left empty.
func (l *Loader) Load(ctx context.Context, location string) (*Source, error) {
	data, err := l.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, err
	}
	source := &Source{Location: location, Data: data}
	if modPath := findModFile(filepath.Dir(location)); modPath != "" {
		if content, err := os.ReadFile(modPath); err == nil {
			if mod, err := modfile.ParseLax(modPath, content, nil); err == nil && mod.Module != nil {
				source.Unit = mod.Module.Mod.Path
			}
		}
	}
	return source, nil
}

// findModFile searches up the directory tree for a go.mod file.
func findModFile(dir string) string {
	for {
		path := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir || parent == "." || parent == "/" {
			break
		}
		dir = parent
	}
	return ""
}
