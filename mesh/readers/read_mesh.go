package readers

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/notargets/meshclean/mesh"
)

// ReadMeshFile reads a mesh file based on extension. A trailing .gz, .zst or
// .lz4 is decompressed on the fly.
func ReadMeshFile(filename string) (msh *mesh.Mesh, err error) {
	base, c := SplitCompression(filename)
	ext := strings.ToLower(filepath.Ext(base))

	var parse func(io.Reader) (*mesh.Mesh, error)
	switch ext {
	case ".yaml", ".yml", ".json":
		parse = ParseYAML
	case ".su2":
		parse = ParseSU2
	case ".msh":
		parse = ParseGmsh22
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s", ext)
	}
	r, err := openDecompressed(filename, c)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	if msh, err = parse(r); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if msh.Title == "" {
		msh.Title = filepath.Base(base)
	}
	return
}

// WriteMeshFile writes m as YAML or JSON based on extension, compressed when
// the name ends in .gz, .zst or .lz4.
func WriteMeshFile(filename string, m *mesh.Mesh) (err error) {
	base, c := SplitCompression(filename)
	var write func(io.Writer, *mesh.Mesh) error
	switch ext := strings.ToLower(filepath.Ext(base)); ext {
	case ".yaml", ".yml":
		write = WriteYAML
	case ".json":
		write = WriteJSON
	default:
		return fmt.Errorf("unsupported output format: %s", ext)
	}
	w, err := createCompressed(filename, c)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%s: %w", filename, cerr)
		}
	}()
	return write(w, m)
}
