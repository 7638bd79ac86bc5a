// Package gen generates the hook bindings from the registry.
//
// Output depends only on the registry contents and is gofmt'd, so running
// the generator twice on the same registry yields identical bytes.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"

	"github.com/dshills/hookforge/internal/registry"
)

// FileName is the name of the generated file.
const FileName = "hookbindings_gen.go"

// Options configures generation.
type Options struct {
	// Package is the package clause of the generated file.
	Package string
}

func (o Options) withDefaults() Options {
	if o.Package == "" {
		o.Package = "bindings"
	}
	return o
}

// Generate returns the bindings source for r. It fails with a
// *registry.RegistryIntegrityError when the registry is inconsistent.
func Generate(r *registry.Registry, opts Options) ([]byte, error) {
	opts = opts.withDefaults()

	if err := r.Verify(); err != nil {
		return nil, err
	}

	model, err := buildModel(r, opts.Package)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, model); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return src, nil
}

// WriteFile generates the bindings into dir/FileName. The file is written
// to a temporary name and renamed, so a failed run leaves any previous
// output untouched.
func WriteFile(r *registry.Registry, dir string, opts Options) (string, error) {
	src, err := Generate(r, opts)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, "."+FileName+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(src); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName)
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("rename %s: %w", path, err)
	}
	return path, nil
}
