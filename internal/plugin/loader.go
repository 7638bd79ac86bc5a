package plugin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
)

// ReadmeFile must be present in every plugin directory.
const ReadmeFile = "README.md"

// Loader discovers plugins in search paths.
type Loader struct {
	paths []string
	log   logrus.FieldLogger
}

// PluginInfo describes a discovered plugin directory.
type PluginInfo struct {
	Dir        string
	Kind       Kind
	EntryPoint string
	Metadata   *Metadata
}

// ID returns the plugin id.
func (i *PluginInfo) ID() string {
	return i.Metadata.ID
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithPaths sets the plugin search paths.
func WithPaths(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.paths = paths
	}
}

// WithLoaderLogger sets the logger used for skipped directories.
func WithLoaderLogger(log logrus.FieldLogger) LoaderOption {
	return func(l *Loader) {
		l.log = log
	}
}

// NewLoader creates a new plugin loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		paths: DefaultPluginPaths(),
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// DefaultPluginPaths returns the default plugin search paths.
func DefaultPluginPaths() []string {
	paths := make([]string, 0, 2)

	// User plugins: ~/.local/share/hookforge/plugins/
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".local", "share", "hookforge", "plugins"))
	}

	// Project plugins: ./plugins/
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, "plugins"))
	}

	return paths
}

// Paths returns the configured search paths.
func (l *Loader) Paths() []string {
	return l.paths
}

// Discover finds all valid plugins in the search paths. Paths are scanned
// in order and directories within a path by name; when two directories
// declare the same id the first one wins. Invalid directories are logged
// and skipped.
func (l *Loader) Discover() ([]*PluginInfo, error) {
	seen := make(map[string]bool)
	var plugins []*PluginInfo

	for _, basePath := range l.paths {
		found, err := l.discoverInPath(basePath)
		if err != nil {
			l.log.WithError(err).WithField("path", basePath).Warn("skipping plugin search path")
			continue
		}
		for _, info := range found {
			if seen[info.ID()] {
				l.log.WithFields(logrus.Fields{
					"plugin": info.ID(),
					"dir":    info.Dir,
				}).Warn("plugin id already provided by an earlier path")
				continue
			}
			seen[info.ID()] = true
			plugins = append(plugins, info)
		}
	}

	return plugins, nil
}

func (l *Loader) discoverInPath(basePath string) ([]*PluginInfo, error) {
	entries, err := os.ReadDir(basePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var found []*PluginInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(basePath, entry.Name())
		info, err := Inspect(dir)
		if err != nil {
			l.log.WithError(err).WithField("dir", dir).Debug("not a plugin directory")
			continue
		}
		found = append(found, info)
	}
	return found, nil
}

// Inspect validates a single plugin directory. The directory <dir>/<name>
// must hold metadata.json, README.md and exactly one of <name>.so,
// <name>.lua or <name>.wasm.
func Inspect(dir string) (*PluginInfo, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(abs)

	metadataPath := filepath.Join(abs, MetadataFile)
	if !isFile(metadataPath) || !isFile(filepath.Join(abs, ReadmeFile)) {
		return nil, fmt.Errorf("%w: %s", ErrMissingMetadata, abs)
	}

	info := &PluginInfo{Dir: abs}
	entryPoints := 0
	for _, kind := range Kinds {
		candidate := filepath.Join(abs, name+kind.Extension())
		if isFile(candidate) {
			entryPoints++
			info.Kind = kind
			info.EntryPoint = candidate
		}
	}
	switch entryPoints {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNoEntryPoint, abs)
	case 1:
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousEntryPoint, abs)
	}

	md, err := LoadMetadata(metadataPath)
	if err != nil {
		return nil, err
	}
	info.Metadata = md
	return info, nil
}

func isFile(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}
