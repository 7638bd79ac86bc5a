package plugin

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	plua "github.com/dshills/hookforge/internal/plugin/lua"
)

// MetadataFile is the name of a plugin's metadata file.
const MetadataFile = "metadata.json"

// JSON paths inside metadata.json.
const (
	pathID               = "KPlugin.Id"
	pathName             = "KPlugin.Name"
	pathDescription      = "KPlugin.Description"
	pathEnabledByDefault = "KPlugin.EnabledByDefault"
	pathCapabilities     = "X-Hookforge-Capabilities"
)

// Metadata is the parsed metadata.json of a plugin.
type Metadata struct {
	ID               string
	Name             string
	Description      string
	EnabledByDefault bool
	Capabilities     []plua.Capability

	path string
}

// LoadMetadata reads the metadata file at path. A missing KPlugin.Id
// falls back to the name of the plugin directory.
func LoadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	return parseMetadata(path, data)
}

func parseMetadata(path string, data []byte) (*Metadata, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %s is not valid JSON", ErrInvalidPlugin, path)
	}

	fields := gjson.GetManyBytes(data, pathID, pathName, pathDescription, pathEnabledByDefault)
	m := &Metadata{
		ID:               fields[0].String(),
		Name:             fields[1].String(),
		Description:      fields[2].String(),
		EnabledByDefault: fields[3].Bool(),
		path:             path,
	}
	if m.ID == "" {
		m.ID = filepath.Base(filepath.Dir(path))
	}
	if m.Name == "" {
		m.Name = m.ID
	}

	var capErr error
	gjson.GetBytes(data, pathCapabilities).ForEach(func(_, v gjson.Result) bool {
		c, err := plua.ParseCapability(v.String())
		if err != nil {
			capErr = fmt.Errorf("%w: %s: %v", ErrInvalidPlugin, path, err)
			return false
		}
		m.Capabilities = append(m.Capabilities, c)
		return true
	})
	if capErr != nil {
		return nil, capErr
	}
	return m, nil
}

// Path returns the metadata file path.
func (m *Metadata) Path() string {
	return m.path
}

// SetEnabled rewrites KPlugin.EnabledByDefault in the metadata file,
// leaving every other field as written.
func (m *Metadata) SetEnabled(enabled bool) error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}

	data, err = sjson.SetBytes(data, pathEnabledByDefault, enabled)
	if err != nil {
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	if err := writeFileAtomic(m.path, data); err != nil {
		return err
	}
	m.EnabledByDefault = enabled
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
