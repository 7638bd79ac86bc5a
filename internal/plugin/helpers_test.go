package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// writePlugin creates root/name with metadata, README and an entry point
// named name+ext holding code.
func writePlugin(t *testing.T, root, name, ext, code string, enabled bool, extra string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	md := fmt.Sprintf(`{
  "KPlugin": {"Id": %q, "Name": "Plugin %s", "EnabledByDefault": %t}%s
}`, name, name, enabled, extra)
	files := map[string]string{
		MetadataFile: md,
		ReadmeFile:   "# " + name + "\n",
		name + ext:   code,
	}
	for file, content := range files {
		if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", file, err)
		}
	}
	return dir
}

func writeLuaPlugin(t *testing.T, root, name, code string) string {
	t.Helper()
	return writePlugin(t, root, name, ".lua", code, true, "")
}

// setupOnlyWasm exports hookSetupPlugin, a function returning 0.
var setupOnlyWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x05, 0x01, 0x60, 0x00, 0x01, 0x7f,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x13, 0x01, 0x0f,
	'h', 'o', 'o', 'k', 'S', 'e', 't', 'u', 'p', 'P', 'l', 'u', 'g', 'i', 'n',
	0x00, 0x00,
	0x0a, 0x06, 0x01, 0x04, 0x00, 0x41, 0x00, 0x0b,
}
