package lua

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	glua "github.com/yuin/gopher-lua"
)

func TestSandboxRemovesLoaders(t *testing.T) {
	state := newTestState(t)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		if v := state.GetGlobal(name); v != glua.LNil {
			t.Errorf("%s should be removed, got %v", name, v.Type())
		}
	}
	for _, name := range []string{"io", "os", "debug"} {
		if v := state.GetGlobal(name); v != glua.LNil {
			t.Errorf("%s should not be opened, got %v", name, v.Type())
		}
	}
}

func TestSandboxSafeRequire(t *testing.T) {
	state := newTestState(t)

	if err := state.DoString(`local s = require("string"); assert(s.upper("a") == "A")`); err != nil {
		t.Errorf("require(string) error = %v", err)
	}

	for _, mod := range []string{"io", "os", "debug", "socket"} {
		err := state.DoString(`require("` + mod + `")`)
		if err == nil {
			t.Errorf("require(%q) should fail without capability", mod)
			continue
		}
		if !strings.Contains(err.Error(), "not available") {
			t.Errorf("require(%q) error = %v", mod, err)
		}
	}

	err := state.DoString(`require("os")`)
	if err == nil || !strings.Contains(err.Error(), "capability not granted: os") {
		t.Errorf("require(os) error = %v, want the missing capability named", err)
	}
}

func TestSandboxRequireWithWriteOnly(t *testing.T) {
	state := newTestState(t, WithCapabilities(CapabilityFileWrite))

	if err := state.DoString(`local io2 = require("io"); assert(io2 == io)`); err != nil {
		t.Errorf("require(io) with write capability error = %v", err)
	}
}

func TestSandboxGrantFileRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	state := newTestState(t, WithCapabilities(CapabilityFileRead))
	state.LuaState().SetGlobal("path", glua.LString(path))

	err := state.DoString(`
		local f = assert(io.open(path))
		content = f:read("*a")
		f:close()
		count = 0
		for _ in io.lines(path) do count = count + 1 end
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if got := state.GetGlobal("content").String(); got != "one\ntwo\n" {
		t.Errorf("content = %q", got)
	}
	if got := state.GetGlobal("count"); got != glua.LNumber(2) {
		t.Errorf("count = %v, want 2", got)
	}

	if err := state.DoString(`io.open(path, "w")`); err == nil {
		t.Error("write mode should be rejected with read capability only")
	}
	if err := state.DoString(`local io2 = require("io"); assert(io2 == io)`); err != nil {
		t.Errorf("require(io) with capability error = %v", err)
	}
}

func TestSandboxGrantFileWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	state := newTestState(t, WithCapabilities(CapabilityFileWrite))
	state.LuaState().SetGlobal("path", glua.LString(path))

	err := state.DoString(`
		local f = assert(io.open(path, "w"))
		f:write("hello ", "world")
		f:close()
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello world" {
		t.Errorf("file contents = %q", data)
	}
}

func TestSandboxGrantOS(t *testing.T) {
	t.Setenv("HOOKFORGE_SANDBOX_TEST", "yes")
	state := newTestState(t, WithCapabilities(CapabilityOS))

	err := state.DoString(`
		env = os.getenv("HOOKFORGE_SANDBOX_TEST")
		missing = os.getenv("HOOKFORGE_SANDBOX_MISSING")
		now = os.time()
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if got := state.GetGlobal("env").String(); got != "yes" {
		t.Errorf("env = %q, want yes", got)
	}
	if state.GetGlobal("missing") != glua.LNil {
		t.Error("missing env var should be nil")
	}
	if n, ok := state.GetGlobal("now").(glua.LNumber); !ok || n <= 0 {
		t.Errorf("os.time() = %v", state.GetGlobal("now"))
	}
	if state.GetGlobal("os").(*glua.LTable).RawGetString("execute") != glua.LNil {
		t.Error("os.execute should not be exposed")
	}
}

func TestSandboxCapabilities(t *testing.T) {
	state := newTestState(t)
	sb := state.Sandbox()

	if sb.HasCapability(CapabilityOS) {
		t.Error("capability granted before Grant()")
	}
	if err := sb.CheckCapability(CapabilityOS); err == nil {
		t.Error("CheckCapability() should fail before Grant()")
	}
	if err := sb.Grant(CapabilityOS); err != nil {
		t.Fatalf("Grant() error = %v", err)
	}
	if err := sb.Grant(CapabilityFileRead); err != nil {
		t.Fatalf("Grant() error = %v", err)
	}
	if err := sb.CheckCapability(CapabilityOS); err != nil {
		t.Errorf("CheckCapability() error = %v", err)
	}

	caps := sb.Capabilities()
	if len(caps) != 2 || caps[0] != CapabilityFileRead || caps[1] != CapabilityOS {
		t.Errorf("Capabilities() = %v", caps)
	}
}

func TestParseCapability(t *testing.T) {
	tests := []struct {
		in      string
		want    Capability
		wantErr bool
	}{
		{"filesystem.read", CapabilityFileRead, false},
		{" filesystem.write ", CapabilityFileWrite, false},
		{"os", CapabilityOS, false},
		{"unsafe", CapabilityUnsafe, false},
		{"network", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCapability(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCapability(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCapability(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCapabilityError(t *testing.T) {
	err := &CapabilityError{Capability: CapabilityOS}
	if err.Error() != "capability not granted: os" {
		t.Errorf("Error() = %q", err.Error())
	}
}
