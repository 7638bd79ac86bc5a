package lua

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Capability represents a permission that can be granted to plugins.
type Capability string

// Available capabilities.
const (
	CapabilityFileRead  Capability = "filesystem.read"
	CapabilityFileWrite Capability = "filesystem.write"
	CapabilityOS        Capability = "os"
	CapabilityUnsafe    Capability = "unsafe" // Full Lua stdlib access
)

// ParseCapability validates a capability name from a manifest or config.
func ParseCapability(name string) (Capability, error) {
	switch c := Capability(strings.TrimSpace(name)); c {
	case CapabilityFileRead, CapabilityFileWrite, CapabilityOS, CapabilityUnsafe:
		return c, nil
	default:
		return "", fmt.Errorf("unknown capability %q", name)
	}
}

// Sandbox restricts Lua execution to safe operations.
type Sandbox struct {
	L *lua.LState

	capabilities map[Capability]bool
	modules      map[string]bool
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState) *Sandbox {
	return &Sandbox{
		L:            L,
		capabilities: make(map[Capability]bool),
		modules: map[string]bool{
			"string":    true,
			"table":     true,
			"math":      true,
			"coroutine": true,
		},
	}
}

// Install removes the functions that load code from outside the plugin and
// replaces require with a whitelist.
func (s *Sandbox) Install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.installSafeRequire()
}

// AllowModule lets require load a preloaded module.
func (s *Sandbox) AllowModule(name string) {
	s.modules[name] = true
}

// installSafeRequire clears the search paths so nothing loads from disk and
// only lets whitelisted or preloaded modules through.
func (s *Sandbox) installSafeRequire() {
	if pkg, ok := s.L.GetGlobal("package").(*lua.LTable); ok {
		s.L.SetField(pkg, "path", lua.LString(""))
		s.L.SetField(pkg, "cpath", lua.LString(""))
	}

	original := s.L.GetGlobal("require")
	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)

		switch {
		case s.modules[name]:
		case name == "io":
			err := s.CheckCapability(CapabilityFileRead)
			if err != nil && s.HasCapability(CapabilityFileWrite) {
				err = nil
			}
			if err != nil {
				L.RaiseError("module %q is not available: %s", name, err.Error())
				return 0
			}
			L.Push(L.GetGlobal("io"))
			return 1
		case name == "os":
			if err := s.CheckCapability(CapabilityOS); err != nil {
				L.RaiseError("module %q is not available: %s", name, err.Error())
				return 0
			}
			L.Push(L.GetGlobal("os"))
			return 1
		case name == "debug":
			if err := s.CheckCapability(CapabilityUnsafe); err != nil {
				L.RaiseError("module %q is not available: %s", name, err.Error())
				return 0
			}
		default:
			L.RaiseError("module %q is not available", name)
			return 0
		}

		L.Push(original)
		L.Push(lua.LString(name))
		L.Call(1, 1)
		return 1
	}))
}

// Grant enables a capability and installs the API it unlocks.
func (s *Sandbox) Grant(c Capability) error {
	switch c {
	case CapabilityFileRead:
		s.installIO(false)
	case CapabilityFileWrite:
		s.installIO(true)
	case CapabilityOS:
		s.installOS()
	case CapabilityUnsafe:
		lua.OpenIo(s.L)
		lua.OpenOs(s.L)
		lua.OpenDebug(s.L)
	default:
		return &CapabilityError{Capability: c}
	}
	s.capabilities[c] = true
	return nil
}

// HasCapability returns true if the capability is granted.
func (s *Sandbox) HasCapability(c Capability) bool {
	return s.capabilities[c]
}

// Capabilities returns the granted capabilities, sorted.
func (s *Sandbox) Capabilities() []Capability {
	caps := make([]Capability, 0, len(s.capabilities))
	for c := range s.capabilities {
		caps = append(caps, c)
	}
	sort.Slice(caps, func(i, j int) bool { return caps[i] < caps[j] })
	return caps
}

// CheckCapability returns an error if the capability is not granted.
func (s *Sandbox) CheckCapability(c Capability) error {
	if !s.capabilities[c] {
		return &CapabilityError{Capability: c}
	}
	return nil
}

// installIO provides io.open and io.lines. Write modes need write access.
func (s *Sandbox) installIO(write bool) {
	if s.HasCapability(CapabilityUnsafe) {
		return
	}
	writable := write || s.HasCapability(CapabilityFileWrite)

	ioMod := s.L.NewTable()
	s.L.SetField(ioMod, "open", s.L.NewFunction(func(L *lua.LState) int {
		path := L.CheckString(1)
		mode := L.OptString(2, "r")

		flag, ok := openFlags[strings.TrimSuffix(mode, "b")]
		if !ok {
			L.ArgError(2, "invalid mode")
			return 0
		}
		if flag != os.O_RDONLY && !writable {
			L.ArgError(2, "only read modes are allowed")
			return 0
		}

		file, err := os.OpenFile(path, flag, 0o644)
		if err != nil {
			L.Push(lua.LNil)
			L.Push(lua.LString(err.Error()))
			return 2
		}
		ud := L.NewUserData()
		ud.Value = file
		L.SetMetatable(ud, s.fileMetatable())
		L.Push(ud)
		return 1
	}))
	s.L.SetField(ioMod, "lines", s.L.NewFunction(func(L *lua.LState) int {
		content, err := os.ReadFile(L.CheckString(1))
		if err != nil {
			L.RaiseError("cannot open file: %s", err.Error())
			return 0
		}
		L.Push(linesIterator(L, string(content)))
		return 1
	}))
	s.L.SetGlobal("io", ioMod)
}

var openFlags = map[string]int{
	"r":  os.O_RDONLY,
	"w":  os.O_WRONLY | os.O_CREATE | os.O_TRUNC,
	"a":  os.O_WRONLY | os.O_CREATE | os.O_APPEND,
	"r+": os.O_RDWR,
	"w+": os.O_RDWR | os.O_CREATE | os.O_TRUNC,
	"a+": os.O_RDWR | os.O_CREATE | os.O_APPEND,
}

const fileTypeName = "hookforge.file"

func (s *Sandbox) fileMetatable() lua.LValue {
	if mt := s.L.GetTypeMetatable(fileTypeName); mt != lua.LNil {
		return mt
	}
	mt := s.L.NewTypeMetatable(fileTypeName)
	s.L.SetField(mt, "__index", s.L.SetFuncs(s.L.NewTable(), map[string]lua.LGFunction{
		"read": func(L *lua.LState) int {
			f := checkFile(L)
			content, err := os.ReadFile(f.Name())
			if err != nil {
				L.Push(lua.LNil)
				L.Push(lua.LString(err.Error()))
				return 2
			}
			L.Push(lua.LString(content))
			return 1
		},
		"lines": func(L *lua.LState) int {
			content, err := os.ReadFile(checkFile(L).Name())
			if err != nil {
				L.RaiseError("cannot read file: %s", err.Error())
				return 0
			}
			L.Push(linesIterator(L, string(content)))
			return 1
		},
		"write": func(L *lua.LState) int {
			f := checkFile(L)
			for i := 2; i <= L.GetTop(); i++ {
				if _, err := f.WriteString(L.CheckString(i)); err != nil {
					L.Push(lua.LNil)
					L.Push(lua.LString(err.Error()))
					return 2
				}
			}
			L.Push(L.Get(1))
			return 1
		},
		"close": func(L *lua.LState) int {
			if err := checkFile(L).Close(); err != nil {
				L.Push(lua.LNil)
				L.Push(lua.LString(err.Error()))
				return 2
			}
			L.Push(lua.LTrue)
			return 1
		},
	}))
	return mt
}

func checkFile(L *lua.LState) *os.File {
	ud := L.CheckUserData(1)
	f, ok := ud.Value.(*os.File)
	if !ok {
		L.ArgError(1, "expected file")
	}
	return f
}

func linesIterator(L *lua.LState, content string) *lua.LFunction {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	idx := 0
	return L.NewFunction(func(L *lua.LState) int {
		if idx >= len(lines) {
			return 0
		}
		L.Push(lua.LString(lines[idx]))
		idx++
		return 1
	})
}

// installOS provides the read-only parts of os.
func (s *Sandbox) installOS() {
	if s.HasCapability(CapabilityUnsafe) {
		return
	}
	start := time.Now()
	s.L.SetGlobal("os", s.L.SetFuncs(s.L.NewTable(), map[string]lua.LGFunction{
		"getenv": func(L *lua.LState) int {
			v, ok := os.LookupEnv(L.CheckString(1))
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LString(v))
			return 1
		},
		"time": func(L *lua.LState) int {
			L.Push(lua.LNumber(time.Now().Unix()))
			return 1
		},
		"clock": func(L *lua.LState) int {
			L.Push(lua.LNumber(time.Since(start).Seconds()))
			return 1
		},
	}))
}
