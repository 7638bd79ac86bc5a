// Package plugin discovers, loads and drives hookforge plugins.
//
// A plugin is a directory under one of the search paths:
//
//	plugins/
//	└── graph-stats/
//	    ├── metadata.json    # KPlugin.Id, KPlugin.EnabledByDefault, ...
//	    ├── README.md
//	    └── graph-stats.lua  # or graph-stats.wasm, graph-stats.so
//
// The entry point's extension selects the plugin kind. Lua plugins run in
// a sandboxed gopher-lua state, WASM plugins in an extism instance and
// native plugins are Go plugins exporting NewPlugin. Go values can also be
// registered in-process with Manager.RegisterNative.
//
// # Metadata
//
//	{
//	  "KPlugin": {
//	    "Id": "graph-stats",
//	    "Name": "Graph statistics",
//	    "Description": "Counts entities per scene",
//	    "EnabledByDefault": true
//	  },
//	  "X-Hookforge-Capabilities": ["filesystem.read"]
//	}
//
// Capabilities only apply to Lua plugins and must be allowed by the host
// configuration. Manager.SetEnabled rewrites EnabledByDefault in place.
//
// # Lifecycle
//
// Loading creates the module. Activation builds the plugin's dispatch
// table: every registry hook is looked up once and the implemented ones are
// bound. Unloading fires TeardownPlugin, closes the plugin's data registry
// and releases the module.
//
// Lua plugins define global functions named after the hooks:
//
//	local hf = require("hookforge")
//
//	function hookSetupPlugin(h)
//	  h:registerPluginData("stats", { scenes = 0 })
//	  hf.info("stats ready", { scenes = 0 })
//	end
//
//	function hookActiveSceneChanged(h)
//	  local stats = h:getPluginData("stats")
//	  stats.scenes = stats.scenes + 1
//	end
//
// # Hot reload
//
// Watcher reloads a plugin directory after its files stop changing.
package plugin
