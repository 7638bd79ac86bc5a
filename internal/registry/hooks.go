package registry

func defaultHooks() []HookDefinition {
	return []HookDefinition{
		{
			Name:    "SetupPlugin",
			Handler: "PluginSetupHandler",
			Doc:     "Called as soon as the host initializes. Plugins set up their data structures here.",
		},
		{
			Name:    "MainWindowReady",
			Handler: "PluginMainWindowReadyHandler",
			Doc:     "Called once the main window is ready.",
		},
		{
			Name:    "TeardownPlugin",
			Handler: "PluginSetupHandler",
			Doc:     "Called just before the host closes or the plugin is removed. Plugins release every resource they acquired here.",
		},
		{
			Name:    "GraphicsViewContextMenu",
			Handler: "PluginContextMenuHandler",
			Doc:     "Controls the graphics view context menu.",
		},
		{
			Name:    "SetupEntityReport",
			Handler: "PluginEntityReportHandler",
			Doc:     "Adds an action to the reports menu that produces an HTML report.",
		},
		{
			Name:    "PhysicalParserOnHeaderFound",
			Handler: "PluginPhysicalParserOnHeaderFoundHandler",
			Doc:     "Called every time the physical parser finds an include.",
		},
		{
			Name:    "LogicalParserOnCppCommentFound",
			Handler: "PluginLogicalParserOnCppCommentFoundHandler",
			Doc:     "Called every time the logical parser finds a comment.",
		},
		{
			Name:    "OnParseCompleted",
			Handler: "PluginParseCompletedHandler",
			Doc:     "Called after physical and logical parsing are done.",
		},
		{
			Name:    "ActiveSceneChanged",
			Handler: "PluginActiveSceneChangedHandler",
			Doc:     "Called when the active scene changes.",
		},
		{
			Name:    "SceneDestroyed",
			Handler: "PluginSceneDestroyedHandler",
			Doc:     "Called when a scene is destroyed.",
		},
		{
			Name:    "GraphChanged",
			Handler: "PluginGraphChangedHandler",
			Doc:     "Called when the graph in a scene changes.",
		},
	}
}
