package registry

const (
	docGetPluginData = "Returns the plugin data previously registered with registerPluginData."
	docEntityScope   = "Entities are only guaranteed to be valid while the calling hook runs."
)

func getPluginDataOp() OperationDefinition {
	return OperationDefinition{
		Name:     "getPluginData",
		Returns:  Opaque,
		Params:   []Param{{Type: String, Name: "id"}},
		Doc:      docGetPluginData,
		Strategy: GenericTemplate{Shape: ShapeRetrieveValue},
	}
}

func getterOp(name string, ret TypeDescriptor, doc string) OperationDefinition {
	return OperationDefinition{Name: name, Returns: ret, Doc: doc, Strategy: Generated{}}
}

func entityLookupOps() []OperationDefinition {
	return []OperationDefinition{
		getterOp("getAllEntitiesInCurrentView", EntityList,
			"Returns the entities in the current view. "+docEntityScope),
		{
			Name:     "getEntityByQualifiedName",
			Returns:  Entity,
			Params:   []Param{{Type: String, Name: "qualifiedName"}},
			Doc:      "Returns the entity with the given qualified name, or nil. " + docEntityScope,
			Strategy: Generated{},
		},
	}
}

func runQueryOp() OperationDefinition {
	return OperationDefinition{
		Name:     "runQueryOnDatabase",
		Returns:  Rows,
		Params:   []Param{{Type: String, Name: "query"}},
		Doc:      "Runs a query on the active database and returns its rows.",
		Strategy: Generated{},
	}
}

func defaultHandlers() []HandlerType {
	return []HandlerType{
		{
			Name: "PluginSetupHandler",
			Doc:  "Passed to SetupPlugin and TeardownPlugin.",
			Operations: []OperationDefinition{
				{
					Name:     "registerPluginData",
					Returns:  Void,
					Params:   []Param{{Type: String, Name: "id"}, {Type: Opaque, Name: "data"}},
					Doc:      "Registers a plugin data structure that can be retrieved in other hooks.",
					Strategy: GenericTemplate{Shape: ShapeRegisterValue},
				},
				getPluginDataOp(),
				{
					Name:     "unregisterPluginData",
					Returns:  Void,
					Params:   []Param{{Type: String, Name: "id"}},
					Doc:      "Unregisters plugin data. Without a finalizer the value is not released.",
					Strategy: GenericTemplate{Shape: ShapeUnregisterValue},
				},
				{
					Name:     "getScriptInterpreter",
					Returns:  HandlerRef("PluginScriptInterpHandler"),
					Doc:      "Returns a handle to the host scripting interpreter.",
					Strategy: Unavailable{Reason: "scripts already run inside an interpreter"},
				},
			},
		},
		{
			Name: "PluginScriptInterpHandler",
			Doc:  "Runs code in the host scripting interpreter.",
			Operations: []OperationDefinition{
				{
					Name:     "execScript",
					Returns:  Void,
					Params:   []Param{{Type: String, Name: "code"}},
					Doc:      "Executes the given Lua code in the host interpreter.",
					Strategy: Generated{},
				},
			},
		},
		{
			Name: "PluginMainWindowReadyHandler",
			Doc:  "Passed to MainWindowReady.",
			Operations: []OperationDefinition{
				getPluginDataOp(),
				{
					Name:    "addMenu",
					Returns: Void,
					Params: []Param{
						{Type: String, Name: "title"},
						{Type: CallbackOf("PluginMenuBarActionHandler"), Name: "action"},
					},
					Doc:      "Adds a menu to the main window.",
					Strategy: Unavailable{Reason: "callbacks cannot cross the script boundary"},
				},
			},
		},
		{
			Name:       "PluginMenuBarActionHandler",
			Doc:        "Passed to menu actions added with addMenu.",
			Operations: []OperationDefinition{getPluginDataOp()},
		},
		{
			Name: "PluginContextMenuHandler",
			Doc:  "Passed to GraphicsViewContextMenu.",
			Operations: append(append([]OperationDefinition{getPluginDataOp()}, entityLookupOps()...),
				OperationDefinition{
					Name:    "registerContextMenu",
					Returns: Void,
					Params: []Param{
						{Type: String, Name: "title"},
						{Type: CallbackOf("PluginContextMenuActionHandler"), Name: "action"},
					},
					Doc:      "Adds an entry to the graphics view context menu.",
					Strategy: Unavailable{Reason: "callbacks cannot cross the script boundary"},
				},
			),
		},
		{
			Name: "PluginContextMenuActionHandler",
			Doc:  "Passed to context menu actions.",
			Operations: append(append([]OperationDefinition{getPluginDataOp()}, entityLookupOps()...),
				OperationDefinition{
					Name:    "hasEdgeByQualifiedName",
					Returns: Bool,
					Params: []Param{
						{Type: String, Name: "fromQualifiedName"},
						{Type: String, Name: "toQualifiedName"},
					},
					Doc:      "Reports whether the scene holds an edge between the two entities.",
					Strategy: Generated{},
				},
				runQueryOp(),
			),
		},
		{
			Name: "PluginEntityReportHandler",
			Doc:  "Passed to SetupEntityReport.",
			Operations: []OperationDefinition{
				getPluginDataOp(),
				getterOp("getEntity", Entity, "Returns the active entity."),
				{
					Name:    "addReport",
					Returns: Void,
					Params: []Param{
						{Type: String, Name: "contextMenuTitle"},
						{Type: String, Name: "reportTitle"},
						{Type: CallbackOf("PluginEntityReportActionHandler"), Name: "action"},
					},
					Doc:      "Adds a report action to the entity context menu.",
					Strategy: Unavailable{Reason: "callbacks cannot cross the script boundary"},
				},
			},
		},
		{
			Name: "PluginEntityReportActionHandler",
			Doc:  "Passed to report actions added with addReport.",
			Operations: []OperationDefinition{
				getPluginDataOp(),
				getterOp("getEntity", Entity, "Returns the entity the report is about."),
				{
					Name:     "setReportContents",
					Returns:  Void,
					Params:   []Param{{Type: String, Name: "contentsHTML"}},
					Doc:      "Sets the HTML contents of the generated report.",
					Strategy: Generated{},
				},
			},
		},
		{
			Name: "PluginPhysicalParserOnHeaderFoundHandler",
			Doc:  "Passed to PhysicalParserOnHeaderFound.",
			Operations: []OperationDefinition{
				getPluginDataOp(),
				getterOp("getSourceFile", String, "Returns the file containing the include."),
				getterOp("getIncludedFile", String, "Returns the included header."),
				getterOp("getLineNo", Int, "Returns the line of the include."),
			},
		},
		{
			Name: "PluginLogicalParserOnCppCommentFoundHandler",
			Doc:  "Passed to LogicalParserOnCppCommentFound.",
			Operations: []OperationDefinition{
				getPluginDataOp(),
				getterOp("getFilename", String, "Returns the file containing the comment."),
				getterOp("getBriefText", String, "Returns the brief text of the comment."),
				getterOp("getStartLine", Int, "Returns the first line of the comment."),
				getterOp("getEndLine", Int, "Returns the last line of the comment."),
			},
		},
		{
			Name:       "PluginParseCompletedHandler",
			Doc:        "Passed to OnParseCompleted.",
			Operations: []OperationDefinition{getPluginDataOp(), runQueryOp()},
		},
		{
			Name: "PluginActiveSceneChangedHandler",
			Doc:  "Passed to ActiveSceneChanged.",
			Operations: []OperationDefinition{
				getPluginDataOp(),
				getterOp("getSceneName", String, "Returns the name of the new active scene."),
			},
		},
		{
			Name: "PluginSceneDestroyedHandler",
			Doc:  "Passed to SceneDestroyed.",
			Operations: []OperationDefinition{
				getPluginDataOp(),
				getterOp("getSceneName", String, "Returns the name of the destroyed scene."),
			},
		},
		{
			Name: "PluginGraphChangedHandler",
			Doc:  "Passed to GraphChanged.",
			Operations: []OperationDefinition{
				getPluginDataOp(),
				getterOp("getSceneName", String, "Returns the name of the scene."),
				getterOp("getVisibleEntities", EntityList, "Returns the entities visible in the scene."),
				getterOp("getProjectData", ProjectData, "Returns paths of the open project."),
			},
		},
	}
}
