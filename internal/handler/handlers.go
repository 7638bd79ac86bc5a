package handler

// PluginSetupHandler is passed to SetupPlugin and TeardownPlugin.
type PluginSetupHandler struct {
	DataOwner
	Interpreter *PluginScriptInterpHandler
}

// NewPluginSetupHandler returns a setup handler bound to data.
func NewPluginSetupHandler(data PluginData, interp *PluginScriptInterpHandler) *PluginSetupHandler {
	return &PluginSetupHandler{
		DataOwner:   DataOwner{DataView: DataView{Data: data}},
		Interpreter: interp,
	}
}

// GetScriptInterpreter returns the host interpreter, or nil.
func (h *PluginSetupHandler) GetScriptInterpreter() *PluginScriptInterpHandler {
	return h.Interpreter
}

// PluginScriptInterpHandler runs code in the host scripting interpreter.
type PluginScriptInterpHandler struct {
	Exec func(code string)
}

// ExecScript runs code. Failures are reported by the interpreter.
func (h *PluginScriptInterpHandler) ExecScript(code string) {
	if h.Exec != nil {
		h.Exec(code)
	}
}

// PluginMainWindowReadyHandler is passed to MainWindowReady.
type PluginMainWindowReadyHandler struct {
	DataView
	AddMenuFn func(title string, action func(*PluginMenuBarActionHandler))
}

// AddMenu adds a menu whose action receives a PluginMenuBarActionHandler.
func (h *PluginMainWindowReadyHandler) AddMenu(title string, action func(*PluginMenuBarActionHandler)) {
	if h.AddMenuFn != nil {
		h.AddMenuFn(title, action)
	}
}

// PluginMenuBarActionHandler is passed to menu actions.
type PluginMenuBarActionHandler struct {
	DataView
}

// PluginContextMenuHandler is passed to GraphicsViewContextMenu.
type PluginContextMenuHandler struct {
	DataView
	EntityView
	RegisterContextMenuFn func(title string, action func(*PluginContextMenuActionHandler))
}

// RegisterContextMenu adds an entry to the context menu.
func (h *PluginContextMenuHandler) RegisterContextMenu(title string, action func(*PluginContextMenuActionHandler)) {
	if h.RegisterContextMenuFn != nil {
		h.RegisterContextMenuFn(title, action)
	}
}

// PluginContextMenuActionHandler is passed to context menu actions.
type PluginContextMenuActionHandler struct {
	DataView
	EntityView
	Database
	HasEdge func(from, to string) bool
}

// HasEdgeByQualifiedName reports whether the scene shows an edge from one
// entity to the other.
func (h *PluginContextMenuActionHandler) HasEdgeByQualifiedName(fromQualifiedName, toQualifiedName string) bool {
	if h.HasEdge == nil {
		return false
	}
	return h.HasEdge(fromQualifiedName, toQualifiedName)
}

// PluginEntityReportHandler is passed to SetupEntityReport.
type PluginEntityReportHandler struct {
	DataView
	Entity      *Entity
	AddReportFn func(contextMenuTitle, reportTitle string, action func(*PluginEntityReportActionHandler))
}

// GetEntity returns the active entity.
func (h *PluginEntityReportHandler) GetEntity() *Entity { return h.Entity }

// AddReport adds a report action to the entity context menu.
func (h *PluginEntityReportHandler) AddReport(contextMenuTitle, reportTitle string, action func(*PluginEntityReportActionHandler)) {
	if h.AddReportFn != nil {
		h.AddReportFn(contextMenuTitle, reportTitle, action)
	}
}

// PluginEntityReportActionHandler is passed to report actions.
type PluginEntityReportActionHandler struct {
	DataView
	Entity      *Entity
	SetContents func(contentsHTML string)
}

// GetEntity returns the entity the report is about.
func (h *PluginEntityReportActionHandler) GetEntity() *Entity { return h.Entity }

// SetReportContents sets the HTML body of the report.
func (h *PluginEntityReportActionHandler) SetReportContents(contentsHTML string) {
	if h.SetContents != nil {
		h.SetContents(contentsHTML)
	}
}

// PluginPhysicalParserOnHeaderFoundHandler is passed to PhysicalParserOnHeaderFound.
type PluginPhysicalParserOnHeaderFoundHandler struct {
	DataView
	SourceFile   string
	IncludedFile string
	LineNo       int
}

func (h *PluginPhysicalParserOnHeaderFoundHandler) GetSourceFile() string { return h.SourceFile }
func (h *PluginPhysicalParserOnHeaderFoundHandler) GetIncludedFile() string { return h.IncludedFile }
func (h *PluginPhysicalParserOnHeaderFoundHandler) GetLineNo() int { return h.LineNo }

// PluginLogicalParserOnCppCommentFoundHandler is passed to LogicalParserOnCppCommentFound.
type PluginLogicalParserOnCppCommentFoundHandler struct {
	DataView
	Filename  string
	BriefText string
	StartLine int
	EndLine   int
}

func (h *PluginLogicalParserOnCppCommentFoundHandler) GetFilename() string { return h.Filename }
func (h *PluginLogicalParserOnCppCommentFoundHandler) GetBriefText() string { return h.BriefText }
func (h *PluginLogicalParserOnCppCommentFoundHandler) GetStartLine() int { return h.StartLine }
func (h *PluginLogicalParserOnCppCommentFoundHandler) GetEndLine() int { return h.EndLine }

// PluginParseCompletedHandler is passed to OnParseCompleted.
type PluginParseCompletedHandler struct {
	DataView
	Database
}

// PluginActiveSceneChangedHandler is passed to ActiveSceneChanged.
type PluginActiveSceneChangedHandler struct {
	DataView
	SceneName string
}

// GetSceneName returns the name of the new active scene.
func (h *PluginActiveSceneChangedHandler) GetSceneName() string { return h.SceneName }

// PluginSceneDestroyedHandler is passed to SceneDestroyed.
type PluginSceneDestroyedHandler struct {
	DataView
	SceneName string
}

// GetSceneName returns the name of the destroyed scene.
func (h *PluginSceneDestroyedHandler) GetSceneName() string { return h.SceneName }

// PluginGraphChangedHandler is passed to GraphChanged.
type PluginGraphChangedHandler struct {
	DataView
	SceneName       string
	VisibleEntities []Entity
	Project         ProjectData
}

func (h *PluginGraphChangedHandler) GetSceneName() string { return h.SceneName }
func (h *PluginGraphChangedHandler) GetVisibleEntities() []Entity { return h.VisibleEntities }
func (h *PluginGraphChangedHandler) GetProjectData() ProjectData { return h.Project }
