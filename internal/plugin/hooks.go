package plugin

import (
	"context"

	"github.com/dshills/hookforge/internal/handler"
)

// Typed hook fan-out. Each helper builds the hook's handler for every
// enabled plugin and dispatches it.

// CallHooksSetupPlugin fires SetupPlugin.
func (m *Manager) CallHooksSetupPlugin(ctx context.Context) {
	m.CallHooks(ctx, "SetupPlugin", func(data handler.PluginData) any {
		return handler.NewPluginSetupHandler(data, m.interpHandler)
	})
}

// CallHooksTeardownPlugin fires TeardownPlugin.
func (m *Manager) CallHooksTeardownPlugin(ctx context.Context) {
	m.CallHooks(ctx, "TeardownPlugin", func(data handler.PluginData) any {
		return handler.NewPluginSetupHandler(data, m.interpHandler)
	})
}

// CallHooksMainWindowReady fires MainWindowReady.
func (m *Manager) CallHooksMainWindowReady(ctx context.Context, addMenu func(title string, action func(*handler.PluginMenuBarActionHandler))) {
	m.CallHooks(ctx, "MainWindowReady", func(data handler.PluginData) any {
		return &handler.PluginMainWindowReadyHandler{DataView: handler.NewDataView(data), AddMenuFn: addMenu}
	})
}

// CallHooksContextMenu fires GraphicsViewContextMenu.
func (m *Manager) CallHooksContextMenu(ctx context.Context, view handler.EntityView, register func(title string, action func(*handler.PluginContextMenuActionHandler))) {
	m.CallHooks(ctx, "GraphicsViewContextMenu", func(data handler.PluginData) any {
		return &handler.PluginContextMenuHandler{
			DataView:              handler.NewDataView(data),
			EntityView:            view,
			RegisterContextMenuFn: register,
		}
	})
}

// CallHooksSetupEntityReport fires SetupEntityReport for entity.
func (m *Manager) CallHooksSetupEntityReport(ctx context.Context, entity *handler.Entity, addReport func(contextMenuTitle, reportTitle string, action func(*handler.PluginEntityReportActionHandler))) {
	m.CallHooks(ctx, "SetupEntityReport", func(data handler.PluginData) any {
		return &handler.PluginEntityReportHandler{
			DataView:    handler.NewDataView(data),
			Entity:      entity,
			AddReportFn: addReport,
		}
	})
}

// CallHooksPhysicalParserOnHeaderFound fires PhysicalParserOnHeaderFound.
func (m *Manager) CallHooksPhysicalParserOnHeaderFound(ctx context.Context, sourceFile, includedFile string, lineNo int) {
	m.CallHooks(ctx, "PhysicalParserOnHeaderFound", func(data handler.PluginData) any {
		return &handler.PluginPhysicalParserOnHeaderFoundHandler{
			DataView:     handler.NewDataView(data),
			SourceFile:   sourceFile,
			IncludedFile: includedFile,
			LineNo:       lineNo,
		}
	})
}

// CallHooksLogicalParserOnCppCommentFound fires LogicalParserOnCppCommentFound.
func (m *Manager) CallHooksLogicalParserOnCppCommentFound(ctx context.Context, filename, briefText string, startLine, endLine int) {
	m.CallHooks(ctx, "LogicalParserOnCppCommentFound", func(data handler.PluginData) any {
		return &handler.PluginLogicalParserOnCppCommentFoundHandler{
			DataView:  handler.NewDataView(data),
			Filename:  filename,
			BriefText: briefText,
			StartLine: startLine,
			EndLine:   endLine,
		}
	})
}

// CallHooksOnParseCompleted fires OnParseCompleted.
func (m *Manager) CallHooksOnParseCompleted(ctx context.Context, db handler.Database) {
	m.CallHooks(ctx, "OnParseCompleted", func(data handler.PluginData) any {
		return &handler.PluginParseCompletedHandler{DataView: handler.NewDataView(data), Database: db}
	})
}

// CallHooksActiveSceneChanged fires ActiveSceneChanged.
func (m *Manager) CallHooksActiveSceneChanged(ctx context.Context, sceneName string) {
	m.CallHooks(ctx, "ActiveSceneChanged", func(data handler.PluginData) any {
		return &handler.PluginActiveSceneChangedHandler{DataView: handler.NewDataView(data), SceneName: sceneName}
	})
}

// CallHooksSceneDestroyed fires SceneDestroyed.
func (m *Manager) CallHooksSceneDestroyed(ctx context.Context, sceneName string) {
	m.CallHooks(ctx, "SceneDestroyed", func(data handler.PluginData) any {
		return &handler.PluginSceneDestroyedHandler{DataView: handler.NewDataView(data), SceneName: sceneName}
	})
}

// CallHooksGraphChanged fires GraphChanged.
func (m *Manager) CallHooksGraphChanged(ctx context.Context, sceneName string, visible []handler.Entity, project handler.ProjectData) {
	m.CallHooks(ctx, "GraphChanged", func(data handler.PluginData) any {
		return &handler.PluginGraphChangedHandler{
			DataView:        handler.NewDataView(data),
			SceneName:       sceneName,
			VisibleEntities: visible,
			Project:         project,
		}
	})
}
