package handler

// EntityType classifies an entity.
type EntityType string

// Entity types.
const (
	EntityUnknown      EntityType = "unknown"
	EntityPackageGroup EntityType = "package-group"
	EntityPackage      EntityType = "package"
	EntityComponent    EntityType = "component"
)

// Entity is a node of the code graph.
type Entity struct {
	Name          string     `json:"name"`
	QualifiedName string     `json:"qualifiedName"`
	Type          EntityType `json:"type"`
	Color         string     `json:"color,omitempty"`
}

// RawDBRows holds the result of a database query, one slice per row.
type RawDBRows [][]any

// ProjectData describes the open project.
type ProjectData struct {
	SourceCodePath string `json:"sourceCodePath"`
	DatabasePath   string `json:"databasePath"`
}

// EntityView answers entity lookups for the current view.
type EntityView struct {
	Entities func() []Entity
	Lookup   func(qualifiedName string) *Entity
}

// GetAllEntitiesInCurrentView returns the entities in the current view.
func (v EntityView) GetAllEntitiesInCurrentView() []Entity {
	if v.Entities == nil {
		return nil
	}
	return v.Entities()
}

// GetEntityByQualifiedName returns the named entity or nil.
func (v EntityView) GetEntityByQualifiedName(qualifiedName string) *Entity {
	if v.Lookup == nil {
		return nil
	}
	return v.Lookup(qualifiedName)
}

// Database runs queries on the active database.
type Database struct {
	Query func(query string) RawDBRows
}

// RunQueryOnDatabase runs query and returns its rows.
func (d Database) RunQueryOnDatabase(query string) RawDBRows {
	if d.Query == nil {
		return nil
	}
	return d.Query(query)
}
