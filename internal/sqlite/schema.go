package sqlite

// Schema DDL. Every entity is one row: its storage key, its kind tag, its
// position in table order, and its kind-tagged record encoded as JSON.
const (
	createObjects = `CREATE TABLE IF NOT EXISTS objects (
    key TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    position INTEGER NOT NULL,
    data TEXT NOT NULL
);`

	idxObjectsKind     = `CREATE INDEX IF NOT EXISTS idx_objects_kind ON objects(kind);`
	idxObjectsPosition = `CREATE INDEX IF NOT EXISTS idx_objects_position ON objects(position);`
)

// schemaDDL lists the statements run when a database is opened.
var schemaDDL = []string{
	createObjects,
	idxObjectsKind,
	idxObjectsPosition,
}
