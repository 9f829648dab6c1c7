package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
//
// sorted.category_id is checked at commit time so that the category table
// can be resequenced before the references are shifted down.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS category (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL CHECK(length(trim(name)) > 0)
);

CREATE TABLE IF NOT EXISTS unsorted (
	id      INTEGER PRIMARY KEY,
	title   TEXT NOT NULL,
	content TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sorted (
	id               INTEGER PRIMARY KEY,
	title            TEXT NOT NULL,
	content          TEXT NOT NULL,
	category_id      INTEGER NOT NULL
		REFERENCES category(id) DEFERRABLE INITIALLY DEFERRED,
	importance_level INTEGER NOT NULL,
	note             TEXT,
	notification_id  INTEGER
);

CREATE INDEX IF NOT EXISTS idx_sorted_category_id ON sorted(category_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_sorted_importance_level
	ON sorted(importance_level);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}

// schemaTables lists every table Teardown drops, children first.
var schemaTables = []string{"sorted", "unsorted", "category", "schema_version"}
