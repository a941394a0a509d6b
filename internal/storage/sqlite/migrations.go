package sqlite

import "database/sql"

// schema sets up the snapshot cache tables. It runs on startup so the
// cache file is usable immediately.
// Expenses keep their wire JSON; balances are normalized so the cached
// summary can be queried without decoding.
const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    group_id TEXT PRIMARY KEY,
    group_json TEXT,
    fetched_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshot_expenses (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    payload TEXT NOT NULL,
    FOREIGN KEY (group_id) REFERENCES snapshots(group_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS snapshot_balances (
    group_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL DEFAULT '',
    balance REAL NOT NULL,
    PRIMARY KEY (group_id, user_id),
    FOREIGN KEY (group_id) REFERENCES snapshots(group_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_snapshot_expenses_group_id ON snapshot_expenses(group_id);
CREATE INDEX IF NOT EXISTS idx_snapshot_balances_group_id ON snapshot_balances(group_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
