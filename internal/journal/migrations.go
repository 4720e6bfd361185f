package journal

// runMigrations executes all database migrations.
func (j *Journal) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per engine run
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL DEFAULT '',
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			frames INTEGER NOT NULL DEFAULT 0
		)`,

		// Actions table - every action handed to the input sink
		`CREATE TABLE IF NOT EXISTS actions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			frame INTEGER NOT NULL,
			kind TEXT NOT NULL,
			x INTEGER NOT NULL DEFAULT 0,
			y INTEGER NOT NULL DEFAULT 0,
			button TEXT NOT NULL DEFAULT '',
			delta INTEGER NOT NULL DEFAULT 0,
			modifier TEXT NOT NULL DEFAULT '',
			key TEXT NOT NULL DEFAULT '',
			gesture TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL CHECK(status IN ('ok', 'failed', 'skipped')),
			error TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_actions_session_id ON actions(session_id)`,
	}

	for _, migration := range migrations {
		if _, err := j.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
