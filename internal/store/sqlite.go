package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ppiankov/knowval/internal/model"
	_ "modernc.org/sqlite" // SQLite driver
)

const historySchema = `
CREATE TABLE IF NOT EXISTS history_runs (
	seq               INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id            TEXT NOT NULL,
	timestamp         TEXT NOT NULL,
	knowledge_base_id TEXT NOT NULL,
	snapshot_id       TEXT NOT NULL,
	reference_version TEXT,
	mode              TEXT NOT NULL,
	issues_total      INTEGER NOT NULL,
	questions         INTEGER NOT NULL
);`

// sqliteHistory stores runs in a single-connection SQLite database
type sqliteHistory struct {
	db    *sql.DB
	limit int
}

func newSQLiteHistory(path string, limit int) (*sqliteHistory, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(historySchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	return &sqliteHistory{db: db, limit: limit}, nil
}

func (h *sqliteHistory) Append(ctx context.Context, run model.HistoryRun) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var refVersion sql.NullString
	if run.ReferenceVersion != nil {
		refVersion = sql.NullString{String: *run.ReferenceVersion, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO history_runs
			(run_id, timestamp, knowledge_base_id, snapshot_id, reference_version, mode, issues_total, questions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Timestamp.UTC().Format(time.RFC3339Nano), run.KnowledgeBaseID, run.SnapshotID,
		refVersion, string(run.Mode), run.IssuesTotal, run.Questions)
	if err != nil {
		return fmt.Errorf("insert history run: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM history_runs
		WHERE seq NOT IN (SELECT seq FROM history_runs ORDER BY seq DESC LIMIT ?)`, h.limit)
	if err != nil {
		return fmt.Errorf("trim history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history append: %w", err)
	}
	return nil
}

func (h *sqliteHistory) List(ctx context.Context) ([]model.HistoryRun, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT run_id, timestamp, knowledge_base_id, snapshot_id, reference_version, mode, issues_total, questions
		FROM history_runs ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	runs := []model.HistoryRun{}
	for rows.Next() {
		var (
			run        model.HistoryRun
			ts         string
			mode       string
			refVersion sql.NullString
		)
		if err := rows.Scan(&run.RunID, &ts, &run.KnowledgeBaseID, &run.SnapshotID,
			&refVersion, &mode, &run.IssuesTotal, &run.Questions); err != nil {
			return nil, fmt.Errorf("scan history run: %w", err)
		}

		run.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse history timestamp %q: %w", ts, err)
		}
		run.Mode = model.Mode(mode)
		if refVersion.Valid {
			v := refVersion.String
			run.ReferenceVersion = &v
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return runs, nil
}

func (h *sqliteHistory) Close() error {
	return h.db.Close()
}
