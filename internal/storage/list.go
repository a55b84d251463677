package storage

import (
	"database/sql"
	"time"

	"github.com/codewithboateng/astrolift/internal/ir"
)

// ListRuns returns a lightweight list of runs with counts.
func (db *DB) ListRuns(limit, offset int) ([]RunRow, error) {
	const q = `
		SELECT r.id, r.started_at, r.kind, r.project_path,
		       (SELECT COUNT(1) FROM findings f WHERE f.run_id = r.id) AS findings
		  FROM runs r
		 ORDER BY r.started_at DESC, r.id DESC
		 LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var rr RunRow
		var startedAtStr string
		if err := rows.Scan(&rr.ID, &startedAtStr, &rr.Kind, &rr.ProjectPath, &rr.Findings); err != nil {
			return nil, err
		}
		// Parse RFC3339Nano first, fallback to RFC3339
		if t, err := time.Parse(time.RFC3339Nano, startedAtStr); err == nil {
			rr.StartedAt = t
		} else if t2, err2 := time.Parse(time.RFC3339, startedAtStr); err2 == nil {
			rr.StartedAt = t2
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

// ListFindings returns findings for a run at or above a minimum severity.
func (db *DB) ListFindings(runID, minSeverity string) ([]ir.Finding, error) {
	const q = `
		SELECT rule_id, file, line, severity, risk, message, suggestion, auto_fixable
		  FROM findings
		 WHERE run_id = ?
		   AND (CASE severity WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END)
		       >= (CASE ? WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END)
		 ORDER BY
		       (CASE severity WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END) DESC,
		       rule_id, file`
	rows, err := db.conn.Query(q, runID, minSeverity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ir.Finding
	for rows.Next() {
		var f ir.Finding
		var line sql.NullInt64
		if err := rows.Scan(&f.RuleID, &f.File, &line, &f.Severity, &f.Risk, &f.Message, &f.Suggestion, &f.AutoFixable); err != nil {
			return nil, err
		}
		if line.Valid {
			n := int(line.Int64)
			f.Line = &n
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (db *DB) HasRun(id string) (bool, error) {
	const q = `SELECT 1 FROM runs WHERE id = ? LIMIT 1`
	var one int
	err := db.conn.QueryRow(q, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// LatestRunID returns the id of the most recent run, or "" when the store
// is empty.
func (db *DB) LatestRunID() (string, error) {
	const q = `SELECT id FROM runs ORDER BY started_at DESC, id DESC LIMIT 1`
	var id string
	err := db.conn.QueryRow(q).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return id, err
}
