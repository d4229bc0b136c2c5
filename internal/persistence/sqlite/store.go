// Package sqlite is a reference persistence.Store backed by modernc.org/sqlite,
// upserting cell plans keyed by (worldId, position).
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/mhus/nimbus-world-sub007/internal/composition"
)

// Store wraps a SQLite connection dedicated to cell plan storage.
type Store struct {
	conn *sql.DB
}

// Open creates (or reuses) the SQLite database at path and ensures its schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS cell_plans (
			world_id        TEXT NOT NULL,
			position        TEXT NOT NULL,
			parameters_json TEXT NOT NULL,
			enabled         BOOLEAN NOT NULL DEFAULT TRUE,
			updated_at      DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (world_id, position)
		);
	`)
	return err
}

// UpsertCellPlans idempotently upserts every plan by (worldId, position): a repeated
// call with the same plans overwrites rather than duplicating rows.
func (s *Store) UpsertCellPlans(plans []composition.CellPlan) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO cell_plans (world_id, position, parameters_json, enabled, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(world_id, position) DO UPDATE SET
			parameters_json = excluded.parameters_json,
			enabled         = excluded.enabled,
			updated_at      = excluded.updated_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, plan := range plans {
		encoded, err := json.Marshal(plan.Parameters)
		if err != nil {
			return fmt.Errorf("encode parameters for %s:%s: %w", plan.WorldID, plan.Position, err)
		}
		if _, err := stmt.Exec(plan.WorldID, plan.Position, string(encoded), plan.Enabled); err != nil {
			return fmt.Errorf("upsert %s:%s: %w", plan.WorldID, plan.Position, err)
		}
	}
	return tx.Commit()
}

// CellPlans returns every stored plan for worldID, ordered by position, for
// inspection.
func (s *Store) CellPlans(worldID string) ([]composition.CellPlan, error) {
	rows, err := s.conn.Query(`
		SELECT position, parameters_json, enabled FROM cell_plans WHERE world_id = ? ORDER BY position
	`, worldID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []composition.CellPlan
	for rows.Next() {
		var position, paramsJSON string
		var enabled bool
		if err := rows.Scan(&position, &paramsJSON, &enabled); err != nil {
			return nil, err
		}
		var params map[string]string
		if err := json.Unmarshal([]byte(paramsJSON), &params); err != nil {
			return nil, fmt.Errorf("decode parameters for %s:%s: %w", worldID, position, err)
		}
		plans = append(plans, composition.CellPlan{
			WorldID: worldID, Position: position, Parameters: params, Enabled: enabled,
		})
	}
	return plans, rows.Err()
}
