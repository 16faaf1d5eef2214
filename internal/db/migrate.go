package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS recommendations (
		id                         TEXT PRIMARY KEY,
		created_at                 TEXT NOT NULL,
		schema_version             TEXT NOT NULL CHECK(schema_version IN ('v1','v2')),

		kappa                      REAL NOT NULL,
		temperature                REAL NOT NULL,
		ph                         REAL NOT NULL,
		inlet_brightness           REAL NOT NULL,
		current_dose               REAL NOT NULL,
		pulp_flow                  REAL NOT NULL DEFAULT 0,
		production_rate            REAL NOT NULL DEFAULT 0,
		consistency                REAL NOT NULL DEFAULT 0,

		recommended_dose           REAL NOT NULL,
		echoed_dose                REAL NOT NULL,
		delta                      REAL NOT NULL,
		k_optimal                  REAL NOT NULL DEFAULT 0,
		k_current                  REAL NOT NULL DEFAULT 0,
		estimated_outlet_current   REAL NOT NULL DEFAULT 0,
		predicted_outlet_optimized REAL,
		control_status             TEXT NOT NULL DEFAULT '',
		reason                     TEXT NOT NULL DEFAULT '',
		flow_calculated            REAL,
		retention_calculated       REAL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_recommendations_created ON recommendations(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_recommendations_status ON recommendations(control_status)`,

	// v2: result shape recorded explicitly instead of inferred on read.
	`ALTER TABLE recommendations ADD COLUMN shape TEXT NOT NULL DEFAULT 'single'
		CHECK(shape IN ('single','dual'))`,
}
