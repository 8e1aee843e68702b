/*
Copyright © 2024 the stormtracks authors.
This file is part of stormtracks.

stormtracks is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

stormtracks is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with stormtracks.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package store persists detections to a sqlite database, so a run
// can be interrupted and resumed without losing the relaxation mask
// state or the archive of already-found cyclones.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/xiaoxiaoyu0302/stormtracks/tc"
)

// Store is a sqlite-backed tc.DetectionWriter that also supports
// reloading the most recently written step's detections, so RunStep's
// RelaxMask can be rebuilt after a restart.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if necessary) the sqlite database at path and
// ensures its schema exists.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	storeLogger := logger.Named("store")
	storeLogger.Info("opening detection store", zap.String("path", path))

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, tc.IOError("store.Open", fmt.Errorf("opening database: %w", err))
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, tc.IOError("store.Open", fmt.Errorf("%s: %w", pragma, err))
		}
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, logger: storeLogger}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS detections (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			step_time  TIMESTAMP NOT NULL,
			i          INTEGER NOT NULL,
			j          INTEGER NOT NULL,
			lon        REAL NOT NULL,
			lat        REAL NOT NULL,
			iwmax      INTEGER NOT NULL,
			jwmax      INTEGER NOT NULL,
			wmax_lon   REAL NOT NULL,
			wmax_lat   REAL NOT NULL,
			pmin       REAL NOT NULL,
			vort_here  REAL NOT NULL,
			wmax       REAL NOT NULL,
			tsum       REAL NOT NULL,
			tdiff      REAL NOT NULL,
			ocs        REAL NOT NULL,
			relaxed    INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return tc.IOError("store.initSchema", fmt.Errorf("creating detections table: %w", err))
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS detections_step_time_idx ON detections (step_time)`)
	if err != nil {
		return tc.IOError("store.initSchema", fmt.Errorf("creating index: %w", err))
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return tc.IOError("store.Close", err)
	}
	return nil
}

// WriteStep persists the detections found at time step t. It
// satisfies tc.DetectionWriter.
func (s *Store) WriteStep(t time.Time, dets []tc.Detection) error {
	tx, err := s.db.Begin()
	if err != nil {
		return tc.IOError("store.WriteStep", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO detections (step_time, i, j, lon, lat, iwmax, jwmax, wmax_lon, wmax_lat, pmin, vort_here, wmax, tsum, tdiff, ocs, relaxed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return tc.IOError("store.WriteStep", err)
	}
	defer stmt.Close()

	for _, d := range dets {
		_, err := stmt.Exec(t, d.I, d.J, d.Lon, d.Lat, d.IWmax, d.JWmax, d.WmaxLon, d.WmaxLat, d.Pmin, d.VortHere, d.Wmax, d.Tsum, d.Tdiff, d.Ocs, d.Relaxed)
		if err != nil {
			tx.Rollback()
			return tc.IOError("store.WriteStep", fmt.Errorf("inserting detection: %w", err))
		}
	}
	if err := tx.Commit(); err != nil {
		return tc.IOError("store.WriteStep", err)
	}
	s.logger.Debug("wrote step", zap.Time("step_time", t), zap.Int("detections", len(dets)))
	return nil
}

// LastStepDetections returns the detections written for the most
// recent step_time in the store, or an empty slice if the store is
// empty. A caller resuming a run feeds this into a fresh
// tc.RelaxMask via Update, so relaxation carries across a restart.
func (s *Store) LastStepDetections() ([]tc.Detection, error) {
	rows, err := s.db.Query(`
		SELECT step_time, i, j, lon, lat, iwmax, jwmax, wmax_lon, wmax_lat, pmin, vort_here, wmax, tsum, tdiff, ocs, relaxed
		FROM detections WHERE step_time = (SELECT MAX(step_time) FROM detections)
	`)
	if err != nil {
		return nil, tc.IOError("store.LastStepDetections", err)
	}
	defer rows.Close()

	var out []tc.Detection
	for rows.Next() {
		var d tc.Detection
		if err := rows.Scan(&d.Time, &d.I, &d.J, &d.Lon, &d.Lat, &d.IWmax, &d.JWmax, &d.WmaxLon, &d.WmaxLat, &d.Pmin, &d.VortHere, &d.Wmax, &d.Tsum, &d.Tdiff, &d.Ocs, &d.Relaxed); err != nil {
			return nil, tc.IOError("store.LastStepDetections", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, tc.IOError("store.LastStepDetections", err)
	}
	return out, nil
}

// Count returns the total number of detections persisted, for
// diagnostics and tests.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM detections`).Scan(&n); err != nil {
		return 0, tc.IOError("store.Count", err)
	}
	return n, nil
}
