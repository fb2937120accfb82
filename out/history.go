// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	_ "modernc.org/sqlite"

	"github.com/florian-her/topology-optimization/opt"
)

// Recorder appends one row per optimizer iteration to a SQLite database.
// It implements opt.Observer.
type Recorder struct {
	db *sql.DB
}

// OpenRecorder opens (or creates) the history database
func OpenRecorder(path string) (o *Recorder, err error) {
	if path == "" {
		return nil, chk.Err("history database path must not be empty")
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return
	}
	db.SetMaxOpenConns(1)
	if _, err = db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		db.Close()
		return nil, err
	}
	if _, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS iterations (
			run_id         TEXT    NOT NULL,
			iteration      INTEGER NOT NULL,
			active_nodes   INTEGER NOT NULL,
			active_springs INTEGER NOT NULL,
			mass_fraction  REAL    NOT NULL,
			total_energy   REAL    NOT NULL,
			max_stress     REAL    NOT NULL,
			PRIMARY KEY (run_id, iteration)
		)`); err != nil {
		db.Close()
		return nil, err
	}
	return &Recorder{db: db}, nil
}

// OnIteration stores one iteration record
func (o *Recorder) OnIteration(rec opt.IterRecord) (err error) {
	_, err = o.db.Exec(`
		INSERT OR REPLACE INTO iterations
			(run_id, iteration, active_nodes, active_springs, mass_fraction, total_energy, max_stress)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RunId, rec.Iteration, rec.ActiveNodes, rec.ActiveSprings,
		rec.MassFraction, rec.TotalEnergy, rec.MaxStress)
	return
}

// Iterations reads back all records of one run, ordered by iteration
func (o *Recorder) Iterations(runId string) (recs []opt.IterRecord, err error) {
	rows, err := o.db.Query(`
		SELECT iteration, active_nodes, active_springs, mass_fraction, total_energy, max_stress
		FROM iterations WHERE run_id = ? ORDER BY iteration`, runId)
	if err != nil {
		return
	}
	defer rows.Close()
	for rows.Next() {
		rec := opt.IterRecord{RunId: runId}
		err = rows.Scan(&rec.Iteration, &rec.ActiveNodes, &rec.ActiveSprings,
			&rec.MassFraction, &rec.TotalEnergy, &rec.MaxStress)
		if err != nil {
			return
		}
		recs = append(recs, rec)
	}
	err = rows.Err()
	return
}

// Close closes the database
func (o *Recorder) Close() error {
	return o.db.Close()
}
