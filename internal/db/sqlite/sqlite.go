// Package sqlite keeps the local controller cache: one row per controller
// racman has talked to, refreshed from the summary query on connect and
// read back by the `list` command.
package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	racman "github.com/racman-io/racman/internal"
	"github.com/racman-io/racman/internal/util"
)

func open(path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); !util.PathExists(dir) {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create controller cache directory: %v", err)
		}
	}
	schema := `
	CREATE TABLE IF NOT EXISTS racman_controllers (
		host TEXT NOT NULL,
		ip TEXT,
		service_tag TEXT,
		power TEXT,
		health TEXT,
		timestamp TIMESTAMP,
		PRIMARY KEY (host)
	);
	`
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open controller cache: %v", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create controller cache schema: %v", err)
	}
	return db, nil
}

// UpsertController records (or refreshes) one controller row.
func UpsertController(path string, record racman.ControllerRecord) error {
	db, err := open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	sql := `INSERT OR REPLACE INTO racman_controllers (host, ip, service_tag, power, health, timestamp)
	VALUES (:host, :ip, :service_tag, :power, :health, :timestamp);`
	if _, err := db.NamedExec(sql, &record); err != nil {
		return fmt.Errorf("failed to record controller: %v", err)
	}
	return nil
}

// GetControllers returns every cached controller row ordered by host.
func GetControllers(path string) ([]racman.ControllerRecord, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	records := []racman.ControllerRecord{}
	err = db.Select(&records, "SELECT * FROM racman_controllers ORDER BY host ASC;")
	if err != nil {
		return nil, fmt.Errorf("failed to read controller cache: %v", err)
	}
	return records, nil
}

// DeleteController removes one controller row from the cache.
func DeleteController(path, host string) error {
	db, err := open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec("DELETE FROM racman_controllers WHERE host = ?;", host); err != nil {
		return fmt.Errorf("failed to delete controller: %v", err)
	}
	return nil
}
