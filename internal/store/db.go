package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"go-deal-recon/internal/model"
)

var db *sql.DB

// Initialize DB connection
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	// Create tables if not exists
	analysisTable := `
	CREATE TABLE IF NOT EXISTS analyses (
		token TEXT PRIMARY KEY,
		overview TEXT,
		total_deals INTEGER,
		flagged_deals INTEGER,
		total_difference REAL,
		created_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS analysis_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		token TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`

	if _, err := db.Exec(analysisTable); err != nil {
		return err
	}
	if _, err := db.Exec(errorTable); err != nil {
		return err
	}

	return nil
}

// SaveAnalysis records a completed comparison run
func SaveAnalysis(token string, overview model.Overview) error {
	overviewJSON, err := json.Marshal(overview)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO analyses (token, overview, total_deals, flagged_deals, total_difference, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		token, overviewJSON, overview.TotalDeals, overview.FlaggedDeals, overview.TotalDifference, now)
	return err
}

// SaveAnalysisError records a failed comparison run
func SaveAnalysisError(token string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO analysis_errors (token, error_message, created_at) VALUES (?, ?, ?)`,
		token, err.Error(), now)
	return e
}

// ListAnalyses returns run history, newest first
func ListAnalyses() ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT token, overview, total_deals, flagged_deals, total_difference, created_at FROM analyses ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []map[string]interface{}
	for rows.Next() {
		var token, overviewJSON string
		var totalDeals, flaggedDeals int
		var totalDifference float64
		var createdAt time.Time
		if err := rows.Scan(&token, &overviewJSON, &totalDeals, &flaggedDeals, &totalDifference, &createdAt); err != nil {
			return nil, err
		}

		var overview model.Overview
		if err := json.Unmarshal([]byte(overviewJSON), &overview); err != nil {
			return nil, err
		}

		analyses = append(analyses, map[string]interface{}{
			"token":           token,
			"overview":        overview,
			"totalDeals":      totalDeals,
			"flaggedDeals":    flaggedDeals,
			"totalDifference": totalDifference,
			"createdAt":       createdAt,
		})
	}
	return analyses, nil
}
