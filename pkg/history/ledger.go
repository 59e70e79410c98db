// Package history keeps a SQLite ledger of crawl outcomes so repeated
// campaigns can be compared after the fact.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"marketpulse/pkg/crawler"
)

const createRunsTable = `
CREATE TABLE IF NOT EXISTS crawl_runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	campaign_id TEXT NOT NULL,
	hashtag TEXT NOT NULL,
	state TEXT NOT NULL,
	reason TEXT NOT NULL,
	aborted_in TEXT,
	collected INTEGER DEFAULT 0,
	passes INTEGER DEFAULT 0,
	output_path TEXT,
	error TEXT,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL
)`

// Run is one recorded hashtag crawl
type Run struct {
	CampaignID string
	Hashtag    string
	State      string
	Reason     string
	AbortedIn  string
	Collected  int
	Passes     int
	OutputPath string
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Ledger appends crawl outcomes to a SQLite database
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger at path. ":memory:" gives a throwaway ledger.
func Open(path string) (*Ledger, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	// a single connection keeps ":memory:" databases alive across calls
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createRunsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create crawl_runs table: %w", err)
	}
	if _, err := db.Exec("CREATE INDEX IF NOT EXISTS idx_crawl_runs_hashtag ON crawl_runs(hashtag)"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create crawl_runs index: %w", err)
	}

	return &Ledger{db: db}, nil
}

// RecordCrawl appends the outcome of one hashtag crawl
func (l *Ledger) RecordCrawl(ctx context.Context, campaignID string, res crawler.Result) error {
	run := Run{
		CampaignID: campaignID,
		Hashtag:    res.Hashtag,
		State:      res.State.String(),
		Reason:     res.Reason.String(),
		Collected:  res.Collected,
		Passes:     res.Passes,
		OutputPath: res.OutputPath,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
	}
	if res.State == crawler.StateAborted {
		run.AbortedIn = res.AbortedIn.String()
	}
	if res.Err != nil {
		run.Error = res.Err.Error()
	}
	return l.Record(ctx, run)
}

// Record appends run
func (l *Ledger) Record(ctx context.Context, run Run) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO crawl_runs (campaign_id, hashtag, state, reason, aborted_in, collected, passes, output_path, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.CampaignID, run.Hashtag, run.State, run.Reason, run.AbortedIn, run.Collected, run.Passes,
		run.OutputPath, run.Error, run.StartedAt.UTC().Format(time.RFC3339Nano), run.FinishedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to record crawl of %s: %w", run.Hashtag, err)
	}
	return nil
}

// Recent returns up to limit runs of hashtag, newest first. An empty hashtag
// matches every run.
func (l *Ledger) Recent(ctx context.Context, hashtag string, limit int) ([]Run, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT campaign_id, hashtag, state, reason, aborted_in, collected, passes, output_path, error, started_at, finished_at
		FROM crawl_runs
		WHERE ? = '' OR hashtag = ?
		ORDER BY id DESC
		LIMIT ?`, hashtag, hashtag, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query crawl runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var abortedIn, outputPath, errText sql.NullString
		var started, finished string
		if err := rows.Scan(&run.CampaignID, &run.Hashtag, &run.State, &run.Reason, &abortedIn,
			&run.Collected, &run.Passes, &outputPath, &errText, &started, &finished); err != nil {
			return nil, fmt.Errorf("failed to scan crawl run: %w", err)
		}
		run.AbortedIn = abortedIn.String
		run.OutputPath = outputPath.String
		run.Error = errText.String
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close closes the database
func (l *Ledger) Close() error {
	return l.db.Close()
}
