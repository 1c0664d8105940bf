package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Aashish23092/auction-analyzer/dto"
)

const (
	defaultListLimit = 50
	// fixed width so created_at sorts lexically
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// SQLiteStore keeps finished analyses in a single SQLite table. The summary
// columns back the list view; the full result is stored as JSON.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) EnsureSchema() error {
	const createTable = `
CREATE TABLE IF NOT EXISTS analyses (
  id TEXT PRIMARY KEY,
  created_at TEXT NOT NULL,
  case_no TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  minimum_bid INTEGER,
  zero_loss_max_bid INTEGER,
  decision TEXT NOT NULL DEFAULT '',
  result_json TEXT NOT NULL
);
`
	if _, err := s.db.Exec(createTable); err != nil {
		return err
	}
	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);`); err != nil {
		return err
	}
	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_analyses_case_no ON analyses(case_no);`); err != nil {
		return err
	}
	return nil
}

// SaveAnalysis inserts a result, replacing an earlier one with the same id.
func (s *SQLiteStore) SaveAnalysis(ctx context.Context, r *dto.AnalysisResult) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	sum := r.Summary()

	_, err = s.db.ExecContext(ctx, `
INSERT OR REPLACE INTO analyses
(id, created_at, case_no, address, minimum_bid, zero_loss_max_bid, decision, result_json)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`,
		sum.ID, sum.CreatedAt.UTC().Format(timeLayout), sum.CaseNo, sum.Address,
		nullInt(sum.MinimumBid), nullInt(sum.ZeroLossMaxBid), string(sum.Decision), string(body),
	)
	return err
}

// ListAnalyses returns summaries, newest first. limit <= 0 uses a default.
func (s *SQLiteStore) ListAnalyses(ctx context.Context, limit int) ([]dto.AnalysisSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, created_at, case_no, address, minimum_bid, zero_loss_max_bid, decision
FROM analyses
ORDER BY created_at DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]dto.AnalysisSummary, 0)
	for rows.Next() {
		var (
			sum       dto.AnalysisSummary
			createdAt string
			minBid    sql.NullInt64
			zeroLoss  sql.NullInt64
			decision  string
		)
		if err := rows.Scan(&sum.ID, &createdAt, &sum.CaseNo, &sum.Address, &minBid, &zeroLoss, &decision); err != nil {
			return nil, err
		}
		if sum.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("analysis %s: bad created_at %q: %w", sum.ID, createdAt, err)
		}
		sum.MinimumBid = intPtr(minBid)
		sum.ZeroLossMaxBid = intPtr(zeroLoss)
		sum.Decision = dto.Decision(decision)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// GetAnalysis returns dto.ErrCaseNotFound when id is unknown.
func (s *SQLiteStore) GetAnalysis(ctx context.Context, id string) (*dto.AnalysisResult, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT result_json FROM analyses WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dto.ErrCaseNotFound
	}
	if err != nil {
		return nil, err
	}

	var r dto.AnalysisResult
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return nil, fmt.Errorf("decode analysis %s: %w", id, err)
	}
	return &r, nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func intPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
