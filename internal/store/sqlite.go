package store

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"SignalBot/internal/model"
)

// SQLiteStore keeps the watchlist and quote history in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so CLI reads don't block the running monitor.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stocks (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			code       TEXT UNIQUE NOT NULL,
			name       TEXT,
			market     TEXT,
			added_time INTEGER NOT NULL,
			is_active  INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS stock_history (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			code           TEXT NOT NULL,
			price          REAL,
			change_percent REAL,
			volume         INTEGER,
			timestamp      INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_code_ts ON stock_history(code, timestamp)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) AddStock(code, name, market string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO stocks (code, name, market, added_time, is_active)
		VALUES (?, ?, ?, ?, 1)
		ON CONFLICT(code) DO UPDATE SET name=excluded.name, market=excluded.market, is_active=1`,
		code, name, market, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("add stock %s: %w", code, err)
	}
	return nil
}

// RemoveStock deactivates a watchlist entry. History rows stay.
func (s *SQLiteStore) RemoveStock(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE stocks SET is_active = 0 WHERE code = ?`, code)
	if err != nil {
		return fmt.Errorf("remove stock %s: %w", code, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("stock %s not found", code)
	}
	return nil
}

func (s *SQLiteStore) ListStocks() ([]model.StockInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT code, name, market, added_time, is_active
		FROM stocks ORDER BY added_time DESC`)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()

	var stocks []model.StockInfo
	for rows.Next() {
		var info model.StockInfo
		var added int64
		var active int
		if err := rows.Scan(&info.Code, &info.Name, &info.Market, &added, &active); err != nil {
			return nil, fmt.Errorf("scan stock row: %w", err)
		}
		info.AddedTime = time.Unix(added, 0)
		info.IsActive = active != 0
		stocks = append(stocks, info)
	}
	return stocks, rows.Err()
}

func (s *SQLiteStore) ActiveStocks() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT code FROM stocks WHERE is_active = 1 ORDER BY added_time`)
	if err != nil {
		return nil, fmt.Errorf("active stocks: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func (s *SQLiteStore) UpdateStockName(code, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`UPDATE stocks SET name = ? WHERE code = ?`, name, code)
	if err != nil {
		return fmt.Errorf("update stock name %s: %w", code, err)
	}
	return nil
}

func (s *SQLiteStore) AppendSample(sample model.Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := sample.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO stock_history (code, price, change_percent, volume, timestamp)
		VALUES (?, ?, ?, ?, ?)`,
		sample.Code, sample.Price, sample.ChangePercent, sample.Volume, ts.Unix(),
	)
	if err != nil {
		return fmt.Errorf("append sample %s: %w", sample.Code, err)
	}
	return nil
}

func (s *SQLiteStore) Recent(code string, max int) ([]model.Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT price, change_percent, volume, timestamp
		FROM stock_history
		WHERE code = ? AND volume > 0
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, code, max)
	if err != nil {
		return nil, fmt.Errorf("recent samples %s: %w", code, err)
	}
	defer rows.Close()

	var samples []model.Sample
	for rows.Next() {
		sample := model.Sample{Code: code}
		var ts int64
		if err := rows.Scan(&sample.Price, &sample.ChangePercent, &sample.Volume, &ts); err != nil {
			return nil, fmt.Errorf("scan sample row: %w", err)
		}
		sample.Timestamp = time.Unix(ts, 0)
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The query reads newest-first for the LIMIT; callers get oldest-first.
	for i, j := 0, len(samples)-1; i < j; i, j = i+1, j-1 {
		samples[i], samples[j] = samples[j], samples[i]
	}
	return samples, nil
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
