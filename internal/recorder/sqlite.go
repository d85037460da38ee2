package recorder

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/macyb27/Aether-Trader-Mobile/internal/model"
)

// ErrNoRuns is returned by LatestRun when nothing was recorded for a symbol.
var ErrNoRuns = errors.New("no recorded runs")

// SQLiteRecorder persists training runs to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the history command read while a scheduled run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS training_runs (
			run_id           TEXT PRIMARY KEY,
			symbol           TEXT NOT NULL,
			period           TEXT,
			timestamp        INTEGER NOT NULL,
			episodes         INTEGER,
			data_points      INTEGER,
			start_date       INTEGER,
			end_date         INTEGER,
			average_return   REAL,
			average_win_rate REAL,
			average_trades   REAL,
			best_return      REAL,
			best_episode     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol_ts ON training_runs(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS episodes (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          TEXT NOT NULL,
			episode         INTEGER NOT NULL,
			total_trades    INTEGER,
			portfolio_value REAL,
			total_return    REAL,
			win_rate        REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_episodes_run ON episodes(run_id)`,

		`CREATE TABLE IF NOT EXISTS trades (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id   TEXT NOT NULL,
			episode  INTEGER NOT NULL,
			seq      INTEGER NOT NULL,
			type     TEXT,
			price    REAL,
			date     INTEGER,
			pnl      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id, episode)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordSummary writes the run, its episodes and their trades in one
// transaction. A summary without a RunID gets a fresh one.
func (r *SQLiteRecorder) RecordSummary(s *model.TrainingSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.RunID == "" {
		s.RunID = uuid.NewString()
	}
	ts := s.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO training_runs
		(run_id, symbol, period, timestamp, episodes, data_points, start_date, end_date,
		 average_return, average_win_rate, average_trades, best_return, best_episode)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		s.RunID, s.Symbol, s.Period, ts.Unix(), s.Episodes, s.DataPoints,
		s.StartDate.Unix(), s.EndDate.Unix(),
		s.AverageReturn, s.AverageWinRate, s.AverageTrades, s.BestReturn, s.BestEpisode.Episode,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	epStmt, err := tx.Prepare(`INSERT INTO episodes
		(run_id, episode, total_trades, portfolio_value, total_return, win_rate)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare episodes: %w", err)
	}
	defer epStmt.Close()

	trStmt, err := tx.Prepare(`INSERT INTO trades
		(run_id, episode, seq, type, price, date, pnl)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare trades: %w", err)
	}
	defer trStmt.Close()

	for _, ep := range s.AllEpisodes {
		if _, err := epStmt.Exec(s.RunID, ep.Episode, ep.TotalTrades,
			ep.PortfolioValue, ep.TotalReturn, ep.WinRate); err != nil {
			return fmt.Errorf("insert episode %d: %w", ep.Episode, err)
		}
		for i, t := range ep.Trades {
			if _, err := trStmt.Exec(s.RunID, ep.Episode, i, string(t.Type),
				t.Price, t.Date.Unix(), t.PnL); err != nil {
				return fmt.Errorf("insert trade %d/%d: %w", ep.Episode, i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LatestRun returns the most recent run recorded for symbol with all of
// its episodes and trades.
func (r *SQLiteRecorder) LatestRun(symbol string) (*model.TrainingSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		s              model.TrainingSummary
		ts, start, end int64
		bestEpisode    int
	)
	err := r.db.QueryRow(`SELECT run_id, symbol, period, timestamp, episodes, data_points,
			start_date, end_date, average_return, average_win_rate, average_trades,
			best_return, best_episode
		FROM training_runs WHERE symbol = ? ORDER BY timestamp DESC, rowid DESC LIMIT 1`, symbol).
		Scan(&s.RunID, &s.Symbol, &s.Period, &ts, &s.Episodes, &s.DataPoints,
			&start, &end, &s.AverageReturn, &s.AverageWinRate, &s.AverageTrades,
			&s.BestReturn, &bestEpisode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoRuns)
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	s.Timestamp = time.Unix(ts, 0)
	s.StartDate = time.Unix(start, 0).UTC()
	s.EndDate = time.Unix(end, 0).UTC()

	trades, err := r.tradesByEpisode(s.RunID)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(`SELECT episode, total_trades, portfolio_value, total_return, win_rate
		FROM episodes WHERE run_id = ? ORDER BY episode`, s.RunID)
	if err != nil {
		return nil, fmt.Errorf("query episodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ep model.EpisodeResult
		if err := rows.Scan(&ep.Episode, &ep.TotalTrades, &ep.PortfolioValue,
			&ep.TotalReturn, &ep.WinRate); err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		ep.Trades = trades[ep.Episode]
		if ep.Trades == nil {
			ep.Trades = []model.Trade{}
		}
		if ep.Episode == bestEpisode {
			s.BestEpisode = ep
		}
		s.AllEpisodes = append(s.AllEpisodes, ep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate episodes: %w", err)
	}
	return &s, nil
}

func (r *SQLiteRecorder) tradesByEpisode(runID string) (map[int][]model.Trade, error) {
	rows, err := r.db.Query(`SELECT episode, type, price, date, pnl
		FROM trades WHERE run_id = ? ORDER BY episode, seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	out := make(map[int][]model.Trade)
	for rows.Next() {
		var (
			episode int
			typ     string
			date    int64
			t       model.Trade
		)
		if err := rows.Scan(&episode, &typ, &t.Price, &date, &t.PnL); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Type = model.TradeType(typ)
		t.Date = time.Unix(date, 0).UTC()
		out[episode] = append(out[episode], t)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
