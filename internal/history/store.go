// Package history persists predictions, recommended bets and final scores,
// and grades past slates once results are in. Store is the sqlite layer;
// the settlement and summary math lives in grade.go.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Prediction is one stored model run for a game.
type Prediction struct {
	ID                string
	GameKey           string // date|away|home
	GameDate          string
	HomeTeam          string
	AwayTeam          string
	HomeWinProb       float64
	AwayWinProb       float64
	ExpectedHomeRuns  float64
	ExpectedAwayRuns  float64
	ExpectedTotalRuns float64
	Confidence        float64
	Trials            int
	Degraded          bool
	CreatedAt         time.Time
}

// Bet is one stored betting candidate attached to a prediction.
type Bet struct {
	ID           int64
	PredictionID string
	Market       string // "moneyline", "total"
	Side         string // "home", "away", "over", "under"
	Line         float64
	AmericanOdds int
	ModelProb    float64
	ImpliedProb  float64
	Edge         float64
	EV           float64
	KellyStake   float64
	Confidence   string
	CreatedAt    time.Time
}

// Final is a game's actual score.
type Final struct {
	GameKey    string
	HomeRuns   int
	AwayRuns   int
	RecordedAt time.Time
}

// Store handles prediction history storage.
type Store struct {
	db *sql.DB
}

// Open opens the history database, creating the schema if needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS predictions (
		id TEXT PRIMARY KEY,
		game_key TEXT NOT NULL,
		game_date TEXT NOT NULL,
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		home_win_prob REAL NOT NULL,
		away_win_prob REAL NOT NULL,
		expected_home_runs REAL NOT NULL,
		expected_away_runs REAL NOT NULL,
		expected_total_runs REAL NOT NULL,
		confidence REAL NOT NULL,
		trials INTEGER NOT NULL,
		degraded INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS bets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		prediction_id TEXT NOT NULL,
		market TEXT NOT NULL,
		side TEXT NOT NULL,
		line REAL NOT NULL,
		american_odds INTEGER NOT NULL,
		model_prob REAL NOT NULL,
		implied_prob REAL NOT NULL,
		edge REAL NOT NULL,
		ev REAL NOT NULL,
		kelly_stake REAL NOT NULL,
		confidence TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS finals (
		game_key TEXT PRIMARY KEY,
		home_runs INTEGER NOT NULL,
		away_runs INTEGER NOT NULL,
		recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_predictions_game ON predictions(game_key);
	CREATE INDEX IF NOT EXISTS idx_predictions_date ON predictions(game_date);
	CREATE INDEX IF NOT EXISTS idx_bets_prediction ON bets(prediction_id);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SavePrediction stores a prediction and its bets atomically. A blank ID is
// assigned a fresh UUID. Returns the prediction ID.
func (s *Store) SavePrediction(p Prediction, bets []Bet) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO predictions (id, game_key, game_date, home_team, away_team,
			home_win_prob, away_win_prob, expected_home_runs, expected_away_runs,
			expected_total_runs, confidence, trials, degraded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.GameKey, p.GameDate, p.HomeTeam, p.AwayTeam,
		p.HomeWinProb, p.AwayWinProb, p.ExpectedHomeRuns, p.ExpectedAwayRuns,
		p.ExpectedTotalRuns, p.Confidence, p.Trials, p.Degraded)
	if err != nil {
		return "", fmt.Errorf("inserting prediction: %w", err)
	}

	for _, b := range bets {
		_, err := tx.Exec(`
			INSERT INTO bets (prediction_id, market, side, line, american_odds,
				model_prob, implied_prob, edge, ev, kelly_stake, confidence)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, p.ID, b.Market, b.Side, b.Line, b.AmericanOdds,
			b.ModelProb, b.ImpliedProb, b.Edge, b.EV, b.KellyStake, b.Confidence)
		if err != nil {
			return "", fmt.Errorf("inserting bet: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing prediction: %w", err)
	}

	return p.ID, nil
}

// PredictionsByDate retrieves all predictions for a slate date.
func (s *Store) PredictionsByDate(date string) ([]Prediction, error) {
	rows, err := s.db.Query(`
		SELECT id, game_key, game_date, home_team, away_team,
			home_win_prob, away_win_prob, expected_home_runs, expected_away_runs,
			expected_total_runs, confidence, trials, degraded, created_at
		FROM predictions
		WHERE game_date = ?
		ORDER BY game_key, created_at
	`, date)
	if err != nil {
		return nil, fmt.Errorf("querying predictions: %w", err)
	}
	defer rows.Close()

	var preds []Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}

	return preds, rows.Err()
}

// BetsForPrediction retrieves the stored bets for one prediction.
func (s *Store) BetsForPrediction(predictionID string) ([]Bet, error) {
	rows, err := s.db.Query(`
		SELECT id, prediction_id, market, side, line, american_odds,
			model_prob, implied_prob, edge, ev, kelly_stake, confidence, created_at
		FROM bets
		WHERE prediction_id = ?
		ORDER BY id
	`, predictionID)
	if err != nil {
		return nil, fmt.Errorf("querying bets: %w", err)
	}
	defer rows.Close()

	var bets []Bet
	for rows.Next() {
		var b Bet
		if err := rows.Scan(&b.ID, &b.PredictionID, &b.Market, &b.Side, &b.Line,
			&b.AmericanOdds, &b.ModelProb, &b.ImpliedProb, &b.Edge, &b.EV,
			&b.KellyStake, &b.Confidence, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning bet row: %w", err)
		}
		bets = append(bets, b)
	}

	return bets, rows.Err()
}

// RecordFinal stores a game's final score, replacing any earlier entry.
func (s *Store) RecordFinal(f Final) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO finals (game_key, home_runs, away_runs)
		VALUES (?, ?, ?)
	`, f.GameKey, f.HomeRuns, f.AwayRuns)
	if err != nil {
		return fmt.Errorf("recording final: %w", err)
	}
	return nil
}

// FinalForGame retrieves the final score for a game, or nil if the game has
// not been graded yet.
func (s *Store) FinalForGame(gameKey string) (*Final, error) {
	row := s.db.QueryRow(`
		SELECT game_key, home_runs, away_runs, recorded_at
		FROM finals WHERE game_key = ?
	`, gameKey)

	var f Final
	err := row.Scan(&f.GameKey, &f.HomeRuns, &f.AwayRuns, &f.RecordedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning final: %w", err)
	}

	return &f, nil
}

// GradedGames joins predictions with recorded finals and settles the stored
// bets. When a game was predicted more than once, only the most recent
// prediction counts.
func (s *Store) GradedGames() ([]GradedGame, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.game_key, p.game_date, p.home_team, p.away_team,
			p.home_win_prob, p.away_win_prob, p.expected_home_runs, p.expected_away_runs,
			p.expected_total_runs, p.confidence, p.trials, p.degraded, p.created_at,
			f.game_key, f.home_runs, f.away_runs, f.recorded_at
		FROM predictions p
		JOIN finals f ON f.game_key = p.game_key
		WHERE p.rowid = (SELECT MAX(p2.rowid) FROM predictions p2 WHERE p2.game_key = p.game_key)
		ORDER BY p.game_date, p.game_key
	`)
	if err != nil {
		return nil, fmt.Errorf("querying graded games: %w", err)
	}
	defer rows.Close()

	var games []GradedGame
	for rows.Next() {
		var p Prediction
		var f Final
		if err := rows.Scan(&p.ID, &p.GameKey, &p.GameDate, &p.HomeTeam, &p.AwayTeam,
			&p.HomeWinProb, &p.AwayWinProb, &p.ExpectedHomeRuns, &p.ExpectedAwayRuns,
			&p.ExpectedTotalRuns, &p.Confidence, &p.Trials, &p.Degraded, &p.CreatedAt,
			&f.GameKey, &f.HomeRuns, &f.AwayRuns, &f.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning graded game: %w", err)
		}
		games = append(games, GradedGame{Prediction: p, Final: f})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range games {
		bets, err := s.BetsForPrediction(games[i].Prediction.ID)
		if err != nil {
			return nil, err
		}
		for _, b := range bets {
			games[i].Bets = append(games[i].Bets, GradeBet(b, games[i].Final))
		}
	}

	return games, nil
}

func scanPrediction(rows *sql.Rows) (Prediction, error) {
	var p Prediction
	err := rows.Scan(&p.ID, &p.GameKey, &p.GameDate, &p.HomeTeam, &p.AwayTeam,
		&p.HomeWinProb, &p.AwayWinProb, &p.ExpectedHomeRuns, &p.ExpectedAwayRuns,
		&p.ExpectedTotalRuns, &p.Confidence, &p.Trials, &p.Degraded, &p.CreatedAt)
	if err != nil {
		return p, fmt.Errorf("scanning prediction row: %w", err)
	}
	return p, nil
}
