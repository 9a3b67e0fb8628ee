package client

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure Go driver, no CGO

	"github.com/maticef/huddle/go/internal/models"
)

// voteSchema holds confirmed votes keyed by (user, fight). Keying by user
// id rather than group code matters: a user id outlives resurrection
// cycles of the same group code, and the registry forgets all bets on
// restart, so this file is the only durable copy.
const voteSchema = `
CREATE TABLE IF NOT EXISTS votes (
    user_id    TEXT NOT NULL,
    fight_id   TEXT NOT NULL,
    prediction TEXT NOT NULL,
    timestamp  INTEGER NOT NULL,
    PRIMARY KEY (user_id, fight_id)
);
`

// VoteCache is the client-local durable store of confirmed votes,
// re-uploaded to the registry on every state refresh.
type VoteCache struct {
	db *sql.DB
}

// OpenVoteCache opens (creating if needed) the cache file at path.
func OpenVoteCache(path string) (*VoteCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vote cache: %w", err)
	}
	if _, err := db.Exec(voteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate vote cache: %w", err)
	}

	return &VoteCache{db: db}, nil
}

// Put upserts a confirmed vote. A newer vote for the same fight replaces
// the old one, mirroring the registry's last-vote-wins rule.
func (c *VoteCache) Put(userID string, bet models.Bet) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO votes (user_id, fight_id, prediction, timestamp) VALUES (?, ?, ?, ?)`,
		userID, bet.FightID, bet.Prediction, bet.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to store vote: %w", err)
	}
	return nil
}

// List returns all cached votes for the user, oldest fight first.
func (c *VoteCache) List(userID string) ([]models.Bet, error) {
	rows, err := c.db.Query(
		`SELECT fight_id, prediction, timestamp FROM votes WHERE user_id = ? ORDER BY timestamp`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var bets []models.Bet
	for rows.Next() {
		bet := models.Bet{UserID: userID}
		if err := rows.Scan(&bet.FightID, &bet.Prediction, &bet.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		bets = append(bets, bet)
	}
	return bets, rows.Err()
}

// Close closes the underlying database.
func (c *VoteCache) Close() error {
	return c.db.Close()
}
