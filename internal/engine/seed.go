package engine

import (
	"fmt"
	"hash/fnv"
)

// GameKey is the canonical identifier for a matchup on a date, formatted
// date|away|home. It doubles as the history store's join key between
// predictions and final scores.
func GameKey(date, awayTeam, homeTeam string) string {
	return fmt.Sprintf("%s|%s|%s", date, awayTeam, homeTeam)
}

// gameSeed derives a per-game RNG seed from the run's master seed and the
// game key. Each game gets its own stream, so a slate reproduces exactly
// under the same master seed no matter how the workers are scheduled.
func gameSeed(masterSeed int64, key string) int64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return masterSeed ^ int64(h.Sum64())
}
