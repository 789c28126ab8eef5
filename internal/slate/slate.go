// Package slate reads the day's games from a JSON slate file: matchups,
// team scoring profiles, starter and bullpen stats, a weather observation
// and the published market lines. The file is the boundary between data
// collection and the prediction pipeline; everything downstream works on
// the records decoded here.
package slate

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"mlb-sim-engine/internal/odds"
	"mlb-sim-engine/internal/parkweather"
	"mlb-sim-engine/internal/simulation"
)

// TeamStats is a team's offensive profile for the slate date.
type TeamStats struct {
	BaseRunsPerGame float64 `json:"base_runs_per_game"`
	Strength        float64 `json:"strength"`
	RecentForm      float64 `json:"recent_form"`
}

// PitcherStats is a probable starter's season line.
type PitcherStats struct {
	Name           string  `json:"name"`
	ERA            float64 `json:"era"`
	WHIP           float64 `json:"whip"`
	InningsPitched float64 `json:"innings_pitched"`
	GamesStarted   int     `json:"games_started"`
}

// Stats converts to the simulator's record.
func (p PitcherStats) Stats() simulation.PitcherStats {
	return simulation.PitcherStats{
		Name:           p.Name,
		ERA:            p.ERA,
		WHIP:           p.WHIP,
		InningsPitched: p.InningsPitched,
		GamesStarted:   p.GamesStarted,
	}
}

// BullpenStats is a relief corps' season line.
type BullpenStats struct {
	ERA               float64 `json:"era"`
	WHIP              float64 `json:"whip"`
	Saves             int     `json:"saves"`
	SaveOpportunities int     `json:"save_opportunities"`
}

// Stats converts to the simulator's record.
func (b BullpenStats) Stats() simulation.BullpenStats {
	return simulation.BullpenStats{
		ERA:               b.ERA,
		WHIP:              b.WHIP,
		Saves:             b.Saves,
		SaveOpportunities: b.SaveOpportunities,
	}
}

// Weather is the game-time observation at the home park.
type Weather struct {
	TempF            float64 `json:"temp_f"`
	WindSpeedMPH     float64 `json:"wind_speed_mph"`
	WindDirectionDeg float64 `json:"wind_direction_deg"`
	Humidity         float64 `json:"humidity"`
	PressureInHg     float64 `json:"pressure_inhg"`
	Conditions       string  `json:"conditions"`
}

// Observation converts to the park/weather model's record. A nil receiver
// yields the zero observation, which downstream substitutes with defaults.
func (w *Weather) Observation() parkweather.Weather {
	if w == nil {
		return parkweather.Weather{}
	}
	return parkweather.Weather{
		TempF:            w.TempF,
		WindSpeedMPH:     w.WindSpeedMPH,
		WindDirectionDeg: w.WindDirectionDeg,
		Humidity:         w.Humidity,
		PressureInHg:     w.PressureInHg,
		Conditions:       w.Conditions,
	}
}

// MoneylineOdds is a published moneyline pair in American odds.
type MoneylineOdds struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// TotalOdds is a published total line with over/under prices.
type TotalOdds struct {
	Line  float64 `json:"line"`
	Over  int     `json:"over"`
	Under int     `json:"under"`
}

// Markets holds the published markets for a game. Absent markets stay nil
// and are omitted downstream, never estimated.
type Markets struct {
	Moneyline *MoneylineOdds `json:"moneyline,omitempty"`
	Total     *TotalOdds     `json:"total,omitempty"`
}

// MarketLine converts to the odds package's record. Nil-safe.
func (m *Markets) MarketLine() odds.MarketLine {
	var line odds.MarketLine
	if m == nil {
		return line
	}
	if m.Moneyline != nil {
		line.Moneyline = &odds.MoneylineOdds{Home: m.Moneyline.Home, Away: m.Moneyline.Away}
	}
	if m.Total != nil {
		line.Total = &odds.TotalOdds{Line: m.Total.Line, Over: m.Total.Over, Under: m.Total.Under}
	}
	return line
}

// FinalScore is a completed game's result. Present on historical slates so
// backtests can grade predictions; absent on upcoming slates.
type FinalScore struct {
	HomeRuns int `json:"home_runs"`
	AwayRuns int `json:"away_runs"`
}

// Game is one matchup on the slate. Pitchers, bullpens, weather and odds
// are optional; the pipeline degrades to neutral factors or omits markets
// when they are missing.
type Game struct {
	HomeTeam    string        `json:"home_team"`
	AwayTeam    string        `json:"away_team"`
	Home        TeamStats     `json:"home"`
	Away        TeamStats     `json:"away"`
	HomePitcher *PitcherStats `json:"home_pitcher,omitempty"`
	AwayPitcher *PitcherStats `json:"away_pitcher,omitempty"`
	HomeBullpen *BullpenStats `json:"home_bullpen,omitempty"`
	AwayBullpen *BullpenStats `json:"away_bullpen,omitempty"`
	Weather     *Weather      `json:"weather,omitempty"`
	Odds        *Markets      `json:"odds,omitempty"`
	Final       *FinalScore   `json:"final,omitempty"`
}

// HomeInputs returns the home team's simulator inputs.
func (g Game) HomeInputs() simulation.TeamGameInputs {
	return simulation.TeamGameInputs{
		Team:            g.HomeTeam,
		BaseRunsPerGame: g.Home.BaseRunsPerGame,
		Strength:        g.Home.Strength,
		RecentForm:      g.Home.RecentForm,
	}
}

// AwayInputs returns the away team's simulator inputs.
func (g Game) AwayInputs() simulation.TeamGameInputs {
	return simulation.TeamGameInputs{
		Team:            g.AwayTeam,
		BaseRunsPerGame: g.Away.BaseRunsPerGame,
		Strength:        g.Away.Strength,
		RecentForm:      g.Away.RecentForm,
	}
}

// Slate is a day's games.
type Slate struct {
	Date  string `json:"date"`
	Games []Game `json:"games"`
}

// Load reads, decodes and validates a slate file.
func Load(path string) (Slate, error) {
	var s Slate

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("reading slate: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decoding slate %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("validating slate %s: %w", path, err)
	}

	return s, nil
}

// Validate checks the slate is structurally sound. It does not require
// optional sections: a game without pitchers or odds is legal, it just
// degrades downstream.
func (s Slate) Validate() error {
	if _, err := time.Parse("2006-01-02", s.Date); err != nil {
		return fmt.Errorf("date %q must be YYYY-MM-DD: %w", s.Date, err)
	}

	for i, g := range s.Games {
		if g.HomeTeam == "" || g.AwayTeam == "" {
			return fmt.Errorf("game %d: both teams must be named", i)
		}
		if g.HomeTeam == g.AwayTeam {
			return fmt.Errorf("game %d: %s cannot play itself", i, g.HomeTeam)
		}
		for _, side := range []struct {
			role  string
			stats TeamStats
		}{{"home", g.Home}, {"away", g.Away}} {
			if side.stats.BaseRunsPerGame < 0 || !finite(side.stats.BaseRunsPerGame) {
				return fmt.Errorf("game %d: %s base_runs_per_game %f invalid", i, side.role, side.stats.BaseRunsPerGame)
			}
			if !finite(side.stats.Strength) || !finite(side.stats.RecentForm) {
				return fmt.Errorf("game %d: %s ratings must be finite", i, side.role)
			}
		}
		if g.Odds != nil && g.Odds.Total != nil && g.Odds.Total.Line <= 0 {
			return fmt.Errorf("game %d: total line %f must be positive", i, g.Odds.Total.Line)
		}
		if g.Final != nil && (g.Final.HomeRuns < 0 || g.Final.AwayRuns < 0) {
			return fmt.Errorf("game %d: final score cannot be negative", i)
		}
	}

	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
