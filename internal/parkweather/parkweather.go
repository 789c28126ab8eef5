// Package parkweather models the run-scoring environment of a game: the
// home ballpark's long-run scoring factor combined with the day's weather
// observation. The output feeds the simulator as a single bounded
// multiplier.
package parkweather

import (
	"strings"

	"mlb-sim-engine/internal/config"
	"mlb-sim-engine/internal/mathutil"
	"mlb-sim-engine/internal/simulation"
)

// Park describes a ballpark's scoring environment.
type Park struct {
	Stadium    string
	RunFactor  float64 // long-run scoring environment, 1.0 = league neutral
	Dome       bool    // roofed or climate controlled
	WindFactor float64 // how strongly wind plays here, 0 = fully sheltered
}

// Weather is a game-time observation at the ballpark. Wind direction is in
// degrees with 0/360 blowing out to center field and 180 blowing straight in.
type Weather struct {
	TempF            float64
	WindSpeedMPH     float64
	WindDirectionDeg float64
	Humidity         float64 // percent
	PressureInHg     float64
	Conditions       string // "Clear", "Rain", "Snow", "Fog", ...
}

// parks keys every MLB team to its home ballpark environment.
var parks = map[string]Park{
	"Arizona Diamondbacks":  {Stadium: "Chase Field", RunFactor: 1.03, Dome: true},
	"Atlanta Braves":        {Stadium: "Truist Park", RunFactor: 1.01, WindFactor: 1.0},
	"Baltimore Orioles":     {Stadium: "Oriole Park at Camden Yards", RunFactor: 1.05, WindFactor: 1.0},
	"Boston Red Sox":        {Stadium: "Fenway Park", RunFactor: 1.04, WindFactor: 1.0},
	"Chicago Cubs":          {Stadium: "Wrigley Field", RunFactor: 1.02, WindFactor: 1.2},
	"Chicago White Sox":     {Stadium: "Guaranteed Rate Field", RunFactor: 1.00, WindFactor: 1.0},
	"Cincinnati Reds":       {Stadium: "Great American Ball Park", RunFactor: 1.02, WindFactor: 1.0},
	"Cleveland Guardians":   {Stadium: "Progressive Field", RunFactor: 0.98, WindFactor: 1.0},
	"Colorado Rockies":      {Stadium: "Coors Field", RunFactor: 1.12, WindFactor: 1.1},
	"Detroit Tigers":        {Stadium: "Comerica Park", RunFactor: 0.97, WindFactor: 1.0},
	"Houston Astros":        {Stadium: "Minute Maid Park", RunFactor: 1.00, Dome: true},
	"Kansas City Royals":    {Stadium: "Kauffman Stadium", RunFactor: 0.98, WindFactor: 1.0},
	"Los Angeles Angels":    {Stadium: "Angel Stadium", RunFactor: 0.99, WindFactor: 0.8},
	"Los Angeles Dodgers":   {Stadium: "Dodger Stadium", RunFactor: 0.96, WindFactor: 0.8},
	"Miami Marlins":         {Stadium: "loanDepot park", RunFactor: 0.95, Dome: true},
	"Milwaukee Brewers":     {Stadium: "American Family Field", RunFactor: 1.00, Dome: true, WindFactor: 0.5},
	"Minnesota Twins":       {Stadium: "Target Field", RunFactor: 1.01, WindFactor: 1.0},
	"New York Mets":         {Stadium: "Citi Field", RunFactor: 0.97, WindFactor: 1.0},
	"New York Yankees":      {Stadium: "Yankee Stadium", RunFactor: 1.05, WindFactor: 1.0},
	"Oakland Athletics":     {Stadium: "Oakland Coliseum", RunFactor: 0.92, WindFactor: 1.1},
	"Philadelphia Phillies": {Stadium: "Citizens Bank Park", RunFactor: 1.03, WindFactor: 1.0},
	"Pittsburgh Pirates":    {Stadium: "PNC Park", RunFactor: 0.99, WindFactor: 1.0},
	"San Diego Padres":      {Stadium: "Petco Park", RunFactor: 0.93, WindFactor: 0.9},
	"San Francisco Giants":  {Stadium: "Oracle Park", RunFactor: 0.90, WindFactor: 1.2},
	"Seattle Mariners":      {Stadium: "T-Mobile Park", RunFactor: 0.96, Dome: true, WindFactor: 0.5},
	"St. Louis Cardinals":   {Stadium: "Busch Stadium", RunFactor: 1.00, WindFactor: 1.0},
	"Tampa Bay Rays":        {Stadium: "Tropicana Field", RunFactor: 0.97, Dome: true},
	"Texas Rangers":         {Stadium: "Globe Life Field", RunFactor: 1.06, Dome: true},
	"Toronto Blue Jays":     {Stadium: "Rogers Centre", RunFactor: 1.02, Dome: true},
	"Washington Nationals":  {Stadium: "Nationals Park", RunFactor: 1.01, WindFactor: 1.0},
}

// ParkForTeam returns the home ballpark for a full MLB team name.
func ParkForTeam(team string) (Park, bool) {
	p, ok := parks[team]
	return p, ok
}

// Teams returns every team name in the park table.
func Teams() []string {
	names := make([]string, 0, len(parks))
	for name := range parks {
		names = append(names, name)
	}
	return names
}

// DefaultWeather is the fallback observation when no weather data is
// available: a mild clear evening with light wind.
func DefaultWeather() Weather {
	return Weather{
		TempF:            75,
		WindSpeedMPH:     5,
		WindDirectionDeg: 180,
		Humidity:         50,
		PressureInHg:     30.0,
		Conditions:       "Clear",
	}
}

// WeatherImpact returns the weather multiplier on run scoring at a park,
// clamped to the park/weather bounds. Dome parks always return 1.0.
func WeatherImpact(p Park, w Weather, b config.Bounds) float64 {
	if p.Dome {
		return 1.0
	}

	impact := 1.0

	// Cold suppresses offense, extreme heat slightly, 75-85F is ideal
	// hitting weather.
	switch {
	case w.TempF < 50:
		impact *= 0.90
	case w.TempF > 95:
		impact *= 0.95
	case w.TempF >= 75 && w.TempF <= 85:
		impact *= 1.05
	}

	impact *= windImpact(p, w)

	switch {
	case w.Humidity > 80:
		impact *= 0.97
	case w.Humidity < 30:
		impact *= 1.02
	}

	// Low pressure carries the ball farther.
	switch {
	case w.PressureInHg < 29.5:
		impact *= 1.03
	case w.PressureInHg > 30.5:
		impact *= 0.98
	}

	cond := strings.ToLower(w.Conditions)
	switch {
	case strings.Contains(cond, "rain"):
		impact *= 0.85
	case strings.Contains(cond, "snow"):
		impact *= 0.80
	case strings.Contains(cond, "fog"):
		impact *= 0.92
	}

	return mathutil.Clamp(impact, b.ParkWeatherMin, b.ParkWeatherMax)
}

// windImpact converts wind speed and direction into a scoring adjustment,
// scaled by how exposed the park is: a sheltered park feels a fraction of
// the adjustment, Wrigley feels more than all of it.
func windImpact(p Park, w Weather) float64 {
	base := 1.0
	dir := w.WindDirectionDeg

	switch {
	case w.WindSpeedMPH > 15:
		switch {
		case dir >= 45 && dir <= 135, dir >= 225 && dir <= 315:
			base = 0.98 // crosswind
		case dir > 135 && dir < 225:
			base = 0.92 // blowing in
		default:
			base = 1.08 // blowing out
		}
	case w.WindSpeedMPH > 8:
		switch {
		case dir > 135 && dir < 225:
			base = 0.96
		case dir <= 45, dir >= 315:
			base = 1.04
		}
	}

	return 1.0 + (base-1.0)*p.WindFactor
}

// Compute returns the combined park and weather factor for the home team's
// ballpark, clamped to the configured bounds. Unknown teams get a neutral
// park; a zero-valued observation falls back to DefaultWeather.
func Compute(homeTeam string, w Weather, b config.Bounds) simulation.ParkWeatherFactor {
	p, ok := ParkForTeam(homeTeam)
	if !ok {
		p = Park{Stadium: "Unknown", RunFactor: 1.0, WindFactor: 1.0}
	}
	if w == (Weather{}) {
		w = DefaultWeather()
	}

	weather := WeatherImpact(p, w, b)
	combined := mathutil.Clamp(p.RunFactor*weather, b.ParkWeatherMin, b.ParkWeatherMax)

	return simulation.ParkWeatherFactor{
		Park:     p.RunFactor,
		Weather:  weather,
		Combined: combined,
		Dome:     p.Dome,
	}
}
