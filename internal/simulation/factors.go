package simulation

import (
	"mlb-sim-engine/internal/config"
	"mlb-sim-engine/internal/mathutil"
)

// minGamesStarted is the sample floor below which a starter's numbers are
// too thin to move the model off neutral.
const minGamesStarted = 5

// PitcherFactorFromStats derives a starter's run-suppression factor from ERA
// and WHIP tiers, damped by an innings-pitched reliability weight and clamped
// to the configured pitcher bounds.
//
// ERA carries most of the signal, WHIP refines it. A starter with fewer than
// five starts gets a neutral factor regardless of rate stats.
func PitcherFactorFromStats(stats PitcherStats, cfg config.ModelConfig) PitcherFactor {
	if stats.GamesStarted < minGamesStarted {
		return PitcherFactor{Name: stats.Name, Value: 1.0}
	}

	var eraFactor float64
	switch {
	case stats.ERA < 2.00:
		eraFactor = 0.60
	case stats.ERA < 2.75:
		eraFactor = 0.70
	case stats.ERA < 3.50:
		eraFactor = 0.85
	case stats.ERA < 4.25:
		eraFactor = 0.95
	case stats.ERA < 5.25:
		eraFactor = 1.15
	case stats.ERA < 6.50:
		eraFactor = 1.25
	default:
		eraFactor = 1.40
	}

	var whipFactor float64
	switch {
	case stats.WHIP < 1.00:
		whipFactor = 0.80
	case stats.WHIP < 1.15:
		whipFactor = 0.90
	case stats.WHIP < 1.30:
		whipFactor = 0.97
	case stats.WHIP < 1.45:
		whipFactor = 1.08
	default:
		whipFactor = 1.20
	}

	// Innings pitched reliability: a full season of innings earns full
	// weight, partial seasons are pulled toward neutral.
	var ipFactor float64
	switch {
	case stats.InningsPitched > 100:
		ipFactor = 1.0
	case stats.InningsPitched > 50:
		ipFactor = 0.8
	default:
		ipFactor = 0.5
	}

	base := eraFactor*cfg.EraWeight + whipFactor*cfg.WhipWeight
	quality := 1.0 + (base-1.0)*ipFactor

	b := cfg.Bounds
	return PitcherFactor{
		Name:  stats.Name,
		Value: mathutil.Clamp(quality, b.PitcherFactorMin, b.PitcherFactorMax),
	}
}

// BullpenFactorFromStats derives a relief-corps quality factor from bullpen
// ERA, WHIP and save conversion rate. Quality-up scale: a 2.80-ERA pen with
// a strong save rate lands above 1.0.
func BullpenFactorFromStats(stats BullpenStats, cfg config.ModelConfig) BullpenFactor {
	eraFactor := mathutil.Clamp(2.0-(stats.ERA-3.0)/2.5, 0.5, 1.5)
	whipFactor := mathutil.Clamp(2.0-(stats.WHIP-1.0)/0.8, 0.5, 1.5)

	saveRate := 0.0
	if stats.SaveOpportunities > 0 {
		saveRate = float64(stats.Saves) / float64(stats.SaveOpportunities)
	}
	saveFactor := saveRate * 1.5

	quality := eraFactor*0.5 + whipFactor*0.3 + saveFactor*0.2

	b := cfg.Bounds
	return BullpenFactor{
		Value: mathutil.Clamp(quality, b.BullpenFactorMin, b.BullpenFactorMax),
	}
}

// bullpenBlend converts the opponent's bullpen quality into a scoring
// multiplier, damped by the bullpen weight since the pen only covers part of
// the game: blend = 1 + (1/factor - 1) * weight.
func bullpenBlend(opponentPen float64, weight float64) float64 {
	if opponentPen <= 0 {
		return 1.0
	}
	return 1.0 + (1.0/opponentPen-1.0)*weight
}
