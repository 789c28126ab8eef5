package odds

// MarketType represents the type of betting market
type MarketType string

const (
	MarketMoneyline MarketType = "moneyline"
	MarketTotal     MarketType = "total"
)

// MoneylineOdds is a published moneyline pair in American odds.
type MoneylineOdds struct {
	Home int
	Away int
}

// TotalOdds is a published total-runs line with its over/under prices in
// American odds.
type TotalOdds struct {
	Line  float64
	Over  int
	Under int
}

// MarketLine holds the published markets for one game. A nil market means
// the book has not posted it; consumers omit that bet type rather than
// fabricating a line.
type MarketLine struct {
	Moneyline *MoneylineOdds
	Total     *TotalOdds
}

// HasAny reports whether at least one market is published.
func (m MarketLine) HasAny() bool {
	return m.Moneyline != nil || m.Total != nil
}
