package events

import "time"

// Odds das cinco saídas mutuamente exclusivas de uma partida.
type OddsLine struct {
	Home1To12  float64 `json:"home_1_12"`
	Home13Plus float64 `json:"home_13_plus"`
	Draw       float64 `json:"draw"`
	Away1To12  float64 `json:"away_1_12"`
	Away13Plus float64 `json:"away_13_plus"`
}

// Evento publicado no tópico "odds_updated" quando o admin lança ou
// substitui o snapshot de odds de uma partida.
type OddsUpdated struct {
	FixtureID string    `json:"fixture_id"`
	RoundID   string    `json:"round_id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	Odds      OddsLine  `json:"odds"`
	EnteredAt time.Time `json:"entered_at"`
	EnteredBy string    `json:"entered_by"`
}
