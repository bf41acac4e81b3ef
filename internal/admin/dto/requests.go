package dto

// CreateRoundRequest cria uma rodada; (season, number) é único.
type CreateRoundRequest struct {
	Season int    `json:"season"`
	Number int    `json:"number"`
	Label  string `json:"label"`
}

// UpdateRoundRequest altera label/abertura de uma rodada.
type UpdateRoundRequest struct {
	Label string `json:"label"`
	Open  bool   `json:"open"`
}

// FixtureRequest cria ou altera uma partida.
// Kickoff em RFC3339; vazio deixa o horário indefinido.
type FixtureRequest struct {
	RoundID  string `json:"roundId"`
	MatchNo  int    `json:"matchNo"`
	HomeTeam string `json:"homeTeam"`
	AwayTeam string `json:"awayTeam"`
	Kickoff  string `json:"kickoff,omitempty"`
}

// ResultRequest lança o resultado oficial de uma partida.
// MarginBand obrigatório em vitória, proibido em empate.
type ResultRequest struct {
	WinningTeam string `json:"winningTeam"` // código do time ou "DRAW"
	MarginBand  string `json:"marginBand,omitempty"`
}

// OddsRequest lança o snapshot de odds das cinco saídas.
// Todas >= 1.01.
type OddsRequest struct {
	Home1To12  float64 `json:"home_1_12"`
	Home13Plus float64 `json:"home_13_plus"`
	Draw       float64 `json:"draw"`
	Away1To12  float64 `json:"away_1_12"`
	Away13Plus float64 `json:"away_13_plus"`
}

// PageViewRequest registra uma visita de página.
type PageViewRequest struct {
	Page string `json:"page"`
}
