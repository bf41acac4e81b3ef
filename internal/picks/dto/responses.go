package dto

// RoundResponse é uma rodada na listagem pública.
type RoundResponse struct {
	ID     string `json:"id"`
	Season int    `json:"season"`
	Number int    `json:"number"`
	Label  string `json:"label"`
	Open   bool   `json:"open"`
}

// FixtureResponse é uma partida com o resultado (se já houver).
type FixtureResponse struct {
	ID          string `json:"id"`
	RoundID     string `json:"roundId"`
	MatchNo     int    `json:"matchNo"`
	HomeTeam    string `json:"homeTeam"`
	AwayTeam    string `json:"awayTeam"`
	Kickoff     string `json:"kickoff,omitempty"` // RFC3339, vazio se indefinido
	WinningTeam string `json:"winningTeam,omitempty"`
	MarginBand  string `json:"marginBand,omitempty"`
}

// PickResponse é um pick do chamador com os pontos ao vivo.
type PickResponse struct {
	FixtureID  string `json:"fixtureId"`
	PickedTeam string `json:"pickedTeam"`
	Margin     int    `json:"margin"`
	Points     int    `json:"points"` // fórmula única de pkg/scoring
	Scored     bool   `json:"scored"` // partida já tem resultado
}

// PutPickResponse confirma o upsert.
type PutPickResponse struct {
	FixtureID string `json:"fixtureId"`
	Status    string `json:"status"` // "SAVED"
}

// PaperBetStandingResponse é uma linha do ranking de paper bets.
type PaperBetStandingResponse struct {
	Rank          int     `json:"rank"`
	ParticipantID string  `json:"participantId"`
	Name          string  `json:"name"`
	Bets          int     `json:"bets"`
	Wins          int     `json:"wins"`
	StakedCents   int64   `json:"stakedCents"`
	ProfitCents   int64   `json:"profitCents"`
	ROI           float64 `json:"roi"`
}
