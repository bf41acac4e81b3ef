package repo

import "time"

// Status de uma paper bet.
const (
	StatusOpen = "OPEN"
	StatusWon  = "WON"
	StatusLost = "LOST"
)

// PaperBet é a aposta simulada derivada de um pick, chaveada por
// (participant, fixture). Só o sincronizador escreve aqui.
type PaperBet struct {
	ParticipantID string
	FixtureID     string
	Bucket        string
	StakeCents    int64
	Odd           float64 // odd registrada no momento da aposta
	Status        string
	ReturnCents   int64
	ProfitCents   int64
	PlacedAt      time.Time
	SettledAt     time.Time
}

// PickLine é o pick cru que alimenta a sincronização.
type PickLine struct {
	ParticipantID string
	PickedTeam    string
	Margin        int
}

// FixtureInfo é o mínimo da partida que o worker precisa.
type FixtureInfo struct {
	ID       string
	RoundID  string
	HomeTeam string
	AwayTeam string
}
