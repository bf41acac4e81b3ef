package repo

import (
	"database/sql"
	"time"
)

// Round é uma rodada da temporada.
type Round struct {
	ID     string
	Season int
	Number int
	Label  string
	Open   bool
}

// Fixture é uma partida agendada de uma rodada.
// Result* ficam zerados enquanto não há resultado oficial.
type Fixture struct {
	ID          string
	RoundID     string
	MatchNo     int
	HomeTeam    string
	AwayTeam    string
	Kickoff     sql.NullTime
	WinningTeam string // "" sem resultado; código do time ou "DRAW"
	MarginBand  string // "" em empate ou sem resultado
}

// Pick é a previsão persistida de um participante.
type Pick struct {
	ParticipantID string
	FixtureID     string
	PickedTeam    string
	Margin        int
	UpdatedAt     time.Time
}

// ScoredEntry é a linha crua usada pela agregação de leaderboard:
// um pick mais o resultado (eventualmente vazio) da partida.
type ScoredEntry struct {
	ParticipantID string
	Name          string
	Category      string
	PickedTeam    string
	Margin        int
	WinningTeam   string
	MarginBand    string
}

// PaperBetStanding é a linha agregada do ranking de paper bets.
type PaperBetStanding struct {
	ParticipantID string
	Name          string
	Bets          int
	Wins          int
	StakedCents   int64
	ProfitCents   int64
}
