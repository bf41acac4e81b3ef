package repo

import (
	"database/sql"
	"time"
)

// Round é uma rodada administrável.
type Round struct {
	ID     string
	Season int
	Number int
	Label  string
	Open   bool
}

// Fixture é uma partida administrável.
type Fixture struct {
	ID       string
	RoundID  string
	MatchNo  int
	HomeTeam string
	AwayTeam string
	Kickoff  sql.NullTime
}

// Result é o resultado oficial de uma partida.
type Result struct {
	FixtureID   string
	WinningTeam string // código do time ou "DRAW"
	MarginBand  string // "1-12" | "13+", vazio em empate
	EnteredBy   string
	EnteredAt   time.Time
}

// Odds é o snapshot corrente de odds de uma partida.
type Odds struct {
	FixtureID  string
	Home1To12  float64
	Home13Plus float64
	Draw       float64
	Away1To12  float64
	Away13Plus float64
	EnteredBy  string
	EnteredAt  time.Time
}

// Participant é um participante inscrito na competição.
type Participant struct {
	ID       string
	Name     string
	Email    string
	Category string
	JoinedAt time.Time
}

// PageViewCount é o agregado de analytics por página.
type PageViewCount struct {
	Page  string
	Views int64
}
