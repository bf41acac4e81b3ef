package events

import "time"

// Evento publicado no tópico "result_entered" quando o admin lança
// (ou corrige) o resultado oficial de uma partida.
type ResultEntered struct {
	FixtureID   string    `json:"fixture_id"`
	RoundID     string    `json:"round_id"`
	WinningTeam string    `json:"winning_team"`          // código do time ou "DRAW"
	MarginBand  string    `json:"margin_band,omitempty"` // "1-12" | "13+", vazio em empate
	EnteredBy   string    `json:"entered_by"`
	Ts          time.Time `json:"ts"`
}

// Evento publicado no tópico "result_removed" quando o resultado é apagado.
type ResultRemoved struct {
	FixtureID string    `json:"fixture_id"`
	RoundID   string    `json:"round_id"`
	RemovedBy string    `json:"removed_by"`
	Ts        time.Time `json:"ts"`
}
