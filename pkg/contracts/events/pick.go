package events

type PickSubmitted struct {
	ParticipantID string `json:"participant_id"`
	FixtureID     string `json:"fixture_id"`
	RoundID       string `json:"round_id"`
	PickedTeam    string `json:"picked_team"` // código do time ou "DRAW"
	Margin        int    `json:"margin"`      // 1, 13 ou 0 (empate)
	TsUnixMs      int64  `json:"ts_unix_ms"`
}
