package events

import "time"

// Aviso de recomputação de leaderboard, repassado via Redis Pub/Sub
// para o hub WebSocket do picks-service.
type LeaderboardUpdated struct {
	RoundID string    `json:"round_id"`
	Reason  string    `json:"reason"` // "result" | "result_removed" | "paperbet"
	Ts      time.Time `json:"ts"`
}
