package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// RoundID: rodada de interesse; vazio inscreve no escopo geral
type ClientMsg struct {
	Type    string `json:"type"`
	RoundID string `json:"roundId"`
}

// BoardUpdate avisa o cliente que o leaderboard da rodada mudou e deve
// ser rebuscado. Não carrega o board inteiro; só o motivo.
type BoardUpdate struct {
	RoundID string `json:"roundId"`
	Reason  string `json:"reason"` // "result" | "result_removed" | "paperbet"
}
