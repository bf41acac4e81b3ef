package dto

// PutPickRequest é o corpo do PUT /v1/picks (upsert de um pick).
type PutPickRequest struct {
	FixtureID  string `json:"fixtureId"`
	PickedTeam string `json:"pickedTeam"` // código do time ou "DRAW"
	Margin     int    `json:"margin"`     // 1, 13; 0 obrigatório em pick de empate
}
