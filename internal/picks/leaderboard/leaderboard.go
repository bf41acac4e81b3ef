// Package leaderboard agrega pontos por participante a partir das
// linhas cruas pick+resultado, usando a fórmula única de pkg/scoring.
package leaderboard

import (
	"sort"

	"github.com/radieske/picks-league-platform/internal/picks/repo"
	"github.com/radieske/picks-league-platform/pkg/scoring"
)

// Row é uma posição do leaderboard.
type Row struct {
	Rank          int    `json:"rank"`
	ParticipantID string `json:"participantId"`
	Name          string `json:"name"`
	Category      string `json:"category,omitempty"`
	Picks         int    `json:"picks"`
	Scored        int    `json:"scored"` // picks de partidas já com resultado
	Points        int    `json:"points"`
}

// Compute pontua cada entrada e agrega por participante.
// Ordenação: pontos desc, depois nome asc. Empatados compartilham rank.
func Compute(entries []repo.ScoredEntry) []Row {
	byID := make(map[string]*Row)
	for _, e := range entries {
		r, ok := byID[e.ParticipantID]
		if !ok {
			r = &Row{ParticipantID: e.ParticipantID, Name: e.Name, Category: e.Category}
			byID[e.ParticipantID] = r
		}
		r.Picks++
		if e.WinningTeam != "" {
			r.Scored++
		}
		r.Points += scoring.Score(
			scoring.Pick{Team: e.PickedTeam, Margin: e.Margin},
			scoring.Result{WinningTeam: e.WinningTeam, MarginBand: e.MarginBand},
		)
	}

	out := make([]Row, 0, len(byID))
	for _, r := range byID {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].Name < out[j].Name
	})

	for i := range out {
		if i > 0 && out[i].Points == out[i-1].Points {
			out[i].Rank = out[i-1].Rank
			continue
		}
		out[i].Rank = i + 1
	}
	return out
}
