package leaderboard

import (
	"testing"

	"github.com/radieske/picks-league-platform/internal/picks/repo"
)

func entry(pid, name, team string, margin int, winner, band string) repo.ScoredEntry {
	return repo.ScoredEntry{
		ParticipantID: pid, Name: name,
		PickedTeam: team, Margin: margin,
		WinningTeam: winner, MarginBand: band,
	}
}

func TestCompute(t *testing.T) {
	entries := []repo.ScoredEntry{
		// alice: acerto exato (8) + acerto de vencedor (5) = 13
		entry("u1", "alice", "BLU", 1, "BLU", "1-12"),
		entry("u1", "alice", "RED", 1, "RED", "13+"),
		// bob: empate certeiro (24), partida sem resultado (0)
		entry("u2", "bob", "DRAW", 0, "DRAW", ""),
		entry("u2", "bob", "GRN", 13, "", ""),
		// carol: tudo errado
		entry("u3", "carol", "RED", 13, "BLU", "1-12"),
	}

	rows := Compute(entries)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	if rows[0].Name != "bob" || rows[0].Points != 24 || rows[0].Rank != 1 {
		t.Errorf("expected bob first with 24 points, got %+v", rows[0])
	}
	if rows[1].Name != "alice" || rows[1].Points != 13 || rows[1].Rank != 2 {
		t.Errorf("expected alice second with 13 points, got %+v", rows[1])
	}
	if rows[2].Name != "carol" || rows[2].Points != 0 || rows[2].Rank != 3 {
		t.Errorf("expected carol last with 0 points, got %+v", rows[2])
	}

	// contagem de picks pontuados exclui partidas sem resultado
	if rows[0].Picks != 2 || rows[0].Scored != 1 {
		t.Errorf("expected bob picks=2 scored=1, got %+v", rows[0])
	}
}

func TestComputeTiesShareRank(t *testing.T) {
	entries := []repo.ScoredEntry{
		entry("u1", "alice", "BLU", 1, "BLU", "1-12"),
		entry("u2", "bob", "BLU", 1, "BLU", "1-12"),
		entry("u3", "carol", "BLU", 13, "BLU", "1-12"),
	}

	rows := Compute(entries)
	if rows[0].Rank != 1 || rows[1].Rank != 1 {
		t.Errorf("expected shared rank 1 for the 8-point tie, got %d and %d", rows[0].Rank, rows[1].Rank)
	}
	if rows[2].Rank != 3 {
		t.Errorf("expected carol ranked 3 after a two-way tie, got %d", rows[2].Rank)
	}
	// desempate alfabético na ordenação
	if rows[0].Name != "alice" || rows[1].Name != "bob" {
		t.Errorf("expected alphabetical order within the tie, got %s then %s", rows[0].Name, rows[1].Name)
	}
}

func TestComputeEmpty(t *testing.T) {
	if rows := Compute(nil); len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}
