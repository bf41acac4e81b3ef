package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// ErrPicksLocked indica escrita de pick depois do kickoff da partida.
var ErrPicksLocked = errors.New("picks locked for fixture")

// Postgres implementa as operações de leitura/escrita do picks-service
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// ListRounds retorna as rodadas da temporada, mais recente primeiro
func (p *Postgres) ListRounds(ctx context.Context) ([]Round, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, season, number, label, open
		FROM rounds
		ORDER BY season DESC, number DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Round
	for rows.Next() {
		var r Round
		if err := rows.Scan(&r.ID, &r.Season, &r.Number, &r.Label, &r.Open); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListFixtures retorna as partidas de uma rodada com o resultado (se houver)
func (p *Postgres) ListFixtures(ctx context.Context, roundID string) ([]Fixture, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT f.id, f.round_id, f.match_no, f.home_team, f.away_team, f.kickoff,
		       COALESCE(r.winning_team, ''), COALESCE(r.margin_band, '')
		FROM fixtures f
		LEFT JOIN results r ON r.fixture_id = f.id
		WHERE f.round_id = $1
		ORDER BY f.match_no`, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Fixture
	for rows.Next() {
		var f Fixture
		if err := rows.Scan(&f.ID, &f.RoundID, &f.MatchNo, &f.HomeTeam, &f.AwayTeam,
			&f.Kickoff, &f.WinningTeam, &f.MarginBand); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetFixture retorna uma partida pelo id (sql.ErrNoRows se não existe)
func (p *Postgres) GetFixture(ctx context.Context, fixtureID string) (Fixture, error) {
	var f Fixture
	err := p.db.QueryRowContext(ctx, `
		SELECT f.id, f.round_id, f.match_no, f.home_team, f.away_team, f.kickoff,
		       COALESCE(r.winning_team, ''), COALESCE(r.margin_band, '')
		FROM fixtures f
		LEFT JOIN results r ON r.fixture_id = f.id
		WHERE f.id = $1`, fixtureID).
		Scan(&f.ID, &f.RoundID, &f.MatchNo, &f.HomeTeam, &f.AwayTeam,
			&f.Kickoff, &f.WinningTeam, &f.MarginBand)
	return f, err
}

// UpsertPick grava (ou substitui) o pick de um participante para uma partida.
//
// O lockout de kickoff é resolvido no próprio comando: o INSERT alimenta-se
// de um SELECT sobre fixtures condicionado a kickoff futuro, então depois do
// kickoff nenhuma linha é afetada nem no insert nem no DO UPDATE. A corrida
// entre escritas concorrentes continua last-write-wins, de propósito.
func (p *Postgres) UpsertPick(ctx context.Context, pk *Pick) error {
	res, err := p.db.ExecContext(ctx, `
		INSERT INTO picks (id, participant_id, fixture_id, picked_team, margin, updated_at)
		SELECT $1, $2, f.id, $4, $5, now()
		FROM fixtures f
		WHERE f.id = $3 AND (f.kickoff IS NULL OR f.kickoff > now())
		ON CONFLICT (participant_id, fixture_id) DO UPDATE SET
		  picked_team = EXCLUDED.picked_team,
		  margin      = EXCLUDED.margin,
		  updated_at  = now()`,
		uuid.NewString(), pk.ParticipantID, pk.FixtureID, pk.PickedTeam, pk.Margin,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPicksLocked
	}
	return nil
}

// ListPicks retorna os picks do participante em uma rodada, com o resultado
// da partida junto, pra exibição de pontos ao vivo
func (p *Postgres) ListPicks(ctx context.Context, participantID, roundID string) ([]ScoredEntry, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT pk.participant_id, pa.name, COALESCE(pa.category, ''),
		       pk.picked_team, pk.margin,
		       COALESCE(r.winning_team, ''), COALESCE(r.margin_band, '')
		FROM picks pk
		JOIN participants pa ON pa.id = pk.participant_id
		JOIN fixtures f ON f.id = pk.fixture_id
		LEFT JOIN results r ON r.fixture_id = f.id
		WHERE pk.participant_id = $1 AND f.round_id = $2
		ORDER BY f.match_no`, participantID, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanScoredEntries(rows)
}

// LeaderboardEntries retorna as linhas cruas (pick + resultado) do escopo
// pedido. roundID/category vazios significam sem filtro.
func (p *Postgres) LeaderboardEntries(ctx context.Context, roundID, category string) ([]ScoredEntry, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT pk.participant_id, pa.name, COALESCE(pa.category, ''),
		       pk.picked_team, pk.margin,
		       COALESCE(r.winning_team, ''), COALESCE(r.margin_band, '')
		FROM picks pk
		JOIN participants pa ON pa.id = pk.participant_id
		JOIN fixtures f ON f.id = pk.fixture_id
		LEFT JOIN results r ON r.fixture_id = f.id
		WHERE ($1 = '' OR f.round_id = $1)
		  AND ($2 = '' OR pa.category = $2)`, roundID, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanScoredEntries(rows)
}

func scanScoredEntries(rows *sql.Rows) ([]ScoredEntry, error) {
	var out []ScoredEntry
	for rows.Next() {
		var e ScoredEntry
		if err := rows.Scan(&e.ParticipantID, &e.Name, &e.Category,
			&e.PickedTeam, &e.Margin, &e.WinningTeam, &e.MarginBand); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// PaperBetStandings agrega as paper bets liquidadas por participante
func (p *Postgres) PaperBetStandings(ctx context.Context, roundID string) ([]PaperBetStanding, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT pb.participant_id, pa.name,
		       COUNT(*) FILTER (WHERE pb.status <> 'OPEN'),
		       COUNT(*) FILTER (WHERE pb.status = 'WON'),
		       COALESCE(SUM(pb.stake_cents) FILTER (WHERE pb.status <> 'OPEN'), 0),
		       COALESCE(SUM(pb.profit_cents) FILTER (WHERE pb.status <> 'OPEN'), 0)
		FROM paper_bets pb
		JOIN participants pa ON pa.id = pb.participant_id
		JOIN fixtures f ON f.id = pb.fixture_id
		WHERE ($1 = '' OR f.round_id = $1)
		GROUP BY pb.participant_id, pa.name
		ORDER BY 6 DESC, pa.name`, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PaperBetStanding
	for rows.Next() {
		var s PaperBetStanding
		if err := rows.Scan(&s.ParticipantID, &s.Name, &s.Bets, &s.Wins,
			&s.StakedCents, &s.ProfitCents); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
