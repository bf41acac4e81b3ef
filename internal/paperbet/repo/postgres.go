package repo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/radieske/picks-league-platform/pkg/contracts/events"
)

// Postgres implementa a persistência de paper bets do worker
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// GetFixture retorna o mínimo da partida usado pelo worker
func (p *Postgres) GetFixture(ctx context.Context, fixtureID string) (FixtureInfo, error) {
	var f FixtureInfo
	err := p.db.QueryRowContext(ctx, `
		SELECT id, round_id, home_team, away_team FROM fixtures WHERE id=$1`, fixtureID).
		Scan(&f.ID, &f.RoundID, &f.HomeTeam, &f.AwayTeam)
	return f, err
}

// GetOdds retorna o snapshot corrente de odds da partida.
// found=false quando o admin ainda não lançou odds.
func (p *Postgres) GetOdds(ctx context.Context, fixtureID string) (events.OddsLine, bool, error) {
	var line events.OddsLine
	err := p.db.QueryRowContext(ctx, `
		SELECT home_1_12, home_13_plus, draw, away_1_12, away_13_plus
		FROM match_odds WHERE fixture_id=$1`, fixtureID).
		Scan(&line.Home1To12, &line.Home13Plus, &line.Draw, &line.Away1To12, &line.Away13Plus)
	if err == sql.ErrNoRows {
		return events.OddsLine{}, false, nil
	}
	if err != nil {
		return events.OddsLine{}, false, err
	}
	return line, true, nil
}

// ListPicks retorna os picks de uma partida
func (p *Postgres) ListPicks(ctx context.Context, fixtureID string) ([]PickLine, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT participant_id, picked_team, margin
		FROM picks WHERE fixture_id=$1`, fixtureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PickLine
	for rows.Next() {
		var pl PickLine
		if err := rows.Scan(&pl.ParticipantID, &pl.PickedTeam, &pl.Margin); err != nil {
			return nil, err
		}
		out = append(out, pl)
	}
	return out, rows.Err()
}

// UpsertBet grava (ou substitui) a aposta de um participante em uma
// partida. Rodar de novo para o mesmo par sobrescreve, nunca duplica.
func (p *Postgres) UpsertBet(ctx context.Context, b *PaperBet) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO paper_bets
		  (id, participant_id, fixture_id, bucket, stake_cents, odd,
		   status, return_cents, profit_cents, placed_at)
		VALUES ($1,$2,$3,$4,$5,$6,'OPEN',0,0,now())
		ON CONFLICT (participant_id, fixture_id) DO UPDATE SET
		  bucket       = EXCLUDED.bucket,
		  stake_cents  = EXCLUDED.stake_cents,
		  odd          = EXCLUDED.odd,
		  status       = 'OPEN',
		  return_cents = 0,
		  profit_cents = 0,
		  placed_at    = now()`,
		uuid.NewString(), b.ParticipantID, b.FixtureID, b.Bucket, b.StakeCents, b.Odd,
	)
	return err
}

// ListBets retorna as apostas de uma partida
func (p *Postgres) ListBets(ctx context.Context, fixtureID string) ([]PaperBet, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT participant_id, fixture_id, bucket, stake_cents, odd, status
		FROM paper_bets WHERE fixture_id=$1`, fixtureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PaperBet
	for rows.Next() {
		var b PaperBet
		if err := rows.Scan(&b.ParticipantID, &b.FixtureID, &b.Bucket,
			&b.StakeCents, &b.Odd, &b.Status); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SettleBet grava o acerto financeiro de uma aposta
func (p *Postgres) SettleBet(ctx context.Context, participantID, fixtureID, status string, returnCents, profitCents int64) error {
	_, err := p.db.ExecContext(ctx, `
		UPDATE paper_bets
		SET status=$3, return_cents=$4, profit_cents=$5, settled_at=now()
		WHERE participant_id=$1 AND fixture_id=$2`,
		participantID, fixtureID, status, returnCents, profitCents)
	return err
}

// ReopenBets desfaz a liquidação quando o resultado é removido
func (p *Postgres) ReopenBets(ctx context.Context, fixtureID string) error {
	_, err := p.db.ExecContext(ctx, `
		UPDATE paper_bets
		SET status='OPEN', return_cents=0, profit_cents=0, settled_at=NULL
		WHERE fixture_id=$1`, fixtureID)
	return err
}
