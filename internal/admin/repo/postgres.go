package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	// ErrDuplicateRound indica colisão de (season, number).
	ErrDuplicateRound = errors.New("round already exists for season/number")
	// ErrFixtureHasResult indica tentativa de mexer em partida já resolvida.
	ErrFixtureHasResult = errors.New("fixture has a result")
	// ErrRoundNotEmpty indica remoção de rodada que ainda tem partidas.
	ErrRoundNotEmpty = errors.New("round still has fixtures")
)

// Postgres implementa as operações administrativas de persistência
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// uniqueViolation detecta violação de constraint UNIQUE do Postgres
func uniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// CreateRound insere uma rodada; (season, number) é único
func (p *Postgres) CreateRound(ctx context.Context, season, number int, label string) (string, error) {
	id := uuid.NewString()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO rounds (id, season, number, label, open)
		VALUES ($1, $2, $3, $4, true)`,
		id, season, number, label,
	)
	if uniqueViolation(err) {
		return "", ErrDuplicateRound
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateRound altera label e abertura de uma rodada
func (p *Postgres) UpdateRound(ctx context.Context, id, label string, open bool) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE rounds SET label=$2, open=$3 WHERE id=$1`, id, label, open)
	if err != nil {
		return err
	}
	return noneIsNoRows(res)
}

// DeleteRound remove uma rodada sem partidas
func (p *Postgres) DeleteRound(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `
		DELETE FROM rounds
		WHERE id=$1 AND NOT EXISTS (SELECT 1 FROM fixtures WHERE round_id=$1)`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := p.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM rounds WHERE id=$1)`, id).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrRoundNotEmpty
		}
		return sql.ErrNoRows
	}
	return nil
}

// CreateFixture insere uma partida em uma rodada
func (p *Postgres) CreateFixture(ctx context.Context, f *Fixture) (string, error) {
	id := uuid.NewString()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO fixtures (id, round_id, match_no, home_team, away_team, kickoff)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, f.RoundID, f.MatchNo, f.HomeTeam, f.AwayTeam, f.Kickoff,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetFixture retorna uma partida pelo id
func (p *Postgres) GetFixture(ctx context.Context, id string) (Fixture, error) {
	var f Fixture
	err := p.db.QueryRowContext(ctx, `
		SELECT id, round_id, match_no, home_team, away_team, kickoff
		FROM fixtures WHERE id=$1`, id).
		Scan(&f.ID, &f.RoundID, &f.MatchNo, &f.HomeTeam, &f.AwayTeam, &f.Kickoff)
	return f, err
}

// UpdateFixture altera uma partida ainda sem resultado.
// Partida com resultado é imutável.
func (p *Postgres) UpdateFixture(ctx context.Context, f *Fixture) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE fixtures SET match_no=$2, home_team=$3, away_team=$4, kickoff=$5
		WHERE id=$1 AND NOT EXISTS (SELECT 1 FROM results WHERE fixture_id=$1)`,
		f.ID, f.MatchNo, f.HomeTeam, f.AwayTeam, f.Kickoff)
	if err != nil {
		return err
	}
	return p.guardResultless(ctx, res, f.ID)
}

// DeleteFixture remove uma partida ainda sem resultado
func (p *Postgres) DeleteFixture(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `
		DELETE FROM fixtures
		WHERE id=$1 AND NOT EXISTS (SELECT 1 FROM results WHERE fixture_id=$1)`, id)
	if err != nil {
		return err
	}
	return p.guardResultless(ctx, res, id)
}

// guardResultless traduz "nenhuma linha afetada" no erro certo:
// partida inexistente ou partida já com resultado
func (p *Postgres) guardResultless(ctx context.Context, res sql.Result, fixtureID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var exists bool
	if err := p.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM fixtures WHERE id=$1)`, fixtureID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrFixtureHasResult
	}
	return sql.ErrNoRows
}

// UpsertResult grava (ou corrige) o resultado oficial de uma partida
func (p *Postgres) UpsertResult(ctx context.Context, r *Result) error {
	var band any
	if r.MarginBand != "" {
		band = r.MarginBand
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO results (fixture_id, winning_team, margin_band, entered_by, entered_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (fixture_id) DO UPDATE SET
		  winning_team = EXCLUDED.winning_team,
		  margin_band  = EXCLUDED.margin_band,
		  entered_by   = EXCLUDED.entered_by,
		  entered_at   = now()`,
		r.FixtureID, r.WinningTeam, band, r.EnteredBy,
	)
	return err
}

// DeleteResult remove o resultado de uma partida
func (p *Postgres) DeleteResult(ctx context.Context, fixtureID string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM results WHERE fixture_id=$1`, fixtureID)
	if err != nil {
		return err
	}
	return noneIsNoRows(res)
}

// UpsertOdds substitui o snapshot de odds e preserva o anterior no histórico
func (p *Postgres) UpsertOdds(ctx context.Context, o *Odds) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO match_odds
		  (fixture_id, home_1_12, home_13_plus, draw, away_1_12, away_13_plus, entered_by, entered_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,now())
		ON CONFLICT (fixture_id) DO UPDATE SET
		  home_1_12    = EXCLUDED.home_1_12,
		  home_13_plus = EXCLUDED.home_13_plus,
		  draw         = EXCLUDED.draw,
		  away_1_12    = EXCLUDED.away_1_12,
		  away_13_plus = EXCLUDED.away_13_plus,
		  entered_by   = EXCLUDED.entered_by,
		  entered_at   = now()`,
		o.FixtureID, o.Home1To12, o.Home13Plus, o.Draw, o.Away1To12, o.Away13Plus, o.EnteredBy,
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO match_odds_history
		  (fixture_id, home_1_12, home_13_plus, draw, away_1_12, away_13_plus, entered_by, entered_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,now())`,
		o.FixtureID, o.Home1To12, o.Home13Plus, o.Draw, o.Away1To12, o.Away13Plus, o.EnteredBy,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// ListParticipants retorna os participantes inscritos
func (p *Postgres) ListParticipants(ctx context.Context) ([]Participant, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, name, email, COALESCE(category, ''), joined_at
		FROM participants ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Participant
	for rows.Next() {
		var pa Participant
		if err := rows.Scan(&pa.ID, &pa.Name, &pa.Email, &pa.Category, &pa.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, pa)
	}
	return out, rows.Err()
}

// ListEmails agrega os emails distintos de participantes e inscritos avulsos
func (p *Postgres) ListEmails(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT DISTINCT lower(email) FROM (
			SELECT email FROM participants
			UNION ALL
			SELECT email FROM email_subscriptions
		) e
		ORDER BY 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// InsertPageView registra uma visita de página
func (p *Postgres) InsertPageView(ctx context.Context, page string) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO page_views (id, page, viewed_at) VALUES ($1, $2, now())`,
		uuid.NewString(), page)
	return err
}

// CountPageViews conta visitas por página
func (p *Postgres) CountPageViews(ctx context.Context) ([]PageViewCount, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT page, COUNT(*) FROM page_views GROUP BY page ORDER BY 2 DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PageViewCount
	for rows.Next() {
		var c PageViewCount
		if err := rows.Scan(&c.Page, &c.Views); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// noneIsNoRows converte "nenhuma linha afetada" em sql.ErrNoRows
func noneIsNoRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
