// Package sync gera e liquida as paper bets a partir dos picks, das
// odds registradas e dos resultados oficiais. Toda operação é
// idempotente: rodar de novo produz o mesmo conjunto de linhas.
package sync

import (
	"context"

	"go.uber.org/zap"

	"github.com/radieske/picks-league-platform/internal/paperbet/repo"
	"github.com/radieske/picks-league-platform/pkg/contracts/events"
	"github.com/radieske/picks-league-platform/pkg/scoring"
	"github.com/radieske/picks-league-platform/pkg/settlement"
)

// Repo é a fatia de persistência usada pelo sincronizador
type Repo interface {
	GetFixture(ctx context.Context, fixtureID string) (repo.FixtureInfo, error)
	GetOdds(ctx context.Context, fixtureID string) (events.OddsLine, bool, error)
	ListPicks(ctx context.Context, fixtureID string) ([]repo.PickLine, error)
	UpsertBet(ctx context.Context, b *repo.PaperBet) error
	ListBets(ctx context.Context, fixtureID string) ([]repo.PaperBet, error)
	SettleBet(ctx context.Context, participantID, fixtureID, status string, returnCents, profitCents int64) error
	ReopenBets(ctx context.Context, fixtureID string) error
}

// Report contabiliza o que uma sincronização fez. Picks pulados são
// reportados, nunca descartados em silêncio.
type Report struct {
	Placed  int
	Skipped int
	Settled int
}

type Syncer struct {
	Log  *zap.Logger
	Repo Repo
}

// SyncFixture gera as apostas de uma partida: um pick vira aposta só
// quando mapeia em um dos cinco buckets E existe linha de odds válida.
func (s *Syncer) SyncFixture(ctx context.Context, fixtureID string) (Report, error) {
	var rep Report

	f, err := s.Repo.GetFixture(ctx, fixtureID)
	if err != nil {
		return rep, err
	}

	line, found, err := s.Repo.GetOdds(ctx, fixtureID)
	if err != nil {
		return rep, err
	}

	picks, err := s.Repo.ListPicks(ctx, fixtureID)
	if err != nil {
		return rep, err
	}

	if !found || !settlement.ValidLine(line) {
		// sem linha utilizável nenhum pick vira aposta
		rep.Skipped = len(picks)
		return rep, nil
	}

	for _, pk := range picks {
		bucket, ok := settlement.BucketFor(
			scoring.Pick{Team: pk.PickedTeam, Margin: pk.Margin},
			f.HomeTeam, f.AwayTeam,
		)
		if !ok {
			rep.Skipped++
			continue
		}
		err := s.Repo.UpsertBet(ctx, &repo.PaperBet{
			ParticipantID: pk.ParticipantID,
			FixtureID:     fixtureID,
			Bucket:        string(bucket),
			StakeCents:    settlement.StakeCents,
			Odd:           settlement.OddFor(bucket, line),
		})
		if err != nil {
			return rep, err
		}
		rep.Placed++
	}
	return rep, nil
}

// SyncPick gera (ou atualiza) a aposta de um único pick recém-enviado.
func (s *Syncer) SyncPick(ctx context.Context, fixtureID string, pk repo.PickLine) (Report, error) {
	var rep Report

	f, err := s.Repo.GetFixture(ctx, fixtureID)
	if err != nil {
		return rep, err
	}

	line, found, err := s.Repo.GetOdds(ctx, fixtureID)
	if err != nil {
		return rep, err
	}
	if !found || !settlement.ValidLine(line) {
		rep.Skipped = 1
		return rep, nil
	}

	bucket, ok := settlement.BucketFor(
		scoring.Pick{Team: pk.PickedTeam, Margin: pk.Margin},
		f.HomeTeam, f.AwayTeam,
	)
	if !ok {
		rep.Skipped = 1
		return rep, nil
	}

	err = s.Repo.UpsertBet(ctx, &repo.PaperBet{
		ParticipantID: pk.ParticipantID,
		FixtureID:     fixtureID,
		Bucket:        string(bucket),
		StakeCents:    settlement.StakeCents,
		Odd:           settlement.OddFor(bucket, line),
	})
	if err != nil {
		return rep, err
	}
	rep.Placed = 1
	return rep, nil
}

// SettleFixture liquida as apostas de uma partida contra o resultado
// oficial. Correção de resultado re-liquida sobre as mesmas linhas.
func (s *Syncer) SettleFixture(ctx context.Context, fixtureID string, result scoring.Result) (Report, error) {
	var rep Report

	f, err := s.Repo.GetFixture(ctx, fixtureID)
	if err != nil {
		return rep, err
	}

	actual, ok := settlement.SettledBucket(result, f.HomeTeam, f.AwayTeam)
	if !ok {
		return rep, nil
	}

	bets, err := s.Repo.ListBets(ctx, fixtureID)
	if err != nil {
		return rep, err
	}

	for _, b := range bets {
		out := settlement.Settle(settlement.Bucket(b.Bucket), actual, b.Odd, b.StakeCents)
		status := repo.StatusLost
		if out.Won {
			status = repo.StatusWon
		}
		if err := s.Repo.SettleBet(ctx, b.ParticipantID, b.FixtureID, status,
			out.ReturnCents, out.ProfitCents); err != nil {
			return rep, err
		}
		rep.Settled++
	}
	return rep, nil
}

// ReopenFixture desfaz a liquidação quando o resultado some.
func (s *Syncer) ReopenFixture(ctx context.Context, fixtureID string) error {
	return s.Repo.ReopenBets(ctx, fixtureID)
}
