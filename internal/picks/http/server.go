package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/radieske/picks-league-platform/internal/auth"
	"github.com/radieske/picks-league-platform/internal/picks/cache"
	"github.com/radieske/picks-league-platform/internal/picks/dto"
	"github.com/radieske/picks-league-platform/internal/picks/leaderboard"
	"github.com/radieske/picks-league-platform/internal/picks/repo"
	"github.com/radieske/picks-league-platform/internal/picks/ws"
	"github.com/radieske/picks-league-platform/pkg/contracts/events"
	"github.com/radieske/picks-league-platform/pkg/scoring"
)

// Repo é a fatia do repositório usada pelos handlers (facilita teste)
type Repo interface {
	ListRounds(ctx context.Context) ([]repo.Round, error)
	ListFixtures(ctx context.Context, roundID string) ([]repo.Fixture, error)
	GetFixture(ctx context.Context, fixtureID string) (repo.Fixture, error)
	UpsertPick(ctx context.Context, pk *repo.Pick) error
	ListPicks(ctx context.Context, participantID, roundID string) ([]repo.ScoredEntry, error)
	LeaderboardEntries(ctx context.Context, roundID, category string) ([]repo.ScoredEntry, error)
	PaperBetStandings(ctx context.Context, roundID string) ([]repo.PaperBetStanding, error)
}

// Server expõe a API pública dos participantes: rodadas, partidas,
// picks e leaderboards.
type Server struct {
	log   *zap.Logger
	repo  Repo
	cache *cache.Cache // pode ser nil (sem cache)
	authz auth.Resolver
	hub   *ws.Hub // pode ser nil (sem push ao vivo)
	publ  interface {
		PublishPickSubmitted(context.Context, events.PickSubmitted) error
	}
}

func NewServer(
	log *zap.Logger,
	r Repo,
	c *cache.Cache,
	az auth.Resolver,
	hub *ws.Hub,
	p interface {
		PublishPickSubmitted(context.Context, events.PickSubmitted) error
	},
) *Server {
	return &Server{log: log, repo: r, cache: c, authz: az, hub: hub, publ: p}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/v1/rounds", s.listRounds)
	r.Get("/v1/rounds/{id}/fixtures", s.listFixtures)
	r.Get("/v1/leaderboard", s.getLeaderboard)
	r.Get("/v1/paperbets/leaderboard", s.getPaperBetLeaderboard)

	if s.hub != nil {
		r.Get("/v1/ws", s.hub.HandleWS)
	}

	// rotas autenticadas
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(s.log, s.authz))
		r.Put("/v1/picks", s.putPick)
		r.Get("/v1/picks", s.listMyPicks)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// listRounds retorna as rodadas da temporada
func (s *Server) listRounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := s.repo.ListRounds(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	out := make([]dto.RoundResponse, 0, len(rounds))
	for _, rd := range rounds {
		out = append(out, dto.RoundResponse{
			ID: rd.ID, Season: rd.Season, Number: rd.Number, Label: rd.Label, Open: rd.Open,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// listFixtures retorna as partidas de uma rodada com resultado (se houver)
func (s *Server) listFixtures(w http.ResponseWriter, r *http.Request) {
	roundID := chi.URLParam(r, "id")
	fixtures, err := s.repo.ListFixtures(r.Context(), roundID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	out := make([]dto.FixtureResponse, 0, len(fixtures))
	for _, f := range fixtures {
		fr := dto.FixtureResponse{
			ID: f.ID, RoundID: f.RoundID, MatchNo: f.MatchNo,
			HomeTeam: f.HomeTeam, AwayTeam: f.AwayTeam,
			WinningTeam: f.WinningTeam, MarginBand: f.MarginBand,
		}
		if f.Kickoff.Valid {
			fr.Kickoff = f.Kickoff.Time.UTC().Format(time.RFC3339)
		}
		out = append(out, fr)
	}
	writeJSON(w, http.StatusOK, out)
}

// putPick grava o pick do chamador para uma partida.
// Valida time/margem contra a partida; depois do kickoff responde 409.
func (s *Server) putPick(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())

	var req dto.PutPickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.FixtureID == "" || req.PickedTeam == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	f, err := s.repo.GetFixture(r.Context(), req.FixtureID)
	if err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "fixture not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if !validPick(req, f) {
		http.Error(w, "pick does not match fixture", http.StatusBadRequest)
		return
	}

	err = s.repo.UpsertPick(r.Context(), &repo.Pick{
		ParticipantID: id.UserID,
		FixtureID:     req.FixtureID,
		PickedTeam:    req.PickedTeam,
		Margin:        req.Margin,
	})
	if err != nil {
		if err == repo.ErrPicksLocked {
			http.Error(w, "picks locked: fixture has kicked off", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if s.publ != nil {
		_ = s.publ.PublishPickSubmitted(r.Context(), events.PickSubmitted{
			ParticipantID: id.UserID,
			FixtureID:     f.ID,
			RoundID:       f.RoundID,
			PickedTeam:    req.PickedTeam,
			Margin:        req.Margin,
		})
	}

	writeJSON(w, http.StatusOK, dto.PutPickResponse{FixtureID: req.FixtureID, Status: "SAVED"})
}

// validPick confere time e margem contra a partida:
// DRAW exige margem 0; time exige home/away e margem 1 ou 13.
func validPick(req dto.PutPickRequest, f repo.Fixture) bool {
	if req.PickedTeam == scoring.PickDraw {
		return req.Margin == 0
	}
	if req.PickedTeam != f.HomeTeam && req.PickedTeam != f.AwayTeam {
		return false
	}
	return req.Margin == scoring.MarginNarrow || req.Margin == scoring.MarginWide
}

// listMyPicks retorna os picks do chamador na rodada, com pontos ao vivo
func (s *Server) listMyPicks(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())
	roundID := r.URL.Query().Get("roundId")
	if roundID == "" {
		http.Error(w, "roundId required", http.StatusBadRequest)
		return
	}

	entries, err := s.repo.ListPicks(r.Context(), id.UserID, roundID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]dto.PickResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.PickResponse{
			PickedTeam: e.PickedTeam,
			Margin:     e.Margin,
			Points: scoring.Score(
				scoring.Pick{Team: e.PickedTeam, Margin: e.Margin},
				scoring.Result{WinningTeam: e.WinningTeam, MarginBand: e.MarginBand},
			),
			Scored: e.WinningTeam != "",
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// getLeaderboard monta o leaderboard do escopo pedido, com cache curto.
// Sem roundId nem category o escopo é a temporada inteira.
func (s *Server) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	roundID := r.URL.Query().Get("roundId")
	category := r.URL.Query().Get("category")

	if s.cache != nil {
		var cached []leaderboard.Row
		if ok, _ := s.cache.GetBoard(r.Context(), roundID, category, &cached); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	entries, err := s.repo.LeaderboardEntries(r.Context(), roundID, category)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	rows := leaderboard.Compute(entries)

	if s.cache != nil {
		_ = s.cache.SetBoard(r.Context(), roundID, category, rows, 30*time.Second)
	}
	writeJSON(w, http.StatusOK, rows)
}

// getPaperBetLeaderboard retorna o ranking do jogo paralelo de paper bets
func (s *Server) getPaperBetLeaderboard(w http.ResponseWriter, r *http.Request) {
	roundID := r.URL.Query().Get("roundId")

	if s.cache != nil {
		var cached []dto.PaperBetStandingResponse
		if ok, _ := s.cache.GetPaperBoard(r.Context(), roundID, &cached); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	standings, err := s.repo.PaperBetStandings(r.Context(), roundID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	out := make([]dto.PaperBetStandingResponse, 0, len(standings))
	for i, st := range standings {
		resp := dto.PaperBetStandingResponse{
			Rank:          i + 1,
			ParticipantID: st.ParticipantID,
			Name:          st.Name,
			Bets:          st.Bets,
			Wins:          st.Wins,
			StakedCents:   st.StakedCents,
			ProfitCents:   st.ProfitCents,
		}
		if st.StakedCents > 0 {
			resp.ROI = float64(st.ProfitCents) / float64(st.StakedCents)
		}
		if i > 0 && st.ProfitCents == standings[i-1].ProfitCents {
			resp.Rank = out[i-1].Rank
		}
		out = append(out, resp)
	}

	if s.cache != nil {
		_ = s.cache.SetPaperBoard(r.Context(), roundID, out, 30*time.Second)
	}
	writeJSON(w, http.StatusOK, out)
}
