package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/radieske/picks-league-platform/internal/admin/dto"
	"github.com/radieske/picks-league-platform/internal/admin/repo"
	"github.com/radieske/picks-league-platform/internal/auth"
	"github.com/radieske/picks-league-platform/pkg/contracts/events"
	"github.com/radieske/picks-league-platform/pkg/scoring"
	"github.com/radieske/picks-league-platform/pkg/settlement"
)

// Repo é a fatia do repositório usada pelos handlers (facilita teste)
type Repo interface {
	CreateRound(ctx context.Context, season, number int, label string) (string, error)
	UpdateRound(ctx context.Context, id, label string, open bool) error
	DeleteRound(ctx context.Context, id string) error

	CreateFixture(ctx context.Context, f *repo.Fixture) (string, error)
	GetFixture(ctx context.Context, id string) (repo.Fixture, error)
	UpdateFixture(ctx context.Context, f *repo.Fixture) error
	DeleteFixture(ctx context.Context, id string) error

	UpsertResult(ctx context.Context, r *repo.Result) error
	DeleteResult(ctx context.Context, fixtureID string) error
	UpsertOdds(ctx context.Context, o *repo.Odds) error

	ListParticipants(ctx context.Context) ([]repo.Participant, error)
	ListEmails(ctx context.Context) ([]string, error)
	InsertPageView(ctx context.Context, page string) error
	CountPageViews(ctx context.Context) ([]repo.PageViewCount, error)
}

// Publisher publica no Kafka os eventos que disparam o paperbet-worker
type Publisher interface {
	PublishResultEntered(context.Context, events.ResultEntered) error
	PublishResultRemoved(context.Context, events.ResultRemoved) error
	PublishOddsUpdated(context.Context, events.OddsUpdated) error
}

// BoardCache é a fatia do cache de leaderboard que o admin invalida
// quando um resultado entra, muda ou some
type BoardCache interface {
	InvalidateBoards(ctx context.Context) error
}

// Server expõe a API administrativa, inteira atrás de allowlist.
type Server struct {
	log    *zap.Logger
	repo   Repo
	publ   Publisher  // pode ser nil
	boards BoardCache // pode ser nil
	authz  auth.Resolver
	allow  auth.Allowlist
}

func NewServer(log *zap.Logger, r Repo, p Publisher, b BoardCache, az auth.Resolver, allow auth.Allowlist) *Server {
	return &Server{log: log, repo: r, publ: p, boards: b, authz: az, allow: allow}
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

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAdmin(s.log, s.authz, s.allow))

		r.Post("/v1/rounds", s.createRound)
		r.Put("/v1/rounds/{id}", s.updateRound)
		r.Delete("/v1/rounds/{id}", s.deleteRound)

		r.Post("/v1/fixtures", s.createFixture)
		r.Put("/v1/fixtures/{id}", s.updateFixture)
		r.Delete("/v1/fixtures/{id}", s.deleteFixture)

		r.Put("/v1/fixtures/{id}/result", s.putResult)
		r.Delete("/v1/fixtures/{id}/result", s.deleteResult)
		r.Put("/v1/fixtures/{id}/odds", s.putOdds)

		r.Get("/v1/participants", s.listParticipants)
		r.Get("/v1/emails", s.listEmails)
		r.Post("/v1/analytics/pageview", s.postPageView)
		r.Get("/v1/analytics", s.getAnalytics)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fail mapeia os erros do repositório para as classes HTTP:
// 400 validação, 404 não encontrado, 409 conflito, 500 repassa a mensagem
func fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrDuplicateRound):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, sql.ErrNoRows):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, repo.ErrFixtureHasResult), errors.Is(err, repo.ErrRoundNotEmpty):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) createRound(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Season <= 0 || req.Number <= 0 {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	id, err := s.repo.CreateRound(r.Context(), req.Season, req.Number, req.Label)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.CreatedResponse{ID: id})
}

func (s *Server) updateRound(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateRoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := s.repo.UpdateRound(r.Context(), chi.URLParam(r, "id"), req.Label, req.Open); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "SAVED"})
}

func (s *Server) deleteRound(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteRound(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "DELETED"})
}

// parseFixture valida o payload de partida; home e away não podem coincidir
func parseFixture(req dto.FixtureRequest) (repo.Fixture, string) {
	if req.RoundID == "" || req.HomeTeam == "" || req.AwayTeam == "" || req.MatchNo <= 0 {
		return repo.Fixture{}, "invalid payload"
	}
	if req.HomeTeam == req.AwayTeam {
		return repo.Fixture{}, "home and away teams must differ"
	}
	f := repo.Fixture{
		RoundID:  req.RoundID,
		MatchNo:  req.MatchNo,
		HomeTeam: req.HomeTeam,
		AwayTeam: req.AwayTeam,
	}
	if req.Kickoff != "" {
		t, err := time.Parse(time.RFC3339, req.Kickoff)
		if err != nil {
			return repo.Fixture{}, "kickoff must be RFC3339"
		}
		f.Kickoff = sql.NullTime{Time: t, Valid: true}
	}
	return f, ""
}

func (s *Server) createFixture(w http.ResponseWriter, r *http.Request) {
	var req dto.FixtureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	f, msg := parseFixture(req)
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	id, err := s.repo.CreateFixture(r.Context(), &f)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.CreatedResponse{ID: id})
}

func (s *Server) updateFixture(w http.ResponseWriter, r *http.Request) {
	var req dto.FixtureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	f, msg := parseFixture(req)
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	f.ID = chi.URLParam(r, "id")
	if err := s.repo.UpdateFixture(r.Context(), &f); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "SAVED"})
}

func (s *Server) deleteFixture(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteFixture(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "DELETED"})
}

// putResult lança (ou corrige) o resultado oficial de uma partida.
// Vitória exige banda de margem; empate proíbe.
func (s *Server) putResult(w http.ResponseWriter, r *http.Request) {
	fixtureID := chi.URLParam(r, "id")

	var req dto.ResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	f, err := s.repo.GetFixture(r.Context(), fixtureID)
	if err != nil {
		fail(w, err)
		return
	}

	if req.WinningTeam == scoring.PickDraw {
		if req.MarginBand != "" {
			http.Error(w, "draw result carries no margin band", http.StatusBadRequest)
			return
		}
	} else {
		if req.WinningTeam != f.HomeTeam && req.WinningTeam != f.AwayTeam {
			http.Error(w, "winning team not in fixture", http.StatusBadRequest)
			return
		}
		if req.MarginBand != scoring.Band1To12 && req.MarginBand != scoring.Band13Plus {
			http.Error(w, "margin band must be 1-12 or 13+", http.StatusBadRequest)
			return
		}
	}

	id, _ := auth.IdentityFrom(r.Context())
	if err := s.repo.UpsertResult(r.Context(), &repo.Result{
		FixtureID:   fixtureID,
		WinningTeam: req.WinningTeam,
		MarginBand:  req.MarginBand,
		EnteredBy:   id.Email,
	}); err != nil {
		fail(w, err)
		return
	}

	s.afterBoardChange(r.Context())
	if s.publ != nil {
		_ = s.publ.PublishResultEntered(r.Context(), events.ResultEntered{
			FixtureID:   fixtureID,
			RoundID:     f.RoundID,
			WinningTeam: req.WinningTeam,
			MarginBand:  req.MarginBand,
			EnteredBy:   id.Email,
		})
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "SAVED"})
}

func (s *Server) deleteResult(w http.ResponseWriter, r *http.Request) {
	fixtureID := chi.URLParam(r, "id")

	f, err := s.repo.GetFixture(r.Context(), fixtureID)
	if err != nil {
		fail(w, err)
		return
	}

	if err := s.repo.DeleteResult(r.Context(), fixtureID); err != nil {
		fail(w, err)
		return
	}

	s.afterBoardChange(r.Context())
	if s.publ != nil {
		id, _ := auth.IdentityFrom(r.Context())
		_ = s.publ.PublishResultRemoved(r.Context(), events.ResultRemoved{
			FixtureID: fixtureID,
			RoundID:   f.RoundID,
			RemovedBy: id.Email,
		})
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "DELETED"})
}

// putOdds substitui o snapshot de odds das cinco saídas de uma partida
func (s *Server) putOdds(w http.ResponseWriter, r *http.Request) {
	fixtureID := chi.URLParam(r, "id")

	var req dto.OddsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	line := events.OddsLine{
		Home1To12:  req.Home1To12,
		Home13Plus: req.Home13Plus,
		Draw:       req.Draw,
		Away1To12:  req.Away1To12,
		Away13Plus: req.Away13Plus,
	}
	if !settlement.ValidLine(line) {
		http.Error(w, "every odd must be >= 1.01", http.StatusBadRequest)
		return
	}

	f, err := s.repo.GetFixture(r.Context(), fixtureID)
	if err != nil {
		fail(w, err)
		return
	}

	id, _ := auth.IdentityFrom(r.Context())
	if err := s.repo.UpsertOdds(r.Context(), &repo.Odds{
		FixtureID:  fixtureID,
		Home1To12:  req.Home1To12,
		Home13Plus: req.Home13Plus,
		Draw:       req.Draw,
		Away1To12:  req.Away1To12,
		Away13Plus: req.Away13Plus,
		EnteredBy:  id.Email,
	}); err != nil {
		fail(w, err)
		return
	}

	if s.publ != nil {
		_ = s.publ.PublishOddsUpdated(r.Context(), events.OddsUpdated{
			FixtureID: fixtureID,
			RoundID:   f.RoundID,
			HomeTeam:  f.HomeTeam,
			AwayTeam:  f.AwayTeam,
			Odds:      line,
			EnteredAt: time.Now(),
			EnteredBy: id.Email,
		})
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "SAVED"})
}

// afterBoardChange invalida os leaderboards cacheados; a recomputação
// acontece sob demanda na próxima leitura
func (s *Server) afterBoardChange(ctx context.Context) {
	if s.boards == nil {
		return
	}
	if err := s.boards.InvalidateBoards(ctx); err != nil {
		s.log.Warn("board cache invalidate", zap.Error(err))
	}
}

func (s *Server) listParticipants(w http.ResponseWriter, r *http.Request) {
	list, err := s.repo.ListParticipants(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	out := make([]dto.ParticipantResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ParticipantResponse{
			ID: p.ID, Name: p.Name, Email: p.Email, Category: p.Category,
			JoinedAt: p.JoinedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listEmails(w http.ResponseWriter, r *http.Request) {
	emails, err := s.repo.ListEmails(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.EmailListResponse{Emails: emails, Count: len(emails)})
}

func (s *Server) postPageView(w http.ResponseWriter, r *http.Request) {
	var req dto.PageViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Page == "" {
		http.Error(w, "page required", http.StatusBadRequest)
		return
	}
	if err := s.repo.InsertPageView(r.Context(), req.Page); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getAnalytics(w http.ResponseWriter, r *http.Request) {
	counts, err := s.repo.CountPageViews(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	out := make([]dto.PageViewCountResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, dto.PageViewCountResponse{Page: c.Page, Views: c.Views})
	}
	writeJSON(w, http.StatusOK, out)
}
