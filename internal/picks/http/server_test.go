package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/radieske/picks-league-platform/internal/auth"
	"github.com/radieske/picks-league-platform/internal/picks/leaderboard"
	"github.com/radieske/picks-league-platform/internal/picks/repo"
)

type fakeRepo struct {
	fixtures map[string]repo.Fixture
	locked   map[string]bool
	picks    map[string]repo.Pick // participantID+fixtureID
	entries  []repo.ScoredEntry
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		fixtures: map[string]repo.Fixture{
			"fx1": {ID: "fx1", RoundID: "rd1", MatchNo: 1, HomeTeam: "BLU", AwayTeam: "RED"},
			"fx2": {ID: "fx2", RoundID: "rd1", MatchNo: 2, HomeTeam: "GRN", AwayTeam: "GLD"},
		},
		locked: map[string]bool{"fx2": true},
		picks:  map[string]repo.Pick{},
	}
}

func (f *fakeRepo) ListRounds(context.Context) ([]repo.Round, error) {
	return []repo.Round{{ID: "rd1", Season: 2026, Number: 1, Label: "Round 1", Open: true}}, nil
}

func (f *fakeRepo) ListFixtures(_ context.Context, roundID string) ([]repo.Fixture, error) {
	var out []repo.Fixture
	for _, fx := range f.fixtures {
		if fx.RoundID == roundID {
			out = append(out, fx)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetFixture(_ context.Context, id string) (repo.Fixture, error) {
	fx, ok := f.fixtures[id]
	if !ok {
		return repo.Fixture{}, sql.ErrNoRows
	}
	return fx, nil
}

func (f *fakeRepo) UpsertPick(_ context.Context, pk *repo.Pick) error {
	if f.locked[pk.FixtureID] {
		return repo.ErrPicksLocked
	}
	f.picks[pk.ParticipantID+"/"+pk.FixtureID] = *pk
	return nil
}

func (f *fakeRepo) ListPicks(context.Context, string, string) ([]repo.ScoredEntry, error) {
	return f.entries, nil
}

func (f *fakeRepo) LeaderboardEntries(context.Context, string, string) ([]repo.ScoredEntry, error) {
	return f.entries, nil
}

func (f *fakeRepo) PaperBetStandings(context.Context, string) ([]repo.PaperBetStanding, error) {
	return []repo.PaperBetStanding{
		{ParticipantID: "u1", Name: "alice", Bets: 3, Wins: 2, StakedCents: 3000, ProfitCents: 1500},
		{ParticipantID: "u2", Name: "bob", Bets: 3, Wins: 0, StakedCents: 3000, ProfitCents: -3000},
	}, nil
}

type staticResolver struct{}

func (staticResolver) Resolve(_ context.Context, token string) (auth.Identity, error) {
	if token != "tok-alice" {
		return auth.Identity{}, auth.ErrUnauthenticated
	}
	return auth.Identity{UserID: "u1", Email: "alice@club.org", Name: "Alice"}, nil
}

func newTestServer(fr *fakeRepo) http.Handler {
	return NewServer(zap.NewNop(), fr, nil, staticResolver{}, nil, nil).Router()
}

func putPickReq(body string, token string) *http.Request {
	req := httptest.NewRequest("PUT", "/v1/picks", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestPutPick(t *testing.T) {
	t.Run("requires auth", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestServer(newFakeRepo()).ServeHTTP(rec, putPickReq(`{"fixtureId":"fx1","pickedTeam":"BLU","margin":1}`, ""))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("saves a valid pick", func(t *testing.T) {
		fr := newFakeRepo()
		rec := httptest.NewRecorder()
		newTestServer(fr).ServeHTTP(rec, putPickReq(`{"fixtureId":"fx1","pickedTeam":"BLU","margin":1}`, "tok-alice"))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		saved, ok := fr.picks["u1/fx1"]
		if !ok || saved.PickedTeam != "BLU" || saved.Margin != 1 {
			t.Errorf("pick not saved correctly: %+v", saved)
		}
	})

	t.Run("accepts a draw pick with margin zero", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestServer(newFakeRepo()).ServeHTTP(rec, putPickReq(`{"fixtureId":"fx1","pickedTeam":"DRAW","margin":0}`, "tok-alice"))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("rejects a team not playing the fixture", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestServer(newFakeRepo()).ServeHTTP(rec, putPickReq(`{"fixtureId":"fx1","pickedTeam":"GRN","margin":1}`, "tok-alice"))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects an off-band margin", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestServer(newFakeRepo()).ServeHTTP(rec, putPickReq(`{"fixtureId":"fx1","pickedTeam":"BLU","margin":7}`, "tok-alice"))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects a draw pick with a margin", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestServer(newFakeRepo()).ServeHTTP(rec, putPickReq(`{"fixtureId":"fx1","pickedTeam":"DRAW","margin":1}`, "tok-alice"))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("locked fixture returns 409", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestServer(newFakeRepo()).ServeHTTP(rec, putPickReq(`{"fixtureId":"fx2","pickedTeam":"GRN","margin":13}`, "tok-alice"))
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("unknown fixture returns 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestServer(newFakeRepo()).ServeHTTP(rec, putPickReq(`{"fixtureId":"nope","pickedTeam":"BLU","margin":1}`, "tok-alice"))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestGetLeaderboard(t *testing.T) {
	fr := newFakeRepo()
	fr.entries = []repo.ScoredEntry{
		{ParticipantID: "u1", Name: "alice", PickedTeam: "BLU", Margin: 1, WinningTeam: "BLU", MarginBand: "1-12"},
		{ParticipantID: "u2", Name: "bob", PickedTeam: "RED", Margin: 13, WinningTeam: "BLU", MarginBand: "1-12"},
	}

	rec := httptest.NewRecorder()
	newTestServer(fr).ServeHTTP(rec, httptest.NewRequest("GET", "/v1/leaderboard?roundId=rd1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var rows []leaderboard.Row
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Name != "alice" || rows[0].Points != 8 {
		t.Errorf("expected alice leading with 8, got %+v", rows[0])
	}
}

func TestGetPaperBetLeaderboard(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(newFakeRepo()).ServeHTTP(rec, httptest.NewRequest("GET", "/v1/paperbets/leaderboard", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var rows []struct {
		Name string  `json:"name"`
		ROI  float64 `json:"roi"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rows[0].Name != "alice" || rows[0].ROI != 0.5 {
		t.Errorf("expected alice with roi 0.5, got %+v", rows[0])
	}
	if rows[1].ROI != -1.0 {
		t.Errorf("expected bob with roi -1, got %+v", rows[1])
	}
}

func TestListMyPicksLivePoints(t *testing.T) {
	fr := newFakeRepo()
	fr.entries = []repo.ScoredEntry{
		{ParticipantID: "u1", Name: "alice", PickedTeam: "BLU", Margin: 13, WinningTeam: "BLU", MarginBand: "1-12"},
		{ParticipantID: "u1", Name: "alice", PickedTeam: "DRAW", Margin: 0, WinningTeam: "", MarginBand: ""},
	}

	req := httptest.NewRequest("GET", "/v1/picks?roundId=rd1", nil)
	req.Header.Set("Authorization", "Bearer tok-alice")
	rec := httptest.NewRecorder()
	newTestServer(fr).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var picks []struct {
		Points int  `json:"points"`
		Scored bool `json:"scored"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &picks); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if picks[0].Points != 5 || !picks[0].Scored {
		t.Errorf("expected 5 scored points for a right team wrong margin, got %+v", picks[0])
	}
	if picks[1].Points != 0 || picks[1].Scored {
		t.Errorf("expected unscored zero for a resultless fixture, got %+v", picks[1])
	}
}
