package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	sharedcfg "github.com/radieske/picks-league-platform/internal/shared/config"
	"github.com/radieske/picks-league-platform/internal/shared/db"
	"github.com/radieske/picks-league-platform/internal/shared/logger"
)

// seedFile é o formato YAML de carga inicial (dev/bootstrap)
type seedFile struct {
	Rounds []struct {
		Season   int    `yaml:"season"`
		Number   int    `yaml:"number"`
		Label    string `yaml:"label"`
		Fixtures []struct {
			MatchNo  int    `yaml:"matchNo"`
			HomeTeam string `yaml:"homeTeam"`
			AwayTeam string `yaml:"awayTeam"`
			Kickoff  string `yaml:"kickoff"` // RFC3339, opcional
			Odds     *struct {
				Home1To12  float64 `yaml:"home_1_12"`
				Home13Plus float64 `yaml:"home_13_plus"`
				Draw       float64 `yaml:"draw"`
				Away1To12  float64 `yaml:"away_1_12"`
				Away13Plus float64 `yaml:"away_13_plus"`
			} `yaml:"odds"`
		} `yaml:"fixtures"`
	} `yaml:"rounds"`
	Participants []struct {
		Name     string `yaml:"name"`
		Email    string `yaml:"email"`
		Category string `yaml:"category"`
	} `yaml:"participants"`
}

func main() {
	var path string
	flag.StringVar(&path, "file", "seed.yaml", "seed YAML file")
	flag.Parse()

	cfg := sharedcfg.Load()
	log, _ := logger.New("seed", cfg.Env)
	defer log.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("read seed file", zap.Error(err))
	}
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		log.Fatal("parse seed file", zap.Error(err))
	}

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	ctx := context.Background()

	for _, r := range seed.Rounds {
		roundID := uuid.NewString()
		_, err := pg.ExecContext(ctx, `
			INSERT INTO rounds (id, season, number, label, open)
			VALUES ($1,$2,$3,$4,true)
			ON CONFLICT (season, number) DO NOTHING`,
			roundID, r.Season, r.Number, r.Label)
		if err != nil {
			log.Fatal("insert round", zap.Int("number", r.Number), zap.Error(err))
		}
		// em caso de conflito, recupera o id existente
		if err := pg.QueryRowContext(ctx,
			`SELECT id FROM rounds WHERE season=$1 AND number=$2`,
			r.Season, r.Number).Scan(&roundID); err != nil {
			log.Fatal("lookup round", zap.Error(err))
		}

		for _, f := range r.Fixtures {
			var kickoff sql.NullTime
			if f.Kickoff != "" {
				t, err := time.Parse(time.RFC3339, f.Kickoff)
				if err != nil {
					log.Fatal("parse kickoff", zap.String("kickoff", f.Kickoff), zap.Error(err))
				}
				kickoff = sql.NullTime{Time: t, Valid: true}
			}

			fixtureID := uuid.NewString()
			_, err := pg.ExecContext(ctx, `
				INSERT INTO fixtures (id, round_id, match_no, home_team, away_team, kickoff)
				VALUES ($1,$2,$3,$4,$5,$6)
				ON CONFLICT (round_id, match_no) DO NOTHING`,
				fixtureID, roundID, f.MatchNo, f.HomeTeam, f.AwayTeam, kickoff)
			if err != nil {
				log.Fatal("insert fixture", zap.Int("matchNo", f.MatchNo), zap.Error(err))
			}
			if err := pg.QueryRowContext(ctx,
				`SELECT id FROM fixtures WHERE round_id=$1 AND match_no=$2`,
				roundID, f.MatchNo).Scan(&fixtureID); err != nil {
				log.Fatal("lookup fixture", zap.Error(err))
			}

			if f.Odds != nil {
				_, err := pg.ExecContext(ctx, `
					INSERT INTO match_odds
					  (fixture_id, home_1_12, home_13_plus, draw, away_1_12, away_13_plus, entered_by, entered_at)
					VALUES ($1,$2,$3,$4,$5,$6,'seed',now())
					ON CONFLICT (fixture_id) DO UPDATE SET
					  home_1_12    = EXCLUDED.home_1_12,
					  home_13_plus = EXCLUDED.home_13_plus,
					  draw         = EXCLUDED.draw,
					  away_1_12    = EXCLUDED.away_1_12,
					  away_13_plus = EXCLUDED.away_13_plus,
					  entered_at   = now()`,
					fixtureID, f.Odds.Home1To12, f.Odds.Home13Plus, f.Odds.Draw,
					f.Odds.Away1To12, f.Odds.Away13Plus)
				if err != nil {
					log.Fatal("insert odds", zap.Error(err))
				}
			}
		}
	}

	for _, p := range seed.Participants {
		_, err := pg.ExecContext(ctx, `
			INSERT INTO participants (id, name, email, category, joined_at)
			VALUES ($1,$2,lower($3),$4,now())
			ON CONFLICT (email) DO NOTHING`,
			uuid.NewString(), p.Name, p.Email, p.Category)
		if err != nil {
			log.Fatal("insert participant", zap.String("email", p.Email), zap.Error(err))
		}
	}

	log.Info("seed done",
		zap.Int("rounds", len(seed.Rounds)),
		zap.Int("participants", len(seed.Participants)),
	)
}
