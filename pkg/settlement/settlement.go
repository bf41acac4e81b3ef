// Package settlement calcula a liquidação das apostas simuladas
// ("paper bets") derivadas dos picks dos participantes.
package settlement

import (
	"math"

	"github.com/radieske/picks-league-platform/pkg/contracts/events"
	"github.com/radieske/picks-league-platform/pkg/scoring"
)

// Bucket identifica uma das cinco saídas apostáveis de uma partida.
type Bucket string

const (
	BucketDraw       Bucket = "draw"
	BucketHome1To12  Bucket = "home_1_12"
	BucketHome13Plus Bucket = "home_13_plus"
	BucketAway1To12  Bucket = "away_1_12"
	BucketAway13Plus Bucket = "away_13_plus"
)

// StakeCents é o valor fixo simulado de cada aposta ($10).
const StakeCents = 1000

// MinOdd é o menor valor de odd aceito para qualquer saída.
const MinOdd = 1.01

// BucketFor mapeia um pick para o bucket implícito, relativo aos times
// da partida. Retorna false quando o pick não se encaixa em nenhuma das
// cinco saídas (time desconhecido ou margem fora de 1/13) — nesse caso
// o chamador deve pular o pick, não sintetizar aposta.
func BucketFor(p scoring.Pick, homeTeam, awayTeam string) (Bucket, bool) {
	if p.Team == scoring.PickDraw {
		return BucketDraw, true
	}
	switch p.Team {
	case homeTeam:
		switch p.Margin {
		case scoring.MarginNarrow:
			return BucketHome1To12, true
		case scoring.MarginWide:
			return BucketHome13Plus, true
		}
	case awayTeam:
		switch p.Margin {
		case scoring.MarginNarrow:
			return BucketAway1To12, true
		case scoring.MarginWide:
			return BucketAway13Plus, true
		}
	}
	return "", false
}

// SettledBucket converte o resultado oficial no bucket vencedor.
// Retorna false enquanto a partida não tem resultado.
func SettledBucket(r scoring.Result, homeTeam, awayTeam string) (Bucket, bool) {
	if r.WinningTeam == "" {
		return "", false
	}
	if r.WinningTeam == scoring.PickDraw {
		return BucketDraw, true
	}
	wide := r.MarginBand == scoring.Band13Plus
	switch r.WinningTeam {
	case homeTeam:
		if wide {
			return BucketHome13Plus, true
		}
		return BucketHome1To12, true
	case awayTeam:
		if wide {
			return BucketAway13Plus, true
		}
		return BucketAway1To12, true
	}
	return "", false
}

// OddFor seleciona a odd registrada para um bucket.
func OddFor(b Bucket, line events.OddsLine) float64 {
	switch b {
	case BucketDraw:
		return line.Draw
	case BucketHome1To12:
		return line.Home1To12
	case BucketHome13Plus:
		return line.Home13Plus
	case BucketAway1To12:
		return line.Away1To12
	case BucketAway13Plus:
		return line.Away13Plus
	}
	return 0
}

// ValidLine verifica se todas as cinco odds respeitam o mínimo.
// Apostas só são criadas contra uma linha válida; picks contra linha
// inválida são pulados e contados pelo sincronizador.
func ValidLine(line events.OddsLine) bool {
	return line.Home1To12 >= MinOdd &&
		line.Home13Plus >= MinOdd &&
		line.Draw >= MinOdd &&
		line.Away1To12 >= MinOdd &&
		line.Away13Plus >= MinOdd
}

// Outcome é o acerto financeiro de uma aposta liquidada.
type Outcome struct {
	Won         bool
	ReturnCents int64
	ProfitCents int64
	ROI         float64
}

// Settle liquida uma aposta: retorno = stake × odd quando o bucket
// apostado é o bucket vencedor, senão zero. Lucro = retorno − stake,
// ROI = lucro / stake.
func Settle(bet Bucket, actual Bucket, odd float64, stakeCents int64) Outcome {
	if bet != actual {
		return Outcome{
			Won:         false,
			ReturnCents: 0,
			ProfitCents: -stakeCents,
			ROI:         -1,
		}
	}
	// arredonda pro centavo mais próximo; truncar deixaria o retorno
	// um centavo abaixo de stake × odd em odds como 2.03
	ret := int64(math.Round(float64(stakeCents) * odd))
	return Outcome{
		Won:         true,
		ReturnCents: ret,
		ProfitCents: ret - stakeCents,
		ROI:         float64(ret-stakeCents) / float64(stakeCents),
	}
}
