// Package scoring é a única fonte da fórmula de pontuação de picks.
// A mesma função atende a agregação de leaderboard e o push de pontos
// ao vivo; não duplicar a fórmula em SQL ou em outro lugar.
package scoring

// PickDraw é o valor sentinela de um pick de empate.
const PickDraw = "DRAW"

// Bandas de margem reconhecidas em resultados.
const (
	Band1To12  = "1-12"
	Band13Plus = "13+"
)

// Margens codificadas nos picks: 1 ⇔ banda "1-12", 13 ⇔ banda "13+",
// 0 quando o pick é empate.
const (
	MarginNarrow = 1
	MarginWide   = 13
)

// Pontuação
const (
	PointsDraw        = 24 // acertou o empate
	PointsBase        = 5  // acertou o vencedor
	PointsMarginBonus = 3  // acertou também a banda de margem
)

// Pick é a previsão de um participante para uma partida.
type Pick struct {
	Team   string // código do time ou "DRAW"
	Margin int    // 1, 13 ou 0
}

// Result é o resultado oficial de uma partida.
// WinningTeam vazio significa partida ainda sem resultado.
type Result struct {
	WinningTeam string // código do time ou "DRAW"
	MarginBand  string // "1-12" | "13+", vazio em empate
}

// marginMatches compara a margem codificada do pick com a banda do resultado.
func marginMatches(margin int, band string) bool {
	switch band {
	case Band1To12:
		return margin == MarginNarrow
	case Band13Plus:
		return margin == MarginWide
	}
	return false
}

// Score calcula os pontos de um pick contra um resultado.
//
// Regras:
//   - resultado sem vencedor definido: 0 (não pontuado)
//   - empate: pick "DRAW" vale 24, qualquer outro 0
//   - vitória: time errado (inclusive pick "DRAW") vale 0; time certo
//     vale 5, com bônus de 3 se a banda de margem também bater
func Score(p Pick, r Result) int {
	if r.WinningTeam == "" {
		return 0
	}
	if r.WinningTeam == PickDraw {
		if p.Team == PickDraw {
			return PointsDraw
		}
		return 0
	}
	if p.Team != r.WinningTeam {
		return 0
	}
	pts := PointsBase
	if marginMatches(p.Margin, r.MarginBand) {
		pts += PointsMarginBonus
	}
	return pts
}
