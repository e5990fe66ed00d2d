package engine

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/notnil/chess"
)

// bookWindowFullMoves is the last full-move number the book applies to.
const bookWindowFullMoves = 3

// OpeningBook maps normalized early-game positions to candidate replies,
// strongest first. Lookups past the full-move window always miss.
type OpeningBook struct {
	window  int
	entries map[string][]string
}

// NewOpeningBook returns the built-in book covering the main first-move
// systems (king's pawn, queen's pawn, Reti, English) up to move three.
func NewOpeningBook() *OpeningBook {
	return &OpeningBook{
		window: bookWindowFullMoves,
		entries: map[string][]string{
			// start position
			"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -": {"e2e4", "d2d4", "g1f3", "c2c4"},
			// 1.e4
			"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3": {"e7e5", "c7c5", "e7e6", "c7c6"},
			// 1.d4
			"rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b KQkq d3": {"g8f6", "d7d5", "e7e6"},
			// 1.e4 e5
			"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6": {"g1f3", "f1c4", "b1c3"},
			// 1.e4 c5
			"rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6": {"g1f3", "b1c3", "c2c3"},
			// 1.e4 e6
			"rnbqkbnr/pppp1ppp/4p3/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq -": {"d2d4", "d2d3"},
			// 1.e4 c6
			"rnbqkbnr/pp1ppppp/2p5/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq -": {"d2d4", "b1c3"},
			// 1.d4 d5
			"rnbqkbnr/ppp1pppp/8/3p4/3P4/8/PPP1PPPP/RNBQKBNR w KQkq d6": {"c2c4", "g1f3"},
			// 1.d4 Nf6
			"rnbqkbnr/pppppppp/5n2/8/3P4/8/PPP1PPPP/RNBQKBNR w KQkq -": {"c2c4", "g1f3"},
			// 1.e4 e5 2.Nf3
			"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKB1R b KQkq -": {"b8c6", "g8f6"},
			// 1.e4 c5 2.Nf3
			"rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKB1R b KQkq -": {"d7d6", "b8c6", "e7e6"},
			// 1.d4 d5 2.c4
			"rnbqkbnr/ppp1pppp/8/3p4/2PP4/8/PP2PPPP/RNBQKBNR b KQkq c3": {"e7e6", "c7c6", "d5c4"},
			// 1.e4 e5 2.Nf3 Nc6
			"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/8/PPPP1PPP/RNBQKB1R w KQkq -": {"f1b5", "f1c4", "d2d4"},
			// 1.e4 e5 2.Nf3 Nc6 3.Bb5
			"r1bqkbnr/pppp1ppp/2n5/1B2p3/4P3/8/PPPP1PPP/RNBQK2R b KQkq -": {"a7a6", "g8f6"},
		},
	}
}

// Lookup returns a book reply for the position, or nil when the position is
// out of the book window, unknown, or the stored move is no longer legal.
// Deterministic profiles take the top candidate; weaker profiles pick a
// weighted random candidate biased toward the top of the list.
func (b *OpeningBook) Lookup(pos *chess.Position, profile DifficultyProfile, rng *rand.Rand) *chess.Move {
	if !profile.UseBook {
		return nil
	}
	if fullMoveNumber(pos) > b.window {
		return nil
	}
	candidates, ok := b.entries[normalizeFEN(pos.String())]
	if !ok || len(candidates) == 0 {
		return nil
	}
	idx := 0
	if !profile.Deterministic && rng != nil {
		idx = weightedPick(rng, len(candidates))
	}
	move, err := chess.UCINotation{}.Decode(pos, candidates[idx])
	if err != nil {
		return nil
	}
	for _, legal := range pos.ValidMoves() {
		if legal.S1() == move.S1() && legal.S2() == move.S2() && legal.Promo() == move.Promo() {
			return legal
		}
	}
	// Stale entry: let the caller run a real search.
	return nil
}

// normalizeFEN drops the halfmove and fullmove counters, which never affect
// candidate choice.
func normalizeFEN(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return fen
	}
	return strings.Join(fields[:4], " ")
}

func fullMoveNumber(pos *chess.Position) int {
	fields := strings.Fields(pos.String())
	if len(fields) < 6 {
		return 1
	}
	n, err := strconv.Atoi(fields[5])
	if err != nil {
		return 1
	}
	return n
}

// weightedPick draws an index with monotonically decreasing weights, e.g.
// 0.8/0.2 for two candidates and 0.4/0.3/0.2/0.1 for four.
func weightedPick(rng *rand.Rand, n int) int {
	weights := bookWeights(n)
	r := rng.Float64()
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return i
		}
	}
	return 0
}

func bookWeights(n int) []float64 {
	switch n {
	case 1:
		return []float64{1.0}
	case 2:
		return []float64{0.8, 0.2}
	case 3:
		return []float64{0.5, 0.3, 0.2}
	case 4:
		return []float64{0.4, 0.3, 0.2, 0.1}
	}
	// Linearly decreasing weights for longer lists.
	weights := make([]float64, n)
	total := float64(n*(n+1)) / 2
	for i := 0; i < n; i++ {
		weights[i] = float64(n-i) / total
	}
	return weights
}
