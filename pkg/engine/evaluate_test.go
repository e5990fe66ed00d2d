package engine

import (
	"testing"

	"github.com/notnil/chess"
)

func positionFromFEN(t *testing.T, fen string) *chess.Position {
	t.Helper()
	fenOpt, err := chess.FEN(fen)
	if err != nil {
		t.Fatalf("bad FEN %q: %v", fen, err)
	}
	return chess.NewGame(fenOpt).Position()
}

func TestEvaluateStartPositionIsBalanced(t *testing.T) {
	pos := positionFromFEN(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	for _, full := range []bool{false, true} {
		if score := Evaluate(pos, full); score != 0 {
			t.Fatalf("start position should evaluate to 0 (full=%v), got %d", full, score)
		}
	}
}

func TestEvaluateMaterialAdvantage(t *testing.T) {
	// White is up a queen.
	pos := positionFromFEN(t, "rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if score := Evaluate(pos, false); score < queenVal/2 {
		t.Fatalf("expected large positive score for queen-up side to move, got %d", score)
	}
}

func TestEvaluateIsSideToMoveRelative(t *testing.T) {
	white := positionFromFEN(t, "rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	black := positionFromFEN(t, "rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	ws := Evaluate(white, true)
	bs := Evaluate(black, true)
	if ws <= 0 || bs >= 0 {
		t.Fatalf("score must flip with side to move: white %d, black %d", ws, bs)
	}
	if ws+bs != 0 {
		t.Fatalf("same placement must be antisymmetric: white %d, black %d", ws, bs)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	pos := positionFromFEN(t, "r1bqk1nr/pppp1ppp/2n5/2b1p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4")
	first := Evaluate(pos, true)
	for i := 0; i < 5; i++ {
		if got := Evaluate(pos, true); got != first {
			t.Fatalf("evaluation not deterministic: %d then %d", first, got)
		}
	}
}

func TestEvaluateFullAddsPositionalTerms(t *testing.T) {
	// A developed knight on a strong central square should be worth more
	// under the full evaluation than the cheap one.
	cheap := Evaluate(positionFromFEN(t, "4k3/8/8/3N4/8/8/8/4K3 w - - 0 1"), false)
	full := Evaluate(positionFromFEN(t, "4k3/8/8/3N4/8/8/8/4K3 w - - 0 1"), true)
	if full <= cheap {
		t.Fatalf("full evaluation should reward central knight beyond cheap tier: cheap=%d full=%d", cheap, full)
	}
}
