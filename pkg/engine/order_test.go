package engine

import (
	"testing"

	"github.com/notnil/chess"
)

func findEval(t *testing.T, evals []MoveEvaluation, uci string, pos *chess.Position) MoveEvaluation {
	t.Helper()
	for _, me := range evals {
		if (chess.UCINotation{}).Encode(pos, me.Move) == uci {
			return me
		}
	}
	t.Fatalf("move %s not found in ordered list", uci)
	return MoveEvaluation{}
}

func TestOrderMovesMateFirst(t *testing.T) {
	// Back-rank mate: Ra8#.
	pos := positionFromFEN(t, "6k1/5ppp/8/8/8/8/8/R6K w - - 0 1")
	evals := OrderMoves(pos, pos.ValidMoves())
	top := chess.UCINotation{}.Encode(pos, evals[0].Move)
	if top != "a1a8" {
		t.Fatalf("checkmating move should be ordered first, got %s", top)
	}
	if !evals[0].IsMate {
		t.Fatalf("a1a8 should carry the mate tag")
	}
}

func TestOrderMovesMVVLVA(t *testing.T) {
	// Both the pawn and the queen can capture the rook on d5; the pawn
	// capture must rank higher.
	pos := positionFromFEN(t, "4k3/8/8/3r4/4P3/8/8/3QK3 w - - 0 1")
	evals := OrderMoves(pos, pos.ValidMoves())
	pawnTakes := findEval(t, evals, "e4d5", pos)
	queenTakes := findEval(t, evals, "d1d5", pos)
	if !pawnTakes.IsCapture || !queenTakes.IsCapture {
		t.Fatalf("both rook captures should be tagged as captures")
	}
	if pawnTakes.Score <= queenTakes.Score {
		t.Fatalf("pawn capture should outrank queen capture: pawn=%d queen=%d", pawnTakes.Score, queenTakes.Score)
	}
}

func TestOrderMovesHangingQueenPenalized(t *testing.T) {
	// Qxd5 wins a pawn but loses the queen to exd5.
	pos := positionFromFEN(t, "4k3/8/4p3/3p4/8/8/4P3/3QK3 w - - 0 1")
	evals := OrderMoves(pos, pos.ValidMoves())
	hanging := findEval(t, evals, "d1d5", pos)
	if !hanging.HangsMaterial {
		t.Fatalf("d1d5 should be tagged as hanging the queen")
	}
	safe := findEval(t, evals, "d1d2", pos)
	if hanging.Score >= safe.Score {
		t.Fatalf("hanging capture should rank below a quiet safe move: hang=%d safe=%d", hanging.Score, safe.Score)
	}
}

func TestOrderMovesChecksRanked(t *testing.T) {
	pos := positionFromFEN(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	evals := OrderMoves(pos, pos.ValidMoves())
	check := findEval(t, evals, "a1a8", pos)
	if !check.GivesCheck {
		t.Fatalf("a1a8 should be tagged as giving check")
	}
	quiet := findEval(t, evals, "a1b1", pos)
	if check.Score <= quiet.Score {
		t.Fatalf("checking move should outrank quiet move: check=%d quiet=%d", check.Score, quiet.Score)
	}
}

func TestOrderMovesStableTies(t *testing.T) {
	pos := positionFromFEN(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	legal := pos.ValidMoves()
	first := OrderMoves(pos, legal)
	second := OrderMoves(pos, legal)
	for i := range first {
		if first[i].Move != second[i].Move {
			t.Fatalf("ordering is not stable at index %d", i)
		}
	}
}

func TestSelectBeamTruncates(t *testing.T) {
	pos := positionFromFEN(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	ordered := OrderMoves(pos, pos.ValidMoves())
	beam := SelectBeam(ordered, 5)
	if len(beam) != 5 {
		t.Fatalf("beam width 5 should give 5 candidates, got %d", len(beam))
	}
	for i := range beam {
		if beam[i].Move != ordered[i].Move {
			t.Fatalf("beam must keep the top of the ordered list")
		}
	}
}

func TestSelectBeamAlwaysKeepsMates(t *testing.T) {
	ordered := []MoveEvaluation{
		{Score: 900}, {Score: 800}, {Score: 700},
		{Score: 600}, {Score: 10, IsMate: true},
	}
	beam := SelectBeam(ordered, 2)
	foundMate := false
	for _, me := range beam {
		if me.IsMate {
			foundMate = true
		}
	}
	if !foundMate {
		t.Fatalf("mate beyond the beam width must still be included")
	}
	if len(beam) != 3 {
		t.Fatalf("expected width 2 plus the mate, got %d candidates", len(beam))
	}
}
