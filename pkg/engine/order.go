package engine

import (
	"sort"

	"github.com/notnil/chess"
)

// Ordering score bands. Mates sort above everything, then captures by
// MVV-LVA, then checks; hanging a piece pulls a move far down the list.
const (
	mateOrderScore   = 1 << 20
	captureOrderBase = 10000
	promotionBase    = 8000
	checkOrderBonus  = 5000
	// hangPenalty outweighs any capture bonus so a move that loses the
	// moving piece sorts below quiet moves.
	hangPenalty       = 25000
	centerOrderBonus  = 40
	developOrderBonus = 25
	castleOrderBonus  = 30
)

// MoveEvaluation pairs a legal move with its heuristic ordering score and
// tactical tags. Rebuilt on every search call, never cached.
type MoveEvaluation struct {
	Move          *chess.Move
	Score         int
	IsCapture     bool
	GivesCheck    bool
	IsMate        bool
	HangsMaterial bool
}

// OrderMoves ranks legal moves best first using cheap heuristics only: no
// recursive search, at most two plies of move generation for the hang check.
// Ties keep the original move-generation order.
func OrderMoves(pos *chess.Position, moves []*chess.Move) []MoveEvaluation {
	evals := make([]MoveEvaluation, 0, len(moves))
	for _, m := range moves {
		evals = append(evals, evaluateMove(pos, m))
	}
	sort.SliceStable(evals, func(i, j int) bool {
		return evals[i].Score > evals[j].Score
	})
	return evals
}

// SelectBeam truncates an ordered list to width candidates. Checkmating
// moves are always kept, whatever the width.
func SelectBeam(ordered []MoveEvaluation, width int) []MoveEvaluation {
	if width < 1 {
		width = 1
	}
	if len(ordered) <= width {
		return ordered
	}
	beam := make([]MoveEvaluation, 0, width)
	beam = append(beam, ordered[:width]...)
	for _, me := range ordered[width:] {
		if me.IsMate {
			beam = append(beam, me)
		}
	}
	return beam
}

// orderInternal ranks moves for interior nodes using move tags only, with no
// extra move generation. Root ordering is the expensive one; interior nodes
// are visited far too often for the hang check.
func orderInternal(pos *chess.Position, moves []*chess.Move) []*chess.Move {
	board := pos.Board()
	type scored struct {
		move  *chess.Move
		score int
	}
	evals := make([]scored, 0, len(moves))
	for _, m := range moves {
		s := 0
		if m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant) {
			victimVal := pawnVal
			if victim := board.Piece(m.S2()); victim != chess.NoPiece {
				victimVal = pieceValue(victim.Type())
			}
			s += captureOrderBase + 10*victimVal - pieceValue(board.Piece(m.S1()).Type())
		}
		if m.Promo() != chess.NoPieceType {
			s += promotionBase + pieceValue(m.Promo())
		}
		if m.HasTag(chess.Check) {
			s += checkOrderBonus
		}
		if isCenter(m.S2()) {
			s += centerOrderBonus
		}
		if m.HasTag(chess.KingSideCastle) || m.HasTag(chess.QueenSideCastle) {
			s += castleOrderBonus
		}
		evals = append(evals, scored{m, s})
	}
	sort.SliceStable(evals, func(i, j int) bool {
		return evals[i].score > evals[j].score
	})
	ordered := make([]*chess.Move, len(evals))
	for i, e := range evals {
		ordered[i] = e.move
	}
	return ordered
}

func evaluateMove(pos *chess.Position, m *chess.Move) MoveEvaluation {
	me := MoveEvaluation{Move: m}
	after := pos.Update(m)

	if after.Status() == chess.Checkmate {
		me.IsMate = true
		me.Score = mateOrderScore
		return me
	}

	board := pos.Board()
	mover := board.Piece(m.S1())

	if m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant) {
		me.IsCapture = true
		victim := board.Piece(m.S2())
		victimVal := pawnVal // en passant leaves the target square empty
		if victim != chess.NoPiece {
			victimVal = pieceValue(victim.Type())
		}
		me.Score += captureOrderBase + 10*victimVal - pieceValue(mover.Type())
	}
	if m.Promo() != chess.NoPieceType {
		me.Score += promotionBase + pieceValue(m.Promo())
	}
	if m.HasTag(chess.Check) {
		me.GivesCheck = true
		me.Score += checkOrderBonus
	}
	if hangsMaterial(pos, after, m) {
		me.HangsMaterial = true
		me.Score -= hangPenalty
	}
	if isCenter(m.S2()) {
		me.Score += centerOrderBonus
	}
	if (mover.Type() == chess.Knight || mover.Type() == chess.Bishop) &&
		m.S1().Rank() == homeRank(mover.Color()) {
		me.Score += developOrderBonus
	}
	if m.HasTag(chess.KingSideCastle) || m.HasTag(chess.QueenSideCastle) {
		me.Score += castleOrderBonus
	}
	return me
}

// hangsMaterial reports whether the moved piece can be taken for free, or by
// a cheaper attacker, on the very next ply.
func hangsMaterial(pos *chess.Position, after *chess.Position, m *chess.Move) bool {
	movedVal := pieceValue(pos.Board().Piece(m.S1()).Type())
	if m.Promo() != chess.NoPieceType {
		movedVal = pieceValue(m.Promo())
	}
	dest := m.S2()
	for _, reply := range after.ValidMoves() {
		if reply.S2() != dest || !reply.HasTag(chess.Capture) {
			continue
		}
		attackerVal := pieceValue(after.Board().Piece(reply.S1()).Type())
		if attackerVal > 0 && attackerVal < movedVal {
			return true
		}
		if !canRecapture(after.Update(reply), dest) {
			return true
		}
	}
	return false
}

func canRecapture(pos *chess.Position, sq chess.Square) bool {
	for _, m := range pos.ValidMoves() {
		if m.S2() == sq && m.HasTag(chess.Capture) {
			return true
		}
	}
	return false
}
