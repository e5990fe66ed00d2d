package engine

import (
	"sort"

	"github.com/notnil/chess"
)

// quiesce extends the search with forcing moves only (captures, checks,
// promotions) so the main search never stops mid-exchange. The stand-pat
// score is a lower bound that can itself cause a cutoff.
func (sc *searchContext) quiesce(pos *chess.Position, alpha, beta, depth, ply int) int {
	sc.state.Nodes++

	legal := pos.ValidMoves()
	if len(legal) == 0 {
		if pos.Status() == chess.Checkmate {
			return -(MateScore - ply)
		}
		return 0
	}

	standPat := Evaluate(pos, sc.profile.FullEval)
	if depth <= 0 {
		return standPat
	}
	if standPat >= beta {
		return standPat
	}
	if standPat > alpha {
		alpha = standPat
	}

	for _, m := range forcingMoves(pos, legal) {
		score := -sc.quiesce(pos.Update(m), -beta, -alpha, depth-1, ply+1)
		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

// forcingMoves filters the legal moves down to captures, promotions and
// checks, ordered by MVV-LVA.
func forcingMoves(pos *chess.Position, legal []*chess.Move) []*chess.Move {
	board := pos.Board()
	type scored struct {
		move  *chess.Move
		score int
	}
	forcing := make([]scored, 0, len(legal))
	for _, m := range legal {
		if !m.HasTag(chess.Capture) && !m.HasTag(chess.EnPassant) &&
			!m.HasTag(chess.Check) && m.Promo() == chess.NoPieceType {
			continue
		}
		s := 0
		if m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant) {
			victimVal := pawnVal
			if victim := board.Piece(m.S2()); victim != chess.NoPiece {
				victimVal = pieceValue(victim.Type())
			}
			s = 10*victimVal - pieceValue(board.Piece(m.S1()).Type())
		}
		if m.Promo() != chess.NoPieceType {
			s += pieceValue(m.Promo())
		}
		forcing = append(forcing, scored{m, s})
	}
	sort.SliceStable(forcing, func(i, j int) bool {
		return forcing[i].score > forcing[j].score
	})
	moves := make([]*chess.Move, len(forcing))
	for i, f := range forcing {
		moves[i] = f.move
	}
	return moves
}
