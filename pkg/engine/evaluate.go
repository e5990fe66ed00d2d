package engine

import (
	"github.com/notnil/chess"
)

// Piece values in centipawns.
const (
	pawnVal   = 100
	knightVal = 320
	bishopVal = 330
	rookVal   = 500
	queenVal  = 900
)

const (
	centerBonus      = 20
	pawnCenterBonus  = 25
	developmentBonus = 12
	castledBonus     = 30
)

func pieceValue(pt chess.PieceType) int {
	switch pt {
	case chess.Pawn:
		return pawnVal
	case chess.Knight:
		return knightVal
	case chess.Bishop:
		return bishopVal
	case chess.Rook:
		return rookVal
	case chess.Queen:
		return queenVal
	default:
		return 0
	}
}

// Piece-square tables, written from white's point of view with rank 8 on the
// first row (sunfish-style values, scaled down).
var pawnPosVals = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPosVals = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPosVals = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPosVals = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenPosVals = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingPosVals = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

func pstValue(pt chess.PieceType, sq chess.Square, color chess.Color) int {
	file := int(sq.File())
	rank := int(sq.Rank())
	// Tables are laid out rank 8 first; mirror the rank for white.
	idx := (7-rank)*8 + file
	if color == chess.Black {
		idx = rank*8 + file
	}
	switch pt {
	case chess.Pawn:
		return pawnPosVals[idx]
	case chess.Knight:
		return knightPosVals[idx]
	case chess.Bishop:
		return bishopPosVals[idx]
	case chess.Rook:
		return rookPosVals[idx]
	case chess.Queen:
		return queenPosVals[idx]
	case chess.King:
		return kingPosVals[idx]
	}
	return 0
}

func isCenter(sq chess.Square) bool {
	return sq == chess.D4 || sq == chess.E4 || sq == chess.D5 || sq == chess.E5
}

func homeRank(color chess.Color) chess.Rank {
	if color == chess.White {
		return chess.Rank1
	}
	return chess.Rank8
}

// Evaluate returns a static score for the position in centipawns from the
// perspective of the side to move. The cheap tier (full=false) counts
// material plus center control and development only and is used for
// pre-pruning; the full tier adds piece-square tables.
func Evaluate(pos *chess.Position, full bool) int {
	us := pos.Turn()
	score := 0
	for sq, piece := range pos.Board().SquareMap() {
		sign := 1
		if piece.Color() != us {
			sign = -1
		}
		pt := piece.Type()
		val := pieceValue(pt)
		if isCenter(sq) {
			if pt == chess.Pawn {
				val += pawnCenterBonus
			} else {
				val += centerBonus
			}
		}
		if (pt == chess.Knight || pt == chess.Bishop) && sq.Rank() != homeRank(piece.Color()) {
			val += developmentBonus
		}
		if full {
			val += pstValue(pt, sq, piece.Color())
		}
		score += sign * val
	}
	return score
}
