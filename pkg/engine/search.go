package engine

import (
	"time"

	"github.com/notnil/chess"
)

const (
	infinityScore = 1 << 24
	// MateScore is the base of the mate sentinel band. A mate in N plies
	// scores MateScore-N, so shorter mates always rank higher and any mate
	// outranks any material score.
	MateScore = 1 << 20
	// mateBand is the threshold above which a score means forced mate.
	mateBand = MateScore - 1024
)

// SearchResult is what one search invocation returns.
type SearchResult struct {
	BestMove *chess.Move
	Score    int
	Depth    int
	Nodes    int
	PV       []*chess.Move
	Elapsed  time.Duration
}

// SearchState is owned exclusively by one in-flight search invocation and
// discarded when it returns.
type SearchState struct {
	BestMove  *chess.Move
	BestScore int
	Nodes     int
	Depth     int
}

// searchContext carries everything one invocation needs, constructed per
// request. There is no shared mutable search state at package level.
type searchContext struct {
	profile DifficultyProfile
	state   SearchState
}

// Search runs a time-budgeted iterative-deepening alpha-beta search and
// returns the best move found at the deepest fully completed depth. The
// position must have at least one legal move.
func Search(pos *chess.Position, profile DifficultyProfile, budget time.Duration) *SearchResult {
	tb := NewTimeBudget(budget)
	sc := &searchContext{profile: profile}

	legal := pos.ValidMoves()
	result := &SearchResult{}
	if len(legal) == 0 {
		return result
	}

	ordered := OrderMoves(pos, legal)
	beam := SelectBeam(ordered, profile.BeamWidth)

	// Absolute floor: the cheap-ordering favorite. Returned only if the
	// deadline is so tight the loop below never improves on it.
	result.BestMove = beam[0].Move
	result.Score = Evaluate(pos, profile.FullEval)

	prevScore := 0
	for depth := profile.MinDepth; depth <= profile.MaxDepth; depth++ {
		// minDepth always completes; deeper depths only start when the
		// estimator says they can finish in time.
		if depth > profile.MinDepth {
			if !tb.AllowNextDepth() {
				break
			}
			if depth > profile.TargetDepth && tb.Elapsed()*4 > tb.total {
				break
			}
		}
		depthStart := time.Now()
		move, score, pv := sc.searchDepth(pos, beam, depth, prevScore)
		tb.RecordDepth(time.Since(depthStart))

		result.BestMove = move
		result.Score = score
		result.Depth = depth
		result.PV = pv
		prevScore = score

		if score > mateBand {
			// Iterative deepening finds the shortest mate first.
			break
		}
	}

	result.Nodes = sc.state.Nodes
	result.Elapsed = tb.Elapsed()
	return result
}

// searchDepth runs one full iteration at the given depth, seeding an
// aspiration window around the previous score for depths beyond 3 and
// re-searching with the failing side opened until the score lies inside.
func (sc *searchContext) searchDepth(pos *chess.Position, beam []MoveEvaluation, depth, prevScore int) (*chess.Move, int, []*chess.Move) {
	alpha, beta := -infinityScore, infinityScore
	w := sc.profile.AspirationWindow
	if depth > 3 && w > 0 {
		alpha, beta = prevScore-w, prevScore+w
	}
	for {
		move, score, pv := sc.searchRoot(pos, beam, depth, alpha, beta)
		if score <= alpha && alpha > -infinityScore {
			// Fail-low: open the bottom of the window.
			alpha, beta = -infinityScore, score+w
			continue
		}
		if score >= beta && beta < infinityScore {
			// Fail-high: open the top of the window.
			alpha, beta = score-w, infinityScore
			continue
		}
		return move, score, pv
	}
}

// searchRoot searches the beam candidates at the root. Beam truncation is
// root-only; internal nodes see the full ordered move list.
func (sc *searchContext) searchRoot(pos *chess.Position, beam []MoveEvaluation, depth, alpha, beta int) (*chess.Move, int, []*chess.Move) {
	bestMove := beam[0].Move
	bestScore := -infinityScore
	var bestPV []*chess.Move

	for _, cand := range beam {
		var line []*chess.Move
		score := -sc.negamax(pos.Update(cand.Move), depth-1, 1, -beta, -alpha, &line)
		if score > bestScore {
			bestScore = score
			bestMove = cand.Move
			bestPV = append([]*chess.Move{cand.Move}, line...)
			if score > alpha {
				alpha = score
			}
		}
		if alpha >= beta {
			break
		}
	}

	sc.state.BestMove = bestMove
	sc.state.BestScore = bestScore
	sc.state.Depth = depth
	return bestMove, bestScore, bestPV
}

func (sc *searchContext) negamax(pos *chess.Position, depth, ply, alpha, beta int, pv *[]*chess.Move) int {
	sc.state.Nodes++

	legal := pos.ValidMoves()
	if len(legal) == 0 {
		if pos.Status() == chess.Checkmate {
			return -(MateScore - ply)
		}
		return 0 // stalemate
	}
	if depth <= 0 {
		return sc.quiesce(pos, alpha, beta, sc.profile.QuiescenceDepth, ply)
	}

	best := -infinityScore
	for _, m := range orderInternal(pos, legal) {
		var line []*chess.Move
		score := -sc.negamax(pos.Update(m), depth-1, ply+1, -beta, -alpha, &line)
		if score > best {
			best = score
			if score > alpha {
				alpha = score
				*pv = append([]*chess.Move{m}, line...)
			}
		}
		if alpha >= beta {
			break
		}
	}
	return best
}

// PVString renders a principal variation as space-separated UCI moves,
// walking the line from the given root position.
func PVString(pos *chess.Position, pv []*chess.Move) string {
	out := ""
	cur := pos
	for i, m := range pv {
		if i > 0 {
			out += " "
		}
		out += chess.UCINotation{}.Encode(cur, m)
		cur = cur.Update(m)
	}
	return out
}
