package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/chesscoach/cpu-engine-backend/internal/coach"
	"github.com/notnil/chess"
)

// Plays the CPU engine against itself from a given position and prints the
// moves with diagnostics. Useful for eyeballing strength levels without the
// HTTP server or a remote engine.
func main() {
	fen := flag.String("fen", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "starting position")
	level := flag.Int("level", 5, "difficulty level")
	budget := flag.Int("budget", 1000, "time budget per move in milliseconds")
	maxMoves := flag.Int("moves", 40, "maximum number of plies to play")
	seed := flag.Int64("seed", 1, "random seed for book variety")
	flag.Parse()

	fenOpt, err := chess.FEN(*fen)
	if err != nil {
		panic(err)
	}
	game := chess.NewGame(fenOpt)
	service := coach.NewMoveService(nil, nil, *seed)

	for ply := 0; ply < *maxMoves && game.Outcome() == chess.NoOutcome; ply++ {
		resp, err := service.ComputeMove(context.Background(), coach.MoveRequest{
			GameID:          "selfplay",
			Position:        game.Position().String(),
			DifficultyLevel: *level,
			TimeBudgetMs:    *budget,
		})
		if err != nil {
			panic(err)
		}
		move, err := chess.UCINotation{}.Decode(game.Position(), resp.Move.UCI)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%3d. %-8s source=%-15s depth=%d nodes=%d eval=%d time=%dms pv=%s\n",
			ply+1, resp.Move.SAN, resp.Source,
			resp.Diagnostics.DepthReached, resp.Diagnostics.NodesVisited,
			resp.Diagnostics.EvalCentipawns, resp.Diagnostics.EngineTimeMs,
			resp.Diagnostics.PrincipalVariation)
		if err := game.Move(move); err != nil {
			panic(err)
		}
	}
	fmt.Println("result:", game.Outcome(), game.Method())
}
