package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/freeeve/uci"
	"github.com/notnil/chess"
)

// UCIEngineProvider runs a local UCI engine process (stockfish) behind the
// same Provider interface as the HTTP client. Used when the deployment has
// an engine binary on the host instead of a remote engine service.
type UCIEngineProvider struct {
	mu  sync.Mutex
	eng *uci.Engine
}

func NewUCIEngineProvider(path string, args ...string) (*UCIEngineProvider, error) {
	e, err := uci.NewEngine(path, args...)
	if err != nil {
		return nil, err
	}
	err = e.SetOptions(uci.Options{
		MultiPV: 1,
		Hash:    128,
		Ponder:  false,
		OwnBook: true,
	})
	if err != nil {
		return nil, err
	}
	return &UCIEngineProvider{eng: e}, nil
}

func (p *UCIEngineProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.eng.Close()
}

func (p *UCIEngineProvider) ComputeMove(ctx context.Context, pos *chess.Position, profile DifficultyProfile) (*chess.Move, error) {
	if err := ctx.Err(); err != nil {
		return nil, newTimeoutError("engine call cancelled", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.eng.SetFEN(pos.String()); err != nil {
		return nil, newBadResponseError("sending position to engine", err)
	}
	result, err := p.eng.GoDepth(profile.TargetDepth + 2)
	if err != nil {
		return nil, newBadResponseError("engine search failed", err)
	}
	if len(result.Results) == 0 || len(result.Results[0].BestMoves) == 0 {
		return nil, newBadResponseError("engine returned no move", nil)
	}
	best := result.Results[0].BestMoves[0]
	decoded, err := chess.UCINotation{}.Decode(pos, best)
	if err != nil {
		return nil, newBadResponseError(fmt.Sprintf("engine sent malformed move %q", best), err)
	}
	for _, legal := range pos.ValidMoves() {
		if legal.S1() == decoded.S1() && legal.S2() == decoded.S2() && legal.Promo() == decoded.Promo() {
			return legal, nil
		}
	}
	return nil, newBadResponseError(fmt.Sprintf("engine sent illegal move %q", best), nil)
}
