package coach

import (
	"context"
	"testing"

	"github.com/chesscoach/cpu-engine-backend/pkg/engine"
	"github.com/notnil/chess"
)

// A midgame position outside the opening-book window.
const midgameFEN = "r1bqk1nr/pppp1ppp/2n5/2b1p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4"

// scriptedProvider fails according to its script and then serves the first
// legal move, counting every attempt.
type scriptedProvider struct {
	calls  int
	script []error
}

func (f *scriptedProvider) ComputeMove(ctx context.Context, pos *chess.Position, profile engine.DifficultyProfile) (*chess.Move, error) {
	f.calls++
	if f.calls <= len(f.script) && f.script[f.calls-1] != nil {
		return nil, f.script[f.calls-1]
	}
	return pos.ValidMoves()[0], nil
}

type memorySink struct {
	records []engine.FallbackTelemetryRecord
}

func (m *memorySink) InsertRecord(rec engine.FallbackTelemetryRecord) error {
	m.records = append(m.records, rec)
	return nil
}

func transientErr() error {
	return &engine.EngineError{Code: engine.CodeRemoteTimeout, Transient: true, Message: "remote engine timed out"}
}

func midgameRequest(level int) MoveRequest {
	return MoveRequest{
		GameID:          "g1",
		Position:        midgameFEN,
		DifficultyLevel: level,
		TimeBudgetMs:    500,
		Mode:            "vs-cpu",
	}
}

func TestComputeMoveUsesRemoteEngine(t *testing.T) {
	provider := &scriptedProvider{}
	sink := &memorySink{}
	service := NewMoveService(provider, sink, 1)

	resp, err := service.ComputeMove(context.Background(), midgameRequest(6))
	if err != nil {
		t.Fatalf("ComputeMove error: %v", err)
	}
	if resp.Source != SourceRemote {
		t.Fatalf("expected remote-engine source, got %s", resp.Source)
	}
	if provider.calls != 1 {
		t.Fatalf("expected one remote attempt, got %d", provider.calls)
	}
	rec := sink.records[0]
	if !rec.APIAttempted || !rec.APISucceeded || rec.FallbackUsed {
		t.Fatalf("telemetry mismatch: %+v", rec)
	}
}

func TestComputeMoveFallsBackOnceAndReattempts(t *testing.T) {
	provider := &scriptedProvider{script: []error{transientErr(), nil}}
	sink := &memorySink{}
	service := NewMoveService(provider, sink, 1)

	// Move 1: remote fails transiently, fallback search serves the move.
	resp, err := service.ComputeMove(context.Background(), midgameRequest(4))
	if err != nil {
		t.Fatalf("fallback move failed: %v", err)
	}
	if resp.Source != SourceFallback {
		t.Fatalf("expected fallback-search source, got %s", resp.Source)
	}

	// Move 2: the remote engine must be re-attempted regardless.
	resp, err = service.ComputeMove(context.Background(), midgameRequest(4))
	if err != nil {
		t.Fatalf("second move failed: %v", err)
	}
	if resp.Source != SourceRemote {
		t.Fatalf("expected remote-engine source on recovery, got %s", resp.Source)
	}
	if provider.calls != 2 {
		t.Fatalf("remote engine must be attempted on every move, got %d calls", provider.calls)
	}

	if len(sink.records) != 2 {
		t.Fatalf("expected 2 telemetry records, got %d", len(sink.records))
	}
	first, second := sink.records[0], sink.records[1]
	if !first.APIAttempted || first.APISucceeded || !first.FallbackUsed || first.ErrorCode != engine.CodeRemoteTimeout {
		t.Fatalf("move 1 telemetry mismatch: %+v", first)
	}
	if first.ConsecutiveFallbacks != 1 {
		t.Fatalf("move 1 consecutive count should be 1, got %d", first.ConsecutiveFallbacks)
	}
	if !second.APIAttempted || !second.APISucceeded || second.FallbackUsed {
		t.Fatalf("move 2 telemetry mismatch: %+v", second)
	}
}

func TestComputeMoveNonTransientErrorPropagates(t *testing.T) {
	provider := &scriptedProvider{script: []error{
		&engine.EngineError{Code: engine.CodeRemoteUnauthorized, Message: "bad token"},
	}}
	service := NewMoveService(provider, &memorySink{}, 1)

	_, err := service.ComputeMove(context.Background(), midgameRequest(4))
	if err == nil {
		t.Fatalf("auth failure must propagate, not fall back")
	}
	if code, _ := engine.Classify(err); code != engine.CodeRemoteUnauthorized {
		t.Fatalf("expected REMOTE_UNAUTHORIZED, got %s", code)
	}
}

func TestComputeMoveBookFastPath(t *testing.T) {
	provider := &scriptedProvider{}
	service := NewMoveService(provider, nil, 1)

	resp, err := service.ComputeMove(context.Background(), MoveRequest{
		Position:        "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		DifficultyLevel: engine.MaxLevel,
		TimeBudgetMs:    1000,
	})
	if err != nil {
		t.Fatalf("book move failed: %v", err)
	}
	if resp.Source != SourceBook {
		t.Fatalf("expected book source for the start position, got %s", resp.Source)
	}
	if resp.Move.UCI != "e2e4" {
		t.Fatalf("master book move should be e2e4, got %s", resp.Move.UCI)
	}
	if provider.calls != 0 {
		t.Fatalf("book hits must not touch the remote engine")
	}
	if resp.Diagnostics.EngineTimeMs > 100 {
		t.Fatalf("book moves should be near-instant, took %dms", resp.Diagnostics.EngineTimeMs)
	}
}

func TestComputeMoveLocalOnlyMode(t *testing.T) {
	service := NewMoveService(nil, nil, 1)
	resp, err := service.ComputeMove(context.Background(), midgameRequest(3))
	if err != nil {
		t.Fatalf("local-only move failed: %v", err)
	}
	if resp.Source != SourceFallback {
		t.Fatalf("local-only mode serves fallback-search moves, got %s", resp.Source)
	}
	if resp.Move.UCI == "" || resp.Move.SAN == "" {
		t.Fatalf("response must carry both UCI and SAN renderings: %+v", resp.Move)
	}
	if resp.Diagnostics.DepthReached < 1 {
		t.Fatalf("local search should report a completed depth")
	}
}

func TestComputeMoveRejectsMalformedFEN(t *testing.T) {
	service := NewMoveService(nil, nil, 1)
	_, err := service.ComputeMove(context.Background(), MoveRequest{Position: "not a fen"})
	if err == nil {
		t.Fatalf("malformed FEN must be rejected before any search")
	}
	if code, transient := engine.Classify(err); code != engine.CodeInvalidPosition || transient {
		t.Fatalf("expected non-transient INVALID_POSITION, got %s", code)
	}
}

func TestComputeMoveSessionsAreIndependent(t *testing.T) {
	provider := &scriptedProvider{script: []error{transientErr(), transientErr()}}
	service := NewMoveService(provider, nil, 1)

	reqA := midgameRequest(3)
	reqA.GameID = "game-a"
	reqB := midgameRequest(3)
	reqB.GameID = "game-b"

	if _, err := service.ComputeMove(context.Background(), reqA); err != nil {
		t.Fatalf("game-a move failed: %v", err)
	}
	if _, err := service.ComputeMove(context.Background(), reqB); err != nil {
		t.Fatalf("game-b move failed: %v", err)
	}

	service.mu.RLock()
	defer service.mu.RUnlock()
	if len(service.sessions) != 2 {
		t.Fatalf("expected two independent sessions, got %d", len(service.sessions))
	}
	for id, sess := range service.sessions {
		if got := sess.policy.Consecutive(); got != 1 {
			t.Fatalf("session %s should have exactly one fallback, got %d", id, got)
		}
	}
}
