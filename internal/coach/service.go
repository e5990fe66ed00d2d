package coach

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/chesscoach/cpu-engine-backend/pkg/engine"
	"github.com/notnil/chess"
)

// Move sources reported to the UI and persisted in telemetry.
const (
	SourceBook     = "book"
	SourceRemote   = "remote-engine"
	SourceFallback = "fallback-search"
)

const defaultTimeBudget = 2 * time.Second

// MoveRequest is the request consumed from the UI game loop. GameID scopes
// fallback-policy state; it defaults to "default" when absent.
type MoveRequest struct {
	GameID          string `json:"gameId"`
	Position        string `json:"position" binding:"required"`
	DifficultyLevel int    `json:"difficultyLevel"`
	TimeBudgetMs    int    `json:"timeBudgetMs"`
	Mode            string `json:"mode"`
}

type MovePayload struct {
	UCI string `json:"uci"`
	SAN string `json:"san"`
}

type Diagnostics struct {
	DepthReached       int    `json:"depthReached"`
	NodesVisited       int    `json:"nodesVisited"`
	EvalCentipawns     int    `json:"evalCentipawns"`
	PrincipalVariation string `json:"principalVariation"`
	EngineTimeMs       int64  `json:"engineTimeMs"`
}

type MoveResponse struct {
	Move        MovePayload `json:"move"`
	Source      string      `json:"source"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// TelemetrySink receives one record per move request. Satisfied by the
// mongo-backed dao.TelemetryRepository.
type TelemetrySink interface {
	InsertRecord(rec engine.FallbackTelemetryRecord) error
}

// session holds the only state shared across sequential move requests of one
// game. Moves within a game are strictly sequential; the mutex enforces
// single-writer discipline for concurrent games hitting the same id.
type session struct {
	mu        sync.Mutex
	policy    *engine.FallbackPolicy
	moveIndex int
}

// MoveService orchestrates book → remote engine → governed fallback search.
type MoveService struct {
	provider engine.Provider
	book     *engine.OpeningBook
	sink     TelemetrySink

	mu       sync.RWMutex
	sessions map[string]*session

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewMoveService builds a service. provider may be nil, in which case local
// search is the primary path (selfplay, tests). The seed makes low-skill
// book variety reproducible.
func NewMoveService(provider engine.Provider, sink TelemetrySink, seed int64) *MoveService {
	return &MoveService{
		provider: provider,
		book:     engine.NewOpeningBook(),
		sink:     sink,
		sessions: make(map[string]*session),
		rng:      rand.New(rand.NewSource(seed)),
	}
}

func (s *MoveService) session(gameID string) *session {
	s.mu.RLock()
	sess, ok := s.sessions[gameID]
	s.mu.RUnlock()
	if ok {
		return sess
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.sessions[gameID]; ok {
		return sess
	}
	sess = &session{policy: engine.NewFallbackPolicy()}
	s.sessions[gameID] = sess
	return sess
}

// ComputeMove serves one move request end to end and records telemetry for
// it. The returned error always carries an engine error code.
func (s *MoveService) ComputeMove(ctx context.Context, req MoveRequest) (*MoveResponse, error) {
	if req.GameID == "" {
		req.GameID = "default"
	}
	profile := engine.ProfileForLevel(req.DifficultyLevel)
	budget := time.Duration(req.TimeBudgetMs) * time.Millisecond
	if budget <= 0 {
		budget = defaultTimeBudget
	}

	fenOpt, err := chess.FEN(req.Position)
	if err != nil {
		return nil, engine.NewInvalidPositionError("malformed FEN", err)
	}
	pos := chess.NewGame(fenOpt).Position()
	if len(pos.ValidMoves()) == 0 {
		return nil, engine.NewInvalidPositionError("position has no legal moves", nil)
	}

	sess := s.session(req.GameID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.moveIndex++

	start := time.Now()
	rec := engine.NewTelemetryRecord(req.GameID, sess.moveIndex)

	// Opening fast path. A book hit needs no engine at all.
	if mv := s.bookMove(pos, profile); mv != nil {
		rec.Source = SourceBook
		s.record(rec)
		return s.response(pos, mv, SourceBook, Diagnostics{
			EvalCentipawns: engine.Evaluate(pos, profile.FullEval),
			EngineTimeMs:   time.Since(start).Milliseconds(),
		}), nil
	}

	// Preferred path: the remote engine, re-attempted on every move
	// regardless of the previous outcome.
	if s.provider != nil {
		sess.policy.BeginMove(true)
		rec.APIAttempted = true
		mv, err := s.provider.ComputeMove(ctx, pos, profile)
		if err == nil {
			sess.policy.RecordSuccess()
			rec.Source = SourceRemote
			rec.APISucceeded = true
			s.record(rec)
			return s.response(pos, mv, SourceRemote, Diagnostics{
				EvalCentipawns: engine.Evaluate(pos, true),
				EngineTimeMs:   time.Since(start).Milliseconds(),
			}), nil
		}
		rec.ErrorCode, _ = engine.Classify(err)
		if !sess.policy.AuthorizeFallback(err) {
			s.record(rec)
			return nil, err
		}
		rec.FallbackUsed = true
		log.Printf("remote engine failed (%s), falling back to local search for game %s move %d", rec.ErrorCode, req.GameID, sess.moveIndex)
	}

	res := engine.Search(pos, profile, budget)
	rec.Source = SourceFallback
	rec.ConsecutiveFallbacks = sess.policy.Consecutive()
	s.record(rec)
	return s.response(pos, res.BestMove, SourceFallback, Diagnostics{
		DepthReached:       res.Depth,
		NodesVisited:       res.Nodes,
		EvalCentipawns:     res.Score,
		PrincipalVariation: engine.PVString(pos, res.PV),
		EngineTimeMs:       time.Since(start).Milliseconds(),
	}), nil
}

func (s *MoveService) bookMove(pos *chess.Position, profile engine.DifficultyProfile) *chess.Move {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.book.Lookup(pos, profile, s.rng)
}

func (s *MoveService) response(pos *chess.Position, mv *chess.Move, source string, diag Diagnostics) *MoveResponse {
	resp := &MoveResponse{Source: source, Diagnostics: diag}
	resp.Move.UCI = chess.UCINotation{}.Encode(pos, mv)
	resp.Move.SAN = chess.AlgebraicNotation{}.Encode(pos, mv)
	if resp.Diagnostics.PrincipalVariation == "" {
		resp.Diagnostics.PrincipalVariation = resp.Move.UCI
	}
	return resp
}

func (s *MoveService) record(rec engine.FallbackTelemetryRecord) {
	if s.sink == nil {
		return
	}
	if err := s.sink.InsertRecord(rec); err != nil {
		log.Println("telemetry insert failed:", err.Error())
	}
}
