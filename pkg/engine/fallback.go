package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FallbackState is the per-game state of the fallback governance machine.
type FallbackState int

const (
	// StateNormal: the remote engine succeeded or has not been tried yet
	// this move.
	StateNormal FallbackState = iota
	// StateFallbackUsed: a local search substituted for this move only.
	StateFallbackUsed
)

func (s FallbackState) String() string {
	if s == StateFallbackUsed {
		return "FALLBACK_USED"
	}
	return "NORMAL"
}

// FallbackPolicy decides whether a degraded local search may substitute for
// the remote engine. The remote engine must be re-attempted on every move:
// requesting a fallback on a move that skipped the remote attempt while the
// previous move already fell back is a programmer error and panics.
type FallbackPolicy struct {
	mu              sync.Mutex
	state           FallbackState
	consecutive     int
	remoteAttempted bool
}

func NewFallbackPolicy() *FallbackPolicy {
	return &FallbackPolicy{}
}

// BeginMove opens a new move request. remoteAttempted reports whether the
// caller is about to try the remote engine for this move.
func (p *FallbackPolicy) BeginMove(remoteAttempted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !remoteAttempted && p.state == StateFallbackUsed {
		panic(fmt.Sprintf("fallback policy violation: previous move used fallback (consecutive=%d) and the remote engine was not re-attempted", p.consecutive))
	}
	p.remoteAttempted = remoteAttempted
}

// RecordSuccess notes a remote engine success and resets the counter.
func (p *FallbackPolicy) RecordSuccess() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateNormal
	p.consecutive = 0
	p.remoteAttempted = false
}

// AuthorizeFallback returns true when the given remote failure permits
// exactly one local search for this move.
func (p *FallbackPolicy) AuthorizeFallback(err error) bool {
	var ee *EngineError
	if !errors.As(err, &ee) || !ee.Transient {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.remoteAttempted && p.state == StateFallbackUsed {
		panic("fallback policy violation: fallback requested without a remote engine attempt this move")
	}
	p.state = StateFallbackUsed
	p.consecutive++
	p.remoteAttempted = false
	return true
}

func (p *FallbackPolicy) State() FallbackState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *FallbackPolicy) Consecutive() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.consecutive
}

// FallbackTelemetryRecord captures the engine-source decision for one move
// request. One record is appended per move.
type FallbackTelemetryRecord struct {
	GameID               string             `bson:"game_id" json:"game_id"`
	MoveIndex            int                `bson:"move_index" json:"move_index"`
	Source               string             `bson:"source" json:"source"`
	APIAttempted         bool               `bson:"api_attempted" json:"api_attempted"`
	APISucceeded         bool               `bson:"api_succeeded" json:"api_succeeded"`
	ErrorCode            string             `bson:"error_code,omitempty" json:"error_code,omitempty"`
	FallbackUsed         bool               `bson:"fallback_used" json:"fallback_used"`
	ConsecutiveFallbacks int                `bson:"consecutive_fallbacks" json:"consecutive_fallbacks"`
	CreatedAt            primitive.DateTime `bson:"created_at" json:"created_at"`
}

func NewTelemetryRecord(gameID string, moveIndex int) FallbackTelemetryRecord {
	return FallbackTelemetryRecord{
		GameID:    gameID,
		MoveIndex: moveIndex,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
}
