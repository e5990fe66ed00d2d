package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/notnil/chess"
)

// Provider computes a move for a position. Implemented by the HTTP remote
// engine client and by the local UCI process wrapper.
type Provider interface {
	ComputeMove(ctx context.Context, pos *chess.Position, profile DifficultyProfile) (*chess.Move, error)
}

// RemoteEngineClient talks to an external strong-engine service. Network
// errors and 5xx responses are retried a bounded number of times; 4xx and
// auth failures are returned immediately.
type RemoteEngineClient struct {
	baseURL string
	token   string
	client  *http.Client
	retries int
}

func NewRemoteEngineClient(baseURL, token string, timeout time.Duration, retries int) *RemoteEngineClient {
	if retries < 0 {
		retries = 0
	}
	if retries > 2 {
		retries = 2
	}
	return &RemoteEngineClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
		retries: retries,
	}
}

type remoteMoveRequest struct {
	FEN   string `json:"fen"`
	Depth int    `json:"depth"`
}

type remoteMoveResponse struct {
	BestMove string `json:"bestmove"`
	EvalCP   int    `json:"eval_cp"`
	Depth    int    `json:"depth"`
}

func (r *RemoteEngineClient) ComputeMove(ctx context.Context, pos *chess.Position, profile DifficultyProfile) (*chess.Move, error) {
	body, err := json.Marshal(remoteMoveRequest{
		FEN:   pos.String(),
		Depth: profile.TargetDepth + 2,
	})
	if err != nil {
		return nil, newBadResponseError("encoding request", err)
	}

	var lastErr error
	for attempt := 0; attempt <= r.retries; attempt++ {
		move, retryable, err := r.tryOnce(ctx, pos, body)
		if err == nil {
			return move, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, lastErr
}

// tryOnce issues a single request. retryable is true only for network
// failures and 5xx responses.
func (r *RemoteEngineClient) tryOnce(ctx context.Context, pos *chess.Position, body []byte) (move *chess.Move, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/bestmove", bytes.NewReader(body))
	if err != nil {
		return nil, false, newBadResponseError("building request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, true, newTimeoutError("remote engine timed out", err)
		}
		return nil, true, newTimeoutError("remote engine unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, false, newUnauthorizedError(fmt.Sprintf("remote engine rejected credentials (status %d)", resp.StatusCode))
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, false, newTimeoutError("remote engine rate-limited", nil)
	case resp.StatusCode >= 500:
		return nil, true, newBadResponseError(fmt.Sprintf("remote engine returned status %d", resp.StatusCode), nil)
	case resp.StatusCode >= 400:
		return nil, false, NewInvalidPositionError(fmt.Sprintf("remote engine rejected request (status %d)", resp.StatusCode), nil)
	}

	var parsed remoteMoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, false, newBadResponseError("decoding remote engine response", err)
	}
	decoded, err := chess.UCINotation{}.Decode(pos, parsed.BestMove)
	if err != nil {
		return nil, false, newBadResponseError(fmt.Sprintf("remote engine sent malformed move %q", parsed.BestMove), err)
	}
	for _, legal := range pos.ValidMoves() {
		if legal.S1() == decoded.S1() && legal.S2() == decoded.S2() && legal.Promo() == decoded.Promo() {
			return legal, false, nil
		}
	}
	return nil, false, newBadResponseError(fmt.Sprintf("remote engine sent illegal move %q", parsed.BestMove), nil)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
