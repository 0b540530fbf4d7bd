// ABOUTME: Coordinates token refresh so one expiry triggers exactly one refresh call
// ABOUTME: Requests that hit 401 during a refresh wait for its outcome

package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type refreshState int

const (
	stateIdle refreshState = iota
	stateRefreshing
)

func (s refreshState) String() string {
	if s == stateRefreshing {
		return "refreshing"
	}
	return "idle"
}

type refreshResult struct {
	token string
	err   error
}

// refresher is a two-state machine. Idle moves to Refreshing on the first 401,
// and Refreshing returns to Idle when that refresh settles. Every waiter
// queued while Refreshing receives the outcome of the single in-flight call.
type refresher struct {
	tokens    TokenStore
	refresh   func(ctx context.Context) (string, error)
	onFailure func(err error)
	timeout   time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	state   refreshState
	waiters []chan refreshResult

	// stale token whose refresh last failed, and the failure
	failedFor string
	failure   error
}

// await returns the token to replay with. stale is the token the rejected
// request carried.
func (r *refresher) await(ctx context.Context, stale string) (string, error) {
	r.mu.Lock()

	if r.state == stateRefreshing {
		ch := make(chan refreshResult, 1)
		r.waiters = append(r.waiters, ch)
		r.mu.Unlock()

		select {
		case res := <-ch:
			return res.token, res.err
		case <-ctx.Done():
			return "", ErrCanceled
		}
	}

	current := r.tokens.AccessToken()
	if current != "" && current != stale {
		// A refresh for this expiry already settled
		r.mu.Unlock()
		return current, nil
	}
	if current == "" && stale != "" && stale == r.failedFor {
		err := r.failure
		r.mu.Unlock()
		return "", err
	}

	r.state = stateRefreshing
	r.mu.Unlock()

	return r.lead(ctx, stale)
}

func (r *refresher) lead(ctx context.Context, stale string) (token string, err error) {
	defer func() {
		r.settle(stale, token, err)
	}()

	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	r.logger.Debug("refreshing access token")
	token, err = r.refresh(rctx)
	if err == nil && token == "" {
		err = errRefreshAborted
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrSessionExpired, err)
		token = ""
		r.onFailure(err)
		return "", err
	}

	if perr := r.tokens.SetAccessToken(token); perr != nil {
		r.logger.Warn("failed to persist refreshed token", "error", perr)
	}
	r.logger.Debug("access token refreshed")
	return token, nil
}

// settle returns the machine to Idle and releases every waiter. It runs
// deferred so the machine never stays in Refreshing.
func (r *refresher) settle(stale, token string, err error) {
	if token == "" && err == nil {
		err = fmt.Errorf("%w: %w", ErrSessionExpired, errRefreshAborted)
	}

	r.mu.Lock()
	waiters := r.waiters
	r.waiters = nil
	r.state = stateIdle
	if err != nil {
		r.failedFor, r.failure = stale, err
	} else {
		r.failedFor, r.failure = "", nil
	}
	r.mu.Unlock()

	for _, ch := range waiters {
		ch <- refreshResult{token: token, err: err}
	}
}

func (r *refresher) current() refreshState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}
