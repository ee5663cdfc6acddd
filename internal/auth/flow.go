// Package auth drives the Trakt OAuth device flow.
//
// A Flow holds at most one pending device code. Start requests a new code,
// Check polls the token endpoint at most once per interval, and Logout
// forgets both the pending code and the stored token. All methods are safe
// for concurrent use; the network call in Check runs without the lock held.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/fyrsmithlabs/trakt-mcp/internal/logging"
	"github.com/fyrsmithlabs/trakt-mcp/internal/mcperr"
	"github.com/fyrsmithlabs/trakt-mcp/internal/trakt"
	"go.uber.org/zap"
)

// State is the outcome of a flow operation.
type State string

const (
	StateAuthenticated State = "authenticated"
	StateCodeIssued    State = "code_issued"
	StatePending       State = "pending"
	StateSlowDown      State = "slow_down"
	StateNotStarted    State = "not_started"
	StateExpired       State = "expired"
)

// Result reports the flow state to the caller.
type Result struct {
	State           State
	UserCode        string
	VerificationURL string
	// ExpiresIn is the number of seconds left on the device code.
	ExpiresIn int
	// Wait is the number of seconds before the next poll is allowed.
	Wait int
}

// DeviceClient is the subset of the Trakt client the flow needs.
type DeviceClient interface {
	DeviceCode(ctx context.Context) (trakt.DeviceCode, error)
	DeviceToken(ctx context.Context, deviceCode string) (*trakt.Token, error)
	RevokeToken(ctx context.Context, tok *trakt.Token) error
}

// TokenStore persists the user token.
type TokenStore interface {
	Load() (*trakt.Token, error)
	Save(tok *trakt.Token) error
	Clear() error
}

type pendingCode struct {
	deviceCode string
	expiresAt  time.Time
	interval   time.Duration
	lastPoll   time.Time
}

// Flow is the device-flow state machine.
type Flow struct {
	mu      sync.Mutex
	client  DeviceClient
	tokens  TokenStore
	logger  *logging.Logger
	authURL string
	now     func() time.Time
	pending *pendingCode
}

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithVerificationURL sets the URL shown when the upstream omits one.
func WithVerificationURL(url string) FlowOption {
	return func(f *Flow) {
		if url != "" {
			f.authURL = url
		}
	}
}

// NewFlow returns a flow with no pending code.
func NewFlow(client DeviceClient, tokens TokenStore, logger *logging.Logger, opts ...FlowOption) *Flow {
	f := &Flow{
		client:  client,
		tokens:  tokens,
		logger:  logger.Named("auth"),
		authURL: mcperr.DefaultAuthURL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Authenticated reports whether a valid token is stored.
func (f *Flow) Authenticated() bool {
	tok, err := f.tokens.Load()
	return err == nil && tok.Valid(f.now())
}

// Token returns the stored token, or nil.
func (f *Flow) Token() (*trakt.Token, error) {
	return f.tokens.Load()
}

// Start requests a device code unless the user is already authenticated.
// A new code replaces any pending one.
func (f *Flow) Start(ctx context.Context) (Result, error) {
	if f.Authenticated() {
		return Result{State: StateAuthenticated}, nil
	}

	code, err := f.client.DeviceCode(ctx)
	if err != nil {
		return Result{}, err
	}
	verification := code.VerificationURL
	if verification == "" {
		verification = f.authURL
	}
	interval := code.Interval
	if interval <= 0 {
		interval = 5
	}

	f.mu.Lock()
	f.pending = &pendingCode{
		deviceCode: code.DeviceCode,
		expiresAt:  f.now().Add(time.Duration(code.ExpiresIn) * time.Second),
		interval:   time.Duration(interval) * time.Second,
	}
	f.mu.Unlock()

	f.logger.Info(ctx, "Started device auth flow",
		logging.RedactedString("user_code", code.UserCode),
		zap.Int("expires_in", code.ExpiresIn),
		zap.Int("interval", interval),
	)
	return Result{
		State:           StateCodeIssued,
		UserCode:        code.UserCode,
		VerificationURL: verification,
		ExpiresIn:       code.ExpiresIn,
	}, nil
}

// Check polls the token endpoint once. A successful poll saves the token
// and ends the flow; a pending answer leaves it running.
func (f *Flow) Check(ctx context.Context) (Result, error) {
	if f.Authenticated() {
		return Result{State: StateAuthenticated}, nil
	}

	f.mu.Lock()
	p := f.pending
	if p == nil {
		f.mu.Unlock()
		return Result{State: StateNotStarted}, nil
	}
	now := f.now()
	if !now.Before(p.expiresAt) {
		f.pending = nil
		f.mu.Unlock()
		return Result{State: StateExpired}, nil
	}
	if since := now.Sub(p.lastPoll); !p.lastPoll.IsZero() && since < p.interval {
		f.mu.Unlock()
		return Result{State: StateSlowDown, Wait: ceilSeconds(p.interval - since)}, nil
	}
	p.lastPoll = now
	deviceCode := p.deviceCode
	remaining := ceilSeconds(p.expiresAt.Sub(now))
	f.mu.Unlock()

	tok, err := f.client.DeviceToken(ctx, deviceCode)
	if err != nil {
		if kind, ok := mcperr.KindOf(err); ok && kind == mcperr.KindAuthorizationPending {
			return Result{State: StatePending, ExpiresIn: remaining}, nil
		}
		if e, ok := mcperr.As(err); ok {
			if t, _ := e.Get("error_type"); t == "device_code_expired" {
				f.clearPending(deviceCode)
				return Result{State: StateExpired}, nil
			}
		}
		return Result{}, err
	}

	if err := f.tokens.Save(tok); err != nil {
		return Result{}, mcperr.Internal("Failed to save authentication token", mcperr.Caused(err),
			mcperr.WithData(map[string]any{"error_type": "token_storage_error"}))
	}
	f.clearPending(deviceCode)
	f.logger.Info(ctx, "Device auth completed")
	return Result{State: StateAuthenticated}, nil
}

// Logout forgets the pending code and the stored token. It reports whether
// a token was present. Upstream revocation is best effort.
func (f *Flow) Logout(ctx context.Context) (bool, error) {
	f.mu.Lock()
	f.pending = nil
	f.mu.Unlock()

	tok, err := f.tokens.Load()
	if err != nil {
		f.logger.Warn(ctx, "Unreadable token file, clearing", zap.Error(err))
	}
	if tok != nil {
		if err := f.client.RevokeToken(ctx, tok); err != nil {
			f.logger.Warn(ctx, "Token revocation failed", zap.Error(err))
		}
	}
	if err := f.tokens.Clear(); err != nil {
		return false, mcperr.Internal("Failed to clear authentication token", mcperr.Caused(err),
			mcperr.WithData(map[string]any{"error_type": "token_storage_error"}))
	}
	return tok != nil, nil
}

func (f *Flow) clearPending(deviceCode string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending != nil && f.pending.deviceCode == deviceCode {
		f.pending = nil
	}
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
