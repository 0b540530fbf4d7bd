// ABOUTME: Session manager: single source of truth for the current user and bearer token
// ABOUTME: Resolves the profile from the stored token and owns login, logout and the nickname gate

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/delcarajo/storefront/internal/api"
	"github.com/delcarajo/storefront/internal/client"
	"github.com/delcarajo/storefront/internal/models"
	"github.com/delcarajo/storefront/internal/nav"
	"github.com/delcarajo/storefront/internal/validation"
)

// DefaultLogoutTimeout bounds the server-side revocation attempt
const DefaultLogoutTimeout = 3 * time.Second

// ErrNotAuthenticated is returned by operations that need a signed-in user
var ErrNotAuthenticated = errors.New("not signed in")

// AuthAPI is the slice of the backend the manager talks to
type AuthAPI interface {
	Profile(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
	LoginURL() string
}

// ProfileUpdater changes the signed-in user's own profile
type ProfileUpdater interface {
	UpdateMe(ctx context.Context, update api.ProfileUpdate) (*models.UserUpdate, error)
}

// Credentials is the durable token storage
type Credentials interface {
	AccessToken() string
	SetAccessToken(token string) error
	ClearAccessToken() error
}

// State is a snapshot of the session
type State struct {
	AccessToken    string       `json:"-"`
	User           *models.User `json:"user"`
	IsLoading      bool         `json:"isLoading"`
	NeedsNickname  bool         `json:"needsNickname"`
	TokenExpiresAt *time.Time   `json:"tokenExpiresAt,omitempty"`
}

// IsAuthenticated reports whether a profile was resolved
func (s State) IsAuthenticated() bool {
	return s.User != nil
}

// Options configures a Manager
type Options struct {
	Auth          AuthAPI
	Users         ProfileUpdater
	Tokens        Credentials
	Navigator     nav.Navigator
	LogoutTimeout time.Duration
	Logger        *slog.Logger

	// ClearCredentials removes every local credential on logout. Defaults to
	// clearing the access token only.
	ClearCredentials func() error
}

// Manager holds the session. The current user is non-nil only when a token
// is stored and the last profile fetch with it succeeded.
type Manager struct {
	auth          AuthAPI
	users         ProfileUpdater
	tokens        Credentials
	navigator     nav.Navigator
	logoutTimeout time.Duration
	logger        *slog.Logger
	clearCreds    func() error

	mu      sync.RWMutex
	user    *models.User
	loading bool
}

// NewManager creates a manager in the loading state
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.LogoutTimeout
	if timeout <= 0 {
		timeout = DefaultLogoutTimeout
	}
	clearCreds := opts.ClearCredentials
	if clearCreds == nil {
		clearCreds = opts.Tokens.ClearAccessToken
	}

	return &Manager{
		auth:          opts.Auth,
		users:         opts.Users,
		tokens:        opts.Tokens,
		navigator:     opts.Navigator,
		logoutTimeout: timeout,
		logger:        logger.With("component", "session"),
		clearCreds:    clearCreds,
		loading:       true,
	}
}

// State returns a snapshot of the session
func (m *Manager) State() State {
	token := m.tokens.AccessToken()

	m.mu.RLock()
	defer m.mu.RUnlock()

	st := State{
		AccessToken:   token,
		User:          m.user,
		IsLoading:     m.loading,
		NeedsNickname: m.user.NeedsNickname(),
	}
	if exp, ok := TokenExpiry(token); ok {
		st.TokenExpiresAt = &exp
	}
	return st
}

// CheckAuth resolves the profile for the stored token. Without a token no
// request is made. A failed profile fetch clears the token; the error is
// logged, never returned.
func (m *Manager) CheckAuth(ctx context.Context) (st State) {
	defer func() {
		m.setLoading(false)
		st = m.State()
	}()

	token := m.tokens.AccessToken()
	if token == "" {
		m.setUser(nil)
		return
	}

	if exp, ok := TokenExpiry(token); ok && time.Now().After(exp) {
		m.logger.Debug("stored access token is past its expiry", "expired_at", exp)
	}

	user, err := m.auth.Profile(ctx)
	switch {
	case err == nil:
		m.setUser(user)
	case errors.Is(err, client.ErrCanceled):
		// The caller gave up; the token was not shown to be invalid
		m.setUser(nil)
	default:
		m.logger.Info("session check failed, clearing token", "error", err)
		if cerr := m.tokens.ClearAccessToken(); cerr != nil {
			m.logger.Warn("failed to clear access token", "error", cerr)
		}
		m.setUser(nil)
	}
	return
}

// SetToken stores token and resolves its profile
func (m *Manager) SetToken(ctx context.Context, token string) (State, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return m.State(), fmt.Errorf("empty access token")
	}
	if err := m.tokens.SetAccessToken(token); err != nil {
		return m.State(), fmt.Errorf("storing access token: %w", err)
	}

	m.setLoading(true)
	return m.CheckAuth(ctx), nil
}

// Login sends the user to the OAuth authorization endpoint
func (m *Manager) Login() error {
	return m.navigator.Navigate(m.auth.LoginURL())
}

// Logout attempts a bounded server-side revocation, then always clears the
// local session and navigates home.
func (m *Manager) Logout(ctx context.Context) {
	defer func() {
		if err := m.clearCreds(); err != nil {
			m.logger.Warn("failed to clear credentials", "error", err)
		}
		m.setUser(nil)
		if err := m.navigator.Navigate(nav.Home); err != nil {
			m.logger.Warn("failed to navigate home", "error", err)
		}
	}()

	if m.tokens.AccessToken() == "" {
		return
	}

	rctx, cancel := context.WithTimeout(ctx, m.logoutTimeout)
	defer cancel()
	if err := m.auth.Logout(rctx); err != nil {
		m.logger.Warn("server logout failed", "error", err)
	}
}

// RefreshUser re-fetches the profile without touching the token
func (m *Manager) RefreshUser(ctx context.Context) (*models.User, error) {
	if m.tokens.AccessToken() == "" {
		return nil, ErrNotAuthenticated
	}

	user, err := m.auth.Profile(ctx)
	if err != nil {
		return nil, err
	}
	m.setUser(user)
	return user, nil
}

// SetNickname validates and saves the alias, then resyncs the profile
func (m *Manager) SetNickname(ctx context.Context, nickname string) (*models.User, error) {
	nickname, err := validation.Nickname(nickname)
	if err != nil {
		return nil, err
	}
	if m.users == nil {
		return nil, fmt.Errorf("profile updates are not configured")
	}
	if m.tokens.AccessToken() == "" {
		return nil, ErrNotAuthenticated
	}

	if _, err := m.users.UpdateMe(ctx, api.ProfileUpdate{Nickname: nickname}); err != nil {
		return nil, err
	}
	return m.RefreshUser(ctx)
}

// Expire drops the user after the client gave up on the session
func (m *Manager) Expire(err error) {
	m.logger.Info("session expired", "error", err)
	m.setUser(nil)
}

func (m *Manager) setUser(u *models.User) {
	m.mu.Lock()
	m.user = u
	m.mu.Unlock()
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}
