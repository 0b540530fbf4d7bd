// ABOUTME: Authentication endpoints: profile, logout and the OAuth entry point
// ABOUTME: Token refresh itself belongs to the client pipeline

package api

import (
	"context"

	"github.com/delcarajo/storefront/internal/models"
)

// AuthService wraps the session endpoints
type AuthService struct {
	d Doer
}

// Profile calls GET /auth/profile
func (s *AuthService) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.d.Get(ctx, "/auth/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout calls POST /auth/logout to revoke the server session
func (s *AuthService) Logout(ctx context.Context) error {
	return s.d.Post(ctx, "/auth/logout", nil, nil)
}

// LoginURL is where the browser starts the Google sign-in
func (s *AuthService) LoginURL() string {
	return s.d.BaseURL() + "/auth/google"
}
