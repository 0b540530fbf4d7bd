// ABOUTME: User endpoints for the own profile and back-office user management
// ABOUTME: Wraps /users routes

package api

import (
	"context"

	"github.com/delcarajo/storefront/internal/models"
)

// UserService covers the profile and admin user management
type UserService struct {
	d Doer
}

// ProfileUpdate is the body of PATCH /users/me; empty fields are left untouched
type ProfileUpdate struct {
	Name     string `json:"name,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Me calls GET /users/me
func (s *UserService) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.d.Get(ctx, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateMe calls PATCH /users/me
func (s *UserService) UpdateMe(ctx context.Context, update ProfileUpdate) (*models.UserUpdate, error) {
	var out models.UserUpdate
	if err := s.d.Patch(ctx, "/users/me", update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List calls GET /users
func (s *UserService) List(ctx context.Context) (*models.UserList, error) {
	var out models.UserList
	if err := s.d.Get(ctx, "/users", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get calls GET /users/{id}
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.d.Get(ctx, "/users/"+seg(id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateRole calls PATCH /users/{id}/role
func (s *UserService) UpdateRole(ctx context.Context, id string, role models.Role) (*models.UserUpdate, error) {
	var out models.UserUpdate
	body := map[string]models.Role{"role": role}
	if err := s.d.Patch(ctx, "/users/"+seg(id)+"/role", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleBan calls PATCH /users/{id}/ban
func (s *UserService) ToggleBan(ctx context.Context, id string) (*models.BanResult, error) {
	var out models.BanResult
	if err := s.d.Patch(ctx, "/users/"+seg(id)+"/ban", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
