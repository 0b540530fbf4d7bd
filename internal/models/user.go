// ABOUTME: User and address types returned by the storefront API
// ABOUTME: Includes role helpers and the nickname gate predicate

package models

import "strings"

// Role is the authorization level of a storefront user
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// User is the authenticated profile returned by GET /auth/profile
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Nickname  string `json:"nickname,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Role      Role   `json:"role"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// NeedsNickname reports whether the user still has to pick an alias
func (u *User) NeedsNickname() bool {
	return u != nil && strings.TrimSpace(u.Nickname) == ""
}

// IsAdmin reports whether the user can reach the back-office
func (u *User) IsAdmin() bool {
	return u != nil && (u.Role == RoleAdmin || u.Role == RoleSuperAdmin)
}

// DisplayName prefers the nickname, then the name, then the email
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if n := strings.TrimSpace(u.Nickname); n != "" {
		return n
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// AdminUser is a user row as listed in the back-office
type AdminUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Nickname  string `json:"nickname,omitempty"`
	Role      Role   `json:"role"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
	Count     *struct {
		Orders    int `json:"orders"`
		Favorites int `json:"favorites"`
	} `json:"_count,omitempty"`
}

// UserList is the response of GET /users
type UserList struct {
	Total int         `json:"total"`
	Users []AdminUser `json:"users"`
}

// UserUpdate wraps the user returned by profile and role mutations
type UserUpdate struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// BanResult is the response of PATCH /users/{id}/ban
type BanResult struct {
	Message string `json:"message"`
	User    struct {
		ID       string `json:"id"`
		IsActive bool   `json:"isActive"`
	} `json:"user"`
}

// Address is a saved shipping address
type Address struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	Alias        string `json:"alias"`
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	State        string `json:"state"`
	City         string `json:"city"`
	Municipality string `json:"municipality,omitempty"`
	Address      string `json:"address"`
	ZipCode      string `json:"zipCode,omitempty"`
	Reference    string `json:"reference,omitempty"`
	IsDefault    bool   `json:"isDefault"`
	IsActive     bool   `json:"isActive"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// AddressPayload is the body for creating or updating an address
type AddressPayload struct {
	Alias        string `json:"alias" validate:"required,max=50"`
	FullName     string `json:"fullName" validate:"required,max=100"`
	Phone        string `json:"phone" validate:"required,max=20"`
	State        string `json:"state" validate:"required,max=100"`
	City         string `json:"city" validate:"required,max=100"`
	Municipality string `json:"municipality,omitempty" validate:"omitempty,max=100"`
	Address      string `json:"address" validate:"required,max=500"`
	ZipCode      string `json:"zipCode,omitempty" validate:"omitempty,max=20"`
	Reference    string `json:"reference,omitempty" validate:"omitempty,max=500"`
	IsDefault    bool   `json:"isDefault,omitempty"`
}
