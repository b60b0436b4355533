package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the authorization role of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a registered account. PasswordHash never leaves the service.
type User struct {
	ID             primitive.ObjectID
	Name           string
	Email          string
	PasswordHash   string
	Role           Role
	Bio            string
	Avatar         string
	FavoriteGenres []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewUser creates a user with the default role.
func NewUser(name, email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:             primitive.NewObjectID(),
		Name:           strings.TrimSpace(name),
		Email:          NormalizeEmail(email),
		PasswordHash:   passwordHash,
		Role:           RoleUser,
		FavoriteGenres: []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ProfileUpdate carries the self-editable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	Name           *string
	Bio            *string
	Avatar         *string
	FavoriteGenres []string
}

// ApplyProfile merges p into the user and reports whether anything changed.
func (u *User) ApplyProfile(p ProfileUpdate) bool {
	changed := false
	if p.Name != nil && strings.TrimSpace(*p.Name) != u.Name {
		u.Name = strings.TrimSpace(*p.Name)
		changed = true
	}
	if p.Bio != nil && *p.Bio != u.Bio {
		u.Bio = *p.Bio
		changed = true
	}
	if p.Avatar != nil && *p.Avatar != u.Avatar {
		u.Avatar = *p.Avatar
		changed = true
	}
	if p.FavoriteGenres != nil {
		u.FavoriteGenres = p.FavoriteGenres
		changed = true
	}
	if changed {
		u.UpdatedAt = time.Now().UTC()
	}
	return changed
}

// Principal is the authenticated actor of a request.
type Principal struct {
	ID        primitive.ObjectID
	Name      string
	Email     string
	Avatar    string
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Profile is a user together with the number of reviews they wrote.
type Profile struct {
	User        *User
	ReviewCount int64
}
