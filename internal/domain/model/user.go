package model

import "time"

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Entitlement is a grant of access held by a user, created by redeeming a
// promo code. At most one entitlement exists per (user, code) pair. Once
// granted it never expires; code expiry only blocks new redemptions.
type Entitlement struct {
	ID           string
	CodeID       string
	CourseIDs    []string
	GlobalAccess bool
	ActivatedAt  time.Time
}

// User is a platform account. Entitlements and Progress are loaded alongside
// the base row by the repository.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Roles        []string
	Favorites    []string
	Progress     map[string]int // lesson id -> watched percent
	Entitlements []Entitlement

	ResetTokenHash   string
	ResetTokenExpiry *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) IsAdmin() bool {
	for _, r := range u.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}

// HasEntitlementFor reports whether the user already redeemed the given code.
func (u *User) HasEntitlementFor(codeID string) bool {
	for _, e := range u.Entitlements {
		if e.CodeID == codeID {
			return true
		}
	}
	return false
}

// IsFavorite reports whether the course is in the user's favorites.
func (u *User) IsFavorite(courseID string) bool {
	for _, f := range u.Favorites {
		if f == courseID {
			return true
		}
	}
	return false
}
