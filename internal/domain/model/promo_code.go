package model

import (
	"strings"
	"time"
)

// PromoScope determines what a promo code unlocks: a single course or the
// entire catalog.
type PromoScope string

const (
	ScopePlatform PromoScope = "platform"
	ScopeCourse   PromoScope = "course"
)

func (s PromoScope) Valid() bool {
	return s == ScopePlatform || s == ScopeCourse
}

// PromoCode is a redeemable access code created by an administrator.
// Code and Scope are immutable after creation; UsedCount is mutated only by
// successful redemptions through a conditional storage-level increment.
type PromoCode struct {
	ID        string
	Code      string
	Scope     PromoScope
	CourseID  *string // required iff Scope == ScopeCourse
	MaxUses   int
	UsedCount int
	ExpiresAt *time.Time
	IsActive  bool
	CreatedBy string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeCode brings a user-supplied code string to its canonical stored
// form: trimmed and uppercased.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Expired reports whether the code is past its expiry at the given instant.
// Codes without an expiry never expire.
func (p *PromoCode) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && p.ExpiresAt.Before(now)
}

// Exhausted reports whether every permitted use has been consumed.
func (p *PromoCode) Exhausted() bool {
	return p.UsedCount >= p.MaxUses
}
