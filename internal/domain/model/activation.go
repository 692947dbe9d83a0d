package model

import "time"

// Activation is the append-only audit record of a successful redemption.
// A (UserID, PromoCodeID) pair is unique: one activation per user per code.
type Activation struct {
	ID          string
	UserID      string
	PromoCodeID string
	ActivatedAt time.Time
	IP          string
	UserAgent   string
}

// ActivationSummary is an activation joined with user and code display fields
// for the admin dashboard.
type ActivationSummary struct {
	Activation
	UserName  string
	UserEmail string
	Code      string
	Scope     PromoScope
}
