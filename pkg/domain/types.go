package domain

import "time"

// Color pairs a lowercase "#rrggbb" hex string with its RGB triple.
// The two representations always describe the same color; construct
// colors through pkg/colorspace rather than by hand.
type Color struct {
	Hex string `json:"hex"`
	RGB [3]int `json:"rgb"`
}

// Palette is a generated set of base colors plus two derived shade rows,
// owned by a single user. Immutable after creation except for Name.
type Palette struct {
	ID        string    `json:"paletteId"`
	OwnerID   string    `json:"userId"`
	Name      string    `json:"name,omitempty"`
	Colors    []Color   `json:"colors"`
	Shades    [][]Color `json:"shades"`
	History   []string  `json:"history,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// UsageCounter tracks palette generations per user and UTC calendar day.
type UsageCounter struct {
	OwnerID     string    `json:"ownerId"`
	Count       int       `json:"count"`
	LastResetAt time.Time `json:"lastResetAt"`
}

// SameUTCDay reports whether both timestamps fall on the same UTC calendar date.
func SameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// NextUTCMidnight returns the start of the next UTC calendar day after t.
func NextUTCMidnight(t time.Time) time.Time {
	t = t.UTC()
	year, month, day := t.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, time.UTC)
}
