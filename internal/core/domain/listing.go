// Package domain concentra entidades e estruturas centrais do buscador de preços.
package domain

import "time"

// Listing is one normalized shopping result ready for display. Price stays a
// currency-formatted string; a numeric value is derived only at sort time.
type Listing struct {
	Title   string   `json:"title"`
	Price   string   `json:"price"`
	Rating  *float64 `json:"rating,omitempty"`
	Reviews *int     `json:"reviews,omitempty"`
	Store   string   `json:"store"`
	Image   string   `json:"image,omitempty"`
	Link    string   `json:"link"`
}

// RateLimitRule bounds how often a single client may trigger searches before
// being promoted to a temporary block.
type RateLimitRule struct {
	Requests      int
	Window        time.Duration
	BlockDuration time.Duration
}

// AbuseRule caps system-wide repetition of one exact query, independent of
// which clients issue it.
type AbuseRule struct {
	Requests int
	Window   time.Duration
}
