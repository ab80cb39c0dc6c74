// Package promotion provides store-wide promotion management for QuickCart.
package promotion

import "time"

// Promotion represents a store-wide promotion.
type Promotion struct {
	ID              string
	Title           string
	Description     string
	DiscountPercent int
	ExpiresAt       *time.Time
	CreatedAt       time.Time
}

// ListOptions contains options for listing promotions.
type ListOptions struct {
	Limit int
}
