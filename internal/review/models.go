// Package review provides product review management for QuickCart.
package review

import "time"

// Review represents a product review.
type Review struct {
	ID        string
	ProductID string
	UserID    string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// ListOptions contains options for listing reviews.
type ListOptions struct {
	Limit int
}
