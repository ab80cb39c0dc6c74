// Package order provides order management for QuickCart.
package order

import "time"

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusProcessing Status = "Processing"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// ValidStatus reports whether s is a member of the closed status set.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusProcessing, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Item represents one product line in an order.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// Order represents a customer order.
type Order struct {
	ID          string
	UserID      string
	Items       []Item
	TotalAmount float64
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MonthlySales represents aggregated sales for one calendar month.
type MonthlySales struct {
	Month      string // YYYY-MM
	OrderCount int
	Total      float64
}

// ListOptions contains options for listing orders.
type ListOptions struct {
	Limit int
}
