package models

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// OrderItem represents one product line in an order.
type OrderItem struct {
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name,omitempty"`
	Quantity  int     `json:"quantity" validate:"required,gte=1"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
}

// Order represents a customer order.
type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `json:"totalAmount"`
	Status      OrderStatus `json:"status"`
	CreatedAt   Timestamp   `json:"createdAt"`
	UpdatedAt   Timestamp   `json:"updatedAt"`
}

// OrderCreateRequest is the request body for creating an order.
type OrderCreateRequest struct {
	Items       []OrderItem `json:"items" validate:"required,min=1"`
	TotalAmount float64     `json:"totalAmount" validate:"required,gte=0"`
}

// OrderStatusUpdateRequest is the request body for updating an order's status.
type OrderStatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// PagedOrders represents a paginated list of orders.
type PagedOrders struct {
	Items []Order           `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}

// MonthlySales represents aggregated sales for one calendar month.
type MonthlySales struct {
	Month      string  `json:"month"` // YYYY-MM
	OrderCount int     `json:"orderCount"`
	Total      float64 `json:"total"`
}

// SalesSummary represents the monthly sales summary report.
type SalesSummary struct {
	Months []MonthlySales `json:"months"`
}
