package models

// Promotion represents a store-wide promotion.
type Promotion struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	DiscountPercent int        `json:"discountPercent"`
	ExpiresAt       *Timestamp `json:"expiresAt,omitempty"`
	CreatedAt       Timestamp  `json:"createdAt"`
}

// PromotionCreateRequest is the request body for creating a promotion.
type PromotionCreateRequest struct {
	Title           string     `json:"title" validate:"required"`
	Description     string     `json:"description,omitempty"`
	DiscountPercent int        `json:"discountPercent" validate:"required,gte=1,lte=100"`
	ExpiresAt       *Timestamp `json:"expiresAt,omitempty"`
}

// PagedPromotions represents a list of promotions.
type PagedPromotions struct {
	Items []Promotion       `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}
