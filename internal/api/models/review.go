package models

// Review represents a product review.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt Timestamp `json:"createdAt"`
}

// ReviewCreateRequest is the request body for creating a review.
type ReviewCreateRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment,omitempty"`
}

// PagedReviews represents a list of reviews.
type PagedReviews struct {
	Items []Review          `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}
