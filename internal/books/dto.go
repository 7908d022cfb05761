package books

import "encoding/json"

// CreateBookRequest carries a new catalog record. Quantity stays raw so the
// service can accept a JSON number or a numeric string and reject everything
// else with a typed error.
type CreateBookRequest struct {
	CoverURL    string          `json:"coverUrl" validate:"required"`
	Title       string          `json:"title" validate:"required"`
	Genre       string          `json:"genre" validate:"required"`
	Description string          `json:"description" validate:"required"`
	PublishedAt string          `json:"publishedAt" validate:"required"`
	Author      string          `json:"author"`
	ISBN        string          `json:"isbn"`
	Quantity    json.RawMessage `json:"quantity"`
}

// UpdateBookRequest carries a partial edit. Nil pointers leave the stored
// value untouched; the merged record passes the same validation as create.
type UpdateBookRequest struct {
	CoverURL    *string         `json:"coverUrl"`
	Title       *string         `json:"title"`
	Genre       *string         `json:"genre"`
	Description *string         `json:"description"`
	PublishedAt *string         `json:"publishedAt"`
	Author      *string         `json:"author"`
	ISBN        *string         `json:"isbn"`
	Quantity    json.RawMessage `json:"quantity"`
}

// ListQuery narrows and pages the public catalog listing.
type ListQuery struct {
	Query  string
	Author string
	Page   int
	Limit  int
}

// DeleteResponse acknowledges a removal.
type DeleteResponse struct {
	OK bool `json:"ok"`
}

// PurchaseResponse acknowledges a purchase and reports the remaining stock.
type PurchaseResponse struct {
	OK       bool `json:"ok"`
	Quantity int  `json:"quantity"`
}
