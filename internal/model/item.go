package model

import "time"

// Item is a stocked product, optionally filed under a category.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Units       int       `json:"units"`
	CategoryID  string    `json:"category_id,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	CategoryName string `json:"category_name,omitempty"`
}

// URL returns the canonical page of the item.
func (i *Item) URL() string {
	return "/item/" + i.ID
}

// HasCategory reports whether the item is filed under a category.
func (i *Item) HasCategory() bool {
	return i.CategoryID != ""
}

// ItemStats summarizes the stock for the dashboard.
type ItemStats struct {
	Items         int `json:"items"`
	Units         int `json:"units"`
	Uncategorized int `json:"uncategorized"`
}
