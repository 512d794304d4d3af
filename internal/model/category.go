package model

import "time"

// Category groups items.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// URL returns the canonical page of the category.
func (c *Category) URL() string {
	return "/category/" + c.ID
}

// CategorySummary is a category with the number of items filed under it.
type CategorySummary struct {
	Category
	ItemCount int `json:"item_count"`
}
