// Package seed fills an empty database with sample categories and items.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/erazemk/inventory/internal/model"
	"github.com/erazemk/inventory/internal/store"
)

// ErrUnknownPassword is returned when the seed password has no access record.
var ErrUnknownPassword = errors.New("no access record uses this password")

// Result counts what Populate created.
type Result struct {
	Categories int
	Items      int
}

type sampleItem struct {
	name        string
	description string
	category    string
	price       float64
	units       int
}

var sampleCategories = []model.Category{
	{Name: "Electronics", Description: "Shop home entertainment, TVs, home audio, headphones, cameras, accessories and more"},
	{Name: "Software", Description: "Shop for PC and Mac software including business, games, photography and more"},
	{Name: "Toys and Games", Description: "Shop action figures, arts and crafts, dolls, puzzles, learning toys and more"},
}

var sampleItems = []sampleItem{
	{
		name:        "Bose QuietComfort Wireless Noise Cancelling Headphones, Black",
		description: "Wireless over-ear headphones with adjustable noise cancellation, Wind Block, custom EQ and up to 24 hours of battery life on a single charge.",
		category:    "Electronics",
		price:       249,
		units:       10,
	},
	{
		name:        "Nintendo Switch with Neon Blue and Neon Red Joy-Con",
		description: "Play at home or on the go with one system that turns from a home console into a portable one.",
		category:    "Electronics",
		price:       296.99,
		units:       3,
	},
	{
		name:        `HP Essential 15 Laptop, 16GB RAM, 128GB SSD, 15.6" Anti-Glare Display`,
		description: "Intel Pentium N200 with integrated UHD graphics, 16 GB DDR4 memory and Windows 11 Home in S mode.",
		category:    "Electronics",
		price:       369.99,
		units:       4,
	},
	{
		name:        "Norton 360 Premium, Antivirus for 10 Devices [Key card]",
		description: "Malware protection for PCs, Macs and phones with secure VPN, 75GB cloud backup, password manager and dark web monitoring.",
		category:    "Software",
		price:       29.99,
		units:       7,
	},
	{
		name:        "Photoshop Elements 2024 and Premiere Elements 2024",
		description: "Photo and video editing with automated options and step-by-step guided edits.",
		category:    "Software",
		price:       99.99,
		units:       2,
	},
	{
		name:        "Happy Little Dinosaurs Base Game",
		description: "A card game for 2-4 players ages 8+ about dodging life's little disasters.",
		category:    "Toys and Games",
		price:       15.29,
		units:       2,
	},
	{
		name:        "10in Bee Plush Pillow Stuffed Animal",
		description: "Soft, washable plush pillow filled with down cotton. A snuggle buddy for kids and a nap pillow for the office.",
		category:    "Toys and Games",
		price:       22.99,
		units:       4,
	},
}

// Populate creates the sample data and grants every new entity to the
// access record matching password, which must already exist.
func Populate(ctx context.Context, repo store.Repository, password string) (*Result, error) {
	a, err := repo.GetAccessByPassword(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("looking up access: %w", err)
	}
	if a == nil {
		return nil, ErrUnknownPassword
	}

	res := &Result{}
	ids := make(map[string]string, len(sampleCategories))
	for _, c := range sampleCategories {
		created, err := repo.CreateCategory(ctx, c, a.ID)
		if err != nil {
			return res, fmt.Errorf("adding category %q: %w", c.Name, err)
		}
		ids[c.Name] = created.ID
		res.Categories++
		slog.Info("added category", "name", c.Name, "id", created.ID)
	}

	for _, s := range sampleItems {
		price := s.price
		item := model.Item{
			Name:        s.name,
			Description: s.description,
			Price:       &price,
			Units:       s.units,
			CategoryID:  ids[s.category],
		}
		created, err := repo.CreateItem(ctx, item, a.ID)
		if err != nil {
			return res, fmt.Errorf("adding item %q: %w", s.name, err)
		}
		res.Items++
		slog.Info("added item", "name", s.name, "id", created.ID)
	}

	return res, nil
}
