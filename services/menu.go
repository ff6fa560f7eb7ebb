package services

import (
	"context"
	"fmt"

	"woof-coffee/db"
	"woof-coffee/models"

	"github.com/shopspring/decimal"
)

// ItemLookup resolves a menu item by id.
type ItemLookup interface {
	Lookup(id int64) (models.MenuItem, bool)
}

// Catalog is the read-only menu. It is never mutated after construction.
type Catalog struct {
	items []models.MenuItem
	byID  map[int64]models.MenuItem
}

func NewCatalog(items []models.MenuItem) (*Catalog, error) {
	c := &Catalog{
		items: make([]models.MenuItem, 0, len(items)),
		byID:  make(map[int64]models.MenuItem, len(items)),
	}
	for _, it := range items {
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate item id %d", ErrInvalidCatalog, it.ID)
		}
		if it.Name == "" {
			return nil, fmt.Errorf("%w: item %d has no name", ErrInvalidCatalog, it.ID)
		}
		if it.Price.IsNegative() {
			return nil, fmt.Errorf("%w: item %d has negative price", ErrInvalidCatalog, it.ID)
		}
		c.items = append(c.items, it)
		c.byID[it.ID] = it
	}
	return c, nil
}

// DefaultMenu is the shop's built-in menu.
func DefaultMenu() []models.MenuItem {
	return []models.MenuItem{
		{ID: 1, Name: "Seattle Fog", Description: "Our signature blend with notes of chocolate and caramel", Category: models.CategoryEspresso, Price: decimal.RequireFromString("4.50"), IsPopular: true},
		{ID: 2, Name: "Pike Place Pour Over", Description: "Single-origin Ethiopian beans, hand-poured to perfection", Category: models.CategoryPourOver, Price: decimal.RequireFromString("5.25"), IsPopular: true},
		{ID: 3, Name: "Space Needle Cold Brew", Description: "12-hour cold steeped for smooth, rich flavor", Category: models.CategoryColdBrew, Price: decimal.RequireFromString("4.00")},
		{ID: 4, Name: "Rain City Latte", Description: "Creamy latte with a hint of vanilla and cinnamon", Category: models.CategoryEspresso, Price: decimal.RequireFromString("5.50")},
		{ID: 5, Name: "Emerald City Mocha", Description: "Rich chocolate mocha with a touch of mint", Category: models.CategoryEspresso, Price: decimal.RequireFromString("6.00")},
		{ID: 6, Name: "Mount Rainier Macchiato", Description: "Layered espresso with foamed milk and caramel drizzle", Category: models.CategoryEspresso, Price: decimal.RequireFromString("5.75")},
	}
}

func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultMenu())
	if err != nil {
		panic(err)
	}
	return c
}

// Items returns the menu in catalog order.
func (c *Catalog) Items() []models.MenuItem {
	out := make([]models.MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Lookup(id int64) (models.MenuItem, bool) {
	it, ok := c.byID[id]
	return it, ok
}

func (c *Catalog) Len() int { return len(c.items) }

func (c *Catalog) Popular() []models.MenuItem {
	var out []models.MenuItem
	for _, it := range c.items {
		if it.IsPopular {
			out = append(out, it)
		}
	}
	return out
}

// Categories returns distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, it := range c.items {
		if !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	return out
}

func (c *Catalog) ByCategory(category string) []models.MenuItem {
	var out []models.MenuItem
	for _, it := range c.items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// LoadCatalog builds the catalog from the menu_items table.
func LoadCatalog(ctx context.Context) (*Catalog, error) {
	items, err := ListAllMenu(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: menu_items is empty", ErrInvalidCatalog)
	}
	return NewCatalog(items)
}

func ListAllMenu(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, description, category, price_cents, is_popular FROM menu_items
		ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var it models.MenuItem
		var cents int64
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Category, &cents, &it.IsPopular); err != nil {
			return nil, err
		}
		it.Price = decimal.New(cents, -2)
		items = append(items, it)
	}
	return items, rows.Err()
}
