package services

import (
	"testing"

	"woof-coffee/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, 6, c.Len())

	it, ok := c.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "Seattle Fog", it.Name)
	assert.True(t, it.Price.Equal(dec("4.50")))

	_, ok = c.Lookup(0)
	assert.False(t, ok)

	var popular []string
	for _, p := range c.Popular() {
		popular = append(popular, p.Name)
	}
	assert.Equal(t, []string{"Seattle Fog", "Pike Place Pour Over"}, popular)
	assert.Equal(t, []string{models.CategoryEspresso, models.CategoryPourOver, models.CategoryColdBrew}, c.Categories())
	assert.Len(t, c.ByCategory(models.CategoryEspresso), 4)
}

func TestCatalogItemsIsCopy(t *testing.T) {
	c := DefaultCatalog()
	items := c.Items()
	items[0].Name = "changed"
	it, _ := c.Lookup(1)
	assert.Equal(t, "Seattle Fog", it.Name)
	assert.Equal(t, "Seattle Fog", c.Items()[0].Name)
}

func TestNewCatalogValidation(t *testing.T) {
	tests := []struct {
		name  string
		items []models.MenuItem
	}{
		{"duplicate id", []models.MenuItem{{ID: 1, Name: "a", Price: dec("1")}, {ID: 1, Name: "b", Price: dec("1")}}},
		{"no name", []models.MenuItem{{ID: 1, Price: dec("1")}}},
		{"negative price", []models.MenuItem{{ID: 1, Name: "a", Price: dec("-0.01")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.items)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}
