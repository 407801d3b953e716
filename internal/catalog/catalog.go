// Package catalog holds the read-only product catalog the storefront sells
// from. Products are compiled in; managing them at runtime is out of scope.
package catalog

import (
	"github.com/animequeens/storefront/internal/cart"
	apperrors "github.com/animequeens/storefront/pkg/errors"
)

// Product is one purchasable figure in the catalog.
type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Series   string  `json:"series"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
}

// CartProduct converts the catalog entry into the cart's product view.
func (p Product) CartProduct() cart.Product {
	return cart.Product{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Image: p.Image,
	}
}

// Catalog is an in-memory, insertion-ordered product collection.
type Catalog struct {
	products []Product
	byID     map[int64]int
}

// New builds a catalog from the given products. Later duplicates of an ID
// are ignored.
func New(products []Product) *Catalog {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[int64]int, len(products)),
	}
	for _, p := range products {
		if _, ok := c.byID[p.ID]; ok {
			continue
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// Default returns the catalog the storefront ships with.
func Default() *Catalog {
	return New(defaultProducts)
}

// List returns all products in display order.
func (c *Catalog) List() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get looks a product up by ID.
func (c *Catalog) Get(id int64) (Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, apperrors.NotFound("product", formatID(id))
	}
	return c.products[i], nil
}

// Len reports the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}
