package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product is the catalog view of a sellable product.
type Product struct {
	SKU       string
	Name      string
	UnitPrice decimal.Decimal
	IsActive  bool
}

// ProductCatalog is the product lookup collaborator, consulted at creation
// time to enrich items carrying a product id. A missing or inactive product
// aborts the creation.
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}
