package services

import (
	"context"

	"bgc-cart-backend/internal/models"
	"bgc-cart-backend/internal/repositories"

	"github.com/sirupsen/logrus"
)

// LocalCatalog is the read-only variant lookup used when the cart has to
// fabricate line items without the storefront.
type LocalCatalog struct {
	products []models.CatalogProduct
}

func NewLocalCatalog(products []models.CatalogProduct) *LocalCatalog {
	return &LocalCatalog{products: products}
}

// LoadLocalCatalog takes the first source that yields a non-empty product
// list. Failing sources are logged and skipped.
func LoadLocalCatalog(ctx context.Context, log *logrus.Logger, sources ...repositories.CatalogRepository) *LocalCatalog {
	for _, src := range sources {
		products, err := src.ListProducts(ctx)
		if err != nil {
			log.WithError(err).Warn("catalog source unavailable")
			continue
		}
		if len(products) > 0 {
			log.WithField("products", len(products)).Info("offline catalog loaded")
			return NewLocalCatalog(products)
		}
	}
	log.Warn("no catalog source produced products, offline items will carry no metadata")
	return NewLocalCatalog(nil)
}

func (c *LocalCatalog) FindVariant(variantID string) (models.CatalogMatch, bool) {
	for _, p := range c.products {
		for _, v := range p.Variants {
			if v.ID == variantID {
				return models.CatalogMatch{Variant: v, Product: p}, true
			}
		}
	}
	return models.CatalogMatch{}, false
}

func (c *LocalCatalog) Len() int {
	return len(c.products)
}

// lineItemFor builds a local line item for variantID. Unknown variants still
// produce an item, titled by id and priced at zero.
func (c *LocalCatalog) lineItemFor(id, variantID string, quantity int) models.LineItem {
	match, ok := c.FindVariant(variantID)
	if !ok {
		return models.LineItem{
			ID:       id,
			Title:    variantID,
			Quantity: quantity,
			Variant:  &models.Variant{ID: variantID, Price: models.Price{Amount: "0"}},
		}
	}

	v := &models.Variant{
		ID:    match.Variant.ID,
		Title: match.Variant.Title,
		Price: models.Price{Amount: match.Variant.Price, CurrencyCode: match.Variant.CurrencyCode},
		Product: &models.ProductRef{
			Handle: match.Product.Handle,
			Title:  match.Product.Title,
		},
	}
	switch {
	case match.Variant.Image != nil:
		v.Image = &models.Image{URL: match.Variant.Image.URL, AltText: match.Variant.Image.AltText}
	case len(match.Product.Images) > 0:
		v.Image = &models.Image{URL: match.Product.Images[0].URL, AltText: match.Product.Images[0].AltText}
	}

	return models.LineItem{
		ID:       id,
		Title:    match.Product.Title,
		Quantity: quantity,
		Variant:  v,
	}
}
