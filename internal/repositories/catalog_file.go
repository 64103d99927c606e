package repositories

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"bgc-cart-backend/internal/models"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// fileCatalogRepository reads the catalog from a YAML or JSON seed file.
type fileCatalogRepository struct {
	path string
}

func NewFileCatalogRepository(path string) CatalogRepository {
	return &fileCatalogRepository{path: path}
}

func (r *fileCatalogRepository) ListProducts(_ context.Context) ([]models.CatalogProduct, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, errors.Wrapf(err, "read catalog %s", r.path)
	}
	return ParseCatalog(data, filepath.Ext(r.path))
}

// ParseCatalog decodes a product list; ext selects the format (".json", ".yaml", ".yml").
func ParseCatalog(data []byte, ext string) ([]models.CatalogProduct, error) {
	var products []models.CatalogProduct
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &products); err != nil {
			return nil, errors.Wrap(err, "decode json catalog")
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &products); err != nil {
			return nil, errors.Wrap(err, "decode yaml catalog")
		}
	default:
		return nil, errors.Errorf("unsupported catalog format %q", ext)
	}
	return products, nil
}

type staticCatalogRepository struct {
	products []models.CatalogProduct
}

// NewStaticCatalogRepository serves a fixed product list, by default the
// built-in storefront products.
func NewStaticCatalogRepository(products []models.CatalogProduct) CatalogRepository {
	if products == nil {
		products = DefaultCatalog()
	}
	return &staticCatalogRepository{products: products}
}

func (r *staticCatalogRepository) ListProducts(_ context.Context) ([]models.CatalogProduct, error) {
	return r.products, nil
}

func DefaultCatalog() []models.CatalogProduct {
	return []models.CatalogProduct{
		{
			ID:     "gid://shopify/Product/qa-test-product",
			Handle: "qa-test-product",
			Title:  "QA Test Product",
			Images: []models.CatalogImage{{URL: "https://via.placeholder.com/600x600/ff0000/ffffff?text=QA+Product", AltText: "QA Test Product"}},
			Variants: []models.CatalogVariant{
				{ID: "gid://shopify/ProductVariant/qa-test-product-default", Title: "Default Title", Price: "10.00", CurrencyCode: "USD"},
			},
		},
		{
			ID:       "gid://shopify/Product/golf-polo",
			Handle:   "golf-polo",
			Title:    "Bad Guys Club Golf Polo",
			Category: "golf",
			Images:   []models.CatalogImage{{URL: "https://bgc.gg/wp-content/uploads/2025/08/8972961013069467438_2048_custom.jpeg", AltText: "Bad Guys Club Golf Polo"}},
			Variants: []models.CatalogVariant{
				{ID: "gid://shopify/ProductVariant/golf-polo-s", Title: "S", Price: "80.33", CurrencyCode: "USD"},
				{ID: "gid://shopify/ProductVariant/golf-polo-m", Title: "M", Price: "80.33", CurrencyCode: "USD"},
				{ID: "gid://shopify/ProductVariant/golf-polo-l", Title: "L", Price: "80.33", CurrencyCode: "USD"},
			},
		},
		{
			ID:       "gid://shopify/Product/samurai-tee",
			Handle:   "samurai-tee",
			Title:    "Bad Guy Samurai Hang Loose",
			Category: "samurai",
			Images:   []models.CatalogImage{{URL: "https://bgc.gg/wp-content/uploads/2025/01/14367947741079445332_2048-3.jpeg", AltText: "Bad Guy Samurai Hang Loose"}},
			Variants: []models.CatalogVariant{
				{ID: "gid://shopify/ProductVariant/samurai-tee-m", Title: "M", Price: "30.00", CurrencyCode: "USD"},
				{ID: "gid://shopify/ProductVariant/samurai-tee-l", Title: "L", Price: "30.00", CurrencyCode: "USD"},
			},
		},
	}
}
