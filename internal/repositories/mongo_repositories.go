package repositories

import (
	"context"

	"bgc-cart-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Catalog Repository
type catalogRepository struct {
	collection *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) CatalogRepository {
	return &catalogRepository{
		collection: db.Collection("catalog_products"),
	}
}

func (r *catalogRepository) ListProducts(ctx context.Context) ([]models.CatalogProduct, error) {
	var products []models.CatalogProduct

	opts := options.Find().SetSort(bson.D{{Key: "handle", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	return products, nil
}
