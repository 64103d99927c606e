package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// CatalogProduct model - MongoDB (read-only offline catalog)
type CatalogProduct struct {
	MongoID  primitive.ObjectID `bson:"_id,omitempty" json:"-" yaml:"-"`
	ID       string             `bson:"product_id" json:"id" yaml:"id"`
	Handle   string             `bson:"handle" json:"handle" yaml:"handle"`
	Title    string             `bson:"title" json:"title" yaml:"title"`
	Category string             `bson:"category,omitempty" json:"category,omitempty" yaml:"category,omitempty"`
	Images   []CatalogImage     `bson:"images,omitempty" json:"images,omitempty" yaml:"images,omitempty"`
	Variants []CatalogVariant   `bson:"variants" json:"variants" yaml:"variants"`
}

type CatalogImage struct {
	URL     string `bson:"url" json:"url" yaml:"url"`
	AltText string `bson:"alt_text,omitempty" json:"altText,omitempty" yaml:"alt_text,omitempty"`
}

// CatalogVariant for size/colour combinations
type CatalogVariant struct {
	ID           string        `bson:"variant_id" json:"id" yaml:"id"`
	Title        string        `bson:"title" json:"title" yaml:"title"`
	Price        string        `bson:"price" json:"price" yaml:"price"`
	CurrencyCode string        `bson:"currency_code,omitempty" json:"currencyCode,omitempty" yaml:"currency_code,omitempty"`
	Image        *CatalogImage `bson:"image,omitempty" json:"image,omitempty" yaml:"image,omitempty"`
}

// CatalogMatch is a variant resolved together with its parent product.
type CatalogMatch struct {
	Variant CatalogVariant
	Product CatalogProduct
}
