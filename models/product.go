package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product categories. The storefront carries two departments.
const (
	CategoryMen   = "men"
	CategoryWomen = "women"
)

type Product struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	Category    string             `json:"category" bson:"category"`
	Subcategory string             `json:"subcategory" bson:"subcategory"`
	Sizes       []string           `json:"sizes" bson:"sizes"`
	Colors      []string           `json:"colors" bson:"colors"`
	Images      []string           `json:"images" bson:"images"`
	Stock       int                `json:"stock" bson:"stock"`
	Featured    bool               `json:"featured" bson:"featured"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt,omitempty" bson:"updated_at,omitempty"`
}

// OffersSize reports whether the product is sold in the given size.
func (p *Product) OffersSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// OffersColor reports whether the product is sold in the given color.
func (p *Product) OffersColor(color string) bool {
	for _, c := range p.Colors {
		if c == color {
			return true
		}
	}
	return false
}

// PrimaryImage returns the first image URL, or "" when none exist.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

func ValidCategory(category string) bool {
	return category == CategoryMen || category == CategoryWomen
}
