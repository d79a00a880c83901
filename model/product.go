package model

import "time"

type Product struct {
	ID          string    `json:"_id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" bson:"price"`
	Image       string    `json:"image" bson:"image"`
	Category    string    `json:"category" bson:"category"`
	IsFeatured  bool      `json:"isFeatured" bson:"isFeatured"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// RecommendedProduct is the trimmed view returned by the recommendations endpoint.
type RecommendedProduct struct {
	ID          string  `json:"_id" bson:"_id"`
	Name        string  `json:"name" bson:"name"`
	Description string  `json:"description" bson:"description"`
	Image       string  `json:"image" bson:"image"`
	Price       float64 `json:"price" bson:"price"`
}

func (p *Product) Recommended() RecommendedProduct {
	return RecommendedProduct{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Image:       p.Image,
		Price:       p.Price,
	}
}
