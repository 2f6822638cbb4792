package domain

import "time"

// Product is a catalog item. ImageUrls is an ordered list of references,
// each either a local upload path under /uploads/products/ or an external
// URL; the write paths currently populate at most one entry.
type Product struct {
	ID          int64     `gorm:"primaryKey" json:"id,string"`
	Name        string    `gorm:"index;size:255" json:"name"`
	Description string    `gorm:"size:2048" json:"description"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Category    string    `gorm:"index;size:255" json:"category"`
	Sku         *string   `gorm:"uniqueIndex;size:64" json:"sku,omitempty"` // NULL sku never collides
	ImageUrls   []string  `gorm:"serializer:json;size:2048" json:"imageUrls"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}
