package models

import (
	"time"
)

// Product is an affiliate catalog entry. Only active products are served.
type Product struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"size:255;not null;index" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	Category      string    `gorm:"size:100;index" json:"category"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"original_price"`
	Merchant      string    `gorm:"size:100" json:"merchant"`
	AffiliateLink string    `gorm:"size:500;not null" json:"affiliate_link"`
	ImageURL      string    `gorm:"size:500" json:"image_url"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"review_count"`
	Features      JSON      `json:"features"`
	InStock       bool      `gorm:"not null" json:"in_stock"`
	IsActive      bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AffiliateClick is an append-only record of a followed affiliate link
type AffiliateClick struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint64    `gorm:"not null;index" json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"-"`
	UserID    *uint64   `json:"user_id"`
	RoomID    *uint64   `gorm:"index" json:"room_id"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	UserAgent string    `gorm:"type:text" json:"user_agent"`
	Referrer  string    `gorm:"size:500" json:"referrer"`
	ClickedAt time.Time `gorm:"not null;index" json:"clicked_at"`
}

// ProductRecommendation is a scored product match for a room. Recommendations are
// computed on demand; the table exists for snapshots and reporting.
type ProductRecommendation struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID         uint64    `gorm:"not null;index" json:"room_id"`
	ProductID      uint64    `gorm:"not null;index" json:"product_id"`
	Product        Product   `gorm:"foreignKey:ProductID" json:"-"`
	SuggestionID   *uint64   `json:"suggestion_id"`
	RelevanceScore float64   `gorm:"not null" json:"relevance_score"`
	Reason         string    `gorm:"size:255" json:"reason"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName overrides the table name for Product
func (Product) TableName() string {
	return "products"
}

// TableName overrides the table name for AffiliateClick
func (AffiliateClick) TableName() string {
	return "affiliate_clicks"
}

// TableName overrides the table name for ProductRecommendation
func (ProductRecommendation) TableName() string {
	return "product_recommendations"
}
