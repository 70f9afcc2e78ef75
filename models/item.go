package models

import "time"

const ItemTable = "lendit_items"

// MinPricePerDay is the floor for listing prices.
const MinPricePerDay = 50

type Item struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string `gorm:"size:200;not null" json:"name"`
	PricePerDay int    `gorm:"not null" json:"pricePerDay"`
	OwnerID     string `gorm:"size:7;index;not null" json:"ownerID"` // student id of the lister
	Location    string `gorm:"size:255;not null" json:"location"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	ImageURL    string `gorm:"size:512" json:"imageURL,omitempty"`

	// Available is the single source of truth for "can this be borrowed now".
	// Only the lifecycle engine writes it.
	Available bool `gorm:"not null;default:true" json:"available"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Item) TableName() string { return ItemTable }
