package models

import "time"

const BorrowTable = "lendit_borrows"

const MinBorrowDuration = 1 // days

// Borrow is one request to borrow one item. It exists from the moment a
// borrower asks until the loan settles (or the lender declines); the unique
// index on item_id keeps it to at most one per item.
type Borrow struct {
	ID             string `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID         string `gorm:"type:uuid;not null" json:"itemID"`
	BorrowerID     string `gorm:"size:7;index;not null" json:"borrowerID"`
	LenderID       string `gorm:"size:7;index;not null" json:"lenderID"`
	BorrowDuration int    `gorm:"not null" json:"borrowDuration"` // days
	PendingStat    bool   `gorm:"not null;default:false" json:"pendingStat"` // true once the lender accepts

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Borrow) TableName() string { return BorrowTable }
