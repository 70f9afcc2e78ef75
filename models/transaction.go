package models

import "time"

const TransactionTable = "lendit_transactions"

// MinTotalPrice mirrors the listing price floor.
const MinTotalPrice = MinPricePerDay

// ItemInfo and BorrowInfo are snapshots taken when the transaction opens, so
// the record stays meaningful after the borrow row is deleted.

type ItemInfo struct {
	Name            string `gorm:"size:200;not null" json:"name"`
	PricePerDay     int    `gorm:"not null" json:"pricePerDay"`
	ImageURL        string `gorm:"size:512" json:"imageURL,omitempty"`
	Location        string `gorm:"size:255;not null" json:"location"`
	ItemDescription string `gorm:"type:text" json:"itemDescription,omitempty"`
}

type BorrowInfo struct {
	BorrowID       string `gorm:"type:uuid;not null" json:"borrowID"`
	BorrowerID     string `gorm:"size:7;index;not null" json:"borrowerID"`
	LenderID       string `gorm:"size:7;index;not null" json:"lenderID"`
	BorrowDuration int    `gorm:"not null" json:"borrowDuration"`
}

// Transaction is the settlement record for an accepted borrow. IDs are ULIDs
// so the ledger sorts by creation time.
type Transaction struct {
	ID           string `gorm:"size:26;primaryKey" json:"id"`
	TotalPrice   int    `gorm:"not null" json:"totalPrice"`
	ReturnStatus bool   `gorm:"not null;default:false" json:"returnStatus"`

	ItemInfo   ItemInfo   `gorm:"embedded;embeddedPrefix:item_" json:"itemInfo"`
	BorrowInfo BorrowInfo `gorm:"embedded;embeddedPrefix:borrow_" json:"borrowInfo"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Transaction) TableName() string { return TransactionTable }
