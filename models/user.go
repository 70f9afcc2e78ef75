package models

import "time"

const UserTable = "lendit_users"

// User carries two identifier spaces: ID is the storage key, StudentID is the
// public id every other record references. Never mix them up.
type User struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"-"`
	StudentID    string `gorm:"size:7;uniqueIndex;not null" json:"id"`
	Firstname    string `gorm:"size:255;not null" json:"firstname"`
	Lastname     string `gorm:"size:255;not null" json:"lastname"`
	Email        string `gorm:"size:255" json:"email,omitempty"`
	PhoneNumber  string `gorm:"size:32;not null" json:"phoneNumber"`
	DormLocation string `gorm:"size:255;not null" json:"dormLocation"`
	ImageURL     string `gorm:"size:512" json:"imageURL,omitempty"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return UserTable }
