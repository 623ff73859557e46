package model

import "time"

// UserProfile is keyed by phone number, which doubles as the identity the
// opaque bearer token encodes.
type UserProfile struct {
	Phone     string    `gorm:"primaryKey;size:16;not null" json:"phone"`
	Username  string    `gorm:"size:64" json:"username"`
	Email     string    `gorm:"size:128" json:"email"`
	Birthday  string    `gorm:"size:16" json:"birthday"` // DD/MM/YYYY
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"lastUpdated"`
}
