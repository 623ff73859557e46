package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// UploadStatusPending is the only status a pending upload ever holds locally;
// confirmed uploads are forwarded to the admin system and removed.
const UploadStatusPending = "pending"

// PendingUpload is a short-lived record of ad-hoc display content awaiting
// payment confirmation. It lives only in memory and is evicted after its TTL.
type PendingUpload struct {
	ID              string          `json:"id"`
	Text            string          `json:"text"`
	ContentType     string          `json:"type"` // image | text
	DurationMinutes int             `json:"time"`
	Price           decimal.Decimal `json:"price"`
	Sender          string          `json:"sender"`
	FileName        string          `json:"file,omitempty"`
	FilePath        string          `json:"-"`
	SocialType      string          `json:"socialType,omitempty"`
	SocialName      string          `json:"socialName,omitempty"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	ExpiresAt       time.Time       `json:"expiresAt"`
}
