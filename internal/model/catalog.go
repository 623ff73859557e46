package model

import "github.com/shopspring/decimal"

// GiftItem is a sellable item as published by the admin system.
type GiftItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

// GiftSettings is the admin-managed catalog plus the venue table limit.
// Never cached locally; fetched fresh on every validation.
type GiftSettings struct {
	Items      []GiftItem `json:"items"`
	TableCount int        `json:"tableCount"`
}
