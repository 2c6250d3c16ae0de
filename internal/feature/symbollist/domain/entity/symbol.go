// Package entity defines the domain models for the symbollist feature.
package entity

import "time"

// Market values for Symbol.Market.
const (
	MarketStock = "stock"
	MarketForex = "forex"
)

// Symbol is one entry of the dashboard pick list.
// Code is the ticker passed to the market data provider (e.g. "GOOGL", "EURUSD=X"),
// Name is the label shown to the user (e.g. "Google", "USD/EUR").
type Symbol struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:20;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	Market    string    `gorm:"size:100;not null;index"`
	IsActive  bool      `gorm:"not null"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// ValidMarket reports whether m is a known market.
func ValidMarket(m string) bool {
	return m == MarketStock || m == MarketForex
}
