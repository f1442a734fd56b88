// Package entity defines the domain models for the watchlist feature.
package entity

import "time"

// Symbol is a watch-listed ticker. The batch job analyzes every active symbol
// in SortKey order.
type Symbol struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:20;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null;default:''"`
	Exchange  string    `gorm:"size:100;not null;default:''"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName fixes the table name independent of the struct name.
func (Symbol) TableName() string {
	return "watchlist_symbols"
}
