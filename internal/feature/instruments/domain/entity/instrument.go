// Package entity defines the domain models for the instruments feature.
package entity

import "strings"

// EquitySuffix is the suffix the broker catalog appends to cash-segment equity symbols.
const EquitySuffix = "-EQ"

// Instrument represents one tradable entry of the broker's instrument catalog.
// Within an exchange segment the symbol uniquely determines the token.
type Instrument struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	Token    string `gorm:"size:32;not null;index" json:"token"`      // Provider-internal instrument identifier
	Symbol   string `gorm:"size:64;not null;index" json:"symbol"`     // Trading symbol (e.g., "RELIANCE-EQ")
	Name     string `gorm:"size:255;not null;default:''" json:"name"` // Short name (e.g., "RELIANCE")
	Exchange string `gorm:"size:16;not null;index" json:"exch_seg"`   // Exchange segment (e.g., "NSE", "BSE", "NFO")
}

// TableName pins the table name used by the SQL-backed catalog.
func (Instrument) TableName() string {
	return "instruments"
}

// IsEquity reports whether the instrument is a cash-segment equity.
func (i Instrument) IsEquity() bool {
	return strings.HasSuffix(i.Symbol, EquitySuffix)
}
