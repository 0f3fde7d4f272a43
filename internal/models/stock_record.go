package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type StockKind string

const (
	StockKindFullUnit  StockKind = "FULL_UNIT"
	StockKindSparePart StockKind = "SPARE_PART"
)

type LocationClass string

const (
	LocationWarehouse  LocationClass = "WAREHOUSE"
	LocationProduction LocationClass = "PRODUCTION"
	LocationFitting    LocationClass = "FITTING"
)

// StockRecord: Bir ürünün (tam sandalye veya yedek parça) tek bir lokasyondaki
// stok kaydı. (kind, item_name, location) üçlüsü benzersizdir; aynı ürün aynı
// lokasyonda iki kayıtla temsil edilemez.
type StockRecord struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Kind          StockKind     `gorm:"size:20;not null;uniqueIndex:idx_stock_identity" json:"kind"`
	ItemName      string        `gorm:"size:100;not null;uniqueIndex:idx_stock_identity" json:"item_name"`
	Location      string        `gorm:"size:100;not null;uniqueIndex:idx_stock_identity" json:"location"`
	LocationClass LocationClass `gorm:"size:20;not null;index" json:"location_class"`
	Quantity      int           `gorm:"not null;default:0" json:"quantity"`
	MinQuantity   int           `gorm:"not null;default:0" json:"min_quantity"`
	MaxQuantity   *int          `json:"max_quantity"`
	VendorRef     string        `gorm:"size:100" json:"vendor_ref"`
	Colour        string        `gorm:"size:50" json:"colour"`

	CreatedByID   *uint    `json:"created_by_id"`
	CreatedByRole UserRole `gorm:"size:20" json:"created_by_role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeriveLocationClass: Lokasyon kodunun prefix'inden sınıfı türetir.
// PROD_* -> PRODUCTION, FIT_* -> FITTING, diğer her şey -> WAREHOUSE.
// Sınıf her zaman burada türetilir, istemciden gelen değere güvenilmez.
func DeriveLocationClass(location string) LocationClass {
	switch {
	case strings.HasPrefix(location, "PROD_"):
		return LocationProduction
	case strings.HasPrefix(location, "FIT_"):
		return LocationFitting
	default:
		return LocationWarehouse
	}
}

// BeforeSave: location_class her yazımda prefix kuralından yeniden türetilir.
func (s *StockRecord) BeforeSave(tx *gorm.DB) error {
	s.LocationClass = DeriveLocationClass(s.Location)
	return nil
}
