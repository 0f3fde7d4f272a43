package database

import (
	"log"

	"mobilya-backend/internal/config"
	"mobilya-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// Migrate: Tüm tabloları oluşturur/günceller. Testler aynı listeyi sqlite
// üzerinde kullanır.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Vendor{},
		&models.StockRecord{},
		&models.StockMovement{},
		&models.Order{},
		&models.OrderSequence{},
		&models.ProductionInward{},
		&models.ChairBOM{},
		&models.BOMPart{},
		&models.ReturnRecord{},
		&models.ActivityLog{},
	)
}
