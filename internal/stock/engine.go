package stock

import (
	"errors"

	"mobilya-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Mutasyon motoru hata türleri. Handler'lar errors.Is ile eşleyip HTTP
// koduna çevirir; hiçbir hata otomatik retry edilmez.
var (
	ErrInvalidQuantity     = errors.New("miktar 0'dan büyük olmalı")
	ErrInsufficientStock   = errors.New("yetersiz stok")
	ErrSourceNotFound      = errors.New("kaynak stok kaydı bulunamadı")
	ErrSameLocation        = errors.New("kaynak ve hedef lokasyon aynı olamaz")
	ErrMaxQuantityExceeded = errors.New("hedef lokasyon maksimum stok sınırını aşıyor")
)

// Defaults: Upsert sırasında kayıt YOKSA uygulanacak alanlar. Kayıt varsa
// yalnızca quantity artar, bu alanlara dokunulmaz.
type Defaults struct {
	MinQuantity   int
	MaxQuantity   *int
	VendorRef     string
	Colour        string
	CreatedByID   *uint
	CreatedByRole models.UserRole
}

// Increment: (kind, itemName, location) anahtarına atomik koşullu upsert.
// Tek bir ON CONFLICT ... DO UPDATE çağrısıdır; read-then-write değildir,
// eşzamanlı çağıranlar altında güncelleme kaybolmaz.
func Increment(db *gorm.DB, kind models.StockKind, itemName, location string, delta int, defs Defaults) error {
	if delta <= 0 {
		return ErrInvalidQuantity
	}

	rec := models.StockRecord{
		Kind:          kind,
		ItemName:      itemName,
		Location:      location,
		Quantity:      delta,
		MinQuantity:   defs.MinQuantity,
		MaxQuantity:   defs.MaxQuantity,
		VendorRef:     defs.VendorRef,
		Colour:        defs.Colour,
		CreatedByID:   defs.CreatedByID,
		CreatedByRole: defs.CreatedByRole,
	}

	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "kind"}, {Name: "item_name"}, {Name: "location"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("stock_records.quantity + excluded.quantity"),
		}),
	}).Create(&rec).Error
}

// Decrement: Yalnızca quantity >= delta ise düşen tek koşullu UPDATE.
// Koşul tutmazsa kayıt değişmez ve ErrInsufficientStock döner; miktar hiçbir
// yarış altında eksiye inemez.
func Decrement(db *gorm.DB, kind models.StockKind, itemName, location string, delta int) error {
	if delta <= 0 {
		return ErrInvalidQuantity
	}

	res := db.Model(&models.StockRecord{}).
		Where("kind = ? AND item_name = ? AND location = ? AND quantity >= ?", kind, itemName, location, delta).
		Update("quantity", gorm.Expr("quantity - ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// DecrementRecord: Decrement'in kayıt kimliğiyle çalışan hali.
func DecrementRecord(db *gorm.DB, recordID uint, delta int) error {
	if delta <= 0 {
		return ErrInvalidQuantity
	}

	res := db.Model(&models.StockRecord{}).
		Where("id = ? AND quantity >= ?", recordID, delta).
		Update("quantity", gorm.Expr("quantity - ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// Transfer: Kaynaktan düş + hedefe ekle, tek transaction. Hedef kayıt yoksa
// min/max/vendor/renk kaynaktan miras alınarak oluşturulur. Başarıda bir
// StockMovement kaydı üretir ve kaynak kaydın son halini döner.
func Transfer(db *gorm.DB, sourceID uint, toLocation string, delta int, actorID uint) (*models.StockRecord, error) {
	if delta <= 0 {
		return nil, ErrInvalidQuantity
	}

	var source models.StockRecord

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&source, "id = ?", sourceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSourceNotFound
			}
			return err
		}

		if source.Location == toLocation {
			return ErrSameLocation
		}
		if source.Quantity < delta {
			return ErrInsufficientStock
		}

		// Hedefte max sınırı varsa aşılmasın
		var dest models.StockRecord
		err := tx.Where("kind = ? AND item_name = ? AND location = ?",
			source.Kind, source.ItemName, toLocation).First(&dest).Error
		if err == nil && dest.MaxQuantity != nil && dest.Quantity+delta > *dest.MaxQuantity {
			return ErrMaxQuantityExceeded
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := DecrementRecord(tx, source.ID, delta); err != nil {
			return err
		}

		if err := Increment(tx, source.Kind, source.ItemName, toLocation, delta, Defaults{
			MinQuantity: source.MinQuantity,
			MaxQuantity: source.MaxQuantity,
			VendorRef:   source.VendorRef,
			Colour:      source.Colour,
			CreatedByID: &actorID,
		}); err != nil {
			return err
		}

		movement := models.StockMovement{
			Kind:         source.Kind,
			ItemName:     source.ItemName,
			FromLocation: source.Location,
			ToLocation:   toLocation,
			Quantity:     delta,
			MovedByID:    actorID,
			Reason:       models.MovementReasonTransfer,
		}
		if err := tx.Create(&movement).Error; err != nil {
			return err
		}

		source.Quantity -= delta
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &source, nil
}

// Deduction: DeductAcrossLocations'ın tek kayıttan düştüğü miktar.
type Deduction struct {
	RecordID uint
	Location string
	Quantity int
}

// DeductAcrossLocations: Bir parça için gereken toplam miktarı, verilen
// lokasyon sınıfındaki kayıtlardan düşer. Parça adı büyük/küçük harf
// duyarsız eşlenir (veri girişi tutarsızlığına tolerans). Kayıtlar miktar
// azalan, id artan sırayla gezilir; toplam yetmiyorsa hiçbir kayda
// dokunmadan ErrInsufficientStock döner. Çağıranın transaction'ı içinde
// çalışmalıdır: tek bir kademeli düşüş bile başarısız olursa tüm işlem
// geri alınır.
func DeductAcrossLocations(tx *gorm.DB, itemName string, total int, class models.LocationClass) ([]Deduction, error) {
	if total <= 0 {
		return nil, ErrInvalidQuantity
	}

	var records []models.StockRecord
	if err := tx.Where("kind = ? AND LOWER(item_name) = LOWER(?) AND location_class = ?",
		models.StockKindSparePart, itemName, class).
		Order("quantity DESC, id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}

	available := 0
	for _, r := range records {
		available += r.Quantity
	}
	if available < total {
		return nil, ErrInsufficientStock
	}

	deductions := make([]Deduction, 0, len(records))
	remaining := total
	for _, r := range records {
		if remaining == 0 {
			break
		}
		take := r.Quantity
		if take > remaining {
			take = remaining
		}
		if take == 0 {
			continue
		}
		if err := DecrementRecord(tx, r.ID, take); err != nil {
			// Eşzamanlı düşüş toplamı eritti; işlem bütünüyle iptal
			return nil, err
		}
		deductions = append(deductions, Deduction{RecordID: r.ID, Location: r.Location, Quantity: take})
		remaining -= take
	}

	if remaining > 0 {
		return nil, ErrInsufficientStock
	}
	return deductions, nil
}
