package order

import (
	"fmt"

	"mobilya-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NextOrderID: ORD-<yıl>-<6 haneli sıra> üretir. Yıl satırı üzerindeki
// ON CONFLICT ... DO UPDATE artırması satırı kilitler; eşzamanlı sipariş
// oluşturmalarında aynı yıl içinde numara tekrarlanmaz ve sıra kesin artar.
// Çağıranın transaction'ı içinde kullanılmalıdır ki numara, sipariş kaydıyla
// birlikte commit olsun.
func NextOrderID(tx *gorm.DB, year int) (string, error) {
	seq := models.OrderSequence{Year: year, LastSeq: 1}

	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "year"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_seq": gorm.Expr("order_sequences.last_seq + 1"),
		}),
	}).Create(&seq).Error; err != nil {
		return "", err
	}

	// Upsert'in yazdığı değeri aynı transaction içinden oku
	if err := tx.First(&seq, "year = ?", year).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("ORD-%d-%06d", year, seq.LastSeq), nil
}
