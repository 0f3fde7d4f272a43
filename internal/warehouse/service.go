package warehouse

import (
	"errors"

	"mobilya-backend/internal/models"
	"mobilya-backend/internal/stock"

	"gorm.io/gorm"
)

var (
	ErrAlreadyProcessed   = errors.New("talep zaten işlenmiş")
	ErrNotAssigned        = errors.New("bu talep size atanmamış")
	ErrOrderNotCollectable = errors.New("sipariş depo toplaması için uygun durumda değil")
	ErrWrongItemKind      = errors.New("sipariş tipiyle uyumsuz stok kalemi")
	ErrEmptySnapshot      = errors.New("kısmi kabul için ayrılan parça listesi boş olamaz")
)

// AcceptProductionInward: Bekleyen parça talebini onaylar. Depo sınıfı
// stoktan düşer, talebin üretim lokasyonuna ekler, her düşüş için TRANSFER
// hareketi yazar ve talebi ACCEPTED işaretler — hepsi tek transaction.
func AcceptProductionInward(db *gorm.DB, inwardID uint, actor *models.User) (*models.ProductionInward, error) {
	var inward models.ProductionInward

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&inward, "id = ?", inwardID).Error; err != nil {
			return err
		}

		if inward.Status != models.InwardPending {
			return ErrAlreadyProcessed
		}
		if inward.AssignedToID != actor.ID {
			return ErrNotAssigned
		}

		deductions, err := stock.DeductAcrossLocations(tx, inward.PartName, inward.Quantity, models.LocationWarehouse)
		if err != nil {
			return err
		}

		if err := stock.Increment(tx, models.StockKindSparePart, inward.PartName, inward.Location,
			inward.Quantity, stock.Defaults{CreatedByID: &actor.ID, CreatedByRole: actor.Role}); err != nil {
			return err
		}

		for _, d := range deductions {
			movement := models.StockMovement{
				Kind:         models.StockKindSparePart,
				ItemName:     inward.PartName,
				FromLocation: d.Location,
				ToLocation:   inward.Location,
				Quantity:     d.Quantity,
				MovedByID:    actor.ID,
				Reason:       models.MovementReasonTransfer,
			}
			if err := tx.Create(&movement).Error; err != nil {
				return err
			}
		}

		inward.Status = models.InwardAccepted
		inward.ApprovedByID = &actor.ID
		return tx.Model(&inward).Updates(map[string]interface{}{
			"status":         models.InwardAccepted,
			"approved_by_id": actor.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return &inward, nil
}

// PickItem: Depo toplamasında tek kalem — stok kaydı + düşülecek adet.
type PickItem struct {
	InventoryID uint `json:"inventory_id" validate:"required"`
	Quantity    int  `json:"quantity" validate:"required,gt=0"`
}

// DispatchOrderParts: Siparişin parçalarını depodan toplar. Her kalem kendi
// koşullu düşüşüyle işlenir; biri bile yetersizse transaction geri alınır ve
// hiçbir stok değişmez. Başarıda sipariş WAREHOUSE_COLLECTED durumuna geçer.
func DispatchOrderParts(db *gorm.DB, orderPK uint, items []PickItem, actor *models.User) (*models.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptySnapshot
	}

	var o models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&o, "id = ?", orderPK).Error; err != nil {
			return err
		}

		// Depo aynı siparişi ikinci kez işlemesin
		if o.Progress != models.ProgressOrderPlaced && o.Progress != models.ProgressPartial {
			return ErrOrderNotCollectable
		}

		for _, item := range items {
			var rec models.StockRecord
			if err := tx.First(&rec, "id = ?", item.InventoryID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return stock.ErrSourceNotFound
				}
				return err
			}

			// SPARE sipariş yalnızca yedek parça tüketir; FULL siparişin
			// kurulumu için tam sandalye stoğu eritilmez
			if o.OrderType == models.OrderTypeSpare && rec.Kind != models.StockKindSparePart {
				return ErrWrongItemKind
			}
			if o.OrderType == models.OrderTypeFull && rec.Kind == models.StockKindFullUnit {
				return ErrWrongItemKind
			}

			if err := stock.DecrementRecord(tx, rec.ID, item.Quantity); err != nil {
				return err
			}

			movement := models.StockMovement{
				Kind:         rec.Kind,
				ItemName:     rec.ItemName,
				FromLocation: rec.Location,
				ToLocation:   o.DispatchedTo,
				Quantity:     item.Quantity,
				MovedByID:    actor.ID,
				Reason:       models.MovementReasonDispatch,
			}
			if err := tx.Create(&movement).Error; err != nil {
				return err
			}
		}

		o.Progress = models.ProgressWarehouseCollected
		return tx.Model(&o).Update("progress", models.ProgressWarehouseCollected).Error
	})
	if err != nil {
		return nil, err
	}

	return &o, nil
}

// PartialAccept: Stok yetmediğinde ayrılan kalemlerin anlık görüntüsünü
// siparişe yazar ve PARTIAL durumuna alır. Stoğa DOKUNMAZ; eksik tamamlanınca
// toplama DispatchOrderParts ile yeniden yapılır.
func PartialAccept(db *gorm.DB, orderPK uint, buildable int, items models.PartSnapshot) (*models.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptySnapshot
	}

	var o models.Order
	if err := db.First(&o, "id = ?", orderPK).Error; err != nil {
		return nil, err
	}

	if o.Progress != models.ProgressOrderPlaced &&
		o.Progress != models.ProgressWarehouseCollected &&
		o.Progress != models.ProgressProductionCompleted {
		return nil, ErrOrderNotCollectable
	}

	if err := db.Model(&o).Updates(map[string]interface{}{
		"is_partial":            true,
		"partial_buildable_qty": buildable,
		"partial_parts":         items,
		"progress":              models.ProgressPartial,
	}).Error; err != nil {
		return nil, err
	}

	o.IsPartial = true
	o.PartialBuildableQty = buildable
	o.PartialParts = items
	o.Progress = models.ProgressPartial
	return &o, nil
}
