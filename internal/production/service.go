package production

import (
	"errors"
	"sort"

	"mobilya-backend/internal/models"
	"mobilya-backend/internal/stock"

	"gorm.io/gorm"
)

var (
	ErrNoPartsSelected        = errors.New("en az bir parça seçilmeli")
	ErrWorkerNotAssigned      = errors.New("siparişe üretim personeli atanmamış")
	ErrOrderNotInProduction   = errors.New("sipariş üretim aşamasında değil")
	ErrProductionExceedsOrder = errors.New("çıkışı yapılan parçalar sipariş adedini aşıyor")
	ErrBOMNotFound            = errors.New("bu sandalye modeli için parça listesi tanımlı değil")
)

// buildableFromTally: Kümülatif parça sayacından üretilebilir adet. Bir
// sandalye ancak HER parçası karşılandığında kurulabilir; sonuç sayaçtaki
// en düşük değerdir.
func buildableFromTally(tally models.PartTally) int {
	min := 0
	first := true
	for _, q := range tally {
		if first || q < min {
			min = q
			first = false
		}
	}
	if first {
		return 0
	}
	return min
}

// AcceptProductionOrder: Üretim kabulü. İstenen parçaları siparişin kümülatif
// sayacına ekler, birleşik sayacın ürettiği adet sipariş adedini aşarsa
// reddeder, sonra her parçayı üretim lokasyonlarındaki stoktan düşer ve
// siparişi PRODUCTION_IN_PROGRESS durumuna alır. 3-5. adımlar tek
// transaction'dır: tek bir parça düşüşü bile başarısız olursa hiçbir stok
// değişmez, sayaç güncellenmez.
func AcceptProductionOrder(db *gorm.DB, orderPK uint, parts map[string]int) (*models.Order, []stock.Deduction, error) {
	if len(parts) == 0 {
		return nil, nil, ErrNoPartsSelected
	}
	for _, q := range parts {
		if q <= 0 {
			return nil, nil, stock.ErrInvalidQuantity
		}
	}

	var o models.Order
	var allDeductions []stock.Deduction

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&o, "id = ?", orderPK).Error; err != nil {
			return err
		}

		if o.Progress != models.ProgressProductionPending && o.Progress != models.ProgressProductionInProgress {
			return ErrOrderNotInProduction
		}
		if o.ProductionWorkerID == nil {
			return ErrWorkerNotAssigned
		}

		merged := models.PartTally{}
		for name, q := range o.ProductionParts {
			merged[name] = q
		}
		for name, q := range parts {
			merged[name] += q
		}

		if buildableFromTally(merged) > o.Quantity {
			return ErrProductionExceedsOrder
		}

		// Deterministik sıra: parça adına göre
		names := make([]string, 0, len(parts))
		for name := range parts {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			deductions, err := stock.DeductAcrossLocations(tx, name, parts[name], models.LocationProduction)
			if err != nil {
				return err
			}
			allDeductions = append(allDeductions, deductions...)

			for _, d := range deductions {
				movement := models.StockMovement{
					Kind:         models.StockKindSparePart,
					ItemName:     name,
					FromLocation: d.Location,
					Quantity:     d.Quantity,
					MovedByID:    *o.ProductionWorkerID,
					Reason:       models.MovementReasonDispatch,
				}
				if err := tx.Create(&movement).Error; err != nil {
					return err
				}
			}
		}

		o.ProductionParts = merged
		o.Progress = models.ProgressProductionInProgress
		return tx.Model(&o).Updates(map[string]interface{}{
			"production_parts": merged,
			"progress":         models.ProgressProductionInProgress,
		}).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return &o, allDeductions, nil
}

// PartAvailability: Önizleme satırı — parça başına gereken ve mevcut.
type PartAvailability struct {
	PartName         string `json:"part_name"`
	RequiredPerChair int    `json:"required_per_chair"`
	RequiredTotal    int    `json:"required_total"`
	TotalAvailable   int    `json:"total_available"`
}

// ComputeAvailability: Modelin parça listesine göre lokasyonlar arası toplam
// yedek parça stoğunu toplar. Üretilebilir adet, parça başına
// (mevcut / sandalye başı gereken) değerlerinin en küçüğüdür.
func ComputeAvailability(db *gorm.DB, chairModel string, orderQty int) (int, []PartAvailability, error) {
	var bom models.ChairBOM
	if err := db.Preload("Parts").First(&bom, "chair_model = ?", chairModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, ErrBOMNotFound
		}
		return 0, nil, err
	}

	buildable := 0
	first := true
	preview := make([]PartAvailability, 0, len(bom.Parts))

	for _, part := range bom.Parts {
		perChair := part.QtyPerChair
		if perChair <= 0 {
			perChair = 1
		}

		var total int64
		if err := db.Model(&models.StockRecord{}).
			Where("kind = ? AND LOWER(item_name) = LOWER(?)", models.StockKindSparePart, part.PartName).
			Select("COALESCE(SUM(quantity), 0)").
			Scan(&total).Error; err != nil {
			return 0, nil, err
		}

		preview = append(preview, PartAvailability{
			PartName:         part.PartName,
			RequiredPerChair: perChair,
			RequiredTotal:    perChair * orderQty,
			TotalAvailable:   int(total),
		})

		partBuildable := int(total) / perChair
		if first || partBuildable < buildable {
			buildable = partBuildable
			first = false
		}
	}

	if first {
		return 0, nil, ErrBOMNotFound
	}
	return buildable, preview, nil
}
