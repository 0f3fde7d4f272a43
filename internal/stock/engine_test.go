package stock

import (
	"sync"
	"testing"

	"mobilya-backend/internal/models"
	"mobilya-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedRecord(t *testing.T, db *gorm.DB, kind models.StockKind, name, location string, qty int) *models.StockRecord {
	t.Helper()
	rec := models.StockRecord{Kind: kind, ItemName: name, Location: location, Quantity: qty}
	require.NoError(t, db.Create(&rec).Error)
	return &rec
}

func getQuantity(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var rec models.StockRecord
	require.NoError(t, db.First(&rec, "id = ?", id).Error)
	return rec.Quantity
}

func TestIncrementUpsert(t *testing.T) {
	db := testutil.OpenTestDB(t)

	err := Increment(db, models.StockKindSparePart, "ayak", "DEPO_A", 10, Defaults{MinQuantity: 2})
	require.NoError(t, err)

	var rec models.StockRecord
	require.NoError(t, db.First(&rec, "item_name = ?", "ayak").Error)
	assert.Equal(t, 10, rec.Quantity)
	assert.Equal(t, 2, rec.MinQuantity)
	assert.Equal(t, models.LocationWarehouse, rec.LocationClass)

	// İkinci çağrı aynı kayda ekler, varsayılanlara dokunmaz
	err = Increment(db, models.StockKindSparePart, "ayak", "DEPO_A", 5, Defaults{MinQuantity: 99})
	require.NoError(t, err)

	require.NoError(t, db.First(&rec, "id = ?", rec.ID).Error)
	assert.Equal(t, 15, rec.Quantity)
	assert.Equal(t, 2, rec.MinQuantity)

	var count int64
	db.Model(&models.StockRecord{}).Where("item_name = ?", "ayak").Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestIncrementRejectsNonPositive(t *testing.T) {
	db := testutil.OpenTestDB(t)

	assert.ErrorIs(t, Increment(db, models.StockKindSparePart, "ayak", "DEPO_A", 0, Defaults{}), ErrInvalidQuantity)
	assert.ErrorIs(t, Increment(db, models.StockKindSparePart, "ayak", "DEPO_A", -3, Defaults{}), ErrInvalidQuantity)
}

func TestDecrementInsufficient(t *testing.T) {
	db := testutil.OpenTestDB(t)
	rec := seedRecord(t, db, models.StockKindSparePart, "vida", "DEPO_A", 5)

	err := Decrement(db, models.StockKindSparePart, "vida", "DEPO_A", 10)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 5, getQuantity(t, db, rec.ID))
}

func TestDecrementConcurrentNeverNegative(t *testing.T) {
	db := testutil.OpenTestDB(t)
	rec := seedRecord(t, db, models.StockKindSparePart, "vida", "DEPO_A", 5)

	const workers = 10
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- Decrement(db, models.StockKindSparePart, "vida", "DEPO_A", 1)
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientStock)
		}
	}

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 0, getQuantity(t, db, rec.ID))
}

func TestTransferConservesTotal(t *testing.T) {
	db := testutil.OpenTestDB(t)
	source := seedRecord(t, db, models.StockKindSparePart, "kolçak", "WAREHOUSE_A", 50)

	updated, err := Transfer(db, source.ID, "PROD_1", 20, 1)
	require.NoError(t, err)
	assert.Equal(t, 30, updated.Quantity)
	assert.Equal(t, 30, getQuantity(t, db, source.ID))

	var dest models.StockRecord
	require.NoError(t, db.First(&dest, "location = ? AND item_name = ?", "PROD_1", "kolçak").Error)
	assert.Equal(t, 20, dest.Quantity)
	assert.Equal(t, models.LocationProduction, dest.LocationClass)

	var movements []models.StockMovement
	require.NoError(t, db.Find(&movements).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, models.MovementReasonTransfer, movements[0].Reason)
	assert.Equal(t, "WAREHOUSE_A", movements[0].FromLocation)
	assert.Equal(t, "PROD_1", movements[0].ToLocation)
	assert.Equal(t, 20, movements[0].Quantity)
}

func TestTransferInsufficientNoMutation(t *testing.T) {
	db := testutil.OpenTestDB(t)
	source := seedRecord(t, db, models.StockKindSparePart, "kolçak", "WAREHOUSE_A", 5)

	_, err := Transfer(db, source.ID, "PROD_1", 10, 1)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 5, getQuantity(t, db, source.ID))

	var count int64
	db.Model(&models.StockRecord{}).Where("location = ?", "PROD_1").Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&models.StockMovement{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestTransferSameLocation(t *testing.T) {
	db := testutil.OpenTestDB(t)
	source := seedRecord(t, db, models.StockKindSparePart, "kolçak", "DEPO_A", 10)

	_, err := Transfer(db, source.ID, "DEPO_A", 5, 1)
	assert.ErrorIs(t, err, ErrSameLocation)
}

func TestTransferSourceNotFound(t *testing.T) {
	db := testutil.OpenTestDB(t)

	_, err := Transfer(db, 9999, "PROD_1", 5, 1)
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestTransferMaxQuantityGuard(t *testing.T) {
	db := testutil.OpenTestDB(t)
	source := seedRecord(t, db, models.StockKindSparePart, "sırtlık", "DEPO_A", 30)

	max := 25
	dest := models.StockRecord{
		Kind: models.StockKindSparePart, ItemName: "sırtlık", Location: "DEPO_B",
		Quantity: 20, MaxQuantity: &max,
	}
	require.NoError(t, db.Create(&dest).Error)

	_, err := Transfer(db, source.ID, "DEPO_B", 10, 1)
	assert.ErrorIs(t, err, ErrMaxQuantityExceeded)
	assert.Equal(t, 30, getQuantity(t, db, source.ID))
	assert.Equal(t, 20, getQuantity(t, db, dest.ID))

	// Sınırın altında kalan transfer geçer
	_, err = Transfer(db, source.ID, "DEPO_B", 5, 1)
	require.NoError(t, err)
	assert.Equal(t, 25, getQuantity(t, db, dest.ID))
}

func TestDeductAcrossLocationsGreedyOrder(t *testing.T) {
	db := testutil.OpenTestDB(t)
	big := seedRecord(t, db, models.StockKindSparePart, "ayak", "PROD_A", 10)
	mid := seedRecord(t, db, models.StockKindSparePart, "ayak", "PROD_B", 7)
	small := seedRecord(t, db, models.StockKindSparePart, "ayak", "PROD_C", 3)

	var deductions []Deduction
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		deductions, err = DeductAcrossLocations(tx, "ayak", 15, models.LocationProduction)
		return err
	})
	require.NoError(t, err)

	// Miktarı en yüksek kayıttan başlanır
	require.Len(t, deductions, 2)
	assert.Equal(t, Deduction{RecordID: big.ID, Location: "PROD_A", Quantity: 10}, deductions[0])
	assert.Equal(t, Deduction{RecordID: mid.ID, Location: "PROD_B", Quantity: 5}, deductions[1])

	assert.Equal(t, 0, getQuantity(t, db, big.ID))
	assert.Equal(t, 2, getQuantity(t, db, mid.ID))
	assert.Equal(t, 3, getQuantity(t, db, small.ID))
}

func TestDeductAcrossLocationsCaseInsensitive(t *testing.T) {
	db := testutil.OpenTestDB(t)
	rec := seedRecord(t, db, models.StockKindSparePart, "Ayak", "PROD_A", 8)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := DeductAcrossLocations(tx, "AYAK", 8, models.LocationProduction)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 0, getQuantity(t, db, rec.ID))
}

func TestDeductAcrossLocationsInsufficientUntouched(t *testing.T) {
	db := testutil.OpenTestDB(t)
	a := seedRecord(t, db, models.StockKindSparePart, "ayak", "PROD_A", 4)
	b := seedRecord(t, db, models.StockKindSparePart, "ayak", "PROD_B", 3)
	// Depo sınıfındaki stok üretim düşüşüne katılmaz
	other := seedRecord(t, db, models.StockKindSparePart, "ayak", "DEPO_A", 100)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := DeductAcrossLocations(tx, "ayak", 8, models.LocationProduction)
		return err
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 4, getQuantity(t, db, a.ID))
	assert.Equal(t, 3, getQuantity(t, db, b.ID))
	assert.Equal(t, 100, getQuantity(t, db, other.ID))
}
