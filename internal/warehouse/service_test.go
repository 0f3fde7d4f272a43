package warehouse

import (
	"fmt"
	"testing"
	"time"

	"mobilya-backend/internal/models"
	"mobilya-backend/internal/stock"
	"mobilya-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var orderSeq int

func newOrder(t *testing.T, db *gorm.DB, typ models.OrderType, progress models.OrderProgress) *models.Order {
	t.Helper()
	orderSeq++
	o := models.Order{
		OrderID:       fmt.Sprintf("ORD-2026-%06d", orderSeq),
		OrderType:     typ,
		DispatchedTo:  "Mağaza Moda",
		ChairModel:    "Klasik-01",
		Quantity:      5,
		OrderDate:     time.Now(),
		DeliveryDate:  time.Now().AddDate(0, 1, 0),
		Progress:      progress,
		CreatedByID:   1,
		SalesPersonID: 1,
	}
	require.NoError(t, db.Create(&o).Error)
	return &o
}

func newUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()
	u := models.User{
		Name:         fmt.Sprintf("test-%s-%d", role, time.Now().UnixNano()),
		Email:        fmt.Sprintf("%s-%d@test.local", role, time.Now().UnixNano()),
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func seedStock(t *testing.T, db *gorm.DB, kind models.StockKind, name, location string, qty int) *models.StockRecord {
	t.Helper()
	rec := models.StockRecord{Kind: kind, ItemName: name, Location: location, Quantity: qty}
	require.NoError(t, db.Create(&rec).Error)
	return &rec
}

func stockQty(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var rec models.StockRecord
	require.NoError(t, db.First(&rec, "id = ?", id).Error)
	return rec.Quantity
}

func newInward(t *testing.T, db *gorm.DB, partName string, qty int, assignedTo uint) *models.ProductionInward {
	t.Helper()
	inward := models.ProductionInward{
		PartName:     partName,
		Quantity:     qty,
		Location:     "PROD_1",
		Status:       models.InwardPending,
		CreatedByID:  1,
		AssignedToID: assignedTo,
	}
	require.NoError(t, db.Create(&inward).Error)
	return &inward
}

func TestAcceptProductionInward(t *testing.T) {
	db := testutil.OpenTestDB(t)
	keeper := newUser(t, db, models.RoleWarehouse)
	depot := seedStock(t, db, models.StockKindSparePart, "ayak", "DEPO_A", 10)
	inward := newInward(t, db, "ayak", 6, keeper.ID)

	accepted, err := AcceptProductionInward(db, inward.ID, keeper)
	require.NoError(t, err)
	assert.Equal(t, models.InwardAccepted, accepted.Status)

	assert.Equal(t, 4, stockQty(t, db, depot.ID))

	var prodRec models.StockRecord
	require.NoError(t, db.First(&prodRec, "location = ? AND item_name = ?", "PROD_1", "ayak").Error)
	assert.Equal(t, 6, prodRec.Quantity)
	assert.Equal(t, models.LocationProduction, prodRec.LocationClass)

	var saved models.ProductionInward
	require.NoError(t, db.First(&saved, "id = ?", inward.ID).Error)
	assert.Equal(t, models.InwardAccepted, saved.Status)
	require.NotNil(t, saved.ApprovedByID)
	assert.Equal(t, keeper.ID, *saved.ApprovedByID)

	var movements []models.StockMovement
	require.NoError(t, db.Find(&movements).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, models.MovementReasonTransfer, movements[0].Reason)
	assert.Equal(t, "DEPO_A", movements[0].FromLocation)
	assert.Equal(t, "PROD_1", movements[0].ToLocation)
}

func TestAcceptProductionInwardAlreadyProcessed(t *testing.T) {
	db := testutil.OpenTestDB(t)
	keeper := newUser(t, db, models.RoleWarehouse)
	seedStock(t, db, models.StockKindSparePart, "ayak", "DEPO_A", 20)
	inward := newInward(t, db, "ayak", 5, keeper.ID)

	_, err := AcceptProductionInward(db, inward.ID, keeper)
	require.NoError(t, err)

	_, err = AcceptProductionInward(db, inward.ID, keeper)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestAcceptProductionInwardNotAssigned(t *testing.T) {
	db := testutil.OpenTestDB(t)
	keeper := newUser(t, db, models.RoleWarehouse)
	other := newUser(t, db, models.RoleWarehouse)
	seedStock(t, db, models.StockKindSparePart, "ayak", "DEPO_A", 20)
	inward := newInward(t, db, "ayak", 5, keeper.ID)

	_, err := AcceptProductionInward(db, inward.ID, other)
	assert.ErrorIs(t, err, ErrNotAssigned)
}

func TestAcceptProductionInwardInsufficient(t *testing.T) {
	db := testutil.OpenTestDB(t)
	keeper := newUser(t, db, models.RoleWarehouse)
	depot := seedStock(t, db, models.StockKindSparePart, "ayak", "DEPO_A", 3)
	inward := newInward(t, db, "ayak", 6, keeper.ID)

	_, err := AcceptProductionInward(db, inward.ID, keeper)
	assert.ErrorIs(t, err, stock.ErrInsufficientStock)

	assert.Equal(t, 3, stockQty(t, db, depot.ID))

	var saved models.ProductionInward
	require.NoError(t, db.First(&saved, "id = ?", inward.ID).Error)
	assert.Equal(t, models.InwardPending, saved.Status)
}

func TestDispatchOrderParts(t *testing.T) {
	db := testutil.OpenTestDB(t)
	keeper := newUser(t, db, models.RoleWarehouse)
	o := newOrder(t, db, models.OrderTypeSpare, models.ProgressOrderPlaced)

	ayak := seedStock(t, db, models.StockKindSparePart, "ayak", "DEPO_A", 20)
	vida := seedStock(t, db, models.StockKindSparePart, "vida", "DEPO_B", 40)

	updated, err := DispatchOrderParts(db, o.ID, []PickItem{
		{InventoryID: ayak.ID, Quantity: 8},
		{InventoryID: vida.ID, Quantity: 16},
	}, keeper)
	require.NoError(t, err)

	assert.Equal(t, models.ProgressWarehouseCollected, updated.Progress)
	assert.Equal(t, 12, stockQty(t, db, ayak.ID))
	assert.Equal(t, 24, stockQty(t, db, vida.ID))

	var movements []models.StockMovement
	require.NoError(t, db.Find(&movements).Error)
	require.Len(t, movements, 2)
	for _, m := range movements {
		assert.Equal(t, models.MovementReasonDispatch, m.Reason)
		assert.Equal(t, "Mağaza Moda", m.ToLocation)
	}
}

func TestDispatchOrderPartsInsufficientRollsBack(t *testing.T) {
	db := testutil.OpenTestDB(t)
	keeper := newUser(t, db, models.RoleWarehouse)
	o := newOrder(t, db, models.OrderTypeSpare, models.ProgressOrderPlaced)

	ayak := seedStock(t, db, models.StockKindSparePart, "ayak", "DEPO_A", 20)
	vida := seedStock(t, db, models.StockKindSparePart, "vida", "DEPO_B", 3)

	_, err := DispatchOrderParts(db, o.ID, []PickItem{
		{InventoryID: ayak.ID, Quantity: 8},
		{InventoryID: vida.ID, Quantity: 16},
	}, keeper)
	assert.ErrorIs(t, err, stock.ErrInsufficientStock)

	// İlk kalemin düşüşü de geri alınır, sipariş yerinde kalır
	assert.Equal(t, 20, stockQty(t, db, ayak.ID))
	assert.Equal(t, 3, stockQty(t, db, vida.ID))

	var saved models.Order
	require.NoError(t, db.First(&saved, "id = ?", o.ID).Error)
	assert.Equal(t, models.ProgressOrderPlaced, saved.Progress)
}

func TestDispatchOrderPartsWrongKind(t *testing.T) {
	db := testutil.OpenTestDB(t)
	keeper := newUser(t, db, models.RoleWarehouse)
	o := newOrder(t, db, models.OrderTypeSpare, models.ProgressOrderPlaced)

	fullUnit := seedStock(t, db, models.StockKindFullUnit, "Klasik-01", "DEPO_A", 5)

	_, err := DispatchOrderParts(db, o.ID, []PickItem{{InventoryID: fullUnit.ID, Quantity: 1}}, keeper)
	assert.ErrorIs(t, err, ErrWrongItemKind)
	assert.Equal(t, 5, stockQty(t, db, fullUnit.ID))
}

func TestDispatchOrderPartsWrongState(t *testing.T) {
	db := testutil.OpenTestDB(t)
	keeper := newUser(t, db, models.RoleWarehouse)
	o := newOrder(t, db, models.OrderTypeSpare, models.ProgressFittingInProgress)
	rec := seedStock(t, db, models.StockKindSparePart, "ayak", "DEPO_A", 20)

	_, err := DispatchOrderParts(db, o.ID, []PickItem{{InventoryID: rec.ID, Quantity: 1}}, keeper)
	assert.ErrorIs(t, err, ErrOrderNotCollectable)
}

func TestDispatchOrderPartsFromPartial(t *testing.T) {
	db := testutil.OpenTestDB(t)
	keeper := newUser(t, db, models.RoleWarehouse)
	o := newOrder(t, db, models.OrderTypeSpare, models.ProgressPartial)
	rec := seedStock(t, db, models.StockKindSparePart, "ayak", "DEPO_A", 20)

	updated, err := DispatchOrderParts(db, o.ID, []PickItem{{InventoryID: rec.ID, Quantity: 5}}, keeper)
	require.NoError(t, err)
	assert.Equal(t, models.ProgressWarehouseCollected, updated.Progress)
	assert.Equal(t, 15, stockQty(t, db, rec.ID))
}

func TestPartialAccept(t *testing.T) {
	db := testutil.OpenTestDB(t)
	o := newOrder(t, db, models.OrderTypeSpare, models.ProgressOrderPlaced)
	rec := seedStock(t, db, models.StockKindSparePart, "ayak", "DEPO_A", 4)

	snapshot := models.PartSnapshot{{PartName: "ayak", Quantity: 4}}
	updated, err := PartialAccept(db, o.ID, 1, snapshot)
	require.NoError(t, err)

	assert.Equal(t, models.ProgressPartial, updated.Progress)
	assert.True(t, updated.IsPartial)
	assert.Equal(t, 1, updated.PartialBuildableQty)
	assert.Equal(t, snapshot, updated.PartialParts)

	// Kısmi kabul stoğa dokunmaz
	assert.Equal(t, 4, stockQty(t, db, rec.ID))

	var saved models.Order
	require.NoError(t, db.First(&saved, "id = ?", o.ID).Error)
	assert.Equal(t, models.ProgressPartial, saved.Progress)
	assert.Equal(t, snapshot, saved.PartialParts)
}

func TestPartialAcceptGuards(t *testing.T) {
	db := testutil.OpenTestDB(t)

	o := newOrder(t, db, models.OrderTypeSpare, models.ProgressOrderPlaced)
	_, err := PartialAccept(db, o.ID, 1, models.PartSnapshot{})
	assert.ErrorIs(t, err, ErrEmptySnapshot)

	dispatched := newOrder(t, db, models.OrderTypeSpare, models.ProgressDispatched)
	_, err = PartialAccept(db, dispatched.ID, 1, models.PartSnapshot{{PartName: "ayak", Quantity: 1}})
	assert.ErrorIs(t, err, ErrOrderNotCollectable)
}
