package order

import (
	"fmt"
	"testing"
	"time"

	"mobilya-backend/internal/models"
	"mobilya-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testOrderSeq int

func newTestOrder(t *testing.T, db *gorm.DB, typ models.OrderType, progress models.OrderProgress) *models.Order {
	t.Helper()
	testOrderSeq++
	o := models.Order{
		OrderID:       fmt.Sprintf("ORD-2026-%06d", testOrderSeq),
		OrderType:     typ,
		DispatchedTo:  "Mağaza Kadıköy",
		ChairModel:    "Klasik-01",
		Quantity:      10,
		OrderDate:     time.Now(),
		DeliveryDate:  time.Now().AddDate(0, 1, 0),
		Progress:      progress,
		CreatedByID:   1,
		SalesPersonID: 1,
	}
	require.NoError(t, db.Create(&o).Error)
	return &o
}

func actor(role models.UserRole) *models.User {
	return &models.User{ID: 1, Name: "test", Role: role}
}

func TestFullChainHappyPath(t *testing.T) {
	db := testutil.OpenTestDB(t)
	o := newTestOrder(t, db, models.OrderTypeFull, models.ProgressProductionPending)
	workerID := uint(7)
	o.ProductionWorkerID = &workerID
	require.NoError(t, db.Model(o).Update("production_worker_id", workerID).Error)

	admin := actor(models.RoleAdmin)
	steps := []models.OrderProgress{
		models.ProgressProductionInProgress,
		models.ProgressProductionCompleted,
		models.ProgressWarehouseCollected,
		models.ProgressFittingInProgress,
		models.ProgressFittingCompleted,
		models.ProgressReadyForDispatch,
		models.ProgressDispatched,
	}
	for _, step := range steps {
		require.NoError(t, ApplyProgress(db, o, step, admin), "step %s", step)
	}

	var saved models.Order
	require.NoError(t, db.First(&saved, "id = ?", o.ID).Error)
	assert.Equal(t, models.ProgressDispatched, saved.Progress)
	assert.NotNil(t, saved.ProductionCompletedAt)
}

func TestSkipStepRejected(t *testing.T) {
	db := testutil.OpenTestDB(t)
	o := newTestOrder(t, db, models.OrderTypeFull, models.ProgressProductionPending)

	err := ApplyProgress(db, o, models.ProgressWarehouseCollected, actor(models.RoleAdmin))
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)

	var saved models.Order
	require.NoError(t, db.First(&saved, "id = ?", o.ID).Error)
	assert.Equal(t, models.ProgressProductionPending, saved.Progress)
}

func TestBackwardStepRejected(t *testing.T) {
	db := testutil.OpenTestDB(t)
	o := newTestOrder(t, db, models.OrderTypeSpare, models.ProgressFittingCompleted)

	err := ApplyProgress(db, o, models.ProgressWarehouseCollected, actor(models.RoleAdmin))
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
}

func TestUnknownProgressRejected(t *testing.T) {
	db := testutil.OpenTestDB(t)
	o := newTestOrder(t, db, models.OrderTypeFull, models.ProgressProductionPending)

	err := ApplyProgress(db, o, models.OrderProgress("TESLIM_EDILDI"), actor(models.RoleAdmin))
	assert.ErrorIs(t, err, ErrInvalidProgress)

	// Üretim durumları SPARE zincirinde tanımsızdır
	spare := newTestOrder(t, db, models.OrderTypeSpare, models.ProgressOrderPlaced)
	err = ApplyProgress(db, spare, models.ProgressProductionPending, actor(models.RoleAdmin))
	assert.ErrorIs(t, err, ErrInvalidProgress)
}

func TestRoleGating(t *testing.T) {
	db := testutil.OpenTestDB(t)

	// Sales yalnızca sevkiyatı kapatabilir
	o := newTestOrder(t, db, models.OrderTypeSpare, models.ProgressOrderPlaced)
	err := ApplyProgress(db, o, models.ProgressWarehouseCollected, actor(models.RoleSales))
	assert.ErrorIs(t, err, ErrRoleNotPermitted)

	// Aynı geçiş depo rolüyle geçer
	require.NoError(t, ApplyProgress(db, o, models.ProgressWarehouseCollected, actor(models.RoleWarehouse)))

	o2 := newTestOrder(t, db, models.OrderTypeSpare, models.ProgressReadyForDispatch)
	require.NoError(t, ApplyProgress(db, o2, models.ProgressDispatched, actor(models.RoleSales)))

	// Production kendi aşamasının dışına çıkamaz
	o3 := newTestOrder(t, db, models.OrderTypeFull, models.ProgressReadyForDispatch)
	err = ApplyProgress(db, o3, models.ProgressDispatched, actor(models.RoleProduction))
	assert.ErrorIs(t, err, ErrRoleNotPermitted)

	// Fitting montaj aşamalarını yürütür
	o4 := newTestOrder(t, db, models.OrderTypeSpare, models.ProgressWarehouseCollected)
	require.NoError(t, ApplyProgress(db, o4, models.ProgressFittingInProgress, actor(models.RoleFitting)))
	require.NoError(t, ApplyProgress(db, o4, models.ProgressFittingCompleted, actor(models.RoleFitting)))
	err = ApplyProgress(db, o4, models.ProgressReadyForDispatch, actor(models.RoleFitting))
	assert.ErrorIs(t, err, ErrRoleNotPermitted)

	// Warehouse üretim tamamlandı işaretleyemez
	o5 := newTestOrder(t, db, models.OrderTypeFull, models.ProgressProductionInProgress)
	err = ApplyProgress(db, o5, models.ProgressProductionCompleted, actor(models.RoleWarehouse))
	assert.ErrorIs(t, err, ErrRoleNotPermitted)
}

func TestWorkerRequiredBeforeCompletion(t *testing.T) {
	db := testutil.OpenTestDB(t)
	o := newTestOrder(t, db, models.OrderTypeFull, models.ProgressProductionInProgress)

	err := ApplyProgress(db, o, models.ProgressProductionCompleted, actor(models.RoleAdmin))
	assert.ErrorIs(t, err, ErrWorkerRequired)

	var saved models.Order
	require.NoError(t, db.First(&saved, "id = ?", o.ID).Error)
	assert.Equal(t, models.ProgressProductionInProgress, saved.Progress)
	assert.Nil(t, saved.ProductionCompletedAt)
}

func TestPartialEntryAndReturn(t *testing.T) {
	db := testutil.OpenTestDB(t)
	o := newTestOrder(t, db, models.OrderTypeSpare, models.ProgressOrderPlaced)
	o.PartialParts = models.PartSnapshot{{PartName: "ayak", Quantity: 4}}
	require.NoError(t, db.Model(o).Update("partial_parts", o.PartialParts).Error)

	require.NoError(t, ApplyProgress(db, o, models.ProgressPartial, actor(models.RoleWarehouse)))
	assert.True(t, o.IsPartial)

	// PARTIAL'dan yalnızca depo toplamasına dönülür
	err := ApplyProgress(db, o, models.ProgressDispatched, actor(models.RoleAdmin))
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)

	require.NoError(t, ApplyProgress(db, o, models.ProgressWarehouseCollected, actor(models.RoleWarehouse)))

	var saved models.Order
	require.NoError(t, db.First(&saved, "id = ?", o.ID).Error)
	assert.Equal(t, models.ProgressWarehouseCollected, saved.Progress)
}

func TestPartialRequiresSnapshot(t *testing.T) {
	db := testutil.OpenTestDB(t)
	o := newTestOrder(t, db, models.OrderTypeSpare, models.ProgressOrderPlaced)

	err := ApplyProgress(db, o, models.ProgressPartial, actor(models.RoleWarehouse))
	assert.ErrorIs(t, err, ErrPartialSnapshotRequired)
}

func TestPartialEntryFromInvalidState(t *testing.T) {
	db := testutil.OpenTestDB(t)
	o := newTestOrder(t, db, models.OrderTypeFull, models.ProgressProductionPending)
	o.PartialParts = models.PartSnapshot{{PartName: "ayak", Quantity: 4}}
	require.NoError(t, db.Model(o).Update("partial_parts", o.PartialParts).Error)

	err := ApplyProgress(db, o, models.ProgressPartial, actor(models.RoleWarehouse))
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
}

func TestEditableProgress(t *testing.T) {
	full := &models.Order{OrderType: models.OrderTypeFull, Progress: models.ProgressProductionPending}
	assert.True(t, EditableProgress(full))

	full.Progress = models.ProgressProductionInProgress
	assert.False(t, EditableProgress(full))

	spare := &models.Order{OrderType: models.OrderTypeSpare, Progress: models.ProgressOrderPlaced}
	assert.True(t, EditableProgress(spare))

	spare.Progress = models.ProgressPartial
	assert.False(t, EditableProgress(spare))
}
