package order

import (
	"errors"
	"time"

	"mobilya-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInvalidProgress         = errors.New("geçersiz durum değeri")
	ErrRoleNotPermitted        = errors.New("bu rolün istenen duruma geçiş yetkisi yok")
	ErrTransitionNotAllowed    = errors.New("mevcut durumdan istenen duruma geçiş yok")
	ErrWorkerRequired          = errors.New("üretim tamamlanmadan önce üretim personeli atanmış olmalı")
	ErrPartialSnapshotRequired = errors.New("kısmi duruma geçiş için ayrılan parça listesi zorunlu")
	ErrOrderLocked             = errors.New("sipariş bu aşamada düzenlenemez")
)

// Sipariş tipine göre sabit ilerleme zinciri. PARTIAL zincir dışıdır;
// kurallı giriş/çıkış kenarları aşağıda.
var fullChain = []models.OrderProgress{
	models.ProgressProductionPending,
	models.ProgressProductionInProgress,
	models.ProgressProductionCompleted,
	models.ProgressWarehouseCollected,
	models.ProgressFittingInProgress,
	models.ProgressFittingCompleted,
	models.ProgressReadyForDispatch,
	models.ProgressDispatched,
}

var spareChain = []models.OrderProgress{
	models.ProgressOrderPlaced,
	models.ProgressWarehouseCollected,
	models.ProgressFittingInProgress,
	models.ProgressFittingCompleted,
	models.ProgressReadyForDispatch,
	models.ProgressDispatched,
}

func chainFor(t models.OrderType) []models.OrderProgress {
	if t == models.OrderTypeFull {
		return fullChain
	}
	return spareChain
}

// partialSources: PARTIAL durumuna hangi durumlardan girilebilir.
func partialSources(t models.OrderType) []models.OrderProgress {
	if t == models.OrderTypeFull {
		return []models.OrderProgress{models.ProgressProductionCompleted, models.ProgressWarehouseCollected}
	}
	return []models.OrderProgress{models.ProgressOrderPlaced, models.ProgressWarehouseCollected}
}

// IsKnownProgress: Durum değeri bu sipariş tipi için tanımlı mı? Tanımsız
// değer rolden bağımsız reddedilir.
func IsKnownProgress(t models.OrderType, p models.OrderProgress) bool {
	if p == models.ProgressPartial {
		return true
	}
	for _, s := range chainFor(t) {
		if s == p {
			return true
		}
	}
	return false
}

// roleCanTarget: Rol bazlı hedef durum yetkisi. Admin her kurallı kenarı
// kullanabilir; sales yalnızca sevkiyatı kapatır; production ve fitting kendi
// aşamalarında kalır; warehouse toplama sonrası tüm akışı yürütür.
func roleCanTarget(role models.UserRole, target models.OrderProgress) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleSales:
		return target == models.ProgressDispatched
	case models.RoleProduction:
		switch target {
		case models.ProgressProductionPending,
			models.ProgressProductionInProgress,
			models.ProgressProductionCompleted:
			return true
		}
		return false
	case models.RoleFitting:
		switch target {
		case models.ProgressFittingInProgress,
			models.ProgressFittingCompleted:
			return true
		}
		return false
	case models.RoleWarehouse:
		switch target {
		case models.ProgressWarehouseCollected,
			models.ProgressFittingInProgress,
			models.ProgressFittingCompleted,
			models.ProgressReadyForDispatch,
			models.ProgressDispatched,
			models.ProgressPartial:
			return true
		}
		return false
	default:
		return false
	}
}

// ApplyProgress: Durum geçişini doğrular ve uygular. Kurallar:
//   - hedef durum sipariş tipi için tanımlı olmalı,
//   - rol hedef duruma yetkili olmalı,
//   - geçiş ya zincirdeki bir sonraki adım, ya PARTIAL'a kurallı giriş,
//     ya da PARTIAL'dan WAREHOUSE_COLLECTED'a dönüş olmalı,
//   - PRODUCTION_COMPLETED için üretim personeli atanmış olmalı,
//   - PARTIAL için ayrılan parça anlık görüntüsü dolu olmalı.
func ApplyProgress(db *gorm.DB, o *models.Order, target models.OrderProgress, actor *models.User) error {
	if !IsKnownProgress(o.OrderType, target) {
		return ErrInvalidProgress
	}
	if !roleCanTarget(actor.Role, target) {
		return ErrRoleNotPermitted
	}

	if err := checkEdge(o, target); err != nil {
		return err
	}

	if target == models.ProgressProductionCompleted && o.ProductionWorkerID == nil {
		return ErrWorkerRequired
	}

	updates := map[string]interface{}{"progress": target}

	switch target {
	case models.ProgressPartial:
		if len(o.PartialParts) == 0 {
			return ErrPartialSnapshotRequired
		}
		o.IsPartial = true
		updates["is_partial"] = true
	case models.ProgressProductionCompleted:
		now := time.Now()
		o.ProductionCompletedAt = &now
		updates["production_completed_at"] = now
	}

	if err := db.Model(o).Updates(updates).Error; err != nil {
		return err
	}

	o.Progress = target
	return nil
}

func checkEdge(o *models.Order, target models.OrderProgress) error {
	if target == models.ProgressPartial {
		for _, s := range partialSources(o.OrderType) {
			if o.Progress == s {
				return nil
			}
		}
		return ErrTransitionNotAllowed
	}

	if o.Progress == models.ProgressPartial {
		// Eksik stok tamamlanınca akışa depo toplamasından devam edilir
		if target == models.ProgressWarehouseCollected {
			return nil
		}
		return ErrTransitionNotAllowed
	}

	chain := chainFor(o.OrderType)
	for i, s := range chain {
		if s == o.Progress {
			if i+1 < len(chain) && chain[i+1] == target {
				return nil
			}
			return ErrTransitionNotAllowed
		}
	}
	return ErrTransitionNotAllowed
}

// EditableProgress: Kimlik alanları (hedef, tarihler, kalemler) yalnızca
// başlangıç durumundayken düzenlenebilir.
func EditableProgress(o *models.Order) bool {
	return o.Progress == o.OrderType.InitialProgress()
}
