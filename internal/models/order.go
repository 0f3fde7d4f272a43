package models

import "time"

type OrderType string

const (
	OrderTypeFull  OrderType = "FULL"
	OrderTypeSpare OrderType = "SPARE"
)

type OrderProgress string

const (
	ProgressOrderPlaced          OrderProgress = "ORDER_PLACED"
	ProgressProductionPending    OrderProgress = "PRODUCTION_PENDING"
	ProgressProductionInProgress OrderProgress = "PRODUCTION_IN_PROGRESS"
	ProgressProductionCompleted  OrderProgress = "PRODUCTION_COMPLETED"
	ProgressWarehouseCollected   OrderProgress = "WAREHOUSE_COLLECTED"
	ProgressFittingInProgress    OrderProgress = "FITTING_IN_PROGRESS"
	ProgressFittingCompleted     OrderProgress = "FITTING_COMPLETED"
	ProgressReadyForDispatch     OrderProgress = "READY_FOR_DISPATCH"
	ProgressDispatched           OrderProgress = "DISPATCHED"
	ProgressPartial              OrderProgress = "PARTIAL"
)

// Order: Sipariş kaydı. OrderID ilk kayıtta üretilir (ORD-<yıl>-<6 haneli
// sıra>) ve bir daha değişmez. Progress alanı yalnızca order paketindeki
// geçiş denetçisi üzerinden ilerler.
type Order struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OrderID string `gorm:"size:20;uniqueIndex;not null" json:"order_id"`

	OrderType    OrderType `gorm:"size:10;not null;default:FULL" json:"order_type"`
	DispatchedTo string    `gorm:"size:150;not null" json:"dispatched_to"`

	// Eski tek-kalem gösterim (geriye dönük uyumluluk)
	ChairModel  string `gorm:"size:100;not null" json:"chair_model"`
	ChairDetail string `gorm:"size:255" json:"chair_detail"`
	Quantity    int    `gorm:"not null" json:"quantity"`

	// Çok kalemli gösterim
	Items OrderItems `gorm:"type:jsonb" json:"items"`

	OrderDate    time.Time `gorm:"not null" json:"order_date"`
	DeliveryDate time.Time `gorm:"not null" json:"delivery_date"`
	Amount       float64   `gorm:"not null;default:0" json:"amount"`

	Progress  OrderProgress `gorm:"size:30;not null;index" json:"progress"`
	IsPartial bool          `gorm:"not null;default:false" json:"is_partial"`

	// Kısmi kabul anlık görüntüsü
	PartialBuildableQty int          `gorm:"not null;default:0" json:"partial_buildable_qty"`
	PartialParts        PartSnapshot `gorm:"type:jsonb" json:"partial_parts"`

	// Üretim takibi
	ProductionWorkerID    *uint      `json:"production_worker_id"`
	ProductionWorker      *User      `json:"production_worker,omitempty"`
	ProductionParts       PartTally  `gorm:"type:jsonb" json:"production_parts"`
	WorkerAssignedAt      *time.Time `json:"worker_assigned_at"`
	ProductionCompletedAt *time.Time `json:"production_completed_at"`

	CreatedByID   uint  `gorm:"not null" json:"created_by_id"`
	CreatedBy     *User `json:"created_by,omitempty"`
	SalesPersonID uint  `gorm:"not null;index" json:"sales_person_id"`
	SalesPerson   *User `json:"sales_person,omitempty"`
	VendorID      *uint `json:"vendor_id"`

	// Sevkiyat öncesi düzeltme penceresi
	Remark        string     `gorm:"size:255" json:"remark"`
	LastAmendedAt *time.Time `json:"last_amended_at"`
	AmendedByID   *uint      `json:"amended_by_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InitialProgress: Sipariş tipine göre başlangıç durumu. FULL siparişler
// üretim kuyruğunda, SPARE siparişler doğrudan depoda başlar.
func (t OrderType) InitialProgress() OrderProgress {
	if t == OrderTypeFull {
		return ProgressProductionPending
	}
	return ProgressOrderPlaced
}

// OrderSequence: Yıl başına sipariş numarası sayacı. ORD-<yıl>-<seq> üretimi
// bu satır üzerindeki atomik artırma ile yapılır.
type OrderSequence struct {
	Year    int `gorm:"primaryKey"`
	LastSeq int `gorm:"not null;default:0"`
}
