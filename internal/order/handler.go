package order

import (
	"errors"
	"fmt"
	"time"

	"mobilya-backend/internal/activity"
	"mobilya-backend/internal/auth"
	"mobilya-backend/internal/database"
	"mobilya-backend/internal/models"
	"mobilya-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateOrderRequest struct {
	OrderType     models.OrderType   `json:"order_type" validate:"required,oneof=FULL SPARE"`
	DispatchedTo  string             `json:"dispatched_to" validate:"required"`
	ChairModel    string             `json:"chair_model" validate:"required"`
	ChairDetail   string             `json:"chair_detail"`
	Quantity      int                `json:"quantity" validate:"required,gt=0"`
	Items         []models.OrderItem `json:"items"`
	OrderDate     string             `json:"order_date" validate:"required"`
	DeliveryDate  string             `json:"delivery_date" validate:"required"`
	Amount        float64            `json:"amount" validate:"gte=0"`
	IsPartial     bool               `json:"is_partial"`
	SalesPersonID *uint              `json:"sales_person_id"` // admin için zorunlu
	VendorID      *uint              `json:"vendor_id"`
}

type UpdateOrderRequest struct {
	DispatchedTo *string            `json:"dispatched_to"`
	ChairModel   *string            `json:"chair_model"`
	ChairDetail  *string            `json:"chair_detail"`
	Quantity     *int               `json:"quantity"`
	Items        []models.OrderItem `json:"items"`
	OrderDate    *string            `json:"order_date"`
	DeliveryDate *string            `json:"delivery_date"`
	Amount       *float64           `json:"amount"`
}

type UpdateProgressRequest struct {
	Progress models.OrderProgress `json:"progress" validate:"required"`
}

type AssignWorkerRequest struct {
	WorkerID uint `json:"worker_id" validate:"required"`
}

type AmendOrderRequest struct {
	DispatchedTo *string `json:"dispatched_to"`
	DeliveryDate *string `json:"delivery_date"`
	Remark       *string `json:"remark"`
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func mapProgressError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidProgress):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrRoleNotPermitted):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, ErrTransitionNotAllowed),
		errors.Is(err, ErrWorkerRequired),
		errors.Is(err, ErrPartialSnapshotRequired),
		errors.Is(err, ErrOrderLocked):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Sipariş durumu güncellenemedi")
	}
}

// POST /api/orders
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		orderDate, err := parseDate(body.OrderDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "order_date formatı 'YYYY-MM-DD' olmalı")
		}
		deliveryDate, err := parseDate(body.DeliveryDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "delivery_date formatı 'YYYY-MM-DD' olmalı")
		}

		// Admin sipariş açarken satışçı atamak zorunda; sales kendine açar
		var salesPersonID uint
		switch user.Role {
		case models.RoleAdmin:
			if body.SalesPersonID == nil {
				return fiber.NewError(fiber.StatusBadRequest, "Admin sipariş açarken satış personeli atamalı")
			}
			salesPersonID = *body.SalesPersonID
		default:
			salesPersonID = user.ID
		}

		o := models.Order{
			OrderType:     body.OrderType,
			DispatchedTo:  body.DispatchedTo,
			ChairModel:    body.ChairModel,
			ChairDetail:   body.ChairDetail,
			Quantity:      body.Quantity,
			Items:         body.Items,
			OrderDate:     orderDate,
			DeliveryDate:  deliveryDate,
			Amount:        body.Amount,
			IsPartial:     body.IsPartial,
			Progress:      body.OrderType.InitialProgress(),
			CreatedByID:   user.ID,
			SalesPersonID: salesPersonID,
			VendorID:      body.VendorID,
		}

		// Sipariş numarası üretimi ve kayıt aynı transaction'da
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			orderID, err := NextOrderID(tx, time.Now().Year())
			if err != nil {
				return err
			}
			o.OrderID = orderID
			return tx.Create(&o).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş oluşturulamadı")
		}

		activity.WriteLog(activity.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			UserRole:    user.Role,
			Action:      "ORDER_CREATE",
			Module:      "Order",
			EntityType:  "Order",
			EntityID:    o.ID,
			Description: fmt.Sprintf("Sipariş oluşturuldu: %s (%d adet %s)", o.OrderID, o.Quantity, o.ChairModel),
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"message": "Sipariş oluşturuldu",
			"order":   o,
		})
	}
}

// GET /api/orders — rol bazlı filtre: sales kendi siparişlerini,
// warehouse kısmi olmayanları görür
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		query := database.DB.Model(&models.Order{}).
			Preload("CreatedBy").
			Preload("SalesPerson").
			Preload("ProductionWorker").
			Order("created_at DESC")

		switch user.Role {
		case models.RoleSales:
			query = query.Where("sales_person_id = ?", user.ID)
		case models.RoleWarehouse:
			query = query.Where("is_partial = ?", false)
		}

		if progress := c.Query("progress"); progress != "" {
			query = query.Where("progress = ?", progress)
		}

		var orders []models.Order
		if err := query.Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		return c.JSON(fiber.Map{"success": true, "orders": orders})
	}
}

// GET /api/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var o models.Order
		if err := database.DB.
			Preload("CreatedBy").
			Preload("SalesPerson").
			Preload("ProductionWorker").
			First(&o, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		return c.JSON(fiber.Map{"success": true, "order": o})
	}
}

// GET /api/orders/by-order-id/:orderId
func GetOrderByOrderIDHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var o models.Order
		if err := database.DB.
			Preload("CreatedBy").
			Preload("SalesPerson").
			First(&o, "order_id = ?", c.Params("orderId")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		return c.JSON(fiber.Map{"success": true, "order": o})
	}
}

// PUT /api/orders/:id — yalnızca başlangıç durumunda
func UpdateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var o models.Order
		if err := database.DB.First(&o, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		if !EditableProgress(&o) {
			return fiber.NewError(fiber.StatusBadRequest, ErrOrderLocked.Error())
		}

		var body UpdateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		updates := map[string]interface{}{}
		if body.DispatchedTo != nil {
			updates["dispatched_to"] = *body.DispatchedTo
		}
		if body.ChairModel != nil {
			updates["chair_model"] = *body.ChairModel
		}
		if body.ChairDetail != nil {
			updates["chair_detail"] = *body.ChairDetail
		}
		if body.Quantity != nil {
			if *body.Quantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "quantity 0'dan büyük olmalı")
			}
			updates["quantity"] = *body.Quantity
		}
		if body.Items != nil {
			updates["items"] = models.OrderItems(body.Items)
		}
		if body.OrderDate != nil {
			d, err := parseDate(*body.OrderDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "order_date formatı 'YYYY-MM-DD' olmalı")
			}
			updates["order_date"] = d
		}
		if body.DeliveryDate != nil {
			d, err := parseDate(*body.DeliveryDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "delivery_date formatı 'YYYY-MM-DD' olmalı")
			}
			updates["delivery_date"] = d
		}
		if body.Amount != nil {
			updates["amount"] = *body.Amount
		}
		if len(updates) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Güncellenecek alan yok")
		}

		if err := database.DB.Model(&o).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş güncellenemedi")
		}

		activity.WriteLog(activity.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			UserRole:    user.Role,
			Action:      "ORDER_UPDATE",
			Module:      "Order",
			EntityType:  "Order",
			EntityID:    o.ID,
			Description: fmt.Sprintf("Sipariş güncellendi: %s", o.OrderID),
		})

		return c.JSON(fiber.Map{"success": true, "message": "Sipariş güncellendi", "order": o})
	}
}

// DELETE /api/orders/:id — admin; red edilen siparişin karşılığı
func DeleteOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var o models.Order
		if err := database.DB.First(&o, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		if err := database.DB.Delete(&o).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş silinemedi")
		}

		activity.WriteLog(activity.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			UserRole:    user.Role,
			Action:      "ORDER_DELETE",
			Module:      "Order",
			EntityType:  "Order",
			EntityID:    o.ID,
			Description: fmt.Sprintf("Sipariş silindi: %s", o.OrderID),
		})

		return c.JSON(fiber.Map{"success": true, "message": "Sipariş silindi"})
	}
}

// PATCH /api/orders/:id/progress — rol kapılı durum geçişi
func UpdateProgressHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body UpdateProgressRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		var o models.Order
		if err := database.DB.First(&o, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		previous := o.Progress
		if err := ApplyProgress(database.DB, &o, body.Progress, user); err != nil {
			return mapProgressError(err)
		}

		activity.WriteLog(activity.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			UserRole:    user.Role,
			Action:      "ORDER_PROGRESS",
			Module:      "Order",
			EntityType:  "Order",
			EntityID:    o.ID,
			Description: fmt.Sprintf("Sipariş %s: %s -> %s", o.OrderID, previous, o.Progress),
		})

		return c.JSON(fiber.Map{"success": true, "order": o})
	}
}

// PUT /api/orders/:id/assign-production
func AssignProductionWorkerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body AssignWorkerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		var worker models.User
		if err := database.DB.First(&worker, "id = ?", body.WorkerID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Üretim personeli bulunamadı")
		}
		if worker.Role != models.RoleProduction {
			return fiber.NewError(fiber.StatusBadRequest, "Atanan kullanıcı üretim personeli değil")
		}

		var o models.Order
		if err := database.DB.First(&o, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		if o.Progress != models.ProgressProductionPending && o.Progress != models.ProgressProductionInProgress {
			return fiber.NewError(fiber.StatusBadRequest, "Sipariş üretim aşamasında değil")
		}

		now := time.Now()
		if err := database.DB.Model(&o).Updates(map[string]interface{}{
			"production_worker_id": worker.ID,
			"worker_assigned_at":   now,
		}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Personel atanamadı")
		}

		activity.WriteLog(activity.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			UserRole:    user.Role,
			Action:      "ASSIGN_PRODUCTION_WORKER",
			Module:      "Order",
			EntityType:  "Order",
			EntityID:    o.ID,
			Description: fmt.Sprintf("%s siparişine %s atandı", o.OrderID, worker.Name),
		})

		return c.JSON(fiber.Map{"success": true, "message": "Üretim personeli atandı"})
	}
}

// PUT /api/orders/:id/amend — sevkiyat öncesi dar düzeltme penceresi:
// yalnızca READY_FOR_DISPATCH durumunda hedef/teslim tarihi/not değişir
func AmendOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var o models.Order
		if err := database.DB.First(&o, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		if o.Progress != models.ProgressReadyForDispatch {
			return fiber.NewError(fiber.StatusBadRequest, "Düzeltme yalnızca sevkiyata hazır siparişlerde yapılabilir")
		}

		var body AmendOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		updates := map[string]interface{}{}
		if body.DispatchedTo != nil {
			updates["dispatched_to"] = *body.DispatchedTo
		}
		if body.DeliveryDate != nil {
			d, err := parseDate(*body.DeliveryDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "delivery_date formatı 'YYYY-MM-DD' olmalı")
			}
			updates["delivery_date"] = d
		}
		if body.Remark != nil {
			updates["remark"] = *body.Remark
		}
		if len(updates) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Güncellenecek alan yok")
		}

		now := time.Now()
		updates["last_amended_at"] = now
		updates["amended_by_id"] = user.ID

		if err := database.DB.Model(&o).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş düzeltilemedi")
		}

		activity.WriteLog(activity.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			UserRole:    user.Role,
			Action:      "ORDER_AMEND",
			Module:      "Order",
			EntityType:  "Order",
			EntityID:    o.ID,
			Description: fmt.Sprintf("Sevkiyat öncesi düzeltme: %s", o.OrderID),
		})

		return c.JSON(fiber.Map{"success": true, "message": "Sipariş düzeltildi", "order": o})
	}
}
