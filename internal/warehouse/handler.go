package warehouse

import (
	"errors"
	"fmt"

	"mobilya-backend/internal/activity"
	"mobilya-backend/internal/auth"
	"mobilya-backend/internal/database"
	"mobilya-backend/internal/models"
	"mobilya-backend/internal/production"
	"mobilya-backend/internal/stock"
	"mobilya-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DispatchPartsRequest struct {
	OrderPK uint       `json:"order_id" validate:"required"`
	Items   []PickItem `json:"items" validate:"required,min=1,dive"`
}

type PartialAcceptRequest struct {
	OrderPK   uint                `json:"order_id" validate:"required"`
	Buildable int                 `json:"buildable" validate:"gte=0"`
	Items     models.PartSnapshot `json:"items" validate:"required,min=1"`
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Geçersiz kimlik")
	}
	return id, nil
}

// GET /api/warehouse/production/inward/pending — kendisine atanan bekleyen talepler
func PendingInwardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var inwards []models.ProductionInward
		if err := database.DB.
			Preload("CreatedBy").
			Where("status = ? AND assigned_to_id = ?", models.InwardPending, userID).
			Order("created_at DESC").
			Find(&inwards).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bekleyen talepler listelenemedi")
		}

		return c.JSON(fiber.Map{"success": true, "data": inwards})
	}
}

// POST /api/warehouse/production/inward/:id/accept
func AcceptInwardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		inward, err := AcceptProductionInward(database.DB, id, user)
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Talep bulunamadı")
			case errors.Is(err, ErrAlreadyProcessed):
				return fiber.NewError(fiber.StatusConflict, err.Error())
			case errors.Is(err, ErrNotAssigned):
				return fiber.NewError(fiber.StatusForbidden, err.Error())
			case errors.Is(err, stock.ErrInsufficientStock):
				return fiber.NewError(fiber.StatusBadRequest, "Depoda yeterli stok yok")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Talep onaylanamadı")
			}
		}

		activity.WriteLog(activity.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			UserRole:    user.Role,
			Action:      "PRODUCTION_REQUEST_APPROVED",
			Module:      "Warehouse",
			EntityType:  "ProductionInward",
			EntityID:    inward.ID,
			Description: fmt.Sprintf("%d adet %s üretime aktarıldı (%s)", inward.Quantity, inward.PartName, inward.Location),
			Destination: inward.Location,
			Quantity:    inward.Quantity,
		})

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Stok üretime aktarıldı",
		})
	}
}

// GET /api/warehouse/orders/:id/pick-data — parça adına göre gruplanmış
// yedek parça stoğu, toplama ekranı için
func OrderPickDataHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var o models.Order
		if err := database.DB.First(&o, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		var spareStock []models.StockRecord
		if err := database.DB.
			Where("kind = ?", models.StockKindSparePart).
			Order("item_name ASC, location ASC").
			Find(&spareStock).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok okunamadı")
		}

		type pickLocation struct {
			InventoryID uint   `json:"inventory_id"`
			Location    string `json:"location"`
			Available   int    `json:"available"`
		}
		grouped := map[string][]pickLocation{}
		order := []string{}
		for _, rec := range spareStock {
			if _, ok := grouped[rec.ItemName]; !ok {
				order = append(order, rec.ItemName)
			}
			grouped[rec.ItemName] = append(grouped[rec.ItemName], pickLocation{
				InventoryID: rec.ID,
				Location:    rec.Location,
				Available:   rec.Quantity,
			})
		}

		parts := make([]fiber.Map, 0, len(order))
		for _, name := range order {
			parts = append(parts, fiber.Map{
				"part_name": name,
				"locations": grouped[name],
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"order":   o,
			"parts":   parts,
		})
	}
}

// POST /api/warehouse/orders/dispatch-parts
func DispatchPartsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body DispatchPartsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		o, err := DispatchOrderParts(database.DB, body.OrderPK, body.Items, user)
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
			case errors.Is(err, stock.ErrSourceNotFound):
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			case errors.Is(err, ErrOrderNotCollectable),
				errors.Is(err, ErrWrongItemKind),
				errors.Is(err, ErrEmptySnapshot),
				errors.Is(err, stock.ErrInvalidQuantity),
				errors.Is(err, stock.ErrInsufficientStock):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Toplama tamamlanamadı")
			}
		}

		activity.WriteLog(activity.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			UserRole:    user.Role,
			Action:      "WAREHOUSE_COLLECT",
			Module:      "Order",
			EntityType:  "Order",
			EntityID:    o.ID,
			Description: fmt.Sprintf("%s siparişinin parçaları toplandı", o.OrderID),
		})

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Parçalar montaja sevk edildi",
		})
	}
}

// POST /api/warehouse/orders/partial-accept — stok yetmediğinde anlık görüntü
func PartialAcceptHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body PartialAcceptRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		o, err := PartialAccept(database.DB, body.OrderPK, body.Buildable, body.Items)
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
			case errors.Is(err, ErrEmptySnapshot), errors.Is(err, ErrOrderNotCollectable):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Kısmi kabul kaydedilemedi")
			}
		}

		activity.WriteLog(activity.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			UserRole:    user.Role,
			Action:      "PARTIAL_ACCEPT",
			Module:      "Order",
			EntityType:  "Order",
			EntityID:    o.ID,
			Description: fmt.Sprintf("%s siparişi kısmi kabul edildi, üretilebilir adet %d", o.OrderID, body.Buildable),
		})

		return c.JSON(fiber.Map{"success": true, "message": "Kısmi kabul kaydedildi"})
	}
}

// GET /api/orders/:id/inventory-preview — parça listesine göre
// gereken/mevcut dökümü
func OrderInventoryPreviewHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var o models.Order
		if err := database.DB.First(&o, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		buildable, preview, err := production.ComputeAvailability(database.DB, o.ChairModel, o.Quantity)
		if err != nil {
			if errors.Is(err, production.ErrBOMNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Önizleme hesaplanamadı")
		}

		return c.JSON(fiber.Map{
			"success":     true,
			"order_id":    o.OrderID,
			"chair_model": o.ChairModel,
			"quantity":    o.Quantity,
			"buildable":   buildable,
			"parts":       preview,
		})
	}
}
