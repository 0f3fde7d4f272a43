package production

import (
	"errors"
	"fmt"

	"mobilya-backend/internal/activity"
	"mobilya-backend/internal/auth"
	"mobilya-backend/internal/database"
	"mobilya-backend/internal/models"
	"mobilya-backend/internal/stock"
	"mobilya-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateInwardRequest struct {
	PartName     string `json:"part_name" validate:"required"`
	Quantity     int    `json:"quantity" validate:"required,gt=0"`
	Location     string `json:"location" validate:"required"`
	AssignedToID uint   `json:"assigned_to_id" validate:"required"`
}

type AcceptOrderRequest struct {
	Parts map[string]int `json:"parts" validate:"required"`
}

// POST /api/production/inward — depodan parça talebi açar
func CreateInwardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateInwardRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		// Talep hedefi bir üretim lokasyonu olmalı
		if models.DeriveLocationClass(body.Location) != models.LocationProduction {
			return fiber.NewError(fiber.StatusBadRequest, "Hedef lokasyon PROD_ öneki taşımalı")
		}

		var assignee models.User
		if err := database.DB.First(&assignee, "id = ?", body.AssignedToID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Atanan depo personeli bulunamadı")
		}
		if assignee.Role != models.RoleWarehouse {
			return fiber.NewError(fiber.StatusBadRequest, "Talep yalnızca depo personeline atanabilir")
		}

		inward := models.ProductionInward{
			PartName:     body.PartName,
			Quantity:     body.Quantity,
			Location:     body.Location,
			Status:       models.InwardPending,
			CreatedByID:  user.ID,
			AssignedToID: assignee.ID,
		}

		if err := database.DB.Create(&inward).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Talep oluşturulamadı")
		}

		activity.WriteLog(activity.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			UserRole:    user.Role,
			Action:      "PRODUCTION_INWARD_CREATE",
			Module:      "Production",
			EntityType:  "ProductionInward",
			EntityID:    inward.ID,
			Description: fmt.Sprintf("%d adet %s için depo onayı istendi", body.Quantity, body.PartName),
			Destination: body.Location,
			Quantity:    body.Quantity,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"message": "Talep depo onayına gönderildi",
			"data":    inward,
		})
	}
}

// GET /api/production/inward — kendi açtığı talepler
func ListOwnInwardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var inwards []models.ProductionInward
		if err := database.DB.
			Preload("AssignedTo").
			Where("created_by_id = ?", userID).
			Order("created_at DESC").
			Find(&inwards).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Talepler listelenemedi")
		}

		return c.JSON(fiber.Map{"data": inwards})
	}
}

// GET /api/production/stock — üretim lokasyonlarındaki parça stoğu
func ProductionStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var records []models.StockRecord
		if err := database.DB.
			Where("kind = ? AND location_class = ?", models.StockKindSparePart, models.LocationProduction).
			Order("item_name ASC, location ASC").
			Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üretim stoğu listelenemedi")
		}

		return c.JSON(fiber.Map{"data": records})
	}
}

// POST /api/orders/:id/production-accept — üretim kabulü
func AcceptOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body AcceptOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var orderPK uint
		if _, err := fmt.Sscan(c.Params("id"), &orderPK); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş kimliği")
		}

		o, deductions, err := AcceptProductionOrder(database.DB, orderPK, body.Parts)
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
			case errors.Is(err, ErrNoPartsSelected),
				errors.Is(err, ErrOrderNotInProduction),
				errors.Is(err, ErrProductionExceedsOrder),
				errors.Is(err, ErrWorkerNotAssigned),
				errors.Is(err, stock.ErrInvalidQuantity),
				errors.Is(err, stock.ErrInsufficientStock):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Üretim kabulü tamamlanamadı")
			}
		}

		total := 0
		for _, d := range deductions {
			total += d.Quantity
		}

		activity.WriteLog(activity.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			UserRole:    user.Role,
			Action:      "PRODUCTION_ACCEPT",
			Module:      "Production",
			EntityType:  "Order",
			EntityID:    o.ID,
			Description: fmt.Sprintf("%s siparişi için %d parça çıkışı yapıldı", o.OrderID, total),
			Quantity:    total,
		})

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Üretim kabulü tamamlandı",
			"order":   o,
		})
	}
}
