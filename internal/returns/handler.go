package returns

import (
	"errors"
	"fmt"
	"time"

	"mobilya-backend/internal/activity"
	"mobilya-backend/internal/auth"
	"mobilya-backend/internal/database"
	"mobilya-backend/internal/models"
	"mobilya-backend/internal/stock"
	"mobilya-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateReturnRequest struct {
	OrderID     string                `json:"order_id" validate:"required"`
	ChairModel  string                `json:"chair_model" validate:"required"`
	Description string                `json:"description"`
	Quantity    int                   `json:"quantity" validate:"gt=0"`
	ReturnDate  string                `json:"return_date" validate:"required"`
	Category    models.ReturnCategory `json:"category" validate:"required,oneof=Functional Non-Functional"`
	Vendor      string                `json:"vendor" validate:"required"`
	Location    string                `json:"location"`
}

// POST /api/returns
func CreateReturnHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateReturnRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Quantity == 0 {
			body.Quantity = 1
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		returnDate, err := time.Parse("2006-01-02", body.ReturnDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "return_date formatı 'YYYY-MM-DD' olmalı")
		}

		// Aynı sipariş için ikinci iade kaydı açılamaz
		var exists models.ReturnRecord
		if err := database.DB.First(&exists, "order_id = ?", body.OrderID).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "Bu sipariş için iade kaydı zaten var")
		}

		record := models.ReturnRecord{
			OrderID:     body.OrderID,
			ChairModel:  body.ChairModel,
			Description: body.Description,
			Quantity:    body.Quantity,
			ReturnDate:  returnDate,
			Category:    body.Category,
			Vendor:      body.Vendor,
			Location:    body.Location,
			CreatedByID: &user.ID,
		}

		if err := database.DB.Create(&record).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İade kaydı oluşturulamadı")
		}

		activity.WriteLog(activity.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			UserRole:    user.Role,
			Action:      "RETURN_CREATE",
			Module:      "Return",
			EntityType:  "ReturnRecord",
			EntityID:    record.ID,
			Description: fmt.Sprintf("İade kaydı: %s (%d adet %s)", record.OrderID, record.Quantity, record.ChairModel),
			Quantity:    record.Quantity,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "İade kaydı oluşturuldu",
			"data":    record,
		})
	}
}

// GET /api/returns
func ListReturnsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var records []models.ReturnRecord
		if err := database.DB.Order("created_at DESC").Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İadeler listelenemedi")
		}

		return c.JSON(fiber.Map{"data": records})
	}
}

// POST /api/returns/:id/move-to-inventory — yalnızca Functional, tek seferlik
func MoveToInventoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var record models.ReturnRecord

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&record, "id = ?", c.Params("id")).Error; err != nil {
				return err
			}

			if record.MovedToInventory {
				return errors.New("zaten stoğa alınmış")
			}
			if record.Category != models.ReturnFunctional {
				return errors.New("yalnızca Functional iadeler stoğa alınabilir")
			}

			location := record.Location
			if location == "" {
				location = "DEPO_IADE"
			}

			if err := stock.Increment(tx, models.StockKindFullUnit, record.ChairModel, location,
				record.Quantity, stock.Defaults{
					VendorRef:     record.Vendor,
					MinQuantity:   1,
					CreatedByID:   &user.ID,
					CreatedByRole: user.Role,
				}); err != nil {
				return err
			}

			movement := models.StockMovement{
				Kind:       models.StockKindFullUnit,
				ItemName:   record.ChairModel,
				ToLocation: location,
				Quantity:   record.Quantity,
				MovedByID:  user.ID,
				Reason:     models.MovementReasonReturn,
			}
			if err := tx.Create(&movement).Error; err != nil {
				return err
			}

			return tx.Model(&record).Update("moved_to_inventory", true).Error
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "İade kaydı bulunamadı")
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		activity.WriteLog(activity.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			UserRole:    user.Role,
			Action:      "RETURN_TO_INVENTORY",
			Module:      "Return",
			EntityType:  "ReturnRecord",
			EntityID:    record.ID,
			Description: fmt.Sprintf("%s iadesi stoğa alındı", record.OrderID),
			Quantity:    record.Quantity,
		})

		return c.JSON(fiber.Map{"message": "İade stoğa alındı"})
	}
}
