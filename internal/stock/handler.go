package stock

import (
	"errors"
	"fmt"

	"mobilya-backend/internal/activity"
	"mobilya-backend/internal/auth"
	"mobilya-backend/internal/database"
	"mobilya-backend/internal/models"
	"mobilya-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateStockRequest struct {
	Kind        models.StockKind `json:"kind" validate:"required,oneof=FULL_UNIT SPARE_PART"`
	ItemName    string           `json:"item_name" validate:"required"`
	Location    string           `json:"location" validate:"required"`
	Quantity    int              `json:"quantity" validate:"required,gt=0"`
	MinQuantity int              `json:"min_quantity"`
	MaxQuantity *int             `json:"max_quantity"`
	VendorRef   string           `json:"vendor_ref"`
	Colour      string           `json:"colour"`
}

type UpdateStockRequest struct {
	MinQuantity *int    `json:"min_quantity"`
	MaxQuantity *int    `json:"max_quantity"`
	VendorRef   *string `json:"vendor_ref"`
	Colour      *string `json:"colour"`
}

type TransferRequest struct {
	SourceID   uint   `json:"source_id" validate:"required"`
	ToLocation string `json:"to_location" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}

// mapEngineError: Motor hatalarını HTTP koduna çevirir.
func mapEngineError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidQuantity):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSameLocation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInsufficientStock):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrMaxQuantityExceeded):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSourceNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Stok işlemi tamamlanamadı")
	}
}

// POST /api/inventory — stok girişi (upsert)
func CreateStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		// Tam sandalye kaydında vendor ve min miktar zorunlu
		if body.Kind == models.StockKindFullUnit {
			if body.VendorRef == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Tam ürün için vendor_ref zorunlu")
			}
			if body.MinQuantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Tam ürün için min_quantity zorunlu")
			}
		}

		if err := Increment(database.DB, body.Kind, body.ItemName, body.Location, body.Quantity, Defaults{
			MinQuantity:   body.MinQuantity,
			MaxQuantity:   body.MaxQuantity,
			VendorRef:     body.VendorRef,
			Colour:        body.Colour,
			CreatedByID:   &user.ID,
			CreatedByRole: user.Role,
		}); err != nil {
			return mapEngineError(err)
		}

		var rec models.StockRecord
		if err := database.DB.Where("kind = ? AND item_name = ? AND location = ?",
			body.Kind, body.ItemName, body.Location).First(&rec).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok kaydı okunamadı")
		}

		activity.WriteLog(activity.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			UserRole:    user.Role,
			Action:      "STOCK_IN",
			Module:      "Inventory",
			EntityType:  "StockRecord",
			EntityID:    rec.ID,
			Description: fmt.Sprintf("%d adet %s girişi (%s)", body.Quantity, body.ItemName, body.Location),
			Destination: body.Location,
			Quantity:    body.Quantity,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":   "Stok girişi yapıldı",
			"inventory": rec,
		})
	}
}

// GET /api/inventory?kind=&location_class=
func ListStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.StockRecord{}).Order("created_at DESC")

		if kind := c.Query("kind"); kind != "" {
			query = query.Where("kind = ?", kind)
		}
		if class := c.Query("location_class"); class != "" {
			query = query.Where("location_class = ?", class)
		}
		if name := c.Query("item_name"); name != "" {
			query = query.Where("LOWER(item_name) = LOWER(?)", name)
		}

		var records []models.StockRecord
		if err := query.Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok listelenemedi")
		}

		return c.JSON(records)
	}
}

// PUT /api/inventory/:id — admin: min/max/vendor/renk düzeltme
func UpdateStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var rec models.StockRecord
		if err := database.DB.First(&rec, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Stok kaydı bulunamadı")
		}

		var body UpdateStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		updates := map[string]interface{}{}
		if body.MinQuantity != nil {
			if *body.MinQuantity < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "min_quantity negatif olamaz")
			}
			updates["min_quantity"] = *body.MinQuantity
		}
		if body.MaxQuantity != nil {
			updates["max_quantity"] = *body.MaxQuantity
		}
		if body.VendorRef != nil {
			updates["vendor_ref"] = *body.VendorRef
		}
		if body.Colour != nil {
			updates["colour"] = *body.Colour
		}
		if len(updates) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Güncellenecek alan yok")
		}

		if err := database.DB.Model(&rec).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok güncellenemedi")
		}

		return c.JSON(fiber.Map{"message": "Stok güncellendi", "inventory": rec})
	}
}

// DELETE /api/inventory/:id — admin; normal akışta kayıtlar sıfırda bekletilir
func DeleteStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var rec models.StockRecord
		if err := database.DB.First(&rec, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Stok kaydı bulunamadı")
		}

		if err := database.DB.Delete(&rec).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok silinemedi")
		}

		activity.WriteLog(activity.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			UserRole:    user.Role,
			Action:      "STOCK_DELETE",
			Module:      "Inventory",
			EntityType:  "StockRecord",
			EntityID:    rec.ID,
			Description: fmt.Sprintf("%s stok kaydı silindi (%s)", rec.ItemName, rec.Location),
		})

		return c.JSON(fiber.Map{"message": "Stok kaydı silindi"})
	}
}

// POST /api/inventory/transfer
func TransferHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body TransferRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		source, err := Transfer(database.DB, body.SourceID, body.ToLocation, body.Quantity, user.ID)
		if err != nil {
			return mapEngineError(err)
		}

		activity.WriteLog(activity.LogOptions{
			UserID:         user.ID,
			UserName:       user.Name,
			UserRole:       user.Role,
			Action:         "TRANSFER",
			Module:         "Inventory",
			EntityType:     "StockRecord",
			EntityID:       source.ID,
			Description:    fmt.Sprintf("%d adet %s transfer edildi", body.Quantity, source.ItemName),
			SourceLocation: source.Location,
			Destination:    body.ToLocation,
			Quantity:       body.Quantity,
		})

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Transfer tamamlandı",
		})
	}
}

// GET /api/inventory/movements
func ListMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var movements []models.StockMovement
		if err := database.DB.Preload("MovedBy", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "role")
		}).Order("created_at DESC").Limit(500).Find(&movements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hareketler listelenemedi")
		}

		return c.JSON(fiber.Map{"movements": movements})
	}
}
