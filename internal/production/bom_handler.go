package production

import (
	"mobilya-backend/internal/database"
	"mobilya-backend/internal/models"
	"mobilya-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BOMPartRequest struct {
	PartName    string `json:"part_name" validate:"required"`
	QtyPerChair int    `json:"qty_per_chair" validate:"required,gt=0"`
}

type CreateBOMRequest struct {
	ChairModel string           `json:"chair_model" validate:"required"`
	Parts      []BOMPartRequest `json:"parts" validate:"required,min=1,dive"`
}

// POST /api/boms — modelin parça listesini tanımlar, varsa üzerine yazar
func CreateBOMHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBOMRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		var bom models.ChairBOM

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&bom, "chair_model = ?", body.ChairModel).Error; err == nil {
				if err := tx.Delete(&models.BOMPart{}, "chair_bom_id = ?", bom.ID).Error; err != nil {
					return err
				}
			} else {
				bom = models.ChairBOM{ChairModel: body.ChairModel}
				if err := tx.Create(&bom).Error; err != nil {
					return err
				}
			}

			for _, p := range body.Parts {
				part := models.BOMPart{
					ChairBOMID:  bom.ID,
					PartName:    p.PartName,
					QtyPerChair: p.QtyPerChair,
				}
				if err := tx.Create(&part).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Parça listesi kaydedilemedi")
		}

		if err := database.DB.Preload("Parts").First(&bom, "id = ?", bom.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Parça listesi okunamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": bom})
	}
}

// GET /api/boms
func ListBOMsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var boms []models.ChairBOM
		if err := database.DB.Preload("Parts").Order("chair_model ASC").Find(&boms).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Parça listeleri okunamadı")
		}

		return c.JSON(fiber.Map{"data": boms})
	}
}
