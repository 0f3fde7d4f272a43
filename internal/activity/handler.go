package activity

import (
	"mobilya-backend/internal/database"
	"mobilya-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/activity-logs
func ListActivityLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.ActivityLog{}).
			Where("is_deleted = ?", false).
			Order("created_at DESC")

		if module := c.Query("module"); module != "" {
			query = query.Where("module = ?", module)
		}
		if action := c.Query("action"); action != "" {
			query = query.Where("action = ?", action)
		}

		limit := c.QueryInt("limit", 200)
		if limit > 1000 {
			limit = 1000
		}

		var logs []models.ActivityLog
		if err := query.Limit(limit).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Aktivite kayıtları listelenemedi")
		}

		return c.JSON(fiber.Map{"data": logs})
	}
}
