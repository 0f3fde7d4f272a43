package main

import (
	"log"
	"strings"

	"mobilya-backend/internal/activity"
	"mobilya-backend/internal/auth"
	"mobilya-backend/internal/config"
	"mobilya-backend/internal/database"
	"mobilya-backend/internal/models"
	"mobilya-backend/internal/order"
	"mobilya-backend/internal/production"
	"mobilya-backend/internal/returns"
	"mobilya-backend/internal/stock"
	"mobilya-backend/internal/vendor"
	"mobilya-backend/internal/warehouse"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Put("/auth/change-password", auth.ChangePasswordHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Personel yönetimi
	adminRoutes.Post("/staff", auth.CreateStaffHandler())
	adminRoutes.Get("/staff", auth.ListStaffHandler())

	// Tedarikçi yönetimi
	adminRoutes.Post("/vendors", vendor.CreateVendorHandler())
	adminRoutes.Put("/vendors/:id", vendor.UpdateVendorHandler())
	adminRoutes.Delete("/vendors/:id", vendor.DeleteVendorHandler())

	// Parça listeleri
	adminRoutes.Post("/boms", production.CreateBOMHandler())

	protected.Get("/vendors", vendor.ListVendorsHandler())
	protected.Get("/boms", production.ListBOMsHandler())

	// Envanter
	inventoryRoutes := protected.Group("/inventory")
	inventoryRoutes.Post("", auth.RequireRole(models.RoleAdmin, models.RoleWarehouse), stock.CreateStockHandler())
	inventoryRoutes.Get("", stock.ListStockHandler())
	inventoryRoutes.Put("/:id", auth.RequireRole(models.RoleAdmin), stock.UpdateStockHandler())
	inventoryRoutes.Delete("/:id", auth.RequireRole(models.RoleAdmin), stock.DeleteStockHandler())
	inventoryRoutes.Post("/transfer", auth.RequireRole(models.RoleAdmin, models.RoleWarehouse, models.RoleProduction), stock.TransferHandler())
	inventoryRoutes.Get("/movements", stock.ListMovementsHandler())

	// Siparişler
	orderRoutes := protected.Group("/orders")
	orderRoutes.Post("", auth.RequireRole(models.RoleAdmin, models.RoleSales), order.CreateOrderHandler())
	orderRoutes.Get("", order.ListOrdersHandler())
	orderRoutes.Get("/by-order-id/:orderId", order.GetOrderByOrderIDHandler())
	orderRoutes.Get("/:id", order.GetOrderHandler())
	orderRoutes.Put("/:id", auth.RequireRole(models.RoleAdmin, models.RoleSales), order.UpdateOrderHandler())
	orderRoutes.Delete("/:id", auth.RequireRole(models.RoleAdmin), order.DeleteOrderHandler())
	orderRoutes.Patch("/:id/progress", order.UpdateProgressHandler())
	orderRoutes.Put("/:id/assign-production", auth.RequireRole(models.RoleAdmin, models.RoleProduction), order.AssignProductionWorkerHandler())
	orderRoutes.Put("/:id/amend", auth.RequireRole(models.RoleAdmin, models.RoleSales), order.AmendOrderHandler())
	orderRoutes.Post("/:id/production-accept", auth.RequireRole(models.RoleAdmin, models.RoleProduction), production.AcceptOrderHandler())
	orderRoutes.Get("/:id/inventory-preview", warehouse.OrderInventoryPreviewHandler())

	// Üretim
	productionRoutes := protected.Group("/production")
	productionRoutes.Use(auth.RequireRole(models.RoleAdmin, models.RoleProduction))
	productionRoutes.Post("/inward", production.CreateInwardHandler())
	productionRoutes.Get("/inward", production.ListOwnInwardHandler())
	productionRoutes.Get("/stock", production.ProductionStockHandler())

	// Depo
	warehouseRoutes := protected.Group("/warehouse")
	warehouseRoutes.Use(auth.RequireRole(models.RoleAdmin, models.RoleWarehouse))
	warehouseRoutes.Get("/production/inward/pending", warehouse.PendingInwardHandler())
	warehouseRoutes.Post("/production/inward/:id/accept", warehouse.AcceptInwardHandler())
	warehouseRoutes.Get("/orders/:id/pick-data", warehouse.OrderPickDataHandler())
	warehouseRoutes.Post("/orders/dispatch-parts", warehouse.DispatchPartsHandler())
	warehouseRoutes.Post("/orders/partial-accept", warehouse.PartialAcceptHandler())

	// İadeler
	returnRoutes := protected.Group("/returns")
	returnRoutes.Use(auth.RequireRole(models.RoleAdmin, models.RoleSales, models.RoleWarehouse))
	returnRoutes.Post("", returns.CreateReturnHandler())
	returnRoutes.Get("", returns.ListReturnsHandler())
	returnRoutes.Post("/:id/move-to-inventory", auth.RequireRole(models.RoleAdmin, models.RoleWarehouse), returns.MoveToInventoryHandler())

	// İşlem kayıtları
	protected.Get("/activity-logs", auth.RequireRole(models.RoleAdmin), activity.ListActivityLogsHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
