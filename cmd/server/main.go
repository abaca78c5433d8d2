package main

import (
	"log"
	"strings"

	"crmbot-backend/internal/admin"
	"crmbot-backend/internal/auth"
	"crmbot-backend/internal/bot"
	"crmbot-backend/internal/config"
	"crmbot-backend/internal/database"
	"crmbot-backend/internal/deals"
	"crmbot-backend/internal/greenapi"
	"crmbot-backend/internal/models"
	"crmbot-backend/internal/reports"
	"crmbot-backend/internal/shifts"
	"crmbot-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	database.Init(cfg)

	userSvc := users.NewService(database.DB)
	shiftSvc := shifts.NewService(database.DB)
	dealSvc := deals.NewService(database.DB)
	adminSvc := admin.NewService(userSvc, shiftSvc, dealSvc)
	reportSvc := reports.NewService(database.DB, userSvc)

	if err := userSvc.SeedAdmins(cfg.AdminPhones, cfg.AdminAPIPassword); err != nil {
		log.Fatal("Не удалось засеять админов:", err)
	}

	sender := greenapi.NewClient(cfg)
	crmBot := bot.New(cfg, sender, userSvc, shiftSvc, dealSvc, adminSvc, reportSvc)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Непредвиденная ошибка:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Непредвиденная ошибка сервера",
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

	// Вебхук green-api: сюда приходят все входящие сообщения WhatsApp
	api.Post("/webhook", bot.WebhookHandler(crmBot))

	// Публичная авторизация для админ-панели
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Защищённые маршруты
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Post("/auth/set-password", auth.SetPasswordHandler())

	// Админские маршруты
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Сотрудники
	adminRoutes.Get("/workers", users.ListWorkersHandler(userSvc))
	adminRoutes.Post("/workers", users.CreateWorkerHandler(userSvc))
	adminRoutes.Delete("/workers/:phone", users.DisableWorkerHandler(userSvc))

	// Отчёты
	adminRoutes.Get("/reports/deals", reports.DealsReportHandler(reportSvc))
	adminRoutes.Get("/reports/deals/export", reports.ExportDealsReportHandler(reportSvc))
	adminRoutes.Get("/reports/mismatches", reports.MismatchesHandler(reportSvc))

	// Принудительное закрытие смен (дёргается кроном в конце дня)
	adminRoutes.Post("/shifts/close-all", shifts.CloseAllHandler(shiftSvc))

	log.Println("Сервер запущен, порт:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
