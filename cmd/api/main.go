package main

import (
	"log"
	"time"

	"github.com/anjiri1684/service_market/database"
	"github.com/anjiri1684/service_market/handlers"
	"github.com/anjiri1684/service_market/jobs"
	"github.com/anjiri1684/service_market/notifications"
	"github.com/anjiri1684/service_market/payments"
	"github.com/anjiri1684/service_market/routes"
	"github.com/anjiri1684/service_market/services"
	"github.com/anjiri1684/service_market/storage"
	"github.com/anjiri1684/service_market/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	notifications.InitEmailService()
	notifications.InitSMSService()

	hub := websocket.NewHub()
	go hub.Run()

	notifier := notifications.NewDispatcher(database.DB, hub)
	store := storage.New()
	gateway := payments.NewRazorpayClient()

	bookingService := services.NewBookingService(database.DB, notifier)
	receiptService := services.NewReceiptService(database.DB, store)
	paymentService := services.NewPaymentService(database.DB, gateway, notifier, receiptService)
	otpService := services.NewOTPService(database.DB)

	reaper := jobs.NewExpiryReaper(database.DB, notifier)
	c := cron.New()
	c.AddFunc("* * * * *", reaper.CancelExpiredBookings)
	c.AddFunc("*/10 * * * *", reaper.PurgeExpiredOTPs)
	go c.Start()
	log.Println("✅ Cron jobs scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Service Market",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BodyLimit:         10 << 20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Kolkata",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Service Market API",
		})
	})

	app.Static("/uploads", "./uploads")

	bookingHandler := handlers.NewBookingHandler(bookingService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	otpHandler := handlers.NewOTPHandler(otpService)
	uploadHandler := handlers.NewUploadHandler(store)
	wsHandler := handlers.NewWSHandler(hub)

	routes.AuthRoutes(app)
	routes.ProviderRoutes(app, otpHandler, uploadHandler)
	routes.BookingRoutes(app, bookingHandler)
	routes.PaymentRoutes(app, paymentHandler)
	routes.AdminRoutes(app)
	routes.UploadRoutes(app, uploadHandler)
	routes.WebsocketRoutes(app, wsHandler)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	err := app.Listen(":8080")
	if err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
