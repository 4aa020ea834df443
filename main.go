package main

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/platemate/dinein-api/config"
	"github.com/platemate/dinein-api/middlewares"
	"github.com/platemate/dinein-api/models"
	"github.com/platemate/dinein-api/router"
	"github.com/platemate/dinein-api/services"
	"github.com/platemate/dinein-api/utils"
)

func main() {
	cfg := config.Load()

	utils.InitLogger()
	utils.InitJWT(cfg.JWTSecret)

	db, err := config.InitDB(cfg.DatabaseDSN)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	sessionService := services.NewSessionService(db, cfg.SessionMinutes)
	orderService := services.NewOrderService(db, cfg.TaxRate)

	sweeper := services.NewSessionSweeper(sessionService, cfg.SweepInterval)
	sweeper.Start()
	defer sweeper.Stop()

	// 50 requests per second per IP
	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(db, sessionService, orderService)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.Guest{},
		&models.TableSession{},
		&models.SessionMember{},
		&models.MenuCategory{},
		&models.Product{},
		&models.ProductOption{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemOption{},
		&models.DailyOrderCounter{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
