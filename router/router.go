package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/platemate/dinein-api/controllers"
	"github.com/platemate/dinein-api/middlewares"
	"github.com/platemate/dinein-api/services"
)

func SetupRouter(db *gorm.DB, sessions *services.SessionService, orders *services.OrderService) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	sessionCtrl := controllers.NewSessionController(db, sessions)
	catalogCtrl := controllers.NewCatalogController(db)
	orderCtrl := controllers.NewOrderController(db, orders)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Staff login/register behind a strict rate limit
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Catalog browsing (guests, no auth)
	r.GET("/categories", catalogCtrl.GetAllCategories)
	r.GET("/products", catalogCtrl.GetAllProducts)
	r.GET("/products/:product_id", catalogCtrl.GetProductByID)
	r.GET("/tables", tableCtrl.GetAllTables)

	// Table sessions (guests, no auth; the shared token is the credential)
	r.POST("/tables/:table_id/join", sessionCtrl.JoinTable)
	r.GET("/sessions/:token", sessionCtrl.GetSession)
	r.POST("/sessions/:token/close", sessionCtrl.CloseSession)
	r.GET("/sessions/:token/orders", orderCtrl.GetSessionOrders)

	// Order submission and lookup (guests)
	r.POST("/orders", orderCtrl.SubmitOrder)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)

	// TABLES (staff/admin)
	auth.POST("/tables", middlewares.RequireRole("staff"), tableCtrl.CreateTable)
	auth.PATCH("/tables/:table_id", middlewares.RequireRole("staff"), tableCtrl.UpdateTableStatus)

	// CATALOG (staff/admin)
	catalog := auth.Group("/")
	catalog.Use(middlewares.RequireRole("staff"))
	{
		catalog.POST("/categories", catalogCtrl.CreateCategory)
		catalog.POST("/products", catalogCtrl.CreateProduct)
		catalog.PATCH("/products/:product_id", catalogCtrl.UpdateProduct)
		catalog.POST("/products/:product_id/options", catalogCtrl.CreateOption)
		catalog.PATCH("/options/:option_id", catalogCtrl.UpdateOption)
	}

	// SESSIONS (staff/admin)
	auth.GET("/sessions", middlewares.RequireRole("staff"), sessionCtrl.GetAllSessions)
	auth.POST("/sessions/sweep", middlewares.RequireRole("staff"), sessionCtrl.SweepSessions)
	auth.POST("/sessions/:token/deactivate", middlewares.RequireRole("staff"), sessionCtrl.DeactivateSession)

	// ORDERS (kitchen/staff/admin)
	auth.GET("/orders", middlewares.RequireRole("staff", "kitchen"), orderCtrl.GetAllOrders)
	auth.POST("/orders/:order_id/status", middlewares.RequireRole("staff", "kitchen"), orderCtrl.UpdateOrderStatus)

	// WebSocket endpoint for staff dashboards
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/:role", controllers.EventsHandler)
	}

	return r
}
