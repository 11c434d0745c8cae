package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Dinnervery/Backend-sub000/internal/auth"
	"github.com/Dinnervery/Backend-sub000/internal/cart"
	"github.com/Dinnervery/Backend-sub000/internal/catalog"
	"github.com/Dinnervery/Backend-sub000/internal/customer"
	"github.com/Dinnervery/Backend-sub000/internal/db"
	"github.com/Dinnervery/Backend-sub000/internal/events"
	"github.com/Dinnervery/Backend-sub000/internal/inventory"
	"github.com/Dinnervery/Backend-sub000/internal/middleware"
	"github.com/Dinnervery/Backend-sub000/internal/order"
	"github.com/Dinnervery/Backend-sub000/internal/policy"
	"github.com/Dinnervery/Backend-sub000/internal/pricing"
	"github.com/Dinnervery/Backend-sub000/internal/storage"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	required := []string{
		"JWT_SECRET",
		"DATABASE_URL",
		"R2_ACCESS_KEY",
		"R2_SECRET_KEY",
		"R2_BUCKET_NAME",
		"R2_ENDPOINT",
		"R2_PUBLIC_BASE_URL",
	}

	for _, k := range required {
		if os.Getenv(k) == "" {
			log.Fatalf("❌ Missing env var: %s", k)
		}
	}

	// ───────────────────────── DB ─────────────────────────
	pgDB := db.ConnectPostgres()
	defer pgDB.Close()

	// ───────────────────────── GIN ─────────────────────────
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// ───────────────────────── STORAGE ─────────────────────────
	r2Client, err := storage.NewR2Client(context.Background())
	if err != nil {
		log.Fatal("❌ R2 init failed:", err)
	}

	// ───────────────────────── POLICIES ─────────────────────────
	hours := policy.HoursFromEnv()
	pricingPolicy := pricing.PolicyFromEnv()

	// ───────────────────────── REPOS ─────────────────────────
	customerRepo := customer.NewPostgresRepository(pgDB)
	catalogRepo := catalog.NewPostgresRepository(pgDB)
	inventoryRepo := inventory.NewPostgresRepository(pgDB)
	cartRepo := cart.NewPostgresRepository(pgDB)
	orderRepo := order.NewPostgresRepository(pgDB, inventoryRepo)

	// ───────────────────────── SERVICES (ORDER MATTERS) ─────────────────────────
	authService := auth.NewService(customerRepo)
	loyaltyService := customer.NewLoyaltyService(customerRepo)
	catalogService := catalog.NewService(catalogRepo, r2Client)
	inventoryService := inventory.NewService(inventoryRepo)
	cartService := cart.NewService(cartRepo, catalogService, pricingPolicy)

	var notifier order.Notifier
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		publisher, err := events.NewPublisher(url)
		if err != nil {
			log.Fatal("❌ RabbitMQ init failed:", err)
		}
		defer publisher.Close()
		notifier = publisher
	}

	orderService := order.NewService(
		orderRepo,
		cartService,
		catalogService,
		loyaltyService,
		hours,
		pricingPolicy,
		notifier,
	)

	// ───────────────────────── HANDLERS ─────────────────────────
	authHandler := auth.NewHandler(authService)
	catalogHandler := catalog.NewHandler(catalogService)
	inventoryHandler := inventory.NewHandler(inventoryService)
	cartHandler := cart.NewHandler(cartService)
	orderHandler := order.NewHandler(orderService)

	// ───────────────────────── AUTH ROUTES ─────────────────────────
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// ───────────────────────── CATALOG ROUTES (PUBLIC READS) ─────────────────────────
	menus := r.Group("/menus")
	{
		menus.GET("", catalogHandler.ListMenus)
		menus.GET("/:id", catalogHandler.GetMenu)
		menus.GET("/:id/options", catalogHandler.ListOptions)
	}
	r.GET("/serving-styles", catalogHandler.ListStyles)

	// ───────────────────────── CART ROUTES ─────────────────────────
	carts := r.Group("/cart")
	carts.Use(middleware.AuthMiddleware())
	{
		carts.GET("", cartHandler.Get)
		carts.POST("/items", cartHandler.AddItem)
		carts.DELETE("/items/:itemId", cartHandler.RemoveItem)
		carts.PATCH("/items/:itemId/options/:optionId", cartHandler.ChangeOptionQuantity)
		carts.DELETE("/items/:itemId/style", cartHandler.RemoveStyle)
	}

	// ───────────────────────── ORDER ROUTES ─────────────────────────
	orders := r.Group("/orders")
	orders.Use(middleware.AuthMiddleware())
	{
		orders.POST("", orderHandler.Place)
		orders.GET("", orderHandler.List)
		orders.GET("/:id", orderHandler.Get)
		orders.DELETE("/:id", orderHandler.Delete)
	}

	// ───────────────────────── ADMIN ROUTES ─────────────────────────
	admin := r.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRole("ADMIN"),
	)
	{
		// Catalog
		admin.POST("/menus", catalogHandler.CreateMenu)
		admin.POST("/menus/:id/options", catalogHandler.CreateOption)
		admin.POST("/menus/:id/image", catalogHandler.UploadMenuImage)
		admin.POST("/serving-styles", catalogHandler.CreateStyle)

		// Inventory
		admin.GET("/inventory", inventoryHandler.List)
		admin.POST("/inventory", inventoryHandler.Create)
		admin.POST("/inventory/reset", inventoryHandler.Reset)

		// Kitchen / delivery transitions
		admin.POST("/orders/:id/start-cooking", orderHandler.StartCooking)
		admin.POST("/orders/:id/complete-cooking", orderHandler.CompleteCooking)
		admin.POST("/orders/:id/start-delivering", orderHandler.StartDelivering)
		admin.POST("/orders/:id/complete-delivery", orderHandler.CompleteDelivery)
		admin.POST("/orders/:id/cancel", orderHandler.Cancel)
	}

	// ───────────────────────── DAILY INVENTORY RESET ─────────────────────────
	resetHour := 5
	if v := os.Getenv("INVENTORY_RESET_HOUR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			resetHour = n
		}
	}
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	go inventory.NewScheduler(inventoryService, resetHour).Run(schedulerCtx)

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ───────────────────────── START ─────────────────────────
	log.Println("🚀 API running at http://localhost:8000")
	r.Run(":8000")
}
