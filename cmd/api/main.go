package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-erp-docs/internal/config"
	"go-erp-docs/internal/handler"
	"go-erp-docs/internal/middleware"
	"go-erp-docs/internal/model"
	"go-erp-docs/internal/repository"
	"go-erp-docs/internal/service"
	"go-erp-docs/internal/ws"
	"go-erp-docs/pkg/cache"
	"go-erp-docs/pkg/database"
	"go-erp-docs/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()
	jwt.Init(cfg.JWTSecret, cfg.SessionTTL())

	// angka uang dikirim sebagai number JSON, bukan string
	decimal.MarshalJSONWithoutQuotes = true

	// 2. Setup Database
	db := database.ConnectDB(cfg.DatabaseURL, cfg.IsProduction())
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 3. Dependency Injection (Wiring Layers)
	txRepo := repository.NewTransactionRepo(db)
	catalogRepo := repository.NewCatalogRepo(db)
	clientRepo := repository.NewClientRepo(db)
	productRepo := repository.NewProductRepo(db)
	unitRepo := repository.NewUnitRepo(db)
	settingRepo := repository.NewSettingRepo(db)
	userRepo := repository.NewUserRepo(db)

	seedDefaults(cfg, userRepo, unitRepo, settingRepo)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	txService := service.NewTransactionService(txRepo, catalogRepo, wsHub, cfg.InvoiceDueDays)
	convService := service.NewConversionService(txRepo, wsHub, cfg.InvoiceDueDays)
	catalogService := service.NewCatalogService(clientRepo, productRepo, unitRepo, wsHub)
	dashService := service.NewDashboardService(txRepo, wsHub)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	settingService := service.NewSettingService(settingRepo)

	txHandler := handler.NewTransactionHandler(txService, convService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService, cfg.IsProduction())
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler()
	settingHandler := handler.NewSettingHandler(settingService)

	// 5. Rate limit state: Redis when configured so every instance shares counters
	var limiterStorage fiber.Storage
	if cfg.RedisURL != "" {
		rdb, err := cache.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Redis unavailable, rate limits stay in memory: %v", err)
		} else {
			limiterStorage = cache.NewRedisStorage(rdb, "erp-docs:limiter:")
			defer limiterStorage.Close()
			log.Println("✅ Rate limiter using Redis")
		}
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "ERP Docs v1.0",
	})

	// Middleware
	app.Use(middleware.RequestLogger()) // Logging request
	app.Use(recover.New())              // Panic recovery
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: cfg.CORSOrigins != "*",
	}))

	// 7. Routes
	api := app.Group("/api/v1", middleware.GlobalRateLimiter(limiterStorage, 300))

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", middleware.LoginRateLimiter(limiterStorage), authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Post("/auth/change-password", authHandler.ChangePassword)

	// Dashboard
	protected.Get("/dashboard/stats", middleware.RequirePrivilege(model.PrivDashboardView), dashHandler.GetDashboardStats)
	protected.Get("/dashboard/document-movement", middleware.RequirePrivilege(model.PrivDashboardView), dashHandler.GetDocumentMovement)

	// Catalog
	catalogWrite := middleware.RequirePrivilege(model.PrivCatalogManage)
	protected.Get("/clients", catalogHandler.GetClients)
	protected.Get("/clients/:id", catalogHandler.GetClient)
	protected.Post("/clients", catalogWrite, catalogHandler.CreateClient)
	protected.Put("/clients/:id", catalogWrite, catalogHandler.UpdateClient)
	protected.Delete("/clients/:id", catalogWrite, catalogHandler.DeleteClient)

	protected.Get("/products", catalogHandler.GetProducts)
	protected.Get("/products/:id", catalogHandler.GetProduct)
	protected.Post("/products", catalogWrite, catalogHandler.CreateProduct)
	protected.Put("/products/:id", catalogWrite, catalogHandler.UpdateProduct)
	protected.Delete("/products/:id", catalogWrite, catalogHandler.DeleteProduct)

	protected.Get("/units", catalogHandler.GetUnits)
	protected.Post("/units", catalogWrite, catalogHandler.AddUnit)
	protected.Put("/units/:name", catalogWrite, catalogHandler.RenameUnit)
	protected.Delete("/units/:name", catalogWrite, catalogHandler.DeleteUnit)

	// Transactions (quotation, DO, BAST, invoice)
	txView := middleware.RequirePrivilege(model.PrivTransactionView)
	txEdit := middleware.RequirePrivilege(model.PrivTransactionEdit)
	protected.Get("/transactions", txView, txHandler.GetTransactions)
	protected.Get("/transactions/next-number", txView, txHandler.NextNumber)
	protected.Get("/transactions/:id", txView, txHandler.GetTransaction)
	protected.Get("/transactions/:id/summary", txView, txHandler.GetSummary)
	protected.Post("/transactions", txEdit, txHandler.CreateTransaction)
	protected.Put("/transactions/:id", txEdit, txHandler.UpdateTransaction)
	protected.Delete("/transactions/:id", txEdit, txHandler.DeleteTransaction)
	protected.Patch("/transactions/:id/status", txEdit, txHandler.UpdateStatus)
	protected.Post("/transactions/:id/confirm-po", txEdit, txHandler.ConfirmPO)
	protected.Post("/transactions/:id/convert", txEdit, txHandler.Convert)

	protected.Get("/invoices/management", txView, txHandler.GetInvoiceManagement)
	protected.Patch("/invoices/:id/status", txEdit, txHandler.SetInvoiceStatus)

	// Settings
	protected.Get("/settings", settingHandler.GetSettings)
	protected.Post("/settings", middleware.RequirePrivilege(model.PrivSettingUpdate), settingHandler.UpsertSetting)

	// User Management (admin only)
	users := protected.Group("/users", middleware.RequirePrivilege(model.PrivUserManage))
	users.Get("/", userHandler.GetUsers)
	users.Get("/:id", userHandler.GetUser)
	users.Post("/", userHandler.CreateUser)
	users.Put("/:id", userHandler.UpdateUser)
	users.Delete("/:id", userHandler.DeleteUser)

	protected.Get("/roles", middleware.RequireRole(model.RoleAdmin), roleHandler.GetRoles)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.ServerPort); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedDefaults creates the initial accounts, units and company settings if they don't exist
func seedDefaults(cfg *config.Config, userRepo repository.UserRepository, unitRepo repository.UnitRepository, settingRepo repository.SettingRepository) {
	if err := unitRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed units: %v", err)
	}
	if err := settingRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed settings: %v", err)
	}

	seedUser(userRepo, cfg.AdminUsername, cfg.AdminPassword, "Administrator", model.RoleAdmin)
	seedUser(userRepo, cfg.UserUsername, cfg.UserPassword, "Staff", model.RoleUser)
}

func seedUser(userRepo repository.UserRepository, username, password, fullName, role string) {
	if _, err := userRepo.FindByUsername(username); err == nil {
		return
	}

	user := &model.User{
		Username: username,
		FullName: fullName,
		Role:     role,
		IsActive: true,
	}
	user.CreatedBy = "system"
	user.UpdatedBy = "system"

	if err := user.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash %s password: %v", username, err)
		return
	}

	if err := userRepo.Create(user); err != nil {
		log.Printf("Warning: Failed to create %s user: %v", username, err)
		return
	}
	log.Printf("✅ User created: %s (%s)", username, role)
}
