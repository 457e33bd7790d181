package main

import (
	"context"
	"log"
	"os"

	_ "gruas-backend/api/swagger" // swagger docs
	"gruas-backend/internal/database"
	"gruas-backend/internal/geocoding"
	"gruas-backend/internal/handler"
	"gruas-backend/internal/middleware"
	"gruas-backend/internal/report"
	"gruas-backend/internal/repository"
	"gruas-backend/internal/service"
	"gruas-backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Gruas Backend API
// @version         1.0
// @description     Crane rental management API: fleet, contracts, complements, measurements, bank and time clock.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	middleware.InitPermissionMiddleware(db)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// External services
	geocoder := geocoding.NewClient()
	gotenbergURL := os.Getenv("GOTENBERG_URL")
	if gotenbergURL == "" {
		gotenbergURL = "http://localhost:3000"
	}
	gotenberg := report.NewGotenbergClient(gotenbergURL)

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	craneRepo := repository.NewCraneRepository(db)
	siteRepo := repository.NewSiteRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	rentalRepo := repository.NewRentalRepository(db)
	complementRepo := repository.NewComplementRepository(db)
	measurementRepo := repository.NewMeasurementRepository(db)
	accountRepo := repository.NewBankAccountRepository(db)
	txnRepo := repository.NewBankTransactionRepository(db)
	timeEntryRepo := repository.NewTimeEntryRepository(db)

	userService := service.NewUserService(userRepo)
	roleService := service.NewRoleService(db)
	auditService := service.NewAuditService(auditRepo)
	craneService := service.NewCraneService(craneRepo)
	siteService := service.NewSiteService(siteRepo, geocoder)
	employeeService := service.NewEmployeeService(employeeRepo, siteRepo)
	rentalService := service.NewRentalService(rentalRepo, craneRepo, siteRepo, auditRepo, txManager, wsHub)
	complementService := service.NewComplementService(complementRepo, rentalRepo, auditRepo, txManager, wsHub)
	measurementService := service.NewMeasurementService(measurementRepo, rentalRepo, complementRepo, accountRepo, txnRepo, auditRepo, txManager, wsHub)
	bankService := service.NewBankService(accountRepo, txnRepo, auditRepo, txManager)
	timeClockService := service.NewTimeClockService(timeEntryRepo, employeeRepo, auditRepo, geocoder, wsHub)
	reportService := service.NewReportService(rentalRepo, complementRepo, measurementRepo, gotenberg)
	statisticsService := service.NewStatisticsService(db)

	// Seed built-in roles and permission catalog
	if err := roleService.SeedDefaultRolesAndPermissions(context.Background()); err != nil {
		log.Printf("WARNING: Failed to seed roles and permissions: %v", err)
	}

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	auditHandler := handler.NewAuditHandler(auditService)
	craneHandler := handler.NewCraneHandler(craneService)
	siteHandler := handler.NewSiteHandler(siteService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	rentalHandler := handler.NewRentalHandler(rentalService)
	complementHandler := handler.NewComplementHandler(complementService)
	measurementHandler := handler.NewMeasurementHandler(measurementService)
	bankHandler := handler.NewBankHandler(bankService)
	timeClockHandler := handler.NewTimeClockHandler(timeClockService)
	reportHandler := handler.NewReportHandler(reportService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	roleHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))
	craneHandler.RegisterRoutes(router.Group(""))
	siteHandler.RegisterRoutes(router.Group(""))
	employeeHandler.RegisterRoutes(router.Group(""))
	rentalHandler.RegisterRoutes(router.Group(""))
	complementHandler.RegisterRoutes(router.Group(""))
	measurementHandler.RegisterRoutes(router.Group(""))
	bankHandler.RegisterRoutes(router.Group(""))
	timeClockHandler.RegisterRoutes(router.Group(""))
	reportHandler.RegisterRoutes(router.Group(""))
	statisticsHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
