package main

import (
	"smmpanel-backend/config"
	"smmpanel-backend/internal/api"
	"smmpanel-backend/internal/database"
	"smmpanel-backend/internal/models"
	"smmpanel-backend/internal/services"
	"smmpanel-backend/pkg/logger"
	"log"

	"golang.org/x/crypto/bcrypt"
)

// @title SMM Panel API
// @version 1.0
// @description Reseller storefront for social media engagement services.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.InitLogger(&logger.Config{
		Level:      cfg.LogLevel,
		Filename:   cfg.LogFilename,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	}); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	if _, err := database.Connect(cfg.DSN()); err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := database.ConnectRedis(cfg); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}

	err = database.DB.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.Order{},
		&models.Payment{},
		&models.AdminConfig{},
		&models.Transaction{},
	)
	if err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	if err := services.EnsureDefaultConfig(); err != nil {
		log.Fatalf("failed to seed default config: %v", err)
	}

	initAdminUser(cfg)

	router := api.NewRouter()
	if err := router.Run(":8080"); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}

// initAdminUser seeds the single admin account. Registration never grants the
// admin role; this seed is the only way an admin comes into existence.
func initAdminUser(cfg *config.Config) {
	if cfg.AdminPassword == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	var adminUser models.User
	result := database.DB.Where("email = ?", cfg.AdminEmail).First(&adminUser)
	if result.Error == nil {
		log.Println("Admin user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}

	adminUser = models.User{
		Username: "admin",
		Email:    cfg.AdminEmail,
		Password: string(hashedPassword),
		Role:     "admin",
	}
	if err := database.DB.Create(&adminUser).Error; err != nil {
		log.Fatalf("failed to create admin user: %v", err)
	}
	log.Println("Admin user created successfully!")
}
