package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"little-lemon-api/config"
	"little-lemon-api/models"
	"little-lemon-api/router"
	"little-lemon-api/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	utils.InitLogger()

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	// Shared handle for middlewares (RequireManager resolves roles).
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	r := router.SetupRouter(db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Category{},
		&models.MenuItem{},
		&models.Cart{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	// Role groups must exist before anyone can be granted a role.
	for _, name := range []string{models.GroupManager, models.GroupDeliveryCrew} {
		if err := db.Where(models.Group{Name: name}).FirstOrCreate(&models.Group{Name: name}).Error; err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed group %q: %v", name, err)
		}
	}

	utils.InfoLogger.Println("AutoMigrate completed.")
}
