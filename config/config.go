package config

import (
	"log"
	"os"

	"car-rental-api/models"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret used to sign tokens, read from env with a dev fallback
var JWTSecret = []byte(getEnv("JWT_SECRET", "car_rental_super_secret_2024"))

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func InitDB() {
	dsn := getEnv("CAR_RENTAL_DB", "car_rental.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
	DB = db

	log.Println("Database connected and migrated")
}

// Migrate runs the schema migration for every model. Exposed so tests can
// migrate their own in-memory databases.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Car{},
		&models.CarImage{},
		&models.Review{},
		&models.RentalRequest{},
		&models.RentalStatusHistory{},
		&models.DealerApprovalRequest{},
		&models.Sale{},
	)
}

// SeedAdmin creates the bootstrap admin account when ADMIN_USERNAME and
// ADMIN_PASSWORD are set and no such user exists yet. Admin is never a
// self-service role; it only exists through this seed or another admin.
func SeedAdmin() {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return
	}

	var existing models.User
	if err := DB.Where("username = ?", username).First(&existing).Error; err == nil {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Println("Failed to hash admin password:", err)
		return
	}
	admin := models.User{
		Username:     username,
		Email:        getEnv("ADMIN_EMAIL", username+"@localhost"),
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Println("Failed to seed admin user:", err)
		return
	}
	log.Println("Seeded admin user:", username)
}
