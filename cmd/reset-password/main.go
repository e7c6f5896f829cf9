package main

import (
	"flag"
	"log"

	"go-erp-docs/internal/config"
	"go-erp-docs/internal/model"
	"go-erp-docs/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	username := flag.String("username", "admin", "user whose password is reset")
	newPassword := flag.String("password", "admin123", "new password (min 6 characters)")
	flag.Parse()

	if len(*newPassword) < 6 {
		log.Fatal("❌ Password must be at least 6 characters")
	}

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg := config.Load()

	// 2. Setup Database
	db := database.ConnectDB(cfg.DatabaseURL, cfg.IsProduction())

	// 3. Find user
	var user model.User
	if err := db.Where("username = ?", *username).First(&user).Error; err != nil {
		log.Fatalf("❌ User %s not found in database: %v", *username, err)
	}

	// 4. Hash new password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	// 5. Update password and end every open session
	err = db.Model(&user).Updates(map[string]interface{}{
		"password":      string(hashedPassword),
		"token_version": "",
		"is_active":     true,
	}).Error
	if err != nil {
		log.Fatalf("❌ Failed to update password in DB: %v", err)
	}

	log.Printf("✅ Success! Password for %s has been reset", *username)
}
