package main

import (
	"flag"
	"log"

	"go-erp-docs/internal/config"
	"go-erp-docs/internal/model"
	"go-erp-docs/internal/repository"
	"go-erp-docs/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	all := flag.Bool("all", false, "also truncate products, clients and company settings, then re-seed units and settings")
	flag.Parse()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg := config.Load()

	// 2. Setup Database
	db := database.ConnectDB(cfg.DatabaseURL, cfg.IsProduction())

	if *all {
		clearAll(db)
		return
	}

	// Hapus permanen, bukan soft delete. Items ikut terhapus lewat ON DELETE CASCADE
	var removed int64
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Unscoped().Where("type IN ?", model.DocumentTypes).Delete(&model.Transaction{})
		removed = res.RowsAffected
		return res.Error
	})
	if err != nil {
		log.Fatalf("❌ Failed to clear transactions: %v", err)
	}

	log.Printf("✅ %d transactions removed (quotation, DO, BAST, invoice)", removed)
	log.Println("Clients, products and users are untouched")
}

// clearAll empties every business table but keeps users and units
func clearAll(db *gorm.DB) {
	err := db.Exec("TRUNCATE transaction_items, transactions, products, clients, company_settings RESTART IDENTITY CASCADE").Error
	if err != nil {
		log.Fatalf("❌ Failed to truncate tables: %v", err)
	}
	log.Println("✅ Tables truncated: transaction_items, transactions, products, clients, company_settings")

	if err := repository.NewUnitRepo(db).SeedDefaults(); err != nil {
		log.Fatalf("❌ Failed to re-seed units: %v", err)
	}
	if err := repository.NewSettingRepo(db).SeedDefaults(); err != nil {
		log.Fatalf("❌ Failed to re-seed settings: %v", err)
	}
	log.Println("✅ Units and company settings re-seeded")
}
