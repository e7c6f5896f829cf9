package database

import (
	"log"
	"os"
	"time"

	"go-erp-docs/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func ConnectDB(dsn string, production bool) *gorm.DB {
	logLevel := logger.Info
	if production {
		logLevel = logger.Warn
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  !production,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // Disables implicit prepared statements for Supabase Transaction Mode
	}), &gorm.Config{
		Logger:         newLogger,
		PrepareStmt:    false,
		TranslateError: true, // unique violation -> gorm.ErrDuplicatedKey
	})

	if err != nil {
		log.Fatal("Failed to connect to database. \n", err)
	}

	// Connection Pooling Setup (Penting untuk Production)
	sqlDB, _ := db.DB()
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established")
	return db
}

// indexes backstop the locked checks done by the services
var indexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_transactions_type_doc_number
		ON transactions (type, doc_number)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_transactions_type_customer_po
		ON transactions (type, customer_po)
		WHERE customer_po <> '' AND type IN ('QUOTATION', 'DELIVERY_ORDER', 'HANDOVER_PROTOCOL')`,
	`CREATE INDEX IF NOT EXISTS ix_transaction_items_unit ON transaction_items (unit)`,
}

// Migrate runs AutoMigrate and creates the partial/unique indexes GORM tags
// cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Unit{},
		&model.Client{},
		&model.Product{},
		&model.Setting{},
		&model.Transaction{},
		&model.TransactionItem{},
	); err != nil {
		return err
	}

	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
