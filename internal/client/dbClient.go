package client

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"slip-payment-backend/internal/model"
)

// InitSqliteClient opens the user-registry database and migrates its schema.
// Gift orders deliberately do not live here; the ledger is a flat file.
func InitSqliteClient(databaseURL string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(databaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(&model.UserProfile{}); err != nil {
		log.Fatal(err)
	}

	return db
}
