package db

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/goodjobguy1234/LendItApi/config"
	"github.com/goodjobguy1234/LendItApi/models"
)

func ConnectDB(cfg config.Database, log logrus.FieldLogger) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port,
	)

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := Migrate(conn); err != nil {
		log.Fatalf("failed to migrate models: %v", err)
	}
	log.Info("database connected")
	return conn
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Item{}, &models.Borrow{}, &models.Transaction{}); err != nil {
		return err
	}

	// At most one borrow per item, enforced in the schema as well as by the
	// engine's compare-and-swap on items.available.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_per_item
	  ON %s (item_id);
	`, models.BorrowTable, models.BorrowTable)).Error; err != nil {
		return err
	}

	// At most one open (unreturned) transaction per borrow.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_open_per_borrow
	  ON %s (borrow_borrow_id)
	  WHERE return_status = FALSE;
	`, models.TransactionTable, models.TransactionTable)).Error; err != nil {
		return err
	}

	return nil
}
