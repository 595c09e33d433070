package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tsn-cnc/internal/models"
)

func Open(path string) (*gorm.DB, error) {
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	if err := conn.AutoMigrate(&models.StoredCredential{}); err != nil {
		return nil, fmt.Errorf("migrate database %s: %w", path, err)
	}
	return conn, nil
}
