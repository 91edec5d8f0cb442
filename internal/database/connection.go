package database

import (
	"errors"

	"github.com/adimehta/skillbridge/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func (d *Database) Connect(dsn string) error {
	if dsn == "" {
		return errors.New("database DSN is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Assignment{},
		&models.Application{},
		&models.ChatMessage{},
		&models.Notification{},
	)
	if err != nil {
		return err
	}

	d.db = db

	return nil
}
