package config

import (
	"fmt"

	"github.com/gorilla/sessions"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB    *gorm.DB
	Store *sessions.CookieStore
)

func InitDB(s Settings) error {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=disable",
		s.DBHost, s.DBUser, s.DBPassword, s.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	DB = db
	return nil
}

func InitSessions(s Settings) {
	Store = sessions.NewCookieStore([]byte(s.SessionSecret))
}
