package config

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// InitDB opens the MySQL connection used at runtime. Tests use an in-memory
// sqlite database instead and never go through here.
func InitDB(dsn string) (*gorm.DB, error) {
	// TranslateError turns driver duplicate-key failures into
	// gorm.ErrDuplicatedKey, which the session and numbering paths rely on.
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
