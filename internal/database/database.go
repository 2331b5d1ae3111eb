package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/userhub/user-directory-api/internal/config"
	"github.com/userhub/user-directory-api/internal/models"
	"github.com/userhub/user-directory-api/pkg/logger"
)

var DB *gorm.DB

// Connect opens the database selected by cfg.DB.Driver and configures the
// connection pool. TranslateError is enabled so unique-constraint violations
// surface as gorm.ErrDuplicatedKey regardless of driver.
func Connect(cfg *config.Config) error {
	dialector, err := dialectorFor(cfg.DB)
	if err != nil {
		return err
	}

	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}

	DB, err = gorm.Open(dialector, gormCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	log := logger.Get()
	log.Info().
		Str("driver", cfg.DB.Driver).
		Str("host", cfg.DB.Host).
		Str("database", cfg.DB.Name).
		Msg("database connection established")
	return nil
}

func dialectorFor(db config.DBConfig) (gorm.Dialector, error) {
	switch db.Driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			db.Host, db.Port, db.User, db.Password, db.Name, db.SSLMode)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			db.User, db.Password, db.Host, db.Port, db.Name)
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", db.Driver)
	}
}

// Migrate creates the users table and its unique indexes.
func Migrate() error {
	if err := DB.AutoMigrate(&models.User{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log := logger.Get()
	log.Info().Msg("database migrations completed")
	return nil
}

// Close drains the connection pool. Called on graceful shutdown.
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func GetDB() *gorm.DB {
	return DB
}
