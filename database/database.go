package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rpupo63/quickdialer/config"
	"github.com/rpupo63/quickdialer/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

type Database struct {
	db          *gorm.DB
	contactRepo *ContactRepo
	tagRepo     *TagRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:          db,
		contactRepo: NewContactRepo(db),
		tagRepo:     NewTagRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ContactRepo() *ContactRepo {
	return d.contactRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

// Ping checks that the primary store answers.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Migrate creates or updates the contacts, tags and contact_tags tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Open connects to the store selected by cfg.DBType. Postgres connections
// register cfg.ReplicaDSNs as read replicas.
func Open(cfg config.Config, gormLogger logger.Interface) (*gorm.DB, error) {
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	gormConfig := &gorm.Config{
		PrepareStmt:    false,
		Logger:         gormLogger,
		TranslateError: true,
	}

	switch cfg.DBType {
	case config.DBTypePostgres, config.DBTypeSupabase:
		db, err := gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true,
		}), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if len(cfg.ReplicaDSNs) > 0 {
			replicas := make([]gorm.Dialector, 0, len(cfg.ReplicaDSNs))
			for _, dsn := range cfg.ReplicaDSNs {
				replicas = append(replicas, postgres.New(postgres.Config{
					DSN:                  strings.TrimSpace(dsn),
					PreferSimpleProtocol: true,
				}))
			}
			err := db.Use(dbresolver.Register(dbresolver.Config{
				Replicas: replicas,
				Policy:   dbresolver.RandomPolicy{},
			}).SetConnMaxIdleTime(time.Hour))
			if err != nil {
				return nil, fmt.Errorf("register read replicas: %w", err)
			}
		}
		return db, nil

	case config.DBTypeSQLite:
		db, err := gorm.Open(sqlite.New(sqlite.Config{
			DriverName: sqliteDriverName,
			DSN:        sqliteDSN(cfg.DSN()),
		}), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// One writer at a time; also keeps ":memory:" a single database.
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}

	return nil, fmt.Errorf("unsupported DB_TYPE %q", cfg.DBType)
}
