package database

import (
	"strings"

	"brickblock-backend/internal/domain"
	"brickblock-backend/internal/stablecoin"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens a GORM DB from DSN. Postgres URLs go through the pgx driver;
// "sqlite:" / "file:" DSNs open a pure-Go SQLite database for local runs.
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") behind connection poolers.
func Open(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	if path, ok := sqlitePath(dsn); ok {
		return OpenSQLite(path)
	}
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), cfg)
}

// OpenSQLite opens a SQLite database; ":memory:" for tests. Foreign keys on, a single
// connection so an in-memory database is shared by every query.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func sqlitePath(dsn string) (string, bool) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return strings.TrimPrefix(dsn, "sqlite://"), true
	case strings.HasPrefix(dsn, "sqlite:"):
		return strings.TrimPrefix(dsn, "sqlite:"), true
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return dsn, true
	}
	return "", false
}

// Models lists every table the service owns, in creation order.
func Models() []interface{} {
	return append([]interface{}{
		&domain.Account{},
		&domain.Property{},
		&domain.Holding{},
		&domain.InstallmentPlan{},
		&domain.LedgerState{},
		&domain.LedgerEvent{},
		&domain.RentPayout{},
	}, stablecoin.Models()...)
}

// AutoMigrate creates or updates every table and seeds the single ledger state row.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	state := domain.LedgerState{ID: domain.LedgerStateID}
	return db.Where(domain.LedgerState{ID: domain.LedgerStateID}).FirstOrCreate(&state).Error
}

// Pinger adapts *gorm.DB to the health check.
type Pinger struct{ DB *gorm.DB }

func (p Pinger) Ping() error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
