package database

import (
	"fmt"
	"strings"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/logger"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// Connect opens PostgreSQL for postgres:// DSNs and the pure-Go SQLite
// driver for everything else.
func Connect(dsn string, log zerolog.Logger) (*gorm.DB, error) {
	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.NewGorm(log),
	}

	if IsPostgres(dsn) {
		log.Info().Msg("connecting to PostgreSQL")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.Info().Str("dsn", dsn).Msg("using SQLite for local development")

	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        withSQLitePragmas(dsn),
		}),
		cfg,
	)
	if err != nil {
		return nil, err
	}

	// SQLite держит одного писателя, лишние соединения дают SQLITE_BUSY
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// withSQLitePragmas turns on foreign keys for modernc sqlite.
func withSQLitePragmas(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Subscription{},
		&domain.Ingredient{},
		&domain.Recipe{},
		&domain.RecipeIngredient{},
		&domain.Favorite{},
		&domain.ShoppingCart{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
