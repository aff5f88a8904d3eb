package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/vnkhanh/hostel-server/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

type Settings struct {
	Port           string
	GinMode        string
	DBDriver       string
	DSN            string
	DBLogLevel     string
	CORSOrigins    []string
	AuthRatePerMin int
	AuthRateBurst  int
	ExportDir      string
	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string
}

// Load reads .env when present and builds Settings from the environment.
func Load() Settings {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}

	s := Settings{
		Port:           getenv("PORT", "8080"),
		GinMode:        os.Getenv("GIN_MODE"),
		DBDriver:       strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DBLogLevel:     strings.ToLower(getenv("DB_LOG_LEVEL", "warn")),
		CORSOrigins:    splitList(getenv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		AuthRatePerMin: getenvInt("AUTH_RATE_PER_MIN", 10),
		AuthRateBurst:  getenvInt("AUTH_RATE_BURST", 5),
		ExportDir:      getenv("EXPORT_DIR", "./exports"),
		SupabaseURL:    os.Getenv("SUPABASE_URL"),
		SupabaseKey:    os.Getenv("SUPABASE_KEY"),
		SupabaseBucket: getenv("SUPABASE_BUCKET", "hostel-images"),
	}

	switch s.DBDriver {
	case "sqlite":
		s.DSN = getenv("SQLITE_PATH", "hostelgo.db")
	default:
		s.DSN = os.Getenv("DATABASE_URL")
		if s.DSN == "" {
			s.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
				getenv("DB_HOST", "localhost"),
				getenv("DB_USER", "postgres"),
				os.Getenv("DB_PASSWORD"),
				getenv("DB_NAME", "hostelgo"),
				getenv("DB_PORT", "5432"),
				getenv("DB_SSLMODE", "disable"),
				getenv("DB_TIMEZONE", "UTC"),
			)
		}
	}
	return s
}

// Open connects to the configured store without touching the schema.
func Open(driver, dsn, logLevel string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	return gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(parseLogLevel(logLevel)),
		TranslateError: true,
	})
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// ConnectDB opens the store, migrates it and publishes it as DB.
func ConnectDB(s Settings) error {
	db, err := Open(s.DBDriver, s.DSN, s.DBLogLevel)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	DB = db
	log.Printf("Connected to %s & migrated successfully", s.DBDriver)
	return nil
}

func parseLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
