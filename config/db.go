package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"breakfast-backend/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := EnvOrDefault("DB_USER", "root")
	pass := EnvOrDefault("DB_PASS", "")
	host := EnvOrDefault("DB_HOST", "127.0.0.1")
	port := EnvOrDefault("DB_PORT", "3306")
	dbName := EnvOrDefault("DB_NAME", "breakfast_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(EnvInt("DB_MAX_OPEN_CONNS", 25))
		sqlDB.SetMaxIdleConns(EnvInt("DB_MAX_IDLE_CONNS", 5))
		sqlDB.SetConnMaxLifetime(EnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute))
	}

	DB = db

	if err := Migrate(DB); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}

// Migrate runs AutoMigrate in parent->child order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Property{},
		&models.Room{},
		&models.Staff{},
		&models.Guest{},
		&models.DailyBreakfastConsumption{},
		&models.SyncMetadata{},
	)
}

// SeedDatabase ensures a demo property, its room inventory, and a default
// staff account exist. Idempotent; skipped pieces log a warning, never fail
// the boot.
func SeedDatabase() {
	var propertyCount int64
	DB.Model(&models.Property{}).Count(&propertyCount)
	if propertyCount == 0 {
		property := models.Property{
			PropertyID: EnvOrDefault("SEED_PROPERTY_ID", "PROP001"),
			Name:       EnvOrDefault("SEED_PROPERTY_NAME", "Harbourfront Hotel"),
			Timezone:   EnvOrDefault("SEED_PROPERTY_TZ", "Local"),
		}
		if err := DB.Create(&property).Error; err != nil {
			log.Warn().Err(err).Msg("failed to seed default property")
		} else {
			seedRooms(property.PropertyID)
			log.Info().Str("property_id", property.PropertyID).Msg("default property seeded")
		}
	}

	var staffCount int64
	DB.Model(&models.Staff{}).Count(&staffCount)
	if staffCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(EnvOrDefault("SEED_STAFF_PASSWORD", "breakfast123")), bcrypt.DefaultCost)
		if err != nil {
			log.Warn().Err(err).Msg("failed to hash default staff password")
			return
		}
		staff := models.Staff{
			Email:      EnvOrDefault("SEED_STAFF_EMAIL", "staff@hotel.local"),
			Password:   string(hash),
			FirstName:  "Front",
			LastName:   "Desk",
			Role:       "manager",
			PropertyID: EnvOrDefault("SEED_PROPERTY_ID", "PROP001"),
			IsActive:   true,
		}
		if err := DB.Create(&staff).Error; err != nil {
			log.Warn().Err(err).Msg("failed to seed default staff")
		} else {
			log.Info().Str("email", staff.Email).Msg("default staff seeded")
		}
	}
}

func seedRooms(propertyID string) {
	roomTypes := []string{"standard", "standard", "deluxe", "suite"}
	var rooms []models.Room
	for floor := 1; floor <= 3; floor++ {
		for n := 1; n <= 8; n++ {
			rooms = append(rooms, models.Room{
				PropertyID:   propertyID,
				RoomNumber:   fmt.Sprintf("%d%02d", floor, n),
				Floor:        floor,
				RoomType:     roomTypes[n%len(roomTypes)],
				MaxOccupancy: 2,
				Status:       models.RoomAvailable,
			})
		}
	}
	if err := DB.Create(&rooms).Error; err != nil {
		log.Warn().Err(err).Msg("failed to seed rooms")
	}
}
