package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // zona waktu RT tetap tersedia di container tanpa tzdata

	"github.com/caarlos0/env/v6"
)

// Config memuat seluruh konfigurasi aplikasi dari environment (.env dimuat lebih dulu oleh godotenv).
type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"3000"`

	DBUser     string `env:"DB_USER" envDefault:"root"`
	DBPassword string `env:"DB_PASSWORD"`
	DBHost     string `env:"DB_HOST" envDefault:"127.0.0.1"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`
	DBName     string `env:"DB_NAME" envDefault:"jaga_kampung"`

	JWTSecret string `env:"JWT_SECRET" envDefault:"rahasia_kampung"`

	WardTimezone  string `env:"WARD_TIMEZONE" envDefault:"Asia/Jakarta"`
	MinRosterYear int    `env:"MIN_ROSTER_YEAR" envDefault:"2024"`

	// Kosong berarti lock dijalankan di dalam proses.
	RedisAddress  string `env:"REDIS_ADDRESS"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kosong berarti foto disimpan di disk lokal (UploadDir).
	GCSBucket          string `env:"GCS_BUCKET"`
	GCSCredentialsJSON string `env:"GCS_CREDENTIALS_JSON"`
	UploadDir          string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	PhotoMaxWidth      int    `env:"PHOTO_MAX_WIDTH" envDefault:"1280"`

	// Kosong berarti notifikasi email tidak dikirim.
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogOutput string `env:"LOG_OUTPUT" envDefault:"stdout"`
	LogFile   string `env:"LOG_FILE" envDefault:"./logs/app.log"`
}

// Load membaca Config dari environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("gagal membaca konfigurasi: %w", err)
	}
	return cfg, nil
}

// Location mengembalikan zona waktu sipil RT. Semua batas hari dihitung dengan zona ini.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.WardTimezone)
}

func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// Helper function to get environment variable with fallback default value
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get environment variable as integer with fallback
func GetEnvAsInt(key string, fallback int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
