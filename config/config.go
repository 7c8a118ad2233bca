package config

import (
	"fmt"
	"time"

	"github.com/jinzhu/configor"
	"github.com/joho/godotenv"
)

type Config struct {
	AppConfig AppConfig
	DBConfig  DBConfig
	JWTConfig JWTConfig
}

type AppConfig struct {
	Port int `default:"8080" env:"APP_PORT"`
}

type DBConfig struct {
	Host     string `default:"localhost" env:"DB_HOST"`
	User     string `default:"postgres" env:"DB_USER"`
	Password string `required:"true" env:"DB_PASSWORD"`
	Name     string `default:"mealtracker" env:"DB_NAME"`
	Port     uint   `default:"5432" env:"DB_PORT"`
	SSLMode  string `default:"disable" env:"DB_SSLMODE"`
}

// DSN is the key/value form the gorm postgres driver expects.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

// URL is the connection-string form the migration tooling expects.
func (c DBConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type JWTConfig struct {
	Secret   string `required:"true" env:"JWT_SECRET"`
	TTLHours int    `default:"2" env:"JWT_TTL_HOURS"`
}

func (c JWTConfig) TokenTTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

func LoadConfigOrPanic() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var config = Config{}
	if err := configor.Load(&config); err != nil {
		panic(err)
	}
	return config
}
