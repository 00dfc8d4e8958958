// Ininicializing common application configuration
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Resize ResizeConfig `mapstructure:"resize"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Kafka  KafkaConfig  `mapstructure:"kafka"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	AppVersion   string        `json:"appVersion" mapstructure:"app_version" default:"dev"`
	Host         string        `json:"host" validate:"required" default:"0.0.0.0"`
	Port         string        `json:"port" validate:"required,numeric" default:"8080"`
	Timeout      time.Duration `default:"30s"`
	Idle_timeout time.Duration `default:"60s"`
	Env          string        `json:"environment" mapstructure:"environment" default:"development"`
	Mode         string        `mapstructure:"mode" default:"debug"`
}

type ResizeConfig struct {
	// MaxBodyBytes caps the raw JSON request, before the image is decoded.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" validate:"gt=0" default:"1048576"`
	MaxDimension int   `mapstructure:"max_dimension" validate:"gt=0" default:"8192"`
	// MaxSourcePixels caps width*height of the uploaded image, read from its header.
	MaxSourcePixels int    `mapstructure:"max_source_pixels" validate:"gt=0" default:"40000000"`
	Engine          string `mapstructure:"engine" validate:"oneof=imaging nfnt" default:"imaging"`
	JPEGQuality     int    `mapstructure:"jpeg_quality" validate:"min=1,max=100" default:"90"`
}

// RedisConfig is optional: an empty Addr disables the result cache.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl" default:"10m"`
}

// KafkaConfig is optional: without brokers resize events are only logged.
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic" default:"image-resized"`
}

type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=trace debug info warn error" default:"info"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" default:"50"`
	MaxBackups int    `mapstructure:"max_backups" default:"3"`
	MaxAgeDays int    `mapstructure:"max_age_days" default:"14"`
}

func LoadConfig() (*viper.Viper, error) {

	viperInstance := viper.New()

	viperInstance.AddConfigPath(GetEnv("PICLOOM_CONFIG_DIR", "./config"))
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	viperInstance.SetEnvPrefix("PICLOOM")
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	err := viperInstance.ReadInConfig()

	if err != nil {
		return nil, err
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("unable to apply config defaults: %w", err)
	}

	if err := validator.New().Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &c, nil
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
