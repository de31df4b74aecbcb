package main

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"strings"
	"time"
)

const (
	ConfigEnvPrefix = "GRIDSHEET"
	ConfigFileName  = "gridsheet"

	StorageDriverBolt = "bolt"
	StorageDriverCsv  = "csv"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Sheet   SheetConfig   `mapstructure:"sheet"`
	Webhook WebhookConfig `mapstructure:"webhook"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Listen string `mapstructure:"listen" validate:"required"`
	Mode   string `mapstructure:"mode" validate:"required,oneof=release debug test"`
}

// StorageConfig.Path is a bbolt file for the bolt driver and a directory of
// sheet files for the csv driver.
type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=bolt csv"`
	Path   string `mapstructure:"path" validate:"required"`
}

type SheetConfig struct {
	Width  int `mapstructure:"width" validate:"min=1,max=26"`
	Height int `mapstructure:"height" validate:"min=1,max=100"`
}

type WebhookConfig struct {
	Workers   int           `mapstructure:"workers" validate:"min=1,max=100"`
	QueueSize int           `mapstructure:"queue_size" validate:"min=1"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

var ConfigValidationError = errors.New("invalid configuration")

// LoadConfig reads defaults, then the optional config file, then GRIDSHEET_*
// environment variables. An empty configFile looks for gridsheet.{yaml,json,...}
// in the working directory and carries on without it.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("storage.driver", StorageDriverBolt)
	v.SetDefault("storage.path", "gridsheet.db")
	v.SetDefault("sheet.width", 26)
	v.SetDefault("sheet.height", 100)
	v.SetDefault("webhook.workers", 5)
	v.SetDefault("webhook.queue_size", 20)
	v.SetDefault("webhook.timeout", 5*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(ConfigFileName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(ConfigEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// legacy variable of the single-binary deployment
	_ = v.BindEnv("storage.path", ConfigEnvPrefix+"_STORAGE_PATH", "DATABASE_FILEPATH")

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("%w: %w", ConfigValidationError, err)
	}

	return config, nil
}
