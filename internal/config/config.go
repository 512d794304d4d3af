// Package config loads runtime settings from defaults, the environment, an
// optional .env file and an optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable, e.g. INVENTORY_PORT.
const EnvPrefix = "INVENTORY"

// Config keys.
const (
	KeyDB                     = "db"
	KeyHost                   = "host"
	KeyPort                   = "port"
	KeyLog                    = "log"
	KeyUploadDir              = "upload_dir"
	KeyUploadMaxBytes         = "upload_max_bytes"
	KeyUploadMaxFiles         = "upload_max_files"
	KeyCategoryNameMin        = "category_name_min"
	KeyCategoryNameMax        = "category_name_max"
	KeyCategoryDescriptionMax = "category_description_max"
	KeyItemNameMin            = "item_name_min"
	KeyItemNameMax            = "item_name_max"
	KeyItemDescriptionMax     = "item_description_max"
	KeyPasswordMin            = "password_min"
	KeyPasswordMax            = "password_max"
)

// Range bounds the rune length of a text field.
type Range struct {
	Min int
	Max int
}

// Limits holds every field bound and upload limit used by validation.
type Limits struct {
	CategoryName        Range
	CategoryDescription Range
	ItemName            Range
	ItemDescription     Range
	Password            Range
	UploadMaxBytes      int64
	UploadMaxFiles      int
}

// Config is the immutable runtime configuration.
type Config struct {
	DB        string
	Host      string
	Port      int
	Log       string
	UploadDir string
	Limits    Limits
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DefaultLimits returns the stock field bounds.
func DefaultLimits() Limits {
	return Limits{
		CategoryName:        Range{Min: 1, Max: 80},
		CategoryDescription: Range{Min: 0, Max: 1200},
		ItemName:            Range{Min: 1, Max: 300},
		ItemDescription:     Range{Min: 0, Max: 3000},
		Password:            Range{Min: 3, Max: 30},
		UploadMaxBytes:      2 << 20,
		UploadMaxFiles:      500,
	}
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	d := DefaultLimits()

	v := viper.New()
	v.SetDefault(KeyDB, "inventory.sqlite3")
	v.SetDefault(KeyHost, "")
	v.SetDefault(KeyPort, 8080)
	v.SetDefault(KeyLog, "")
	v.SetDefault(KeyUploadDir, "uploads")
	v.SetDefault(KeyUploadMaxBytes, d.UploadMaxBytes)
	v.SetDefault(KeyUploadMaxFiles, d.UploadMaxFiles)
	v.SetDefault(KeyCategoryNameMin, d.CategoryName.Min)
	v.SetDefault(KeyCategoryNameMax, d.CategoryName.Max)
	v.SetDefault(KeyCategoryDescriptionMax, d.CategoryDescription.Max)
	v.SetDefault(KeyItemNameMin, d.ItemName.Min)
	v.SetDefault(KeyItemNameMax, d.ItemName.Max)
	v.SetDefault(KeyItemDescriptionMax, d.ItemDescription.Max)
	v.SetDefault(KeyPasswordMin, d.Password.Min)
	v.SetDefault(KeyPasswordMax, d.Password.Max)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads .env (if present), then the YAML file at path (if non-empty),
// and returns the resolved Config. Environment variables win over the file.
func Load(v *viper.Viper, path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{
		DB:        v.GetString(KeyDB),
		Host:      v.GetString(KeyHost),
		Port:      v.GetInt(KeyPort),
		Log:       v.GetString(KeyLog),
		UploadDir: v.GetString(KeyUploadDir),
		Limits: Limits{
			CategoryName:        Range{Min: v.GetInt(KeyCategoryNameMin), Max: v.GetInt(KeyCategoryNameMax)},
			CategoryDescription: Range{Max: v.GetInt(KeyCategoryDescriptionMax)},
			ItemName:            Range{Min: v.GetInt(KeyItemNameMin), Max: v.GetInt(KeyItemNameMax)},
			ItemDescription:     Range{Max: v.GetInt(KeyItemDescriptionMax)},
			Password:            Range{Min: v.GetInt(KeyPasswordMin), Max: v.GetInt(KeyPasswordMax)},
			UploadMaxBytes:      v.GetInt64(KeyUploadMaxBytes),
			UploadMaxFiles:      v.GetInt(KeyUploadMaxFiles),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DB == "" {
		return errors.New("db path must not be empty")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.UploadDir == "" {
		return errors.New("upload_dir must not be empty")
	}
	if c.Limits.UploadMaxBytes <= 0 {
		return fmt.Errorf("upload_max_bytes must be positive, got %d", c.Limits.UploadMaxBytes)
	}
	for name, r := range map[string]Range{
		"category_name":        c.Limits.CategoryName,
		"category_description": c.Limits.CategoryDescription,
		"item_name":            c.Limits.ItemName,
		"item_description":     c.Limits.ItemDescription,
		"password":             c.Limits.Password,
	} {
		if r.Min < 0 || r.Max < r.Min {
			return fmt.Errorf("invalid %s bounds %d..%d", name, r.Min, r.Max)
		}
	}
	return nil
}
