package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pinmap/internal/maps"
	"pinmap/internal/pagination"

	"github.com/spf13/viper"
)

// Config holds CLI settings.
type Config struct {
	APIURL       string        `mapstructure:"api_url"`
	TokenSecret  string        `mapstructure:"token_secret"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Geocoder     string        `mapstructure:"geocoder"`
	GoogleAPIKey string        `mapstructure:"google_api_key"`
	GoogleURL    string        `mapstructure:"google_url"`
	NominatimURL string        `mapstructure:"nominatim_url"`
	UserAgent    string        `mapstructure:"user_agent"`
	PageSize     int           `mapstructure:"page_size"`
	MaxButtons   int           `mapstructure:"max_buttons"`
	Verbose      bool          `mapstructure:"verbose"`
}

// GeocoderConfig implementation
func (c Config) GetGeocoderProvider() string  { return c.Geocoder }
func (c Config) GetGoogleMapsAPIKey() string  { return c.GoogleAPIKey }
func (c Config) GetGoogleMapsURL() string     { return c.GoogleURL }
func (c Config) GetNominatimURL() string      { return c.NominatimURL }
func (c Config) GetGeocoderUserAgent() string { return c.UserAgent }

func newViper() *viper.Viper {
	v := viper.New()

	// default values
	v.SetDefault("api_url", "http://localhost:3000")
	v.SetDefault("token_secret", "")
	v.SetDefault("timeout", "10s")
	v.SetDefault("geocoder", "nominatim")
	v.SetDefault("google_api_key", "")
	v.SetDefault("google_url", maps.DefaultGoogleURL)
	v.SetDefault("nominatim_url", maps.DefaultNominatimURL)
	v.SetDefault("user_agent", "pinmap-cli/1.0")
	v.SetDefault("page_size", 10)
	v.SetDefault("max_buttons", pagination.DefaultMaxButtons)
	v.SetDefault("verbose", false)

	v.SetEnvPrefix("PINMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig reads the optional config file, then decodes every source into a Config.
func loadConfig(v *viper.Viper, cfgFile string) (Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pinmap"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		_ = v.ReadInConfig()
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.PageSize < 1 {
		return Config{}, fmt.Errorf("page_size must be at least 1, got %d", c.PageSize)
	}
	if c.MaxButtons < 1 {
		c.MaxButtons = pagination.DefaultMaxButtons
	}
	return c, nil
}
