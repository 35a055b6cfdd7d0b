package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the service configuration read from the environment
type Config struct {
	Env      string
	LogLevel string

	Host string
	Port int

	APIKey string

	CAPDataPath    string
	CAPDatabaseURL string

	OverpassURL          string
	OverpassTimeout      time.Duration
	OverpassQueryTimeout int

	UseLibpostal bool

	CitySpellcheck            bool
	CitySpellcheckMaxDistance int

	MetricsEnabled bool
}

// Defaults used when a key is absent from the environment
const (
	DefaultAPIKey      = "changeme123"
	DefaultCAPDataPath = "sample_data/cap_comuni.csv"
	DefaultOverpassURL = "https://overpass-api.de/api/interpreter"
)

// LoadEnv loads variables from the first .env file found in the current
// directory or its parents. Variables already set in the environment win.
func LoadEnv() error {
	for _, envPath := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envPath); err == nil {
			return nil
		}
	}
	return nil
}

// Load reads .env and returns the typed configuration
func Load() *Config {
	LoadEnv()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("WEB_HOST", "0.0.0.0")
	v.SetDefault("WEB_PORT", 8000)
	v.SetDefault("API_KEY", DefaultAPIKey)
	v.SetDefault("CAP_DATA_PATH", DefaultCAPDataPath)
	v.SetDefault("CAP_DATABASE_URL", "")
	v.SetDefault("OVERPASS_URL", DefaultOverpassURL)
	v.SetDefault("OVERPASS_TIMEOUT", 15*time.Second)
	v.SetDefault("OVERPASS_QUERY_TIMEOUT", 10)
	v.SetDefault("USE_LIBPOSTAL", true)
	v.SetDefault("CITY_SPELLCHECK_ENABLED", false)
	v.SetDefault("CITY_SPELLCHECK_MAX_DISTANCE", 2)
	v.SetDefault("METRICS_ENABLED", true)

	return v
}

// FromViper builds a Config from an already populated viper instance
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Env:                       v.GetString("APP_ENV"),
		LogLevel:                  v.GetString("LOG_LEVEL"),
		Host:                      v.GetString("WEB_HOST"),
		Port:                      v.GetInt("WEB_PORT"),
		APIKey:                    v.GetString("API_KEY"),
		CAPDataPath:               v.GetString("CAP_DATA_PATH"),
		CAPDatabaseURL:            v.GetString("CAP_DATABASE_URL"),
		OverpassURL:               v.GetString("OVERPASS_URL"),
		OverpassTimeout:           v.GetDuration("OVERPASS_TIMEOUT"),
		OverpassQueryTimeout:      v.GetInt("OVERPASS_QUERY_TIMEOUT"),
		UseLibpostal:              getBool(v, "USE_LIBPOSTAL"),
		CitySpellcheck:            getBool(v, "CITY_SPELLCHECK_ENABLED"),
		CitySpellcheckMaxDistance: v.GetInt("CITY_SPELLCHECK_MAX_DISTANCE"),
		MetricsEnabled:            getBool(v, "METRICS_ENABLED"),
	}
}

// getBool accepts the yes/on spellings that viper's cast rejects
func getBool(v *viper.Viper, key string) bool {
	switch strings.ToLower(strings.TrimSpace(v.GetString(key))) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}
