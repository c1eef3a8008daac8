package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	GeocoderNominatim = "nominatim"
	GeocoderGoogle    = "google"

	ProviderMeteostat = "meteostat"
	ProviderOpenMeteo = "openmeteo"
)

type Config struct {
	Log       Log       `yaml:"log"`
	Geocoding Geocoding `yaml:"geocoding"`
	Weather   Weather   `yaml:"weather"`
	Request   Request   `yaml:"request"`
	Server    Server    `yaml:"server"`
}

type Log struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

type Geocoding struct {
	Backend   string    `yaml:"backend" validate:"oneof=nominatim google"`
	Nominatim Nominatim `yaml:"nominatim"`
	Google    Google    `yaml:"google"`
}

type Nominatim struct {
	URL       string `yaml:"url" validate:"required,url"`
	UserAgent string `yaml:"userAgent" validate:"required"`
	APIKey    string `yaml:"apiKey"`
}

type Google struct {
	APIKey string `yaml:"apiKey"`
}

type Weather struct {
	Provider  string    `yaml:"provider" validate:"oneof=meteostat openmeteo"`
	Meteostat Meteostat `yaml:"meteostat"`
	OpenMeteo OpenMeteo `yaml:"openmeteo"`
}

type Meteostat struct {
	URL    string `yaml:"url" validate:"required,url"`
	Host   string `yaml:"host"`
	APIKey string `yaml:"apiKey"`
}

type OpenMeteo struct {
	URL string `yaml:"url" validate:"required,url"`
}

// Request is the default data loader request used when the CLI gets no
// arguments. Dates use the YYYY-MM-DD layout.
type Request struct {
	Country string `yaml:"country"`
	City    string `yaml:"city"`
	From    string `yaml:"from"`
	To      string `yaml:"to"`
}

type Server struct {
	Port         string        `yaml:"port" validate:"required,numeric"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// Load parses defaults, then the optional file at path, then applies
// environment overrides (a .env file is loaded when present).
func Load(defaults []byte, path string) (*Config, error) {
	cfg := &Config{}

	if err := yaml.Unmarshal(defaults, cfg); err != nil {
		return nil, fmt.Errorf("default config: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	// A missing .env file is fine, variables may come from the environment.
	_ = godotenv.Load()

	cfg.applyEnv()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.Log.Level, "LOG_LEVEL")
	setFromEnv(&c.Geocoding.Backend, "WEATHER_GEOCODER")
	setFromEnv(&c.Geocoding.Nominatim.URL, "NOMINATIM_URL")
	setFromEnv(&c.Geocoding.Nominatim.APIKey, "NOMINATIM_API_KEY")
	setFromEnv(&c.Geocoding.Google.APIKey, "GOOGLE_GEOCODING_API_KEY")
	setFromEnv(&c.Weather.Provider, "WEATHER_PROVIDER")
	setFromEnv(&c.Weather.Meteostat.URL, "METEOSTAT_URL")
	setFromEnv(&c.Weather.Meteostat.APIKey, "METEOSTAT_API_KEY")
	setFromEnv(&c.Weather.OpenMeteo.URL, "OPENMETEO_URL")
	setFromEnv(&c.Server.Port, "PORT")
}

func setFromEnv(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}
