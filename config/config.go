package config

import (
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Server struct {
		// Port the HTTP API listens on
		Port string `env:"PORT" envDefault:"5250"`

		// Origins allowed to call the API from a browser
		CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	}

	Game struct {
		// Path to a JSON property catalog. Empty uses the built-in catalog.
		CatalogPath string `env:"CATALOG_PATH"`

		// Seed for property draws; 0 seeds from the system
		RandomSeed int64 `env:"RANDOM_SEED" envDefault:"0"`

		// Number of achievement batches buffered for notification
		NotificationBuffer int `env:"NOTIFICATION_BUFFER" envDefault:"16"`
	}

	Geocoding struct {
		// Look up coordinates for catalog properties that have none
		FillMissing bool   `env:"GEOCODE_MISSING" envDefault:"false"`
		BaseURL     string `env:"GEOCODER_URL" envDefault:"https://nominatim.openstreetmap.org"`
	}

	Submission struct {
		// Simulated send time when no SendGrid key is configured
		Delay time.Duration `env:"SUBMISSION_DELAY" envDefault:"2s"`

		// Maximum time a real send may take, retries included
		Timeout time.Duration `env:"SUBMISSION_TIMEOUT" envDefault:"10s"`

		MaxRetries int           `env:"SUBMISSION_MAX_RETRIES" envDefault:"2"`
		RetryDelay time.Duration `env:"SUBMISSION_RETRY_DELAY" envDefault:"1s"`

		SendGridAPIKey string `env:"SENDGRID_API_KEY"`
		FromEmail      string `env:"SENDGRID_FROM_EMAIL" envDefault:"results@flipquest.local"`
		FromName       string `env:"SENDGRID_FROM_NAME" envDefault:"FlipQuest"`
	}
}

// UseSendGrid reports whether real emails should be sent
func (c *Config) UseSendGrid() bool {
	return c.Submission.SendGridAPIKey != ""
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
