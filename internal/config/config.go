// Package config reads settings from the environment (and an optional .env file).
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// DevSessionKey is accepted only when DEBUG is on.
const DevSessionKey = "super-secret-default-key"

type Config struct {
	Env      string
	Debug    bool
	Build    string
	Port     string
	LogLevel string

	Session struct {
		Key    string
		Secure bool
	}

	Google struct {
		ClientID     string
		ClientSecret string
		RedirectURL  string
	}

	Database struct {
		Driver   string
		URL      string
		MongoURI string
		MongoDB  string
	}

	Content struct {
		ProjectID  string
		Dataset    string
		APIVersion string
		BaseURL    string
		Token      string
		Timeout    time.Duration
	}

	LandingPath  string
	FileHostURL  string
	CORSOrigins  []string
	RollbarToken string
}

var drivers = map[string]bool{"mongo": true, "postgres": true, "sqlite": true, "memory": true}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("ENV", "development")
	v.SetDefault("DEBUG", false)
	v.SetDefault("BUILD", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SESSION_KEY", "")
	v.SetDefault("SESSION_SECURE", false)
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URL", "")
	v.SetDefault("DB_DRIVER", "mongo")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "learnhub")
	v.SetDefault("CONTENT_PROJECT_ID", "")
	v.SetDefault("CONTENT_DATASET", "production")
	v.SetDefault("CONTENT_API_VERSION", "2024-01-01")
	v.SetDefault("CONTENT_BASE_URL", "")
	v.SetDefault("CONTENT_TOKEN", "")
	v.SetDefault("CONTENT_TIMEOUT", 10*time.Second)
	v.SetDefault("LANDING_PATH", "/home")
	v.SetDefault("FILE_HOST_URL", "https://drive.google.com/uc?export=download&id=%s")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("ROLLBAR_TOKEN", "")

	v.AutomaticEnv()
	return v
}

// Load reads .env when it exists, then the process environment.
func Load(log logrus.FieldLogger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(errors.Cause(err)) {
			return nil, errors.Wrap(err, "load .env")
		}
		log.Info(".env not found, using process environment")
	}
	return fromViper(newViper()), nil
}

func fromViper(v *viper.Viper) *Config {
	c := &Config{
		Env:          v.GetString("ENV"),
		Debug:        v.GetBool("DEBUG"),
		Build:        v.GetString("BUILD"),
		Port:         v.GetString("PORT"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		LandingPath:  v.GetString("LANDING_PATH"),
		FileHostURL:  v.GetString("FILE_HOST_URL"),
		RollbarToken: v.GetString("ROLLBAR_TOKEN"),
	}
	c.Session.Key = v.GetString("SESSION_KEY")
	c.Session.Secure = v.GetBool("SESSION_SECURE")

	c.Google.ClientID = v.GetString("GOOGLE_CLIENT_ID")
	c.Google.ClientSecret = v.GetString("GOOGLE_CLIENT_SECRET")
	c.Google.RedirectURL = v.GetString("GOOGLE_REDIRECT_URL")

	c.Database.Driver = strings.ToLower(v.GetString("DB_DRIVER"))
	c.Database.URL = v.GetString("DATABASE_URL")
	c.Database.MongoURI = v.GetString("MONGO_URI")
	c.Database.MongoDB = v.GetString("MONGO_DB")

	c.Content.ProjectID = v.GetString("CONTENT_PROJECT_ID")
	c.Content.Dataset = v.GetString("CONTENT_DATASET")
	c.Content.APIVersion = strings.TrimPrefix(v.GetString("CONTENT_API_VERSION"), "v")
	c.Content.BaseURL = strings.TrimRight(v.GetString("CONTENT_BASE_URL"), "/")
	if c.Content.BaseURL == "" && c.Content.ProjectID != "" {
		c.Content.BaseURL = "https://" + c.Content.ProjectID + ".api.sanity.io"
	}
	c.Content.Token = v.GetString("CONTENT_TOKEN")
	c.Content.Timeout = v.GetDuration("CONTENT_TIMEOUT")

	for _, o := range strings.Split(v.GetString("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			c.CORSOrigins = append(c.CORSOrigins, o)
		}
	}
	return c
}

// Validate checks the settings the server cannot start without.
// In debug mode a missing SESSION_KEY falls back to DevSessionKey.
func (c *Config) Validate() error {
	if c.Google.ClientID == "" || c.Google.ClientSecret == "" || c.Google.RedirectURL == "" {
		return errors.New("GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and GOOGLE_REDIRECT_URL must be set")
	}
	if !drivers[c.Database.Driver] {
		return errors.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}
	if c.Content.BaseURL == "" {
		return errors.New("CONTENT_PROJECT_ID or CONTENT_BASE_URL must be set")
	}
	if c.Session.Key == "" {
		if !c.Debug {
			return errors.New("SESSION_KEY must be set outside debug mode")
		}
		c.Session.Key = DevSessionKey
	}
	if !strings.HasPrefix(c.LandingPath, "/") {
		return errors.Errorf("LANDING_PATH must be an absolute path, got %q", c.LandingPath)
	}
	return nil
}
