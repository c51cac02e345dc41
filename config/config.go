package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Email   EmailConfig
	OAuth   OAuthConfig
	Ratings RatingsConfig
	Demo    DemoConfig
}

type AppConfig struct {
	Port string
	Env  string
	// BaseURL is the externally visible origin, used to build magic-link URLs.
	BaseURL string
	// DashboardURL and SignInURL are where the auth callback redirects to.
	DashboardURL string
	SignInURL    string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type EmailConfig struct {
	// Endpoint is the HTTP delivery API the mailer posts messages to.
	Endpoint string
	APIKey   string
	From     string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

// RatingsConfig bounds the quality/rested ratings accepted on sleep
// entries. Defaults to a 1-10 scale.
type RatingsConfig struct {
	Min int
	Max int
}

type DemoConfig struct {
	// Password shared by the two seeded demo accounts.
	Password string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	ratingMin := viper.GetInt("RATING_MIN")
	if ratingMin == 0 {
		ratingMin = 1
	}
	ratingMax := viper.GetInt("RATING_MAX")
	if ratingMax == 0 {
		ratingMax = 10
	}

	config := &Config{
		App: AppConfig{
			Port:         viper.GetString("APP_PORT"),
			Env:          viper.GetString("APP_ENV"),
			BaseURL:      viper.GetString("APP_BASE_URL"),
			DashboardURL: viper.GetString("APP_DASHBOARD_URL"),
			SignInURL:    viper.GetString("APP_SIGNIN_URL"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Email: EmailConfig{
			Endpoint: viper.GetString("EMAIL_ENDPOINT"),
			APIKey:   viper.GetString("EMAIL_API_KEY"),
			From:     viper.GetString("EMAIL_FROM"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     viper.GetString("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: viper.GetString("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  viper.GetString("GOOGLE_REDIRECT_URL"),
		},
		Ratings: RatingsConfig{
			Min: ratingMin,
			Max: ratingMax,
		},
		Demo: DemoConfig{
			Password: viper.GetString("DEMO_PASSWORD"),
		},
	}

	if config.App.DashboardURL == "" {
		config.App.DashboardURL = "/dashboard"
	}
	if config.App.SignInURL == "" {
		config.App.SignInURL = "/auth/signin"
	}

	return config, nil
}
